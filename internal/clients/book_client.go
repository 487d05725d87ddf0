// internal/clients/book_client.go
package clients

import (
	"context"
	"net/http"

	"libraryloans/internal/logger"
)

// Book is the book service's representation of a catalogued book.
type Book struct {
	BookID string `json:"bookId"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type BookClient struct {
	lookup lookupClient
}

// NewBookClient creates a client for {baseURL}/books/{id}.
func NewBookClient(baseURL string, httpClient *http.Client, log *logger.Logger) *BookClient {
	return &BookClient{lookup: newLookupClient(KindBook, baseURL, "books", httpClient, log)}
}

func (c *BookClient) GetBook(ctx context.Context, bookID string) (*Book, error) {
	return fetch[Book](ctx, c.lookup, bookID)
}
