// internal/clients/worker_client.go
package clients

import (
	"context"
	"net/http"

	"libraryloans/internal/logger"
)

// Worker is the library worker service's representation of a librarian.
type Worker struct {
	LibrarianID string `json:"librarianId"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
}

type WorkerClient struct {
	lookup lookupClient
}

// NewWorkerClient creates a client for {baseURL}/workers/{id}.
func NewWorkerClient(baseURL string, httpClient *http.Client, log *logger.Logger) *WorkerClient {
	return &WorkerClient{lookup: newLookupClient(KindWorker, baseURL, "workers", httpClient, log)}
}

func (c *WorkerClient) GetWorker(ctx context.Context, librarianID string) (*Worker, error) {
	return fetch[Worker](ctx, c.lookup, librarianID)
}
