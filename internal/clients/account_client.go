// internal/clients/account_client.go
package clients

import (
	"context"
	"net/http"

	"libraryloans/internal/logger"
)

// Account is the account service's representation of a library account.
type Account struct {
	AccountID string `json:"accountId"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type AccountClient struct {
	lookup lookupClient
}

// NewAccountClient creates a client for {baseURL}/accounts/{id}.
func NewAccountClient(baseURL string, httpClient *http.Client, log *logger.Logger) *AccountClient {
	return &AccountClient{lookup: newLookupClient(KindAccount, baseURL, "accounts", httpClient, log)}
}

func (c *AccountClient) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	return fetch[Account](ctx, c.lookup, accountID)
}
