// internal/clients/lookup.go

// Package clients holds the HTTP clients for the account, book and library
// worker services. Each client performs a single GET per lookup and
// classifies the response; nothing is cached or retried.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"libraryloans/internal/logger"
)

const maxBodyBytes = 1 << 20

// NewHTTPClient returns an instrumented client with a fixed per-call timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// errorInfo is the error body returned by the upstream services.
type errorInfo struct {
	HTTPStatus string `json:"httpStatus"`
	Path       string `json:"path"`
	Message    string `json:"message"`
}

type lookupClient struct {
	kind       Kind
	baseURL    string
	resource   string
	httpClient *http.Client
	log        *logger.Logger
}

func newLookupClient(kind Kind, baseURL, resource string, httpClient *http.Client, log *logger.Logger) lookupClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = logger.NewNop()
	}
	return lookupClient{
		kind:       kind,
		baseURL:    strings.TrimRight(baseURL, "/"),
		resource:   resource,
		httpClient: httpClient,
		log:        log.With("client", string(kind)),
	}
}

// fetch performs GET {baseURL}/{resource}/{id} and decodes the body into T.
func fetch[T any](ctx context.Context, c lookupClient, id string) (*T, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &LookupError{Kind: c.kind, ID: id, Err: ErrInvalidReference, Detail: "id cannot be null or empty"}
	}

	target := fmt.Sprintf("%s/%s/%s", c.baseURL, c.resource, url.PathEscape(id))
	c.log.Debug("remote lookup", "url", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &UpstreamError{Kind: c.kind, ID: id, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Kind: c.kind, ID: id, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &UpstreamError{Kind: c.kind, ID: id, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	switch resp.StatusCode {
	case http.StatusOK:
		if len(bytes.TrimSpace(body)) == 0 {
			return nil, &LookupError{Kind: c.kind, ID: id, Status: resp.StatusCode, Err: ErrReferenceNotFound, Detail: "empty response body"}
		}
		var out *T
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, &UpstreamError{Kind: c.kind, ID: id, Status: resp.StatusCode, Body: string(body), Err: fmt.Errorf("decode body: %w", err)}
		}
		if out == nil {
			return nil, &LookupError{Kind: c.kind, ID: id, Status: resp.StatusCode, Err: ErrReferenceNotFound, Detail: "empty response body"}
		}
		return out, nil
	case http.StatusNotFound:
		return nil, &LookupError{Kind: c.kind, ID: id, Status: resp.StatusCode, Err: ErrReferenceNotFound, Detail: errorMessage(body)}
	case http.StatusUnprocessableEntity:
		return nil, &LookupError{Kind: c.kind, ID: id, Status: resp.StatusCode, Err: ErrInvalidReference, Detail: errorMessage(body)}
	default:
		c.log.Warn("unexpected upstream status", "status", resp.StatusCode, "id", id, "body", string(body))
		return nil, &UpstreamError{Kind: c.kind, ID: id, Status: resp.StatusCode, Body: string(body)}
	}
}

// errorMessage extracts the message field of an upstream error body,
// falling back to the raw body.
func errorMessage(body []byte) string {
	var info errorInfo
	if err := json.Unmarshal(body, &info); err == nil && info.Message != "" {
		return info.Message
	}
	return strings.TrimSpace(string(body))
}
