// internal/gateway/gateway.go

// Package gateway routes public API paths to the loan service and the
// upstream record services.
package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"

	"libraryloans/internal/config"
	"libraryloans/internal/logger"
)

// NewRouter builds the gateway router. Paths are forwarded unchanged.
func NewRouter(services config.ServicesConfig, log *logger.Logger) (http.Handler, error) {
	if log == nil {
		log = logger.NewNop()
	}

	loans, err := newProxy("loan", services.LoanURL, log)
	if err != nil {
		return nil, err
	}
	accounts, err := newProxy("account", services.AccountURL, log)
	if err != nil {
		return nil, err
	}
	books, err := newProxy("book", services.BookURL, log)
	if err != nil {
		return nil, err
	}
	workers, err := newProxy("worker", services.WorkerURL, log)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Handle("/api/v1/accounts/{accountId}/loans", loans)
	r.Handle("/api/v1/accounts/{accountId}/loans/*", loans)
	r.Handle("/api/v1/loans/*", loans)
	r.Handle("/api/v1/accounts", accounts)
	r.Handle("/api/v1/accounts/*", accounts)
	r.Handle("/api/v1/books", books)
	r.Handle("/api/v1/books/*", books)
	r.Handle("/api/v1/workers", workers)
	r.Handle("/api/v1/workers/*", workers)
	return r, nil
}

// newProxy forwards to the origin of rawURL. Any path on the configured URL
// is dropped since the public path already carries the API prefix.
func newProxy(name, rawURL string, log *logger.Logger) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid %s service URL %q: %w", name, rawURL, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid %s service URL %q: scheme and host required", name, rawURL)
	}
	origin := &url.URL{Scheme: target.Scheme, Host: target.Host}

	proxy := httputil.NewSingleHostReverseProxy(origin)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Error("proxy request failed", "service", name, "path", r.URL.Path, "error", err)
		w.WriteHeader(http.StatusBadGateway)
	}
	return proxy, nil
}
