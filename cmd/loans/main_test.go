// cmd/loans/main_test.go
package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryloans/internal/config"
	"libraryloans/internal/logger"
	"libraryloans/internal/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "loans version test-version-1.0.0")
}

func TestSeedCmdWithMemoryStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOG_MODE", "prod")

	out, err := execute(t, "seed")

	require.NoError(t, err)
	assert.Contains(t, out, "seeded loan ")
}

func TestSeedCmdRejectsBadConfig(t *testing.T) {
	t.Setenv("STORE_DRIVER", "cassandra")

	_, err := execute(t, "seed")

	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestRouterHealthz(t *testing.T) {
	cfg := config.Default()
	router := newRouter(cfg, logger.NewNop(), store.NewMemory())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouterMountsLoanRoutes(t *testing.T) {
	cfg := config.Default()
	router := newRouter(cfg, logger.NewNop(), store.NewMemory())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/abc/loans/short", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
