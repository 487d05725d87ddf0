// internal/loan/handler.go
package loan

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"libraryloans/internal/clients"
	"libraryloans/internal/logger"
)

// ErrorInfo is the error body written for every failed request.
type ErrorInfo struct {
	HTTPStatus string    `json:"httpStatus"`
	Path       string    `json:"path"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

type Handler struct {
	service Service
	log     *logger.Logger
}

func NewHandler(service Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{service: service, log: log}
}

// Register mounts the loan routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/v1/accounts/{accountId}/loans", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{loanId}", h.HandleGet)
		r.Put("/{loanId}", h.HandleUpdate)
		r.Delete("/{loanId}", h.HandleDelete)
	})
	r.Get("/api/v1/loans/{loanId}", h.HandleListByLoanID)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ListByAccount(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loanId")
	if len(loanID) != expectedUUIDLength {
		h.writeError(w, r, invalidInput("loanId", loanID, "is not the correct length"))
		return
	}

	loan, err := h.service.GetByAccountAndLoanID(r.Context(), chi.URLParam(r, "accountId"), loanID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	loan, err := h.service.Create(r.Context(), req, chi.URLParam(r, "accountId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	loan, err := h.service.Update(r.Context(), chi.URLParam(r, "accountId"), req, chi.URLParam(r, "loanId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Remove(r.Context(), chi.URLParam(r, "accountId"), chi.URLParam(r, "loanId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListByLoanID(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ListByLoanID(r.Context(), chi.URLParam(r, "loanId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

// decodeRequest returns a nil request for an empty body so the service can
// report it as missing.
func decodeRequest(r *http.Request) (*Request, error) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, invalidInput("request body", "", "is malformed: "+err.Error())
	}
	return &req, nil
}

// StatusFor maps an error to the HTTP status reported to callers.
func StatusFor(err error) int {
	var upstream *clients.UpstreamError
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrRelatedEntityNotFound), errors.Is(err, ErrLoanNotFound):
		return http.StatusNotFound
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("loan request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		h.log.Debug("loan request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, ErrorInfo{
		HTTPStatus: http.StatusText(status),
		Path:       r.URL.Path,
		Message:    err.Error(),
		Timestamp:  time.Now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
