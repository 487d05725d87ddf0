// internal/loan/implementation.go
package loan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"libraryloans/internal/clients"
	"libraryloans/internal/logger"
)

const expectedUUIDLength = 36

// service implements the Service interface.
type service struct {
	repo     Repository
	accounts AccountLookup
	books    BookLookup
	workers  WorkerLookup
	log      *logger.Logger
	tracer   trace.Tracer
	ops      metric.Int64Counter
}

// NewService creates a new loan service instance.
func NewService(repo Repository, accounts AccountLookup, books BookLookup, workers WorkerLookup, log *logger.Logger) Service {
	if log == nil {
		log = logger.NewNop()
	}
	ops, err := otel.Meter("libraryloans/loan").Int64Counter("loan.operations",
		metric.WithDescription("Loan operations by outcome"),
	)
	if err != nil {
		log.Warn("loan operation counter unavailable", "error", err)
		ops = noop.Int64Counter{}
	}
	return &service{
		repo:     repo,
		accounts: accounts,
		books:    books,
		workers:  workers,
		log:      log.With("service", "loans"),
		tracer:   otel.Tracer("libraryloans/loan"),
		ops:      ops,
	}
}

// ListByAccount returns every loan owned by the account. The account must
// still exist upstream; the loans themselves are returned as stored.
func (s *service) ListByAccount(ctx context.Context, accountID string) (out []Response, err error) {
	ctx, span := s.start(ctx, "loan.list_by_account", attribute.String("account.id", accountID))
	defer func() { s.finish(ctx, span, "list_by_account", err) }()

	if isBlank(accountID) {
		return nil, invalidInput("accountId", accountID, "cannot be null or empty")
	}

	if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
		if errors.Is(err, clients.ErrReferenceNotFound) {
			return nil, &LoanNotFoundError{AccountID: accountID}
		}
		return nil, translateLookup(err)
	}

	loans, err := s.repo.FindAllByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("find loans for account %s: %w", accountID, err)
	}
	return toResponses(loans), nil
}

// GetByAccountAndLoanID returns the stored loan without re-validating any
// of its references.
func (s *service) GetByAccountAndLoanID(ctx context.Context, accountID, loanID string) (out *Response, err error) {
	ctx, span := s.start(ctx, "loan.get",
		attribute.String("account.id", accountID),
		attribute.String("loan.id", loanID),
	)
	defer func() { s.finish(ctx, span, "get", err) }()

	l, err := s.repo.FindByAccountAndLoanID(ctx, accountID, loanID)
	if err != nil {
		return nil, fmt.Errorf("find loan %s: %w", loanID, err)
	}
	if l == nil {
		return nil, &LoanNotFoundError{AccountID: accountID, LoanID: loanID}
	}
	resp := toResponse(l)
	return &resp, nil
}

// Create validates the request, resolves the account, book and worker in
// that order and persists the assembled loan under a fresh identifier.
func (s *service) Create(ctx context.Context, req *Request, accountID string) (out *Response, err error) {
	ctx, span := s.start(ctx, "loan.create", attribute.String("account.id", accountID))
	defer func() { s.finish(ctx, span, "create", err) }()

	if err := validateRequest(req, accountID); err != nil {
		return nil, err
	}

	account, book, worker, err := s.fetchReferences(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Debug("assembling loan",
		"customer", account.Firstname+" "+account.Lastname,
		"librarian", worker.Firstname+" "+worker.Lastname,
		"title", book.Title,
	)

	l := newLoan(req, NewLoanIdentifier(), account, book, worker)
	span.SetAttributes(attribute.String("loan.id", l.LoanIdentifier.LoanID))

	saved, err := s.repo.Save(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("save loan: %w", err)
	}
	resp := toResponse(saved)
	return &resp, nil
}

// Update re-resolves all three references and replaces the snapshots,
// status and dates of an existing loan.
func (s *service) Update(ctx context.Context, accountID string, req *Request, loanID string) (out *Response, err error) {
	ctx, span := s.start(ctx, "loan.update",
		attribute.String("account.id", accountID),
		attribute.String("loan.id", loanID),
	)
	defer func() { s.finish(ctx, span, "update", err) }()

	if err := validateRequest(req, accountID); err != nil {
		return nil, err
	}
	if err := validateLoanID(loanID); err != nil {
		return nil, err
	}

	account, book, worker, err := s.fetchReferences(ctx, req)
	if err != nil {
		return nil, err
	}

	l, err := s.repo.FindByAccountAndLoanID(ctx, accountID, loanID)
	if err != nil {
		return nil, fmt.Errorf("find loan %s: %w", loanID, err)
	}
	if l == nil {
		return nil, &LoanNotFoundError{AccountID: accountID, LoanID: loanID}
	}

	l.LoanIdentifier = LoanIdentifier{LoanID: loanID}
	overwrite(l, req, account, book, worker)

	saved, err := s.repo.Save(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("save loan %s: %w", loanID, err)
	}
	resp := toResponse(saved)
	return &resp, nil
}

// Remove physically deletes the loan. A second delete of the same key
// reports the loan as not found.
func (s *service) Remove(ctx context.Context, accountID, loanID string) (err error) {
	ctx, span := s.start(ctx, "loan.remove",
		attribute.String("account.id", accountID),
		attribute.String("loan.id", loanID),
	)
	defer func() { s.finish(ctx, span, "remove", err) }()

	if isBlank(loanID) || len(loanID) != expectedUUIDLength {
		return invalidInput("loanId", loanID, "is not the correct length")
	}

	l, err := s.repo.FindByAccountAndLoanID(ctx, accountID, loanID)
	if err != nil {
		return fmt.Errorf("find loan %s: %w", loanID, err)
	}
	if l == nil {
		return &LoanNotFoundError{AccountID: accountID, LoanID: loanID}
	}

	if err := s.repo.Delete(ctx, l); err != nil {
		return fmt.Errorf("delete loan %s: %w", loanID, err)
	}
	return nil
}

// ListByLoanID finds every record carrying the business id and refreshes
// their snapshots from the upstream services. Refreshed values are
// returned only; nothing is written back.
func (s *service) ListByLoanID(ctx context.Context, loanID string) (out []Response, err error) {
	ctx, span := s.start(ctx, "loan.list_by_loan_id", attribute.String("loan.id", loanID))
	defer func() { s.finish(ctx, span, "list_by_loan_id", err) }()

	if isBlank(loanID) {
		return nil, invalidInput("loanId", loanID, "cannot be null or empty")
	}

	loans, err := s.repo.FindAllByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("find loans by id %s: %w", loanID, err)
	}
	if len(loans) == 0 {
		return nil, &LoanNotFoundError{LoanID: loanID}
	}

	out = make([]Response, 0, len(loans))
	for _, stored := range loans {
		refs := &Request{
			AccountID:   stored.Account.AccountID,
			BookID:      stored.Book.BookID,
			LibrarianID: stored.Worker.LibrarianID,
			LoanStatus:  stored.LoanStatus,
			LoanDate:    stored.LoanDate,
			DueDate:     stored.DueDate,
		}
		account, book, worker, err := s.fetchReferences(ctx, refs)
		if err != nil {
			return nil, err
		}
		refreshed := *stored
		overwrite(&refreshed, refs, account, book, worker)
		out = append(out, toResponse(&refreshed))
	}
	return out, nil
}

// fetchReferences resolves account, book and worker sequentially and stops
// at the first failure.
func (s *service) fetchReferences(ctx context.Context, req *Request) (*clients.Account, *clients.Book, *clients.Worker, error) {
	account, err := s.accounts.GetAccount(ctx, req.AccountID)
	if err != nil {
		return nil, nil, nil, translateLookup(err)
	}
	book, err := s.books.GetBook(ctx, req.BookID)
	if err != nil {
		return nil, nil, nil, translateLookup(err)
	}
	worker, err := s.workers.GetWorker(ctx, req.LibrarianID)
	if err != nil {
		return nil, nil, nil, translateLookup(err)
	}
	return account, book, worker, nil
}

// translateLookup maps classified lookup failures onto the loan error
// taxonomy. Upstream failures pass through untouched.
func translateLookup(err error) error {
	var lookupErr *clients.LookupError
	if !errors.As(err, &lookupErr) {
		return err
	}
	switch {
	case errors.Is(lookupErr.Err, clients.ErrReferenceNotFound):
		return &RelatedEntityNotFoundError{Kind: string(lookupErr.Kind), ID: lookupErr.ID}
	case errors.Is(lookupErr.Err, clients.ErrInvalidReference):
		reason := fmt.Sprintf("rejected by %s service", lookupErr.Kind)
		if lookupErr.Detail != "" {
			reason += " (" + lookupErr.Detail + ")"
		}
		return invalidInput(referenceField(lookupErr.Kind), lookupErr.ID, reason)
	}
	return err
}

func referenceField(kind clients.Kind) string {
	switch kind {
	case clients.KindBook:
		return "bookId"
	case clients.KindWorker:
		return "librarianId"
	default:
		return "accountId"
	}
}

// validateRequest runs the structural checks shared by create and update,
// in order, before any remote call is made.
func validateRequest(req *Request, accountID string) error {
	if req == nil {
		return invalidInput("request", "", "cannot be null")
	}
	if isBlank(req.AccountID) {
		return invalidInput("accountId", req.AccountID, "cannot be null or empty")
	}
	if req.AccountID != accountID {
		return invalidInput("accountId", accountID+" != "+req.AccountID, "in path and body do not match")
	}
	if isBlank(req.BookID) {
		return invalidInput("bookId", req.BookID, "cannot be null or empty")
	}
	if isBlank(req.LibrarianID) {
		return invalidInput("librarianId", req.LibrarianID, "cannot be null or empty")
	}
	if req.LoanStatus != "" && !req.LoanStatus.Valid() {
		return invalidInput("loanStatus", string(req.LoanStatus), "is not one of ACTIVE, OVERDUE, COMPLETED")
	}
	return nil
}

func validateLoanID(loanID string) error {
	if len(loanID) != expectedUUIDLength {
		return invalidInput("loanId", loanID, "is not the correct length")
	}
	if _, err := uuid.Parse(loanID); err != nil {
		return invalidInput("loanId", loanID, "is not the correct format")
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func (s *service) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *service) finish(ctx context.Context, span trace.Span, op string, err error) {
	outcome := outcomeOf(err)
	s.ops.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
	span.SetAttributes(attribute.String("outcome", outcome))
	if err != nil {
		span.RecordError(err)
		if outcome == "error" {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrRelatedEntityNotFound), errors.Is(err, ErrLoanNotFound):
		return "not_found"
	default:
		return "error"
	}
}
