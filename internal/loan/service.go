// internal/loan/service.go
package loan

import (
	"context"

	"libraryloans/internal/clients"
)

// Service defines the loan orchestration operations.
type Service interface {
	ListByAccount(ctx context.Context, accountID string) ([]Response, error)
	GetByAccountAndLoanID(ctx context.Context, accountID, loanID string) (*Response, error)
	Create(ctx context.Context, req *Request, accountID string) (*Response, error)
	Update(ctx context.Context, accountID string, req *Request, loanID string) (*Response, error)
	Remove(ctx context.Context, accountID, loanID string) error
	ListByLoanID(ctx context.Context, loanID string) ([]Response, error)
}

// Repository persists loans as documents. Find methods return (nil, nil)
// when nothing matches; FindAll methods return an empty slice.
type Repository interface {
	FindByAccountAndLoanID(ctx context.Context, accountID, loanID string) (*Loan, error)
	FindAllByAccountID(ctx context.Context, accountID string) ([]*Loan, error)
	FindByLoanID(ctx context.Context, loanID string) (*Loan, error)
	FindAllByLoanID(ctx context.Context, loanID string) ([]*Loan, error)
	Save(ctx context.Context, loan *Loan) (*Loan, error)
	Delete(ctx context.Context, loan *Loan) error
	DeleteAll(ctx context.Context) error
}

type AccountLookup interface {
	GetAccount(ctx context.Context, accountID string) (*clients.Account, error)
}

type BookLookup interface {
	GetBook(ctx context.Context, bookID string) (*clients.Book, error)
}

type WorkerLookup interface {
	GetWorker(ctx context.Context, librarianID string) (*clients.Worker, error)
}
