// internal/loan/seed.go
package loan

import (
	"context"
	"fmt"
	"time"
)

// DemoLoan returns the sample loan used to populate an empty store for
// local development.
func DemoLoan(now time.Time) *Loan {
	return &Loan{
		LoanIdentifier: NewLoanIdentifier(),
		Account: AccountSnapshot{
			AccountID: "84a8ec6e-2fdc-4c6d-940f-9b2274d44420",
			Firstname: "John",
			Lastname:  "Doe",
		},
		Book: BookSnapshot{
			BookID: "550e8400-e29b-41d4-a716-446655440000",
			Title:  "1984",
			Author: "George Orwell",
		},
		Worker: WorkerSnapshot{
			LibrarianID: "1a2b3c4d-e29b-41d4-a716-446655440000",
			Firstname:   "Alice",
			Lastname:    "Johnson",
		},
		LoanStatus: StatusActive,
		LoanDate:   now,
		DueDate:    now.AddDate(0, 0, 14),
	}
}

// Seed writes the demo loan straight to the repository, bypassing the
// upstream lookups.
func Seed(ctx context.Context, repo Repository, now time.Time) (*Loan, error) {
	saved, err := repo.Save(ctx, DemoLoan(now))
	if err != nil {
		return nil, fmt.Errorf("seed demo loan: %w", err)
	}
	return saved, nil
}
