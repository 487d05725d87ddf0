// internal/loan/domain.go
package loan

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LoanStatus is the closed set of loan states. No transition graph is
// enforced; any status may replace any other on update.
type LoanStatus string

const (
	StatusActive    LoanStatus = "ACTIVE"
	StatusOverdue   LoanStatus = "OVERDUE"
	StatusCompleted LoanStatus = "COMPLETED"
)

func (s LoanStatus) Valid() bool {
	switch s {
	case StatusActive, StatusOverdue, StatusCompleted:
		return true
	}
	return false
}

// UnmarshalJSON rejects values outside the enumeration. null and "" leave
// the status empty.
func (s *LoanStatus) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("loanStatus must be a string: %w", err)
	}
	if raw == nil || *raw == "" {
		*s = ""
		return nil
	}
	v := LoanStatus(*raw)
	if !v.Valid() {
		return fmt.Errorf("unknown loanStatus %q", *raw)
	}
	*s = v
	return nil
}

// LoanIdentifier is the business key of a loan, distinct from the
// storage-assigned id.
type LoanIdentifier struct {
	LoanID string `json:"loanId" bson:"loanId"`
}

// NewLoanIdentifier generates a fresh UUID-formatted identifier.
func NewLoanIdentifier() LoanIdentifier {
	return LoanIdentifier{LoanID: uuid.NewString()}
}

// AccountSnapshot is a copy of the borrowing account taken at the last
// successful lookup. It is never refreshed on read.
type AccountSnapshot struct {
	AccountID string `json:"accountId" bson:"accountId"`
	Firstname string `json:"firstname" bson:"firstname"`
	Lastname  string `json:"lastname" bson:"lastname"`
}

// BookSnapshot is a copy of the borrowed book.
type BookSnapshot struct {
	BookID string `json:"bookId" bson:"bookId"`
	Title  string `json:"title" bson:"title"`
	Author string `json:"author" bson:"author"`
}

// WorkerSnapshot is a copy of the library worker who issued the loan.
type WorkerSnapshot struct {
	LibrarianID string `json:"librarianId" bson:"librarianId"`
	Firstname   string `json:"firstname" bson:"firstname"`
	Lastname    string `json:"lastname" bson:"lastname"`
}

// Loan is the persisted aggregate. Account.AccountID partitions loans by
// owner and does not change for the lifetime of the record.
type Loan struct {
	ID             string          `json:"id" bson:"_id,omitempty"`
	LoanIdentifier LoanIdentifier  `json:"loanIdentifier" bson:"loanIdentifier"`
	Account        AccountSnapshot `json:"libraryAccountIdentifier" bson:"libraryAccountIdentifier"`
	Worker         WorkerSnapshot  `json:"librarianIdentifier" bson:"librarianIdentifier"`
	Book           BookSnapshot    `json:"bookIdentifier" bson:"bookIdentifier"`
	LoanStatus     LoanStatus      `json:"loanStatus" bson:"loanStatus"`
	LoanDate       time.Time       `json:"loanDate" bson:"loanDate"`
	DueDate        time.Time       `json:"dueDate" bson:"dueDate"`
}

// Request is the body accepted by create and update.
type Request struct {
	AccountID   string     `json:"accountId"`
	BookID      string     `json:"bookId"`
	LibrarianID string     `json:"librarianId"`
	LoanStatus  LoanStatus `json:"loanStatus"`
	LoanDate    time.Time  `json:"loanDate"`
	DueDate     time.Time  `json:"dueDate"`
}

// Response is the flattened loan returned to callers.
type Response struct {
	LoanID             string     `json:"loanId"`
	AccountID          string     `json:"accountId"`
	LibrarianID        string     `json:"librarianId"`
	BookID             string     `json:"bookId"`
	CustomerFirstname  string     `json:"customer_firstname"`
	CustomerLastname   string     `json:"customer_lastname"`
	LibrarianFirstname string     `json:"librarian_firstname"`
	LibrarianLastname  string     `json:"librarian_lastname"`
	Title              string     `json:"title"`
	Author             string     `json:"author"`
	LoanStatus         LoanStatus `json:"loanStatus"`
	LoanDate           time.Time  `json:"loanDate"`
	DueDate            time.Time  `json:"dueDate"`
}
