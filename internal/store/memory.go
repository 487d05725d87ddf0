// internal/store/memory.go
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"libraryloans/internal/loan"
)

var _ Store = (*Memory)(nil)

// Memory keeps loans in process memory, in insertion order.
type Memory struct {
	mu    sync.RWMutex
	byID  map[string]*loan.Loan
	order []string
}

func NewMemory() *Memory {
	return &Memory{byID: make(map[string]*loan.Loan)}
}

func (m *Memory) EnsureSchema(context.Context) error { return nil }

func (m *Memory) Close(context.Context) error { return nil }

func (m *Memory) FindByAccountAndLoanID(_ context.Context, accountID, loanID string) (*loan.Loan, error) {
	return m.first(func(l *loan.Loan) bool {
		return l.Account.AccountID == accountID && l.LoanIdentifier.LoanID == loanID
	}), nil
}

func (m *Memory) FindAllByAccountID(_ context.Context, accountID string) ([]*loan.Loan, error) {
	return m.all(func(l *loan.Loan) bool { return l.Account.AccountID == accountID }), nil
}

func (m *Memory) FindByLoanID(_ context.Context, loanID string) (*loan.Loan, error) {
	return m.first(func(l *loan.Loan) bool { return l.LoanIdentifier.LoanID == loanID }), nil
}

func (m *Memory) FindAllByLoanID(_ context.Context, loanID string) ([]*loan.Loan, error) {
	return m.all(func(l *loan.Loan) bool { return l.LoanIdentifier.LoanID == loanID }), nil
}

func (m *Memory) Save(_ context.Context, l *loan.Loan) (*loan.Loan, error) {
	if l == nil {
		return nil, errors.New("save: nil loan")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := clone(l)
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	if _, exists := m.byID[saved.ID]; !exists {
		m.order = append(m.order, saved.ID)
	}
	m.byID[saved.ID] = saved
	return clone(saved), nil
}

func (m *Memory) Delete(_ context.Context, l *loan.Loan) error {
	if l == nil || l.ID == "" {
		return errors.New("delete: loan has no storage id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[l.ID]; !exists {
		return nil
	}
	delete(m.byID, l.ID)
	for i, id := range m.order {
		if id == l.ID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) DeleteAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = make(map[string]*loan.Loan)
	m.order = nil
	return nil
}

func (m *Memory) first(match func(*loan.Loan) bool) *loan.Loan {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		if l := m.byID[id]; match(l) {
			return clone(l)
		}
	}
	return nil
}

func (m *Memory) all(match func(*loan.Loan) bool) []*loan.Loan {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*loan.Loan, 0)
	for _, id := range m.order {
		if l := m.byID[id]; match(l) {
			out = append(out, clone(l))
		}
	}
	return out
}
