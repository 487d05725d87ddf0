// internal/loan/mocks_test.go
package loan_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"libraryloans/internal/clients"
	"libraryloans/internal/loan"
)

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) GetAccount(ctx context.Context, accountID string) (*clients.Account, error) {
	args := m.Called(ctx, accountID)
	account, _ := args.Get(0).(*clients.Account)
	return account, args.Error(1)
}

type MockBooks struct {
	mock.Mock
}

func (m *MockBooks) GetBook(ctx context.Context, bookID string) (*clients.Book, error) {
	args := m.Called(ctx, bookID)
	book, _ := args.Get(0).(*clients.Book)
	return book, args.Error(1)
}

type MockWorkers struct {
	mock.Mock
}

func (m *MockWorkers) GetWorker(ctx context.Context, librarianID string) (*clients.Worker, error) {
	args := m.Called(ctx, librarianID)
	worker, _ := args.Get(0).(*clients.Worker)
	return worker, args.Error(1)
}

type MockService struct {
	mock.Mock
}

func (m *MockService) ListByAccount(ctx context.Context, accountID string) ([]loan.Response, error) {
	args := m.Called(ctx, accountID)
	out, _ := args.Get(0).([]loan.Response)
	return out, args.Error(1)
}

func (m *MockService) GetByAccountAndLoanID(ctx context.Context, accountID, loanID string) (*loan.Response, error) {
	args := m.Called(ctx, accountID, loanID)
	out, _ := args.Get(0).(*loan.Response)
	return out, args.Error(1)
}

func (m *MockService) Create(ctx context.Context, req *loan.Request, accountID string) (*loan.Response, error) {
	args := m.Called(ctx, req, accountID)
	out, _ := args.Get(0).(*loan.Response)
	return out, args.Error(1)
}

func (m *MockService) Update(ctx context.Context, accountID string, req *loan.Request, loanID string) (*loan.Response, error) {
	args := m.Called(ctx, accountID, req, loanID)
	out, _ := args.Get(0).(*loan.Response)
	return out, args.Error(1)
}

func (m *MockService) Remove(ctx context.Context, accountID, loanID string) error {
	args := m.Called(ctx, accountID, loanID)
	return args.Error(0)
}

func (m *MockService) ListByLoanID(ctx context.Context, loanID string) ([]loan.Response, error) {
	args := m.Called(ctx, loanID)
	out, _ := args.Get(0).([]loan.Response)
	return out, args.Error(1)
}
