// internal/store/store_test.go
package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryloans/internal/config"
	"libraryloans/internal/loan"
)

// setupPostgres connects to the database named by the PG* variables and
// skips the test when it is unreachable.
func setupPostgres(t testing.TB) *Postgres {
	t.Helper()

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		envOr("PGHOST", "localhost"),
		envOr("PGPORT", "5432"),
		envOr("PGUSER", "user"),
		envOr("PGPASSWORD", "password"),
		envOr("PGDATABASE", "testdb"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	pg, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Skipf("skipping postgres tests: %v", err)
	}
	require.NoError(t, pg.EnsureSchema(context.Background()))
	require.NoError(t, pg.DeleteAll(context.Background()))
	t.Cleanup(func() { pg.Close(context.Background()) })
	return pg
}

// setupMongo connects to MONGO_TEST_URI and skips the test when it is
// unreachable. Each test gets its own collection.
func setupMongo(t testing.TB) *Mongo {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	collection := "loans_" + uuid.NewString()[:8]
	m, err := OpenMongo(ctx, envOr("MONGO_TEST_URI", "mongodb://localhost:27017/?serverSelectionTimeoutMS=2000"), "loans_test", collection)
	if err != nil {
		t.Skipf("skipping mongo tests: %v", err)
	}
	require.NoError(t, m.EnsureSchema(context.Background()))
	t.Cleanup(func() {
		_ = m.coll.Drop(context.Background())
		m.Close(context.Background())
	})
	return m
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func sampleLoan(accountID, loanID string) *loan.Loan {
	loanDate := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &loan.Loan{
		LoanIdentifier: loan.LoanIdentifier{LoanID: loanID},
		Account:        loan.AccountSnapshot{AccountID: accountID, Firstname: "John", Lastname: "Doe"},
		Book:           loan.BookSnapshot{BookID: "550e8400-e29b-41d4-a716-446655440000", Title: "1984", Author: "George Orwell"},
		Worker:         loan.WorkerSnapshot{LibrarianID: "1a2b3c4d-e29b-41d4-a716-446655440000", Firstname: "Alice", Lastname: "Johnson"},
		LoanStatus:     loan.StatusActive,
		LoanDate:       loanDate,
		DueDate:        loanDate.AddDate(0, 0, 14),
	}
}

// runContract exercises the behaviour every Store must share.
func runContract(t *testing.T, open func(t *testing.T) Store) {
	t.Run("save assigns storage id and round trips", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		accountID, loanID := uuid.NewString(), uuid.NewString()

		saved, err := s.Save(ctx, sampleLoan(accountID, loanID))
		require.NoError(t, err)
		require.NotEmpty(t, saved.ID)

		got, err := s.FindByAccountAndLoanID(ctx, accountID, loanID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, saved.ID, got.ID)
		assert.Equal(t, loanID, got.LoanIdentifier.LoanID)
		assert.Equal(t, "John", got.Account.Firstname)
		assert.Equal(t, "1984", got.Book.Title)
		assert.Equal(t, "Johnson", got.Worker.Lastname)
		assert.Equal(t, loan.StatusActive, got.LoanStatus)
		assert.WithinDuration(t, saved.LoanDate, got.LoanDate, time.Millisecond)
		assert.WithinDuration(t, saved.DueDate, got.DueDate, time.Millisecond)
	})

	t.Run("absent records are nil without error", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		got, err := s.FindByAccountAndLoanID(ctx, uuid.NewString(), uuid.NewString())
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = s.FindByLoanID(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Nil(t, got)

		all, err := s.FindAllByAccountID(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("save with existing id replaces", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		accountID, loanID := uuid.NewString(), uuid.NewString()

		saved, err := s.Save(ctx, sampleLoan(accountID, loanID))
		require.NoError(t, err)

		saved.LoanStatus = loan.StatusCompleted
		saved.Book.Title = "Animal Farm"
		_, err = s.Save(ctx, saved)
		require.NoError(t, err)

		all, err := s.FindAllByAccountID(ctx, accountID)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, loan.StatusCompleted, all[0].LoanStatus)
		assert.Equal(t, "Animal Farm", all[0].Book.Title)
	})

	t.Run("business id is not unique", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		loanID := uuid.NewString()

		first, err := s.Save(ctx, sampleLoan(uuid.NewString(), loanID))
		require.NoError(t, err)
		_, err = s.Save(ctx, sampleLoan(uuid.NewString(), loanID))
		require.NoError(t, err)

		all, err := s.FindAllByLoanID(ctx, loanID)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		one, err := s.FindByLoanID(ctx, loanID)
		require.NoError(t, err)
		require.NotNil(t, one)
		assert.Equal(t, first.ID, one.ID)
	})

	t.Run("lists are scoped to the account", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		accountID := uuid.NewString()

		for i := 0; i < 3; i++ {
			_, err := s.Save(ctx, sampleLoan(accountID, uuid.NewString()))
			require.NoError(t, err)
		}
		_, err := s.Save(ctx, sampleLoan(uuid.NewString(), uuid.NewString()))
		require.NoError(t, err)

		all, err := s.FindAllByAccountID(ctx, accountID)
		require.NoError(t, err)
		assert.Len(t, all, 3)
		for _, l := range all {
			assert.Equal(t, accountID, l.Account.AccountID)
		}
	})

	t.Run("delete removes only the given record", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		accountID := uuid.NewString()
		keepID, dropID := uuid.NewString(), uuid.NewString()

		_, err := s.Save(ctx, sampleLoan(accountID, keepID))
		require.NoError(t, err)
		drop, err := s.Save(ctx, sampleLoan(accountID, dropID))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, drop))

		got, err := s.FindByAccountAndLoanID(ctx, accountID, dropID)
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = s.FindByAccountAndLoanID(ctx, accountID, keepID)
		require.NoError(t, err)
		assert.NotNil(t, got)

		assert.Error(t, s.Delete(ctx, &loan.Loan{}))
	})

	t.Run("delete all empties the store", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		accountID := uuid.NewString()

		_, err := s.Save(ctx, sampleLoan(accountID, uuid.NewString()))
		require.NoError(t, err)
		require.NoError(t, s.DeleteAll(ctx))

		all, err := s.FindAllByAccountID(ctx, accountID)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestMemoryContract(t *testing.T) {
	runContract(t, func(t *testing.T) Store { return NewMemory() })
}

func TestPostgresContract(t *testing.T) {
	runContract(t, func(t *testing.T) Store { return setupPostgres(t) })
}

func TestMongoContract(t *testing.T) {
	runContract(t, func(t *testing.T) Store { return setupMongo(t) })
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	accountID, loanID := uuid.NewString(), uuid.NewString()

	saved, err := m.Save(ctx, sampleLoan(accountID, loanID))
	require.NoError(t, err)
	saved.Book.Title = "mutated"

	got, err := m.FindByAccountAndLoanID(ctx, accountID, loanID)
	require.NoError(t, err)
	assert.Equal(t, "1984", got.Book.Title)
}

func TestOpenSelectsDriver(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = Open(context.Background(), config.StoreConfig{Driver: "cassandra"})
	assert.ErrorContains(t, err, "unknown store driver")
}

func BenchmarkPostgresSave(b *testing.B) {
	pg := setupPostgres(b)
	ctx := context.Background()
	accountID := uuid.NewString()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := pg.Save(ctx, sampleLoan(accountID, uuid.NewString())); err != nil {
			b.Fatalf("Save failed: %v", err)
		}
	}
}

func BenchmarkPostgresFindAllByAccountID(b *testing.B) {
	pg := setupPostgres(b)
	ctx := context.Background()
	accountID := uuid.NewString()

	for i := 0; i < 10; i++ {
		if _, err := pg.Save(ctx, sampleLoan(accountID, uuid.NewString())); err != nil {
			b.Fatalf("setup failed: %v", err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		loans, err := pg.FindAllByAccountID(ctx, accountID)
		if err != nil {
			b.Fatalf("FindAllByAccountID failed: %v", err)
		}
		if len(loans) != 10 {
			b.Fatalf("expected 10 loans, got %d", len(loans))
		}
	}
}
