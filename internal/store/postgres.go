// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"libraryloans/internal/loan"
)

var _ Store = (*Postgres)(nil)

var documentCodec = jsoniter.ConfigCompatibleWithStandardLibrary

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS loans (
		id TEXT PRIMARY KEY,
		loan_id TEXT NOT NULL,
		account_id TEXT NOT NULL,
		document JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS loans_account_id_idx ON loans (account_id, loan_id);
	CREATE INDEX IF NOT EXISTS loans_loan_id_idx ON loans (loan_id);
`

// Postgres stores each loan as a JSONB document next to the two columns
// it is queried by.
type Postgres struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

type loanRow struct {
	ID       string `db:"id"`
	Document []byte `db:"document"`
}

// NewPostgres wraps an open connection pool.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{
		db:     db,
		tracer: otel.Tracer("libraryloans/store"),
	}
}

// OpenPostgres connects and pings the database at dsn.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgres(db), nil
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	ctx, span := p.tracer.Start(ctx, "loanstore.ensure_schema")
	defer span.End()

	if _, err := p.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create loans schema: %w", err)
	}
	return nil
}

func (p *Postgres) Close(context.Context) error {
	return p.db.Close()
}

func (p *Postgres) FindByAccountAndLoanID(ctx context.Context, accountID, loanID string) (*loan.Loan, error) {
	ctx, span := p.tracer.Start(ctx, "loanstore.find_by_account_and_loan_id",
		trace.WithAttributes(
			attribute.String("account.id", accountID),
			attribute.String("loan.id", loanID),
		),
	)
	defer span.End()

	return p.getOne(ctx, `
		SELECT id, document
		FROM loans
		WHERE account_id = $1 AND loan_id = $2
		ORDER BY created_at, id
		LIMIT 1
	`, accountID, loanID)
}

func (p *Postgres) FindAllByAccountID(ctx context.Context, accountID string) ([]*loan.Loan, error) {
	ctx, span := p.tracer.Start(ctx, "loanstore.find_all_by_account_id",
		trace.WithAttributes(attribute.String("account.id", accountID)),
	)
	defer span.End()

	loans, err := p.selectMany(ctx, `
		SELECT id, document
		FROM loans
		WHERE account_id = $1
		ORDER BY created_at, id
	`, accountID)
	span.SetAttributes(attribute.Int("loans.loaded", len(loans)))
	return loans, err
}

func (p *Postgres) FindByLoanID(ctx context.Context, loanID string) (*loan.Loan, error) {
	ctx, span := p.tracer.Start(ctx, "loanstore.find_by_loan_id",
		trace.WithAttributes(attribute.String("loan.id", loanID)),
	)
	defer span.End()

	return p.getOne(ctx, `
		SELECT id, document
		FROM loans
		WHERE loan_id = $1
		ORDER BY created_at, id
		LIMIT 1
	`, loanID)
}

func (p *Postgres) FindAllByLoanID(ctx context.Context, loanID string) ([]*loan.Loan, error) {
	ctx, span := p.tracer.Start(ctx, "loanstore.find_all_by_loan_id",
		trace.WithAttributes(attribute.String("loan.id", loanID)),
	)
	defer span.End()

	return p.selectMany(ctx, `
		SELECT id, document
		FROM loans
		WHERE loan_id = $1
		ORDER BY created_at, id
	`, loanID)
}

// Save upserts on the storage id. The indexed columns are rewritten with
// the document so they never drift from it.
func (p *Postgres) Save(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	if l == nil {
		return nil, errors.New("save: nil loan")
	}
	saved := clone(l)
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}

	ctx, span := p.tracer.Start(ctx, "loanstore.save",
		trace.WithAttributes(
			attribute.String("storage.id", saved.ID),
			attribute.String("loan.id", saved.LoanIdentifier.LoanID),
		),
	)
	defer span.End()

	doc, err := documentCodec.Marshal(saved)
	if err != nil {
		return nil, fmt.Errorf("marshal loan document: %w", err)
	}

	// lib/pq sends []byte as bytea, so the document goes over as text.
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO loans (id, loan_id, account_id, document)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET loan_id = EXCLUDED.loan_id,
		    account_id = EXCLUDED.account_id,
		    document = EXCLUDED.document,
		    updated_at = NOW()
	`, saved.ID, saved.LoanIdentifier.LoanID, saved.Account.AccountID, string(doc))
	if err != nil {
		return nil, fmt.Errorf("upsert loan %s: %w", saved.ID, err)
	}
	return saved, nil
}

func (p *Postgres) Delete(ctx context.Context, l *loan.Loan) error {
	if l == nil || l.ID == "" {
		return errors.New("delete: loan has no storage id")
	}
	ctx, span := p.tracer.Start(ctx, "loanstore.delete",
		trace.WithAttributes(attribute.String("storage.id", l.ID)),
	)
	defer span.End()

	if _, err := p.db.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, l.ID); err != nil {
		return fmt.Errorf("delete loan %s: %w", l.ID, err)
	}
	return nil
}

func (p *Postgres) DeleteAll(ctx context.Context) error {
	ctx, span := p.tracer.Start(ctx, "loanstore.delete_all")
	defer span.End()

	if _, err := p.db.ExecContext(ctx, `DELETE FROM loans`); err != nil {
		return fmt.Errorf("delete all loans: %w", err)
	}
	return nil
}

func (p *Postgres) getOne(ctx context.Context, query string, args ...interface{}) (*loan.Loan, error) {
	var row loanRow
	err := p.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query loan: %w", err)
	}
	return decodeRow(row)
}

func (p *Postgres) selectMany(ctx context.Context, query string, args ...interface{}) ([]*loan.Loan, error) {
	var rows []loanRow
	if err := p.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	loans := make([]*loan.Loan, 0, len(rows))
	for _, row := range rows {
		l, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, nil
}

func decodeRow(row loanRow) (*loan.Loan, error) {
	var l loan.Loan
	if err := documentCodec.Unmarshal(row.Document, &l); err != nil {
		return nil, fmt.Errorf("decode loan document %s: %w", row.ID, err)
	}
	l.ID = row.ID
	return &l, nil
}
