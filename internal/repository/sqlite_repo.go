package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"aegis_admin/internal/domain"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadySeeded = errors.New("payments already seeded")
)

// SQLiteRepo holds the read-only payment collection. Seed is the only
// write and runs once before the collection is served.
type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(dsn string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// one connection keeps an in-memory database alive and shared
	db.SetMaxOpenConns(1)
	db.Exec("PRAGMA busy_timeout = 5000;")

	r := &SQLiteRepo{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return r, nil
}

func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepo) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS payments(
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			subscription_id TEXT NOT NULL,
			parent_id TEXT NOT NULL,
			amount TEXT NOT NULL,
			currency TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			status TEXT NOT NULL,
			payment_date TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			payos_order_code TEXT NOT NULL,
			payos_transaction_id TEXT NOT NULL,
			qr_code_url TEXT NOT NULL,
			checkout_url TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			customer_email TEXT NOT NULL,
			plan_name TEXT NOT NULL
		);
	`
	_, err := r.db.Exec(schema)
	return err
}

func (r *SQLiteRepo) Seed(ctx context.Context, records []domain.PaymentRecord) error {
	n, err := r.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrAlreadySeeded
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	q := `
		INSERT INTO payments(
			id,
			subscription_id,
			parent_id,
			amount,
			currency,
			payment_method,
			status,
			payment_date,
			created_at,
			updated_at,
			payos_order_code,
			payos_transaction_id,
			qr_code_url,
			checkout_url,
			customer_name,
			customer_email,
			plan_name
		)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range records {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("record %s: %w", p.ID, err)
		}

		var paid any = nil
		if p.PaymentDate != nil {
			paid = formatTime(*p.PaymentDate)
		}

		if _, err := stmt.ExecContext(
			ctx,
			p.ID,
			p.SubscriptionID,
			p.ParentID,
			p.Amount.String(),
			p.Currency,
			p.PaymentMethod,
			string(p.Status),
			paid,
			formatTime(p.CreatedAt),
			formatTime(p.UpdatedAt),
			p.PayOSOrderCode,
			p.PayOSTransactionID,
			p.QRCodeURL,
			p.CheckoutURL,
			p.CustomerName,
			p.CustomerEmail,
			p.PlanName,
		); err != nil {
			return fmt.Errorf("insert %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// EnsureSeeded seeds records unless the store already holds a collection.
// It reports the stored count and whether this call wrote it.
func (r *SQLiteRepo) EnsureSeeded(ctx context.Context, records []domain.PaymentRecord) (int, bool, error) {
	err := r.Seed(ctx, records)
	switch {
	case errors.Is(err, ErrAlreadySeeded):
		n, err := r.Count(ctx)
		return n, false, err
	case err != nil:
		return 0, false, err
	}
	return len(records), true, nil
}

const selectCols = `
	SELECT
		id,
		subscription_id,
		parent_id,
		amount,
		currency,
		payment_method,
		status,
		payment_date,
		created_at,
		updated_at,
		payos_order_code,
		payos_transaction_id,
		qr_code_url,
		checkout_url,
		customer_name,
		customer_email,
		plan_name
	FROM payments
`

func (r *SQLiteRepo) ListAll(ctx context.Context) ([]domain.PaymentRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectCols+" ORDER BY seq ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []domain.PaymentRecord{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *p)
	}

	return res, rows.Err()
}

func (r *SQLiteRepo) GetByID(ctx context.Context, id string) (*domain.PaymentRecord, error) {
	row := r.db.QueryRowContext(ctx, selectCols+" WHERE id = ?", id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *SQLiteRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM payments").Scan(&n)
	return n, err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func scanPayment(scanner interface {
	Scan(dest ...any) error
}) (*domain.PaymentRecord, error) {
	var p domain.PaymentRecord
	var amount, status, createdStr, updatedStr string
	var paidStr *string

	if err := scanner.Scan(
		&p.ID,
		&p.SubscriptionID,
		&p.ParentID,
		&amount,
		&p.Currency,
		&p.PaymentMethod,
		&status,
		&paidStr,
		&createdStr,
		&updatedStr,
		&p.PayOSOrderCode,
		&p.PayOSTransactionID,
		&p.QRCodeURL,
		&p.CheckoutURL,
		&p.CustomerName,
		&p.CustomerEmail,
		&p.PlanName,
	); err != nil {
		return nil, err
	}

	p.Status = domain.PaymentStatus(status)

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	p.Amount = amt

	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdStr); err != nil {
		return nil, fmt.Errorf("parse created time: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedStr); err != nil {
		return nil, fmt.Errorf("parse updated time: %w", err)
	}

	if paidStr != nil {
		pd, err := time.Parse(time.RFC3339Nano, *paidStr)
		if err != nil {
			return nil, fmt.Errorf("parse paid time: %w", err)
		}
		p.PaymentDate = &pd
	}

	return &p, nil
}
