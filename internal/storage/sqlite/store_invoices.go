package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lakemont/admissions/internal/ledger"
	"github.com/lakemont/admissions/internal/storage"
)

const invoiceColumns = `id, application_id, amount, discount_amount, currency,
	        scholarship_applied, scholarship_note, status,
	        payment_number, total_payments, due_date,
	        paid_at, paid_note, voided_at, voided_reason,
	        created_at, updated_at`

// CreateInvoice inserts one invoice record.
func (s *Store) CreateInvoice(ctx context.Context, invoice ledger.Invoice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return upsertInvoice(ctx, s.sqlDB, invoice)
}

// GetInvoice returns one invoice by ID.
func (s *Store) GetInvoice(ctx context.Context, id string) (ledger.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Invoice{}, err
	}
	if s == nil || s.sqlDB == nil {
		return ledger.Invoice{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ledger.Invoice{}, fmt.Errorf("invoice id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+invoiceColumns+`
		   FROM invoices
		  WHERE id = ?`,
		id,
	)
	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Invoice{}, storage.ErrNotFound
		}
		return ledger.Invoice{}, fmt.Errorf("get invoice: %w", err)
	}
	return invoice, nil
}

// UpdateInvoice replaces one invoice record.
func (s *Store) UpdateInvoice(ctx context.Context, invoice ledger.Invoice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return upsertInvoice(ctx, s.sqlDB, invoice)
}

// ListInvoices returns all invoices of one application, oldest first.
func (s *Store) ListInvoices(ctx context.Context, applicationID string) ([]ledger.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return nil, fmt.Errorf("application id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+invoiceColumns+`
		   FROM invoices
		  WHERE application_id = ?
		  ORDER BY created_at ASC, payment_number ASC, id ASC`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []ledger.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("list invoices: %w", err)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

func upsertInvoice(ctx context.Context, q querier, invoice ledger.Invoice) error {
	if strings.TrimSpace(invoice.ID) == "" {
		return fmt.Errorf("invoice id is required")
	}
	_, err := q.ExecContext(
		ctx,
		`INSERT INTO invoices (
		   id, application_id, amount, discount_amount, currency,
		   scholarship_applied, scholarship_note, status,
		   payment_number, total_payments, due_date,
		   paid_at, paid_note, voided_at, voided_reason,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   amount = excluded.amount,
		   discount_amount = excluded.discount_amount,
		   currency = excluded.currency,
		   scholarship_applied = excluded.scholarship_applied,
		   scholarship_note = excluded.scholarship_note,
		   status = excluded.status,
		   payment_number = excluded.payment_number,
		   total_payments = excluded.total_payments,
		   due_date = excluded.due_date,
		   paid_at = excluded.paid_at,
		   paid_note = excluded.paid_note,
		   voided_at = excluded.voided_at,
		   voided_reason = excluded.voided_reason,
		   updated_at = excluded.updated_at`,
		invoice.ID,
		invoice.ApplicationID,
		int64(invoice.Amount),
		int64(invoice.DiscountAmount),
		invoice.Currency,
		invoice.ScholarshipApplied,
		invoice.ScholarshipNote,
		ledger.StatusLabel(invoice.Status),
		invoice.PaymentNumber,
		invoice.TotalPayments,
		toNullText(invoice.DueDate),
		toNullText(invoice.PaidAt),
		invoice.PaidNote,
		toNullText(invoice.VoidedAt),
		invoice.VoidedReason,
		toText(invoice.CreatedAt),
		toText(invoice.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert invoice: %w", err)
	}
	return nil
}

func scanInvoice(row rowScanner) (ledger.Invoice, error) {
	var invoice ledger.Invoice
	var amount, discountAmount int64
	var status string
	var dueDate, paidAt, voidedAt sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(
		&invoice.ID,
		&invoice.ApplicationID,
		&amount,
		&discountAmount,
		&invoice.Currency,
		&invoice.ScholarshipApplied,
		&invoice.ScholarshipNote,
		&status,
		&invoice.PaymentNumber,
		&invoice.TotalPayments,
		&dueDate,
		&paidAt,
		&invoice.PaidNote,
		&voidedAt,
		&invoice.VoidedReason,
		&createdAt,
		&updatedAt,
	); err != nil {
		return ledger.Invoice{}, err
	}

	invoice.Amount = ledger.Amount(amount)
	invoice.DiscountAmount = ledger.Amount(discountAmount)
	invoice.Status = ledger.StatusFromLabel(status)

	var err error
	if invoice.DueDate, err = fromNullText(dueDate); err != nil {
		return ledger.Invoice{}, err
	}
	if invoice.PaidAt, err = fromNullText(paidAt); err != nil {
		return ledger.Invoice{}, err
	}
	if invoice.VoidedAt, err = fromNullText(voidedAt); err != nil {
		return ledger.Invoice{}, err
	}
	if invoice.CreatedAt, err = fromText(createdAt); err != nil {
		return ledger.Invoice{}, err
	}
	if invoice.UpdatedAt, err = fromText(updatedAt); err != nil {
		return ledger.Invoice{}, err
	}
	return invoice, nil
}
