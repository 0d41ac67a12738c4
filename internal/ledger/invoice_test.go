package ledger

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/lakemont/admissions/internal/platform/errors"
)

func fixedNow() time.Time {
	return time.Date(2027, 3, 1, 12, 0, 0, 0, time.UTC)
}

func openInvoice(amount Amount) Invoice {
	return Invoice{
		ID:            "inv-1",
		ApplicationID: "app-1",
		Amount:        amount,
		Currency:      "USD",
		Status:        StatusOpen,
		PaymentNumber: 1,
		TotalPayments: 1,
		CreatedAt:     fixedNow().Add(-time.Hour),
		UpdatedAt:     fixedNow().Add(-time.Hour),
	}
}

func TestNewInvoice(t *testing.T) {
	invoice, err := NewInvoice(NewInvoiceInput{
		ApplicationID: "app-1",
		Amount:        250000,
		Currency:      "usd",
	}, fixedNow, func() (string, error) { return "inv-new", nil })
	if err != nil {
		t.Fatalf("new invoice: %v", err)
	}
	if invoice.Status != StatusOpen {
		t.Fatalf("status = %s, want OPEN", StatusLabel(invoice.Status))
	}
	if invoice.Currency != "USD" {
		t.Fatalf("currency = %q, want USD", invoice.Currency)
	}
	if invoice.PaymentNumber != 1 || invoice.TotalPayments != 1 {
		t.Fatalf("plan position = %d/%d, want 1/1", invoice.PaymentNumber, invoice.TotalPayments)
	}

	if _, err := NewInvoice(NewInvoiceInput{ApplicationID: "app-1", Amount: 0}, fixedNow, nil); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestIssueDraft(t *testing.T) {
	draft, err := NewInvoice(NewInvoiceInput{
		ApplicationID: "app-1",
		Amount:        100000,
		Currency:      "USD",
		Draft:         true,
	}, fixedNow, func() (string, error) { return "inv-draft", nil })
	if err != nil {
		t.Fatalf("new draft invoice: %v", err)
	}
	if draft.Status != StatusDraft {
		t.Fatalf("status = %s, want DRAFT", StatusLabel(draft.Status))
	}

	issued, err := Issue(draft, fixedNow)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.Status != StatusOpen {
		t.Fatalf("status = %s, want OPEN", StatusLabel(issued.Status))
	}

	if _, err := Issue(issued, fixedNow); !apperrors.IsCode(err, apperrors.CodeInvoiceStatusDisallowsOp) {
		t.Fatalf("expected issue on open invoice to fail, got %v", err)
	}
}

func TestApplyScholarship(t *testing.T) {
	invoice := openInvoice(250000)

	updated, err := ApplyScholarship(invoice, 20000, "need-based", fixedNow)
	if err != nil {
		t.Fatalf("apply scholarship: %v", err)
	}
	if updated.Amount != 230000 {
		t.Fatalf("amount = %d, want 230000", updated.Amount)
	}
	if updated.DiscountAmount != 20000 {
		t.Fatalf("discount = %d, want 20000", updated.DiscountAmount)
	}
	if !updated.ScholarshipApplied {
		t.Fatal("expected scholarship flag")
	}

	// Over-discount floors at zero but records the full approved amount.
	floored, err := ApplyScholarship(updated, 500000, "full ride", fixedNow)
	if err != nil {
		t.Fatalf("apply full scholarship: %v", err)
	}
	if floored.Amount != 0 {
		t.Fatalf("amount = %d, want 0", floored.Amount)
	}
	if floored.DiscountAmount != 520000 {
		t.Fatalf("discount = %d, want 520000", floored.DiscountAmount)
	}

	// A zero-amount invoice still settles through MarkPaid.
	paid, err := MarkPaid(floored, "zero balance", fixedNow)
	if err != nil {
		t.Fatalf("mark paid zero-amount: %v", err)
	}
	if paid.Status != StatusPaid {
		t.Fatalf("status = %s, want PAID", StatusLabel(paid.Status))
	}
}

func TestApplyScholarshipGuards(t *testing.T) {
	invoice := openInvoice(250000)

	if _, err := ApplyScholarship(invoice, 0, "note", fixedNow); !errors.Is(err, ErrInvalidDiscount) {
		t.Fatalf("expected ErrInvalidDiscount, got %v", err)
	}
	if _, err := ApplyScholarship(invoice, 100, "  ", fixedNow); !errors.Is(err, ErrEmptyNote) {
		t.Fatalf("expected ErrEmptyNote, got %v", err)
	}

	paid := invoice
	paid.Status = StatusPaid
	if _, err := ApplyScholarship(paid, 100, "note", fixedNow); !apperrors.IsCode(err, apperrors.CodeInvoiceStatusDisallowsOp) {
		t.Fatalf("expected status guard, got %v", err)
	}
}

func TestMarkPaid(t *testing.T) {
	invoice := openInvoice(50000)

	paid, err := MarkPaid(invoice, "processor settlement", fixedNow)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if paid.Status != StatusPaid {
		t.Fatalf("status = %s, want PAID", StatusLabel(paid.Status))
	}
	if paid.PaidAt == nil || !paid.PaidAt.Equal(fixedNow()) {
		t.Fatalf("paid_at = %v, want %v", paid.PaidAt, fixedNow())
	}

	if _, err := MarkPaid(paid, "again", fixedNow); !apperrors.IsCode(err, apperrors.CodeInvoiceStatusDisallowsOp) {
		t.Fatalf("expected double settlement to fail, got %v", err)
	}
}

func TestMarkUnpaidCompensates(t *testing.T) {
	invoice := openInvoice(50000)
	paid, err := MarkPaid(invoice, "settled", fixedNow)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	voided, replacement, err := MarkUnpaid(paid, "charge reversed", fixedNow, func() (string, error) { return "inv-2", nil })
	if err != nil {
		t.Fatalf("mark unpaid: %v", err)
	}
	if voided.Status != StatusVoid {
		t.Fatalf("voided status = %s, want VOID", StatusLabel(voided.Status))
	}
	if voided.VoidedReason != "charge reversed" {
		t.Fatalf("voided reason = %q", voided.VoidedReason)
	}
	if replacement.Status != StatusOpen {
		t.Fatalf("replacement status = %s, want OPEN", StatusLabel(replacement.Status))
	}
	if replacement.Amount != 50000 {
		t.Fatalf("replacement amount = %d, want 50000", replacement.Amount)
	}
	if replacement.ID == voided.ID {
		t.Fatal("replacement must be a fresh invoice")
	}
	if replacement.PaymentNumber != voided.PaymentNumber || replacement.TotalPayments != voided.TotalPayments {
		t.Fatal("replacement must keep the plan position")
	}

	if _, _, err := MarkUnpaid(invoice, "reason", fixedNow, nil); !apperrors.IsCode(err, apperrors.CodeInvoiceStatusDisallowsOp) {
		t.Fatalf("expected mark unpaid on open invoice to fail, got %v", err)
	}
	if _, _, err := MarkUnpaid(paid, " ", fixedNow, nil); !errors.Is(err, ErrEmptyReason) {
		t.Fatalf("expected ErrEmptyReason, got %v", err)
	}
}

func TestVoid(t *testing.T) {
	invoice := openInvoice(50000)

	voided, err := Void(invoice, "duplicate entry", fixedNow)
	if err != nil {
		t.Fatalf("void: %v", err)
	}
	if voided.Status != StatusVoid {
		t.Fatalf("status = %s, want VOID", StatusLabel(voided.Status))
	}

	paid := invoice
	paid.Status = StatusPaid
	if _, err := Void(paid, "reason", fixedNow); !apperrors.IsCode(err, apperrors.CodeInvoiceStatusDisallowsOp) {
		t.Fatalf("expected void on paid invoice to fail, got %v", err)
	}
	if _, err := Void(invoice, "", fixedNow); !errors.Is(err, ErrEmptyReason) {
		t.Fatalf("expected ErrEmptyReason, got %v", err)
	}
}

func TestAmountString(t *testing.T) {
	cases := []struct {
		amount Amount
		want   string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{125000, "1250.00"},
		{123456, "1234.56"},
		{-50, "-0.50"},
		{-123456, "-1234.56"},
	}
	for _, tc := range cases {
		if got := tc.amount.String(); got != tc.want {
			t.Fatalf("Amount(%d).String() = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
