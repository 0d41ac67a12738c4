package ledger

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/lakemont/admissions/internal/platform/errors"
	"github.com/lakemont/admissions/internal/platform/id"
)

// Status describes the lifecycle of an invoice.
type Status int

const (
	// StatusUnspecified represents an invalid invoice status value.
	StatusUnspecified Status = iota
	// StatusDraft indicates an invoice that has not been issued yet.
	StatusDraft
	// StatusOpen indicates an outstanding obligation.
	StatusOpen
	// StatusPaid indicates a settled invoice.
	StatusPaid
	// StatusVoid indicates a terminally cancelled invoice, kept in history
	// but excluded from the outstanding balance.
	StatusVoid
	// StatusUncollectible indicates a written-off invoice.
	StatusUncollectible
)

var (
	// ErrInvalidAmount indicates a non-positive invoice amount.
	ErrInvalidAmount = apperrors.New(apperrors.CodeInvoiceAmountInvalid, "invoice amount must be positive")
	// ErrInvalidDiscount indicates a non-positive discount amount.
	ErrInvalidDiscount = apperrors.New(apperrors.CodeInvoiceDiscountInvalid, "discount amount must be positive")
	// ErrEmptyNote indicates a missing required note.
	ErrEmptyNote = apperrors.New(apperrors.CodeInvoiceNoteEmpty, "a note is required")
	// ErrEmptyReason indicates a missing required reason.
	ErrEmptyReason = apperrors.New(apperrors.CodeInvoiceReasonEmpty, "a reason is required")
)

// Invoice is one financial obligation line for an application.
type Invoice struct {
	ID            string
	ApplicationID string
	// Amount is the obligation net of discounts, in minor units.
	Amount Amount
	// DiscountAmount accumulates all approved discounts.
	DiscountAmount     Amount
	Currency           string
	ScholarshipApplied bool
	ScholarshipNote    string
	Status             Status
	// PaymentNumber and TotalPayments position the invoice within a payment
	// plan (1 of 1 for a simple invoice).
	PaymentNumber int
	TotalPayments int
	DueDate       *time.Time
	PaidAt        *time.Time
	PaidNote      string
	VoidedAt      *time.Time
	VoidedReason  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewInvoiceInput describes the data needed to create an invoice.
type NewInvoiceInput struct {
	ApplicationID string
	Amount        Amount
	Currency      string
	DueDate       *time.Time
	// Draft creates the invoice without issuing it.
	Draft bool
}

// NewInvoice creates a single 1-of-1 invoice with a generated ID.
func NewInvoice(input NewInvoiceInput, now func() time.Time, idGenerator func() (string, error)) (Invoice, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	input.ApplicationID = strings.TrimSpace(input.ApplicationID)
	if input.ApplicationID == "" {
		return Invoice{}, apperrors.New(apperrors.CodeApplicationIDEmpty, "application id is required")
	}
	if input.Amount <= 0 {
		return Invoice{}, ErrInvalidAmount
	}
	input.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))

	invoiceID, err := idGenerator()
	if err != nil {
		return Invoice{}, fmt.Errorf("generate invoice id: %w", err)
	}

	status := StatusOpen
	if input.Draft {
		status = StatusDraft
	}
	createdAt := now().UTC()
	return Invoice{
		ID:            invoiceID,
		ApplicationID: input.ApplicationID,
		Amount:        input.Amount,
		Currency:      input.Currency,
		Status:        status,
		PaymentNumber: 1,
		TotalPayments: 1,
		DueDate:       input.DueDate,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}, nil
}

// Issue moves a draft invoice to open.
func Issue(invoice Invoice, now func() time.Time) (Invoice, error) {
	if now == nil {
		now = time.Now
	}
	if invoice.Status != StatusDraft {
		return Invoice{}, newInvoiceStatusOpError(invoice, "ISSUE")
	}

	updated := invoice
	updated.Status = StatusOpen
	updated.UpdatedAt = now().UTC()
	return updated, nil
}

// ApplyScholarship reduces an open invoice by a discount with a mandatory
// justification note. The amount floors at zero; the full approved discount
// is recorded. A zero-amount invoice still requires MarkPaid.
func ApplyScholarship(invoice Invoice, discount Amount, note string, now func() time.Time) (Invoice, error) {
	if now == nil {
		now = time.Now
	}
	if invoice.Status != StatusOpen {
		return Invoice{}, newInvoiceStatusOpError(invoice, "APPLY_SCHOLARSHIP")
	}
	if discount <= 0 {
		return Invoice{}, ErrInvalidDiscount
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return Invoice{}, ErrEmptyNote
	}

	updated := invoice
	updated.Amount -= discount
	if updated.Amount < 0 {
		updated.Amount = 0
	}
	updated.DiscountAmount += discount
	updated.ScholarshipApplied = true
	if updated.ScholarshipNote == "" {
		updated.ScholarshipNote = note
	} else {
		updated.ScholarshipNote = updated.ScholarshipNote + "; " + note
	}
	updated.UpdatedAt = now().UTC()
	return updated, nil
}

// MarkPaid settles an open invoice and stamps paid_at.
func MarkPaid(invoice Invoice, note string, now func() time.Time) (Invoice, error) {
	if now == nil {
		now = time.Now
	}
	if invoice.Status != StatusOpen {
		return Invoice{}, newInvoiceStatusOpError(invoice, "MARK_PAID")
	}

	updated := invoice
	updated.Status = StatusPaid
	updated.PaidNote = strings.TrimSpace(note)
	ts := now().UTC()
	updated.UpdatedAt = ts
	if updated.PaidAt == nil {
		updated.PaidAt = &ts
	}
	return updated, nil
}

// MarkUnpaid compensates a mistaken settlement: the paid invoice is voided
// with a reason and a fresh open invoice is created for the same amount and
// plan position. History is never overwritten.
func MarkUnpaid(invoice Invoice, reason string, now func() time.Time, idGenerator func() (string, error)) (voided Invoice, replacement Invoice, err error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if invoice.Status != StatusPaid {
		return Invoice{}, Invoice{}, newInvoiceStatusOpError(invoice, "MARK_UNPAID")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Invoice{}, Invoice{}, ErrEmptyReason
	}

	ts := now().UTC()
	voided = invoice
	voided.Status = StatusVoid
	voided.VoidedReason = reason
	voided.VoidedAt = &ts
	voided.UpdatedAt = ts

	replacementID, err := idGenerator()
	if err != nil {
		return Invoice{}, Invoice{}, fmt.Errorf("generate replacement invoice id: %w", err)
	}
	replacement = Invoice{
		ID:                 replacementID,
		ApplicationID:      invoice.ApplicationID,
		Amount:             invoice.Amount,
		DiscountAmount:     invoice.DiscountAmount,
		Currency:           invoice.Currency,
		ScholarshipApplied: invoice.ScholarshipApplied,
		ScholarshipNote:    invoice.ScholarshipNote,
		Status:             StatusOpen,
		PaymentNumber:      invoice.PaymentNumber,
		TotalPayments:      invoice.TotalPayments,
		DueDate:            invoice.DueDate,
		CreatedAt:          ts,
		UpdatedAt:          ts,
	}
	return voided, replacement, nil
}

// Void terminally cancels a draft or open invoice. No replacement is created.
func Void(invoice Invoice, reason string, now func() time.Time) (Invoice, error) {
	if now == nil {
		now = time.Now
	}
	if invoice.Status != StatusDraft && invoice.Status != StatusOpen {
		return Invoice{}, newInvoiceStatusOpError(invoice, "VOID")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Invoice{}, ErrEmptyReason
	}

	updated := invoice
	updated.Status = StatusVoid
	updated.VoidedReason = reason
	ts := now().UTC()
	updated.UpdatedAt = ts
	if updated.VoidedAt == nil {
		updated.VoidedAt = &ts
	}
	return updated, nil
}

// newInvoiceStatusOpError creates metadata for disallowed status/operation combinations.
func newInvoiceStatusOpError(invoice Invoice, op string) *apperrors.Error {
	statusLabel := StatusLabel(invoice.Status)
	return apperrors.WithMetadata(
		apperrors.CodeInvoiceStatusDisallowsOp,
		fmt.Sprintf("invoice status %s does not allow operation %s", statusLabel, op),
		map[string]string{"Status": statusLabel, "Operation": op},
	)
}

// StatusLabel returns the string label for an invoice status.
func StatusLabel(status Status) string {
	switch status {
	case StatusDraft:
		return "DRAFT"
	case StatusOpen:
		return "OPEN"
	case StatusPaid:
		return "PAID"
	case StatusVoid:
		return "VOID"
	case StatusUncollectible:
		return "UNCOLLECTIBLE"
	default:
		return "UNSPECIFIED"
	}
}

// StatusFromLabel converts a status label to a Status value.
func StatusFromLabel(label string) Status {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "DRAFT":
		return StatusDraft
	case "OPEN":
		return StatusOpen
	case "PAID":
		return StatusPaid
	case "VOID":
		return StatusVoid
	case "UNCOLLECTIBLE":
		return StatusUncollectible
	default:
		return StatusUnspecified
	}
}
