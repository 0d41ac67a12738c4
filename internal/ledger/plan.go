package ledger

import (
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/lakemont/admissions/internal/platform/errors"
	"github.com/lakemont/admissions/internal/platform/id"
)

// SplitReason is the voided_reason recorded on an invoice replaced by a plan.
const SplitReason = "split into payment plan"

// Installment describes one leg of a payment plan.
type Installment struct {
	Amount  Amount
	DueDate time.Time
}

// SplitPlan voids one open invoice and replaces it with N open invoices
// numbered 1..N. Installments must sum exactly to the open invoice's amount;
// no rounding tolerance beyond minor-unit precision exists because amounts
// are integers. On any guard violation the original invoice is untouched.
func SplitPlan(invoice Invoice, installments []Installment, maxInstallments int, now func() time.Time, idGenerator func() (string, error)) (voided Invoice, plan []Invoice, err error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if invoice.Status != StatusOpen {
		return Invoice{}, nil, newInvoiceStatusOpError(invoice, "SPLIT_PLAN")
	}
	if len(installments) < 2 {
		return Invoice{}, nil, apperrors.New(apperrors.CodeInvoicePlanTooSmall, "a payment plan needs at least two installments")
	}
	if maxInstallments > 0 && len(installments) > maxInstallments {
		return Invoice{}, nil, apperrors.WithMetadata(
			apperrors.CodeInvoicePlanTooLarge,
			fmt.Sprintf("payment plan exceeds %d installments", maxInstallments),
			map[string]string{"Max": strconv.Itoa(maxInstallments)},
		)
	}

	var total Amount
	for i, installment := range installments {
		if installment.Amount <= 0 {
			return Invoice{}, nil, ErrInvalidAmount
		}
		if i > 0 && installment.DueDate.Before(installments[i-1].DueDate) {
			return Invoice{}, nil, apperrors.New(apperrors.CodeInvoicePlanDueDateOrder, "installment due dates must not decrease")
		}
		total += installment.Amount
	}
	if total != invoice.Amount {
		return Invoice{}, nil, apperrors.WithMetadata(
			apperrors.CodeInvoicePlanSumMismatch,
			fmt.Sprintf("installments sum to %s, open invoice is %s", total, invoice.Amount),
			map[string]string{"Expected": invoice.Amount.String(), "Actual": total.String()},
		)
	}

	ts := now().UTC()
	voided = invoice
	voided.Status = StatusVoid
	voided.VoidedReason = SplitReason
	voided.VoidedAt = &ts
	voided.UpdatedAt = ts

	plan = make([]Invoice, 0, len(installments))
	for i, installment := range installments {
		installmentID, err := idGenerator()
		if err != nil {
			return Invoice{}, nil, fmt.Errorf("generate installment id: %w", err)
		}
		due := installment.DueDate
		plan = append(plan, Invoice{
			ID:            installmentID,
			ApplicationID: invoice.ApplicationID,
			Amount:        installment.Amount,
			Currency:      invoice.Currency,
			Status:        StatusOpen,
			PaymentNumber: i + 1,
			TotalPayments: len(installments),
			DueDate:       &due,
			CreatedAt:     ts,
			UpdatedAt:     ts,
		})
	}
	return voided, plan, nil
}

// FindOpen returns the open invoices within a set.
func FindOpen(invoices []Invoice) []Invoice {
	var open []Invoice
	for _, invoice := range invoices {
		if invoice.Status == StatusOpen {
			open = append(open, invoice)
		}
	}
	return open
}

// PlanPaidFlag derives the application's paid_invoice flag from its invoice
// set: nil when no invoices exist, true when at least one invoice is paid and
// every invoice is paid or void, false otherwise.
func PlanPaidFlag(invoices []Invoice) *bool {
	if len(invoices) == 0 {
		return nil
	}
	paidSeen := false
	settled := true
	for _, invoice := range invoices {
		switch invoice.Status {
		case StatusPaid:
			paidSeen = true
		case StatusVoid:
		default:
			settled = false
		}
	}
	result := paidSeen && settled
	return &result
}

// Outstanding sums the amounts still owed (draft and open invoices). Void
// invoices stay in history but leave the outstanding balance.
func Outstanding(invoices []Invoice) Amount {
	var total Amount
	for _, invoice := range invoices {
		if invoice.Status == StatusDraft || invoice.Status == StatusOpen {
			total += invoice.Amount
		}
	}
	return total
}
