package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/lakemont/admissions/internal/admission"
	"github.com/lakemont/admissions/internal/event"
	"github.com/lakemont/admissions/internal/ledger"
	"github.com/lakemont/admissions/internal/storage"

	json "github.com/goccy/go-json"
	apperrors "github.com/lakemont/admissions/internal/platform/errors"
)

// OpenInvoice attaches a new open invoice to an application. At most one open
// or draft invoice may exist at a time, and all invoices of an application
// share a currency.
func (s *Service) OpenInvoice(ctx context.Context, applicationID string, amount ledger.Amount, currency string, dueDate *time.Time, actor Actor) (ledger.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "service.OpenInvoice")
	defer span.End()

	release := s.locks.acquire(applicationID)
	defer release()

	application, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return ledger.Invoice{}, err
	}
	invoices, err := s.store.ListInvoices(ctx, applicationID)
	if err != nil {
		return ledger.Invoice{}, err
	}
	for _, existing := range invoices {
		if existing.Status == ledger.StatusOpen || existing.Status == ledger.StatusDraft {
			return ledger.Invoice{}, apperrors.WithMetadata(
				apperrors.CodeInvoiceOpenExists,
				"application already has an outstanding invoice",
				map[string]string{"InvoiceID": existing.ID},
			)
		}
	}

	invoice, err := ledger.NewInvoice(ledger.NewInvoiceInput{
		ApplicationID: applicationID,
		Amount:        amount,
		Currency:      currency,
		DueDate:       dueDate,
	}, s.now, s.idGenerator)
	if err != nil {
		return ledger.Invoice{}, err
	}
	for _, existing := range invoices {
		if existing.Currency != invoice.Currency {
			return ledger.Invoice{}, apperrors.WithMetadata(
				apperrors.CodeInvoiceCurrencyMismatch,
				fmt.Sprintf("invoice currency %s does not match existing ledger currency %s", invoice.Currency, existing.Currency),
				map[string]string{"Currency": invoice.Currency, "LedgerCurrency": existing.Currency},
			)
		}
	}

	updatedApp := admission.ApplyPaymentState(application, ledger.PlanPaidFlag(append(invoices, invoice)), s.now)
	invoiceEvt, err := s.invoiceOpenedEvent(invoice, actor)
	if err != nil {
		return ledger.Invoice{}, err
	}
	change := storage.Change{
		Application: &updatedApp,
		Invoices:    []ledger.Invoice{invoice},
		Events:      []event.Event{invoiceEvt},
	}
	if err := s.store.Apply(ctx, change); err != nil {
		return ledger.Invoice{}, fmt.Errorf("open invoice: %w", err)
	}
	return invoice, nil
}

// ApplyScholarship reduces the application's open invoice by an approved
// discount.
func (s *Service) ApplyScholarship(ctx context.Context, applicationID, invoiceID string, discount ledger.Amount, note string, actor Actor) (ledger.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "service.ApplyScholarship")
	defer span.End()

	release := s.locks.acquire(applicationID)
	defer release()

	_, _, invoice, err := s.loadInvoice(ctx, applicationID, invoiceID)
	if err != nil {
		return ledger.Invoice{}, err
	}

	updated, err := ledger.ApplyScholarship(invoice, discount, note, s.now)
	if err != nil {
		return ledger.Invoice{}, err
	}

	payload, err := json.Marshal(event.InvoiceScholarshipAppliedPayload{
		InvoiceID:      updated.ID,
		DiscountAmount: int64(discount),
		AmountBefore:   int64(invoice.Amount),
		AmountAfter:    int64(updated.Amount),
		Note:           note,
	})
	if err != nil {
		return ledger.Invoice{}, fmt.Errorf("marshal event payload: %w", err)
	}
	change := storage.Change{
		Invoices: []ledger.Invoice{updated},
		Events: []event.Event{{
			ApplicationID: applicationID,
			Timestamp:     updated.UpdatedAt,
			Type:          event.TypeInvoiceScholarshipApplied,
			ActorType:     event.ActorTypeAdmin,
			ActorID:       actor.AdminID,
			EntityType:    "invoice",
			EntityID:      updated.ID,
			PayloadJSON:   payload,
		}},
	}
	if err := s.store.Apply(ctx, change); err != nil {
		return ledger.Invoice{}, fmt.Errorf("apply scholarship: %w", err)
	}
	return updated, nil
}

// SplitIntoPlan voids the open invoice and replaces it with a payment plan.
func (s *Service) SplitIntoPlan(ctx context.Context, applicationID, invoiceID string, installments []ledger.Installment, actor Actor) ([]ledger.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "service.SplitIntoPlan")
	defer span.End()

	release := s.locks.acquire(applicationID)
	defer release()

	application, invoices, invoice, err := s.loadInvoice(ctx, applicationID, invoiceID)
	if err != nil {
		return nil, err
	}

	// A split is only legal against the single open invoice; splitting one
	// installment of an existing plan would desync the siblings' numbering.
	open := ledger.FindOpen(invoices)
	if len(open) == 0 {
		return nil, apperrors.New(apperrors.CodeInvoiceNoOpenInvoice, "application has no open invoice to split")
	}
	if len(open) > 1 {
		return nil, apperrors.WithMetadata(
			apperrors.CodeInvoiceOpenExists,
			fmt.Sprintf("split requires exactly one open invoice, found %d", len(open)),
			map[string]string{"OpenInvoices": strconv.Itoa(len(open))},
		)
	}

	voided, plan, err := ledger.SplitPlan(invoice, installments, s.schedule.MaxInstallments, s.now, s.idGenerator)
	if err != nil {
		return nil, err
	}

	planIDs := make([]string, 0, len(plan))
	for _, installment := range plan {
		planIDs = append(planIDs, installment.ID)
	}
	payload, err := json.Marshal(event.InvoiceSplitPayload{
		VoidedInvoiceID: voided.ID,
		PlanInvoiceIDs:  planIDs,
		Installments:    len(plan),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal event payload: %w", err)
	}

	updatedApp := admission.ApplyPaymentState(application, ledger.PlanPaidFlag(replaceInvoices(invoices, append([]ledger.Invoice{voided}, plan...))), s.now)
	change := storage.Change{
		Application: &updatedApp,
		Invoices:    append([]ledger.Invoice{voided}, plan...),
		Events: []event.Event{{
			ApplicationID: applicationID,
			Timestamp:     voided.UpdatedAt,
			Type:          event.TypeInvoiceSplit,
			ActorType:     event.ActorTypeAdmin,
			ActorID:       actor.AdminID,
			EntityType:    "invoice",
			EntityID:      voided.ID,
			PayloadJSON:   payload,
		}},
	}
	if err := s.store.Apply(ctx, change); err != nil {
		return nil, fmt.Errorf("split into plan: %w", err)
	}
	return plan, nil
}

// MarkInvoicePaid settles one invoice and refreshes the application's payment
// state.
func (s *Service) MarkInvoicePaid(ctx context.Context, applicationID, invoiceID, note string, actor Actor) (ledger.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "service.MarkInvoicePaid")
	defer span.End()

	release := s.locks.acquire(applicationID)
	defer release()

	application, invoices, invoice, err := s.loadInvoice(ctx, applicationID, invoiceID)
	if err != nil {
		return ledger.Invoice{}, err
	}

	updated, err := ledger.MarkPaid(invoice, note, s.now)
	if err != nil {
		return ledger.Invoice{}, err
	}

	payload, err := json.Marshal(event.InvoicePaidPayload{
		InvoiceID: updated.ID,
		Amount:    int64(updated.Amount),
		Note:      updated.PaidNote,
	})
	if err != nil {
		return ledger.Invoice{}, fmt.Errorf("marshal event payload: %w", err)
	}

	updatedApp := admission.ApplyPaymentState(application, ledger.PlanPaidFlag(replaceInvoices(invoices, []ledger.Invoice{updated})), s.now)
	change := storage.Change{
		Application: &updatedApp,
		Invoices:    []ledger.Invoice{updated},
		Events: []event.Event{{
			ApplicationID: applicationID,
			Timestamp:     updated.UpdatedAt,
			Type:          event.TypeInvoicePaid,
			ActorType:     actorTypeFor(actor),
			ActorID:       actor.AdminID,
			EntityType:    "invoice",
			EntityID:      updated.ID,
			PayloadJSON:   payload,
		}},
	}
	if err := s.store.Apply(ctx, change); err != nil {
		return ledger.Invoice{}, fmt.Errorf("mark invoice paid: %w", err)
	}
	return updated, nil
}

// MarkInvoiceUnpaid compensates a mistaken settlement: the paid invoice is
// voided and a fresh open invoice replaces it.
func (s *Service) MarkInvoiceUnpaid(ctx context.Context, applicationID, invoiceID, reason string, actor Actor) (ledger.Invoice, ledger.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "service.MarkInvoiceUnpaid")
	defer span.End()

	release := s.locks.acquire(applicationID)
	defer release()

	application, invoices, invoice, err := s.loadInvoice(ctx, applicationID, invoiceID)
	if err != nil {
		return ledger.Invoice{}, ledger.Invoice{}, err
	}

	voided, replacement, err := ledger.MarkUnpaid(invoice, reason, s.now, s.idGenerator)
	if err != nil {
		return ledger.Invoice{}, ledger.Invoice{}, err
	}

	payload, err := json.Marshal(event.InvoiceReissuedPayload{
		VoidedInvoiceID: voided.ID,
		NewInvoiceID:    replacement.ID,
		Amount:          int64(replacement.Amount),
		Reason:          reason,
	})
	if err != nil {
		return ledger.Invoice{}, ledger.Invoice{}, fmt.Errorf("marshal event payload: %w", err)
	}

	updatedApp := admission.ApplyPaymentState(application, ledger.PlanPaidFlag(replaceInvoices(invoices, []ledger.Invoice{voided, replacement})), s.now)
	change := storage.Change{
		Application: &updatedApp,
		Invoices:    []ledger.Invoice{voided, replacement},
		Events: []event.Event{{
			ApplicationID: applicationID,
			Timestamp:     voided.UpdatedAt,
			Type:          event.TypeInvoiceReissued,
			ActorType:     actorTypeFor(actor),
			ActorID:       actor.AdminID,
			EntityType:    "invoice",
			EntityID:      voided.ID,
			PayloadJSON:   payload,
		}},
	}
	if err := s.store.Apply(ctx, change); err != nil {
		return ledger.Invoice{}, ledger.Invoice{}, fmt.Errorf("mark invoice unpaid: %w", err)
	}
	return voided, replacement, nil
}

// VoidInvoice terminally cancels a draft or open invoice.
func (s *Service) VoidInvoice(ctx context.Context, applicationID, invoiceID, reason string, actor Actor) (ledger.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "service.VoidInvoice")
	defer span.End()

	release := s.locks.acquire(applicationID)
	defer release()

	application, invoices, invoice, err := s.loadInvoice(ctx, applicationID, invoiceID)
	if err != nil {
		return ledger.Invoice{}, err
	}

	updated, err := ledger.Void(invoice, reason, s.now)
	if err != nil {
		return ledger.Invoice{}, err
	}

	payload, err := json.Marshal(event.InvoiceVoidedPayload{
		InvoiceID: updated.ID,
		Reason:    updated.VoidedReason,
	})
	if err != nil {
		return ledger.Invoice{}, fmt.Errorf("marshal event payload: %w", err)
	}

	updatedApp := admission.ApplyPaymentState(application, ledger.PlanPaidFlag(replaceInvoices(invoices, []ledger.Invoice{updated})), s.now)
	change := storage.Change{
		Application: &updatedApp,
		Invoices:    []ledger.Invoice{updated},
		Events: []event.Event{{
			ApplicationID: applicationID,
			Timestamp:     updated.UpdatedAt,
			Type:          event.TypeInvoiceVoided,
			ActorType:     actorTypeFor(actor),
			ActorID:       actor.AdminID,
			EntityType:    "invoice",
			EntityID:      updated.ID,
			PayloadJSON:   payload,
		}},
	}
	if err := s.store.Apply(ctx, change); err != nil {
		return ledger.Invoice{}, fmt.Errorf("void invoice: %w", err)
	}
	return updated, nil
}

// loadInvoice loads the application and its ledger, then resolves one invoice.
func (s *Service) loadInvoice(ctx context.Context, applicationID, invoiceID string) (admission.Application, []ledger.Invoice, ledger.Invoice, error) {
	application, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return admission.Application{}, nil, ledger.Invoice{}, err
	}
	invoices, err := s.store.ListInvoices(ctx, applicationID)
	if err != nil {
		return admission.Application{}, nil, ledger.Invoice{}, err
	}
	for _, invoice := range invoices {
		if invoice.ID == invoiceID {
			return application, invoices, invoice, nil
		}
	}
	return admission.Application{}, nil, ledger.Invoice{}, apperrors.WithMetadata(
		apperrors.CodeNotFound,
		fmt.Sprintf("invoice %s not found", invoiceID),
		map[string]string{"InvoiceID": invoiceID, "ApplicationID": applicationID},
	)
}

// replaceInvoices overlays mutated invoices onto the loaded set by ID and
// appends the new ones.
func replaceInvoices(invoices []ledger.Invoice, changed []ledger.Invoice) []ledger.Invoice {
	result := make([]ledger.Invoice, 0, len(invoices)+len(changed))
	byID := make(map[string]ledger.Invoice, len(changed))
	for _, invoice := range changed {
		byID[invoice.ID] = invoice
	}
	for _, invoice := range invoices {
		if replacement, ok := byID[invoice.ID]; ok {
			result = append(result, replacement)
			delete(byID, invoice.ID)
			continue
		}
		result = append(result, invoice)
	}
	for _, invoice := range changed {
		if _, ok := byID[invoice.ID]; ok {
			result = append(result, invoice)
		}
	}
	return result
}

func actorTypeFor(actor Actor) event.ActorType {
	if actor.AdminID == "" {
		return event.ActorTypeWebhook
	}
	return event.ActorTypeAdmin
}

func (s *Service) invoiceOpenedEvent(invoice ledger.Invoice, actor Actor) (event.Event, error) {
	dueDate := ""
	if invoice.DueDate != nil {
		dueDate = invoice.DueDate.UTC().Format(time.RFC3339Nano)
	}
	payload, err := json.Marshal(event.InvoiceOpenedPayload{
		InvoiceID:     invoice.ID,
		Amount:        int64(invoice.Amount),
		Currency:      invoice.Currency,
		PaymentNumber: invoice.PaymentNumber,
		TotalPayments: invoice.TotalPayments,
		DueDate:       dueDate,
	})
	if err != nil {
		return event.Event{}, fmt.Errorf("marshal event payload: %w", err)
	}
	actorType := event.ActorTypeSystem
	if actor.AdminID != "" {
		actorType = event.ActorTypeAdmin
	}
	return event.Event{
		ApplicationID: invoice.ApplicationID,
		Timestamp:     invoice.CreatedAt,
		Type:          event.TypeInvoiceOpened,
		ActorType:     actorType,
		ActorID:       actor.AdminID,
		EntityType:    "invoice",
		EntityID:      invoice.ID,
		PayloadJSON:   payload,
	}, nil
}
