// Package storage defines persistence contracts for admission pipeline state.
package storage

import (
	"context"
	"errors"

	"github.com/lakemont/admissions/internal/admission"
	"github.com/lakemont/admissions/internal/event"
	"github.com/lakemont/admissions/internal/ledger"
	"github.com/lakemont/admissions/internal/review"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// ApplicationPage stores one page of application records.
type ApplicationPage struct {
	Applications  []admission.Application
	NextPageToken string
}

// ListApplicationsRequest describes one application listing query.
type ListApplicationsRequest struct {
	PageSize  int
	PageToken string
	// Filter is an AIP-160 expression over status, sub_status, season,
	// applicant_email, paid_invoice and created_at.
	Filter string
}

// ApplicationStore persists application records.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, application admission.Application) error
	GetApplication(ctx context.Context, id string) (admission.Application, error)
	UpdateApplication(ctx context.Context, application admission.Application) error
	ListApplications(ctx context.Context, req ListApplicationsRequest) (ApplicationPage, error)
}

// VoteStore persists review votes. At most one vote per (application, admin)
// pair exists; a second insert fails with ErrAlreadyExists.
type VoteStore interface {
	CreateVote(ctx context.Context, vote review.Vote) error
	ListVotes(ctx context.Context, applicationID string) ([]review.Vote, error)
}

// InvoiceStore persists the invoice ledger of an application.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, invoice ledger.Invoice) error
	GetInvoice(ctx context.Context, id string) (ledger.Invoice, error)
	UpdateInvoice(ctx context.Context, invoice ledger.Invoice) error
	ListInvoices(ctx context.Context, applicationID string) ([]ledger.Invoice, error)
}

// EventPage stores one page of journal events.
type EventPage struct {
	Events        []event.Event
	NextPageToken string
}

// EventStore persists the append-only audit journal.
type EventStore interface {
	ListEvents(ctx context.Context, applicationID string, pageSize int, pageToken string) (EventPage, error)
}

// Change groups the writes of one admission operation. Everything in a change
// commits or rolls back together.
type Change struct {
	// Application, when set, is upserted.
	Application *admission.Application
	// Votes are inserted. A duplicate (application, admin) pair fails the
	// whole change with ErrAlreadyExists.
	Votes []review.Vote
	// Invoices are upserted by ID.
	Invoices []ledger.Invoice
	// Events are appended to the journal with sequence numbers assigned in
	// order.
	Events []event.Event
}

// Store is the full persistence surface of the admission service.
type Store interface {
	ApplicationStore
	VoteStore
	InvoiceStore
	EventStore

	// Apply commits one change atomically.
	Apply(ctx context.Context, change Change) error

	Close() error
}
