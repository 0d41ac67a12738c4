package http

import (
	"time"

	"github.com/lakemont/admissions/internal/admission"
	"github.com/lakemont/admissions/internal/event"
	"github.com/lakemont/admissions/internal/ledger"
	"github.com/lakemont/admissions/internal/review"

	json "github.com/goccy/go-json"
)

// applicationView is the wire representation of an application.
type applicationView struct {
	ID                   string  `json:"id"`
	ApplicantName        string  `json:"applicant_name"`
	ApplicantEmail       string  `json:"applicant_email,omitempty"`
	Season               string  `json:"season"`
	Status               string  `json:"status"`
	SubStatus            string  `json:"sub_status"`
	CompletionPercentage int     `json:"completion_percentage"`
	ApprovalCount        int     `json:"approval_count"`
	DeclineCount         int     `json:"decline_count"`
	PaidInvoice          *bool   `json:"paid_invoice"`
	UnderReviewAt        *string `json:"under_review_at,omitempty"`
	PromotedAt           *string `json:"promoted_at,omitempty"`
	EnrolledAt           *string `json:"enrolled_at,omitempty"`
	DeferredAt           *string `json:"deferred_at,omitempty"`
	WithdrawnAt          *string `json:"withdrawn_at,omitempty"`
	RejectedAt           *string `json:"rejected_at,omitempty"`
	PaidAt               *string `json:"paid_at,omitempty"`
	CreatedAt            string  `json:"created_at"`
	UpdatedAt            string  `json:"updated_at"`
}

func newApplicationView(application admission.Application) applicationView {
	return applicationView{
		ID:                   application.ID,
		ApplicantName:        application.ApplicantName,
		ApplicantEmail:       application.ApplicantEmail,
		Season:               application.Season,
		Status:               admission.StatusLabel(application.Status),
		SubStatus:            admission.SubStatusLabel(application.SubStatus),
		CompletionPercentage: application.CompletionPercentage,
		ApprovalCount:        application.ApprovalCount,
		DeclineCount:         application.DeclineCount,
		PaidInvoice:          application.PaidInvoice,
		UnderReviewAt:        formatOptional(application.UnderReviewAt),
		PromotedAt:           formatOptional(application.PromotedAt),
		EnrolledAt:           formatOptional(application.EnrolledAt),
		DeferredAt:           formatOptional(application.DeferredAt),
		WithdrawnAt:          formatOptional(application.WithdrawnAt),
		RejectedAt:           formatOptional(application.RejectedAt),
		PaidAt:               formatOptional(application.PaidAt),
		CreatedAt:            formatTime(application.CreatedAt),
		UpdatedAt:            formatTime(application.UpdatedAt),
	}
}

// invoiceView is the wire representation of an invoice.
type invoiceView struct {
	ID                 string  `json:"id"`
	ApplicationID      string  `json:"application_id"`
	Amount             int64   `json:"amount"`
	DiscountAmount     int64   `json:"discount_amount"`
	Currency           string  `json:"currency"`
	ScholarshipApplied bool    `json:"scholarship_applied"`
	ScholarshipNote    string  `json:"scholarship_note,omitempty"`
	Status             string  `json:"status"`
	PaymentNumber      int     `json:"payment_number"`
	TotalPayments      int     `json:"total_payments"`
	DueDate            *string `json:"due_date,omitempty"`
	PaidAt             *string `json:"paid_at,omitempty"`
	PaidNote           string  `json:"paid_note,omitempty"`
	VoidedAt           *string `json:"voided_at,omitempty"`
	VoidedReason       string  `json:"voided_reason,omitempty"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

func newInvoiceView(invoice ledger.Invoice) invoiceView {
	return invoiceView{
		ID:                 invoice.ID,
		ApplicationID:      invoice.ApplicationID,
		Amount:             int64(invoice.Amount),
		DiscountAmount:     int64(invoice.DiscountAmount),
		Currency:           invoice.Currency,
		ScholarshipApplied: invoice.ScholarshipApplied,
		ScholarshipNote:    invoice.ScholarshipNote,
		Status:             ledger.StatusLabel(invoice.Status),
		PaymentNumber:      invoice.PaymentNumber,
		TotalPayments:      invoice.TotalPayments,
		DueDate:            formatOptional(invoice.DueDate),
		PaidAt:             formatOptional(invoice.PaidAt),
		PaidNote:           invoice.PaidNote,
		VoidedAt:           formatOptional(invoice.VoidedAt),
		VoidedReason:       invoice.VoidedReason,
		CreatedAt:          formatTime(invoice.CreatedAt),
		UpdatedAt:          formatTime(invoice.UpdatedAt),
	}
}

func newInvoiceViews(invoices []ledger.Invoice) []invoiceView {
	views := make([]invoiceView, 0, len(invoices))
	for _, invoice := range invoices {
		views = append(views, newInvoiceView(invoice))
	}
	return views
}

// voteView is the wire representation of a vote.
type voteView struct {
	ID            string `json:"id"`
	ApplicationID string `json:"application_id"`
	AdminID       string `json:"admin_id"`
	Team          string `json:"team"`
	Decision      string `json:"decision"`
	Note          string `json:"note"`
	CreatedAt     string `json:"created_at"`
}

func newVoteView(vote review.Vote) voteView {
	return voteView{
		ID:            vote.ID,
		ApplicationID: vote.ApplicationID,
		AdminID:       vote.AdminID,
		Team:          vote.Team,
		Decision:      review.DecisionLabel(vote.Decision),
		Note:          vote.Note,
		CreatedAt:     formatTime(vote.CreatedAt),
	}
}

// eventView is the wire representation of a journal entry.
type eventView struct {
	ApplicationID string          `json:"application_id"`
	Seq           uint64          `json:"seq"`
	Timestamp     string          `json:"timestamp"`
	Type          string          `json:"type"`
	ActorType     string          `json:"actor_type"`
	ActorID       string          `json:"actor_id,omitempty"`
	EntityType    string          `json:"entity_type,omitempty"`
	EntityID      string          `json:"entity_id,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

func newEventView(evt event.Event) eventView {
	return eventView{
		ApplicationID: evt.ApplicationID,
		Seq:           evt.Seq,
		Timestamp:     formatTime(evt.Timestamp),
		Type:          string(evt.Type),
		ActorType:     string(evt.ActorType),
		ActorID:       evt.ActorID,
		EntityType:    evt.EntityType,
		EntityID:      evt.EntityID,
		Payload:       json.RawMessage(evt.PayloadJSON),
	}
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

func formatOptional(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := formatTime(*value)
	return &formatted
}
