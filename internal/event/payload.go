package event

// ApplicationCreatedPayload captures the payload for application.created events.
type ApplicationCreatedPayload struct {
	ApplicantName  string `json:"applicant_name"`
	ApplicantEmail string `json:"applicant_email"`
	Season         string `json:"season"`
}

// ApplicationStatusChangedPayload captures the payload for
// application.status_changed events.
type ApplicationStatusChangedPayload struct {
	FromStatus    string `json:"from_status"`
	FromSubStatus string `json:"from_sub_status"`
	ToStatus      string `json:"to_status"`
	ToSubStatus   string `json:"to_sub_status"`
	Operation     string `json:"operation"`
	Reason        string `json:"reason,omitempty"`
}

// ApplicationPromotedPayload captures the payload for application.promoted events.
type ApplicationPromotedPayload struct {
	Approvals int    `json:"approvals"`
	Declines  int    `json:"declines"`
	InvoiceID string `json:"invoice_id,omitempty"`
	// DirectorOverride is set when the promotion bypassed quorum.
	DirectorOverride bool `json:"director_override,omitempty"`
}

// ApplicationEnrolledPayload captures the payload for application.enrolled events.
type ApplicationEnrolledPayload struct {
	Season string `json:"season"`
}

// VoteCastPayload captures the payload for vote.cast events.
type VoteCastPayload struct {
	VoteID    string `json:"vote_id"`
	AdminID   string `json:"admin_id"`
	Team      string `json:"team"`
	Decision  string `json:"decision"`
	Approvals int    `json:"approvals"`
	Declines  int    `json:"declines"`
}

// InvoiceOpenedPayload captures the payload for invoice.opened events.
type InvoiceOpenedPayload struct {
	InvoiceID     string `json:"invoice_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	PaymentNumber int    `json:"payment_number"`
	TotalPayments int    `json:"total_payments"`
	DueDate       string `json:"due_date,omitempty"`
}

// InvoiceScholarshipAppliedPayload captures the payload for
// invoice.scholarship_applied events.
type InvoiceScholarshipAppliedPayload struct {
	InvoiceID      string `json:"invoice_id"`
	DiscountAmount int64  `json:"discount_amount"`
	AmountBefore   int64  `json:"amount_before"`
	AmountAfter    int64  `json:"amount_after"`
	Note           string `json:"note"`
}

// InvoiceSplitPayload captures the payload for invoice.split events.
type InvoiceSplitPayload struct {
	VoidedInvoiceID string   `json:"voided_invoice_id"`
	PlanInvoiceIDs  []string `json:"plan_invoice_ids"`
	Installments    int      `json:"installments"`
}

// InvoicePaidPayload captures the payload for invoice.paid events.
type InvoicePaidPayload struct {
	InvoiceID string `json:"invoice_id"`
	Amount    int64  `json:"amount"`
	Note      string `json:"note,omitempty"`
}

// InvoiceReissuedPayload captures the payload for invoice.reissued events.
type InvoiceReissuedPayload struct {
	VoidedInvoiceID string `json:"voided_invoice_id"`
	NewInvoiceID    string `json:"new_invoice_id"`
	Amount          int64  `json:"amount"`
	Reason          string `json:"reason"`
}

// InvoiceVoidedPayload captures the payload for invoice.voided events.
type InvoiceVoidedPayload struct {
	InvoiceID string `json:"invoice_id"`
	Reason    string `json:"reason"`
}
