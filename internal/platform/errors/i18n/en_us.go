package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeApplicationIDEmpty                 = "APPLICATION_ID_EMPTY"
	CodeApplicationNameEmpty               = "APPLICATION_NAME_EMPTY"
	CodeApplicationSeasonEmpty             = "APPLICATION_SEASON_EMPTY"
	CodeApplicationInvalidStatusTransition = "APPLICATION_INVALID_STATUS_TRANSITION"
	CodeApplicationStatusDisallowsOp       = "APPLICATION_STATUS_DISALLOWS_OPERATION"
	CodeApplicationAlreadyPromoted         = "APPLICATION_ALREADY_PROMOTED"
	CodeApplicationNotReviewable           = "APPLICATION_NOT_REVIEWABLE"
	CodeApplicationCompletionRegression    = "APPLICATION_COMPLETION_REGRESSION"
	CodeApplicationCompletionOutOfRange    = "APPLICATION_COMPLETION_OUT_OF_RANGE"
	CodeApplicationDeferRequiresDecline    = "APPLICATION_DEFER_REQUIRES_DECLINE"
	CodeApplicationEnrollmentUnpaid        = "APPLICATION_ENROLLMENT_UNPAID"
	CodeConsensusNotMet                    = "CONSENSUS_NOT_MET"
	CodeVoteDuplicate                      = "VOTE_DUPLICATE"
	CodeVoteNoteEmpty                      = "VOTE_NOTE_EMPTY"
	CodeVoteAdminEmpty                     = "VOTE_ADMIN_EMPTY"
	CodeVoteTeamEmpty                      = "VOTE_TEAM_EMPTY"
	CodeVoteInvalidChoice                  = "VOTE_INVALID_CHOICE"
	CodeInvoiceAmountInvalid               = "INVOICE_AMOUNT_INVALID"
	CodeInvoiceDiscountInvalid             = "INVOICE_DISCOUNT_INVALID"
	CodeInvoiceNoteEmpty                   = "INVOICE_NOTE_EMPTY"
	CodeInvoiceReasonEmpty                 = "INVOICE_REASON_EMPTY"
	CodeInvoiceOpenExists                  = "INVOICE_OPEN_EXISTS"
	CodeInvoiceNoOpenInvoice               = "INVOICE_NO_OPEN_INVOICE"
	CodeInvoiceStatusDisallowsOp           = "INVOICE_STATUS_DISALLOWS_OPERATION"
	CodeInvoicePlanSumMismatch             = "INVOICE_PLAN_SUM_MISMATCH"
	CodeInvoicePlanTooSmall                = "INVOICE_PLAN_TOO_SMALL"
	CodeInvoicePlanTooLarge                = "INVOICE_PLAN_TOO_LARGE"
	CodeInvoicePlanDueDateOrder            = "INVOICE_PLAN_DUE_DATE_ORDER"
	CodeInvoiceCurrencyMismatch            = "INVOICE_CURRENCY_MISMATCH"
	CodeInvalidRequest                     = "INVALID_REQUEST"
	CodeStaffGrantInvalid                  = "STAFF_GRANT_INVALID"
	CodeStaffRoleDisallowed                = "STAFF_ROLE_DISALLOWED"
	CodeWebhookSignature                   = "WEBHOOK_SIGNATURE_INVALID"
	CodeNotFound                           = "NOT_FOUND"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Application errors
		CodeApplicationIDEmpty:                 "Application id is required",
		CodeApplicationNameEmpty:               "Applicant name cannot be empty",
		CodeApplicationSeasonEmpty:             "Season is required",
		CodeApplicationInvalidStatusTransition: "Cannot move application from {{.FromStatus}}/{{.FromSubStatus}} to {{.ToStatus}}/{{.ToSubStatus}}",
		CodeApplicationStatusDisallowsOp:       "Application status {{.Status}}/{{.SubStatus}} does not allow {{.Operation}}",
		CodeApplicationAlreadyPromoted:         "Application has already been promoted",
		CodeApplicationNotReviewable:           "Application is no longer under review",
		CodeApplicationCompletionRegression:    "Completion percentage cannot decrease (current {{.Current}}%)",
		CodeApplicationCompletionOutOfRange:    "Completion percentage must be between 0 and 100",
		CodeApplicationDeferRequiresDecline:    "Deferral requires at least one decline vote",
		CodeApplicationEnrollmentUnpaid:        "Enrollment cannot complete until the invoice is paid",

		// Consensus errors
		CodeConsensusNotMet:   "Not enough approvals to promote ({{.Approvals}} of {{.Required}})",
		CodeVoteDuplicate:     "This reviewer has already voted on the application",
		CodeVoteNoteEmpty:     "A note explaining the decision is required",
		CodeVoteAdminEmpty:    "Reviewer id is required",
		CodeVoteTeamEmpty:     "Reviewer team is required",
		CodeVoteInvalidChoice: "Vote decision must be approve or decline",

		// Ledger errors
		CodeInvoiceAmountInvalid:     "Invoice amount must be positive",
		CodeInvoiceDiscountInvalid:   "Discount amount must be positive",
		CodeInvoiceNoteEmpty:         "A note is required",
		CodeInvoiceReasonEmpty:       "A reason is required",
		CodeInvoiceOpenExists:        "An open invoice already exists for this application",
		CodeInvoiceNoOpenInvoice:     "No open invoice exists for this application",
		CodeInvoiceStatusDisallowsOp: "Invoice status {{.Status}} does not allow {{.Operation}}",
		CodeInvoicePlanSumMismatch:   "Installments must sum to {{.Expected}} (got {{.Actual}})",
		CodeInvoicePlanTooSmall:      "A payment plan needs at least two installments",
		CodeInvoicePlanTooLarge:      "A payment plan allows at most {{.Max}} installments",
		CodeInvoicePlanDueDateOrder:  "Installment due dates must not decrease",
		CodeInvoiceCurrencyMismatch:  "Installment currency must match the invoice",

		// Boundary errors
		CodeInvalidRequest:      "The request body could not be parsed",
		CodeStaffGrantInvalid:   "Staff credentials could not be verified",
		CodeStaffRoleDisallowed: "This action requires a director",
		CodeWebhookSignature:    "Webhook signature could not be verified",

		// Storage errors
		CodeNotFound: "The requested record was not found",
	},
}
