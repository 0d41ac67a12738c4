// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Application errors
	CodeApplicationIDEmpty                 Code = "APPLICATION_ID_EMPTY"
	CodeApplicationNameEmpty               Code = "APPLICATION_NAME_EMPTY"
	CodeApplicationSeasonEmpty             Code = "APPLICATION_SEASON_EMPTY"
	CodeApplicationInvalidStatusTransition Code = "APPLICATION_INVALID_STATUS_TRANSITION"
	CodeApplicationStatusDisallowsOp       Code = "APPLICATION_STATUS_DISALLOWS_OPERATION"
	CodeApplicationAlreadyPromoted         Code = "APPLICATION_ALREADY_PROMOTED"
	CodeApplicationNotReviewable           Code = "APPLICATION_NOT_REVIEWABLE"
	CodeApplicationCompletionRegression    Code = "APPLICATION_COMPLETION_REGRESSION"
	CodeApplicationCompletionOutOfRange    Code = "APPLICATION_COMPLETION_OUT_OF_RANGE"
	CodeApplicationDeferRequiresDecline    Code = "APPLICATION_DEFER_REQUIRES_DECLINE"
	CodeApplicationEnrollmentUnpaid        Code = "APPLICATION_ENROLLMENT_UNPAID"

	// Consensus errors
	CodeConsensusNotMet   Code = "CONSENSUS_NOT_MET"
	CodeVoteDuplicate     Code = "VOTE_DUPLICATE"
	CodeVoteNoteEmpty     Code = "VOTE_NOTE_EMPTY"
	CodeVoteAdminEmpty    Code = "VOTE_ADMIN_EMPTY"
	CodeVoteTeamEmpty     Code = "VOTE_TEAM_EMPTY"
	CodeVoteInvalidChoice Code = "VOTE_INVALID_CHOICE"

	// Ledger errors
	CodeInvoiceAmountInvalid     Code = "INVOICE_AMOUNT_INVALID"
	CodeInvoiceDiscountInvalid   Code = "INVOICE_DISCOUNT_INVALID"
	CodeInvoiceNoteEmpty         Code = "INVOICE_NOTE_EMPTY"
	CodeInvoiceReasonEmpty       Code = "INVOICE_REASON_EMPTY"
	CodeInvoiceOpenExists        Code = "INVOICE_OPEN_EXISTS"
	CodeInvoiceNoOpenInvoice     Code = "INVOICE_NO_OPEN_INVOICE"
	CodeInvoiceStatusDisallowsOp Code = "INVOICE_STATUS_DISALLOWS_OPERATION"
	CodeInvoicePlanSumMismatch   Code = "INVOICE_PLAN_SUM_MISMATCH"
	CodeInvoicePlanTooSmall      Code = "INVOICE_PLAN_TOO_SMALL"
	CodeInvoicePlanTooLarge      Code = "INVOICE_PLAN_TOO_LARGE"
	CodeInvoicePlanDueDateOrder  Code = "INVOICE_PLAN_DUE_DATE_ORDER"
	CodeInvoiceCurrencyMismatch  Code = "INVOICE_CURRENCY_MISMATCH"

	// Boundary errors
	CodeInvalidRequest      Code = "INVALID_REQUEST"
	CodeStaffGrantInvalid   Code = "STAFF_GRANT_INVALID"
	CodeStaffRoleDisallowed Code = "STAFF_ROLE_DISALLOWED"
	CodeWebhookSignature    Code = "WEBHOOK_SIGNATURE_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// HTTPStatus maps domain codes to HTTP status codes for the JSON boundary.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeApplicationIDEmpty,
		CodeApplicationNameEmpty,
		CodeApplicationSeasonEmpty,
		CodeApplicationCompletionOutOfRange,
		CodeVoteNoteEmpty,
		CodeVoteAdminEmpty,
		CodeVoteTeamEmpty,
		CodeVoteInvalidChoice,
		CodeInvoiceAmountInvalid,
		CodeInvoiceDiscountInvalid,
		CodeInvoiceNoteEmpty,
		CodeInvoiceReasonEmpty,
		CodeInvoicePlanTooSmall,
		CodeInvoicePlanTooLarge,
		CodeInvoicePlanDueDateOrder,
		CodeInvalidRequest:
		return http.StatusBadRequest

	// Conflict - current state doesn't allow the operation
	case CodeApplicationInvalidStatusTransition,
		CodeApplicationStatusDisallowsOp,
		CodeApplicationAlreadyPromoted,
		CodeApplicationNotReviewable,
		CodeApplicationCompletionRegression,
		CodeApplicationDeferRequiresDecline,
		CodeApplicationEnrollmentUnpaid,
		CodeVoteDuplicate,
		CodeInvoiceOpenExists,
		CodeInvoiceNoOpenInvoice,
		CodeInvoiceStatusDisallowsOp,
		CodeInvoicePlanSumMismatch,
		CodeInvoiceCurrencyMismatch:
		return http.StatusConflict

	// Forbidden - caller lacks the privilege for the operation
	case CodeConsensusNotMet,
		CodeStaffRoleDisallowed:
		return http.StatusForbidden

	// Unauthorized - caller identity could not be established
	case CodeStaffGrantInvalid,
		CodeWebhookSignature:
		return http.StatusUnauthorized

	// Not found - resource doesn't exist
	case CodeNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
