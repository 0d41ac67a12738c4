// Package api contains the admissions API boundary.
//
// The http subpackage exposes the admission pipeline as a JSON HTTP API:
// applicant-facing endpoints for creating and progressing applications,
// staff endpoints gated by signed staff grants for review and ledger
// operations, and a signature-verified webhook for payment processor
// callbacks. Transport concerns live here; the admission rules live in the
// service and domain packages.
package api
