// Package ledger models the invoice set attached to an application: opening,
// scholarships, payment-plan splits, settlement, and compensating reissues.
// The ledger is append-only: a paid invoice is never reopened in place, it is
// voided and replaced. All functions are free of I/O.
package ledger
