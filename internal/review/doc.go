// Package review models committee votes on applications and the quorum
// predicate that gates promotion. Votes are append-only: one per reviewer
// per application, never edited or retracted.
package review
