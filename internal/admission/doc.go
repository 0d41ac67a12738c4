// Package admission models the applicant lifecycle: the application
// aggregate, its status/sub-status state machine, and the pure transition
// functions that enforce which moves are legal. All functions are free of
// I/O; persistence and cross-component coupling live in internal/service.
package admission
