package admission

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/lakemont/admissions/internal/platform/errors"
	"github.com/lakemont/admissions/internal/platform/id"
)

// Status describes the coarse lifecycle phase of an application.
type Status int

const (
	// StatusUnspecified represents an invalid status value.
	StatusUnspecified Status = iota
	// StatusApplicant indicates the application is still being reviewed.
	StatusApplicant
	// StatusCamper indicates the applicant has been accepted.
	StatusCamper
	// StatusInactive indicates a terminal, inactive application.
	StatusInactive
)

// SubStatus describes the fine-grained phase within a status.
type SubStatus int

const (
	// SubStatusUnspecified represents an invalid sub-status value.
	SubStatusUnspecified SubStatus = iota
	// SubStatusNotStarted indicates no application content has been entered.
	SubStatusNotStarted
	// SubStatusIncomplete indicates forms are partially filled (applicant) or
	// enrollment requirements are outstanding (camper).
	SubStatusIncomplete
	// SubStatusCompleted indicates all applicant forms are filled.
	SubStatusCompleted
	// SubStatusUnderReview indicates the committee is reviewing.
	SubStatusUnderReview
	// SubStatusWaitlist indicates the applicant is parked on the waitlist.
	SubStatusWaitlist
	// SubStatusComplete indicates camper enrollment is fully settled.
	SubStatusComplete
	// SubStatusDeferred indicates a terminal soft-no deferral.
	SubStatusDeferred
	// SubStatusWithdrawn indicates a terminal post-acceptance withdrawal.
	SubStatusWithdrawn
	// SubStatusRejected indicates a terminal pre-acceptance rejection.
	SubStatusRejected
)

var (
	// ErrEmptyID indicates a missing application ID.
	ErrEmptyID = apperrors.New(apperrors.CodeApplicationIDEmpty, "application id is required")
	// ErrEmptyName indicates a missing applicant name.
	ErrEmptyName = apperrors.New(apperrors.CodeApplicationNameEmpty, "applicant name is required")
	// ErrEmptySeason indicates a missing season.
	ErrEmptySeason = apperrors.New(apperrors.CodeApplicationSeasonEmpty, "season is required")
)

// Application is the aggregate root for one applicant's admission record.
type Application struct {
	ID             string
	ApplicantName  string
	ApplicantEmail string
	// Season identifies the admission cycle, e.g. "2027".
	Season    string
	Status    Status
	SubStatus SubStatus
	// CompletionPercentage is monotonic non-decreasing while applicant,
	// frozen once promoted.
	CompletionPercentage int
	// ApprovalCount and DeclineCount are derived from the vote set and
	// recomputed in the same transaction as every vote write.
	ApprovalCount int
	DeclineCount  int
	// PaidInvoice is nil until an invoice exists, then tracks whether the
	// current payment plan is fully settled.
	PaidInvoice *bool

	UnderReviewAt *time.Time
	PromotedAt    *time.Time
	EnrolledAt    *time.Time
	DeferredAt    *time.Time
	WithdrawnAt   *time.Time
	RejectedAt    *time.Time
	PaidAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateApplicationInput describes the metadata needed to open an application.
type CreateApplicationInput struct {
	ApplicantName  string
	ApplicantEmail string
	Season         string
}

// CreateApplication creates a new application in applicant/not_started with a
// generated ID and timestamps.
func CreateApplication(input CreateApplicationInput, now func() time.Time, idGenerator func() (string, error)) (Application, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateApplicationInput(input)
	if err != nil {
		return Application{}, err
	}

	applicationID, err := idGenerator()
	if err != nil {
		return Application{}, fmt.Errorf("generate application id: %w", err)
	}

	createdAt := now().UTC()
	return Application{
		ID:             applicationID,
		ApplicantName:  normalized.ApplicantName,
		ApplicantEmail: normalized.ApplicantEmail,
		Season:         normalized.Season,
		Status:         StatusApplicant,
		SubStatus:      SubStatusNotStarted,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}, nil
}

// NormalizeCreateApplicationInput trims and validates application metadata.
func NormalizeCreateApplicationInput(input CreateApplicationInput) (CreateApplicationInput, error) {
	input.ApplicantName = strings.TrimSpace(input.ApplicantName)
	if input.ApplicantName == "" {
		return CreateApplicationInput{}, ErrEmptyName
	}
	input.Season = strings.TrimSpace(input.Season)
	if input.Season == "" {
		return CreateApplicationInput{}, ErrEmptySeason
	}
	input.ApplicantEmail = strings.TrimSpace(input.ApplicantEmail)
	return input, nil
}

// IsLegalPair reports whether a (status, sub_status) pair is one of the
// enumerated legal combinations. No other pair is ever persisted.
func IsLegalPair(status Status, sub SubStatus) bool {
	switch status {
	case StatusApplicant:
		switch sub {
		case SubStatusNotStarted, SubStatusIncomplete, SubStatusCompleted, SubStatusUnderReview, SubStatusWaitlist:
			return true
		}
	case StatusCamper:
		switch sub {
		case SubStatusIncomplete, SubStatusComplete:
			return true
		}
	case StatusInactive:
		switch sub {
		case SubStatusDeferred, SubStatusWithdrawn, SubStatusRejected:
			return true
		}
	}
	return false
}

// Reviewable reports whether the application still accepts committee votes.
func (a Application) Reviewable() bool {
	return a.Status == StatusApplicant
}

// Terminal reports whether the application is in a terminal inactive state.
func (a Application) Terminal() bool {
	return a.Status == StatusInactive
}

// Paid reports whether the current payment plan is fully settled.
func (a Application) Paid() bool {
	return a.PaidInvoice != nil && *a.PaidInvoice
}

// StatusLabel returns the string label for an application status.
func StatusLabel(status Status) string {
	switch status {
	case StatusApplicant:
		return "APPLICANT"
	case StatusCamper:
		return "CAMPER"
	case StatusInactive:
		return "INACTIVE"
	default:
		return "UNSPECIFIED"
	}
}

// StatusFromLabel converts a status label to a Status value.
func StatusFromLabel(label string) Status {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "APPLICANT":
		return StatusApplicant
	case "CAMPER":
		return StatusCamper
	case "INACTIVE":
		return StatusInactive
	default:
		return StatusUnspecified
	}
}

// SubStatusLabel returns the string label for an application sub-status.
func SubStatusLabel(sub SubStatus) string {
	switch sub {
	case SubStatusNotStarted:
		return "NOT_STARTED"
	case SubStatusIncomplete:
		return "INCOMPLETE"
	case SubStatusCompleted:
		return "COMPLETED"
	case SubStatusUnderReview:
		return "UNDER_REVIEW"
	case SubStatusWaitlist:
		return "WAITLIST"
	case SubStatusComplete:
		return "COMPLETE"
	case SubStatusDeferred:
		return "DEFERRED"
	case SubStatusWithdrawn:
		return "WITHDRAWN"
	case SubStatusRejected:
		return "REJECTED"
	default:
		return "UNSPECIFIED"
	}
}

// SubStatusFromLabel converts a sub-status label to a SubStatus value.
func SubStatusFromLabel(label string) SubStatus {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "NOT_STARTED":
		return SubStatusNotStarted
	case "INCOMPLETE":
		return SubStatusIncomplete
	case "COMPLETED":
		return SubStatusCompleted
	case "UNDER_REVIEW":
		return SubStatusUnderReview
	case "WAITLIST":
		return SubStatusWaitlist
	case "COMPLETE":
		return SubStatusComplete
	case "DEFERRED":
		return SubStatusDeferred
	case "WITHDRAWN":
		return SubStatusWithdrawn
	case "REJECTED":
		return SubStatusRejected
	default:
		return SubStatusUnspecified
	}
}
