package admission

import (
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/lakemont/admissions/internal/platform/errors"
)

// Transitions are single atomic writes of (status, sub_status, timestamp):
// each function returns the fully updated aggregate or an error, never a
// partially moved one.

// UpdateCompletion records form progress. Completion is monotonic
// non-decreasing while the application is an applicant and frozen after
// promotion. Crossing 0% moves not_started -> incomplete; reaching 100%
// moves incomplete -> completed.
func UpdateCompletion(app Application, percentage int, now func() time.Time) (Application, error) {
	if now == nil {
		now = time.Now
	}
	if percentage < 0 || percentage > 100 {
		return Application{}, apperrors.WithMetadata(
			apperrors.CodeApplicationCompletionOutOfRange,
			fmt.Sprintf("completion percentage out of range: %d", percentage),
			map[string]string{"Percentage": strconv.Itoa(percentage)},
		)
	}
	if app.Status != StatusApplicant {
		return Application{}, newStatusOpError(app, "UPDATE_COMPLETION")
	}
	if percentage < app.CompletionPercentage {
		return Application{}, apperrors.WithMetadata(
			apperrors.CodeApplicationCompletionRegression,
			fmt.Sprintf("completion percentage regression: %d -> %d", app.CompletionPercentage, percentage),
			map[string]string{"Current": strconv.Itoa(app.CompletionPercentage)},
		)
	}

	updated := app
	updated.CompletionPercentage = percentage
	if updated.SubStatus == SubStatusNotStarted && percentage > 0 {
		updated.SubStatus = SubStatusIncomplete
	}
	if updated.SubStatus == SubStatusIncomplete && percentage == 100 {
		updated.SubStatus = SubStatusCompleted
	}
	updated.UpdatedAt = now().UTC()
	return updated, nil
}

// SubmitForReview moves a completed application in front of the committee.
func SubmitForReview(app Application, now func() time.Time) (Application, error) {
	if now == nil {
		now = time.Now
	}
	if app.Status != StatusApplicant || app.SubStatus != SubStatusCompleted {
		return Application{}, newTransitionError(app, StatusApplicant, SubStatusUnderReview)
	}

	updated := app
	updated.SubStatus = SubStatusUnderReview
	ts := now().UTC()
	updated.UpdatedAt = ts
	if updated.UnderReviewAt == nil {
		updated.UnderReviewAt = &ts
	}
	return updated, nil
}

// Promote accepts the applicant: status becomes camper/incomplete and
// promoted_at is stamped once. Promoting an already promoted application is
// a conflict, not a second promotion.
func Promote(app Application, now func() time.Time) (Application, error) {
	if now == nil {
		now = time.Now
	}
	if app.Status == StatusCamper {
		return Application{}, apperrors.New(apperrors.CodeApplicationAlreadyPromoted, "application is already a camper")
	}
	if app.Status != StatusApplicant {
		return Application{}, newTransitionError(app, StatusCamper, SubStatusIncomplete)
	}
	switch app.SubStatus {
	case SubStatusCompleted, SubStatusUnderReview, SubStatusWaitlist:
	default:
		return Application{}, newTransitionError(app, StatusCamper, SubStatusIncomplete)
	}

	updated := app
	updated.Status = StatusCamper
	updated.SubStatus = SubStatusIncomplete
	ts := now().UTC()
	updated.UpdatedAt = ts
	if updated.PromotedAt == nil {
		updated.PromotedAt = &ts
	}
	return updated, nil
}

// Waitlist parks an under-review applicant on the waitlist.
func Waitlist(app Application, now func() time.Time) (Application, error) {
	if now == nil {
		now = time.Now
	}
	if app.Status != StatusApplicant || app.SubStatus != SubStatusUnderReview {
		return Application{}, newTransitionError(app, StatusApplicant, SubStatusWaitlist)
	}

	updated := app
	updated.SubStatus = SubStatusWaitlist
	updated.UpdatedAt = now().UTC()
	return updated, nil
}

// ReturnToReview moves a waitlisted applicant back in front of the committee.
func ReturnToReview(app Application, now func() time.Time) (Application, error) {
	if now == nil {
		now = time.Now
	}
	if app.Status != StatusApplicant || app.SubStatus != SubStatusWaitlist {
		return Application{}, newTransitionError(app, StatusApplicant, SubStatusUnderReview)
	}

	updated := app
	updated.SubStatus = SubStatusUnderReview
	updated.UpdatedAt = now().UTC()
	return updated, nil
}

// Defer records a terminal soft-no. It requires at least one decline vote and
// is legal from any applicant state or an unpaid camper state.
func Defer(app Application, now func() time.Time) (Application, error) {
	if now == nil {
		now = time.Now
	}
	switch app.Status {
	case StatusApplicant:
	case StatusCamper:
		if app.Paid() {
			return Application{}, newStatusOpError(app, "DEFER")
		}
	default:
		return Application{}, newTransitionError(app, StatusInactive, SubStatusDeferred)
	}
	if app.DeclineCount < 1 {
		return Application{}, apperrors.New(
			apperrors.CodeApplicationDeferRequiresDecline,
			"deferral requires at least one decline vote",
		)
	}

	updated := app
	updated.Status = StatusInactive
	updated.SubStatus = SubStatusDeferred
	ts := now().UTC()
	updated.UpdatedAt = ts
	if updated.DeferredAt == nil {
		updated.DeferredAt = &ts
	}
	return updated, nil
}

// Withdraw records a terminal post-acceptance exit for an unpaid camper.
func Withdraw(app Application, now func() time.Time) (Application, error) {
	if now == nil {
		now = time.Now
	}
	if app.Status != StatusCamper {
		return Application{}, newTransitionError(app, StatusInactive, SubStatusWithdrawn)
	}
	if app.Paid() {
		return Application{}, newStatusOpError(app, "WITHDRAW")
	}

	updated := app
	updated.Status = StatusInactive
	updated.SubStatus = SubStatusWithdrawn
	ts := now().UTC()
	updated.UpdatedAt = ts
	if updated.WithdrawnAt == nil {
		updated.WithdrawnAt = &ts
	}
	return updated, nil
}

// Reject records a terminal pre-acceptance judgment. Rejecting a camper is
// illegal; campers withdraw instead.
func Reject(app Application, now func() time.Time) (Application, error) {
	if now == nil {
		now = time.Now
	}
	if app.Status != StatusApplicant {
		return Application{}, newTransitionError(app, StatusInactive, SubStatusRejected)
	}

	updated := app
	updated.Status = StatusInactive
	updated.SubStatus = SubStatusRejected
	ts := now().UTC()
	updated.UpdatedAt = ts
	if updated.RejectedAt == nil {
		updated.RejectedAt = &ts
	}
	return updated, nil
}

// CompleteEnrollment moves a paid camper from incomplete to complete.
func CompleteEnrollment(app Application, now func() time.Time) (Application, error) {
	if now == nil {
		now = time.Now
	}
	if app.Status != StatusCamper || app.SubStatus != SubStatusIncomplete {
		return Application{}, newTransitionError(app, StatusCamper, SubStatusComplete)
	}
	if !app.Paid() {
		return Application{}, apperrors.New(
			apperrors.CodeApplicationEnrollmentUnpaid,
			"enrollment requires a settled invoice",
		)
	}

	updated := app
	updated.Status = StatusCamper
	updated.SubStatus = SubStatusComplete
	ts := now().UTC()
	updated.UpdatedAt = ts
	if updated.EnrolledAt == nil {
		updated.EnrolledAt = &ts
	}
	return updated, nil
}

// ApplyPaymentState reflects the ledger's settled flag onto the application.
// paid_at is stamped the first time the plan becomes fully settled.
func ApplyPaymentState(app Application, paid *bool, now func() time.Time) Application {
	if now == nil {
		now = time.Now
	}

	updated := app
	updated.PaidInvoice = paid
	ts := now().UTC()
	updated.UpdatedAt = ts
	if paid != nil && *paid && updated.PaidAt == nil {
		updated.PaidAt = &ts
	}
	return updated
}

// newTransitionError creates metadata for disallowed state transitions.
func newTransitionError(app Application, toStatus Status, toSub SubStatus) *apperrors.Error {
	from := StatusLabel(app.Status)
	fromSub := SubStatusLabel(app.SubStatus)
	to := StatusLabel(toStatus)
	toSubLabel := SubStatusLabel(toSub)
	return apperrors.WithMetadata(
		apperrors.CodeApplicationInvalidStatusTransition,
		fmt.Sprintf("application transition not allowed: %s/%s -> %s/%s", from, fromSub, to, toSubLabel),
		map[string]string{
			"FromStatus":    from,
			"FromSubStatus": fromSub,
			"ToStatus":      to,
			"ToSubStatus":   toSubLabel,
		},
	)
}

// newStatusOpError creates metadata for disallowed status/operation combinations.
func newStatusOpError(app Application, op string) *apperrors.Error {
	statusLabel := StatusLabel(app.Status)
	subLabel := SubStatusLabel(app.SubStatus)
	return apperrors.WithMetadata(
		apperrors.CodeApplicationStatusDisallowsOp,
		fmt.Sprintf("application status %s/%s does not allow operation %s", statusLabel, subLabel, op),
		map[string]string{"Status": statusLabel, "SubStatus": subLabel, "Operation": op},
	)
}
