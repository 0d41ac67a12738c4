package admission

import (
	"testing"
	"time"

	apperrors "github.com/lakemont/admissions/internal/platform/errors"
)

func applicantAt(sub SubStatus) Application {
	return Application{
		ID:        "app-1",
		Status:    StatusApplicant,
		SubStatus: sub,
		CreatedAt: fixedNow().Add(-time.Hour),
		UpdatedAt: fixedNow().Add(-time.Hour),
	}
}

func TestUpdateCompletionProgression(t *testing.T) {
	app := applicantAt(SubStatusNotStarted)

	app, err := UpdateCompletion(app, 40, fixedNow)
	if err != nil {
		t.Fatalf("update completion: %v", err)
	}
	if app.SubStatus != SubStatusIncomplete {
		t.Fatalf("sub-status = %s, want INCOMPLETE", SubStatusLabel(app.SubStatus))
	}

	app, err = UpdateCompletion(app, 100, fixedNow)
	if err != nil {
		t.Fatalf("update completion to 100: %v", err)
	}
	if app.SubStatus != SubStatusCompleted {
		t.Fatalf("sub-status = %s, want COMPLETED", SubStatusLabel(app.SubStatus))
	}
}

func TestUpdateCompletionGuards(t *testing.T) {
	app := applicantAt(SubStatusIncomplete)
	app.CompletionPercentage = 60

	if _, err := UpdateCompletion(app, 50, fixedNow); !apperrors.IsCode(err, apperrors.CodeApplicationCompletionRegression) {
		t.Fatalf("expected completion regression error, got %v", err)
	}
	if _, err := UpdateCompletion(app, 120, fixedNow); !apperrors.IsCode(err, apperrors.CodeApplicationCompletionOutOfRange) {
		t.Fatalf("expected out of range error, got %v", err)
	}

	camper := Application{Status: StatusCamper, SubStatus: SubStatusIncomplete, CompletionPercentage: 100}
	if _, err := UpdateCompletion(camper, 100, fixedNow); !apperrors.IsCode(err, apperrors.CodeApplicationStatusDisallowsOp) {
		t.Fatalf("expected frozen completion after promotion, got %v", err)
	}
}

func TestSubmitForReview(t *testing.T) {
	app := applicantAt(SubStatusCompleted)
	app, err := SubmitForReview(app, fixedNow)
	if err != nil {
		t.Fatalf("submit for review: %v", err)
	}
	if app.SubStatus != SubStatusUnderReview {
		t.Fatalf("sub-status = %s, want UNDER_REVIEW", SubStatusLabel(app.SubStatus))
	}
	if app.UnderReviewAt == nil || !app.UnderReviewAt.Equal(fixedNow()) {
		t.Fatalf("under_review_at = %v, want %v", app.UnderReviewAt, fixedNow())
	}

	if _, err := SubmitForReview(applicantAt(SubStatusIncomplete), fixedNow); !apperrors.IsCode(err, apperrors.CodeApplicationInvalidStatusTransition) {
		t.Fatalf("expected invalid transition for incomplete application, got %v", err)
	}
}

func TestPromote(t *testing.T) {
	for _, sub := range []SubStatus{SubStatusCompleted, SubStatusUnderReview, SubStatusWaitlist} {
		app, err := Promote(applicantAt(sub), fixedNow)
		if err != nil {
			t.Fatalf("promote from %s: %v", SubStatusLabel(sub), err)
		}
		if app.Status != StatusCamper || app.SubStatus != SubStatusIncomplete {
			t.Fatalf("promoted state = %s/%s, want CAMPER/INCOMPLETE",
				StatusLabel(app.Status), SubStatusLabel(app.SubStatus))
		}
		if app.PromotedAt == nil {
			t.Fatal("expected promoted_at stamp")
		}
	}
}

func TestPromoteGuards(t *testing.T) {
	camper := Application{Status: StatusCamper, SubStatus: SubStatusIncomplete}
	if _, err := Promote(camper, fixedNow); !apperrors.IsCode(err, apperrors.CodeApplicationAlreadyPromoted) {
		t.Fatalf("expected already promoted conflict, got %v", err)
	}

	if _, err := Promote(applicantAt(SubStatusNotStarted), fixedNow); !apperrors.IsCode(err, apperrors.CodeApplicationInvalidStatusTransition) {
		t.Fatalf("expected invalid transition from NOT_STARTED, got %v", err)
	}

	inactive := Application{Status: StatusInactive, SubStatus: SubStatusRejected}
	if _, err := Promote(inactive, fixedNow); !apperrors.IsCode(err, apperrors.CodeApplicationInvalidStatusTransition) {
		t.Fatalf("expected terminal state to stay terminal, got %v", err)
	}
}

func TestWaitlistRoundTrip(t *testing.T) {
	app, err := Waitlist(applicantAt(SubStatusUnderReview), fixedNow)
	if err != nil {
		t.Fatalf("waitlist: %v", err)
	}
	if app.SubStatus != SubStatusWaitlist {
		t.Fatalf("sub-status = %s, want WAITLIST", SubStatusLabel(app.SubStatus))
	}

	app, err = ReturnToReview(app, fixedNow)
	if err != nil {
		t.Fatalf("return to review: %v", err)
	}
	if app.SubStatus != SubStatusUnderReview {
		t.Fatalf("sub-status = %s, want UNDER_REVIEW", SubStatusLabel(app.SubStatus))
	}

	if _, err := Waitlist(applicantAt(SubStatusCompleted), fixedNow); !apperrors.IsCode(err, apperrors.CodeApplicationInvalidStatusTransition) {
		t.Fatalf("expected waitlist to require UNDER_REVIEW, got %v", err)
	}
	if _, err := ReturnToReview(applicantAt(SubStatusUnderReview), fixedNow); !apperrors.IsCode(err, apperrors.CodeApplicationInvalidStatusTransition) {
		t.Fatalf("expected return to review to require WAITLIST, got %v", err)
	}
}

func TestDefer(t *testing.T) {
	app := applicantAt(SubStatusUnderReview)
	app.DeclineCount = 1

	deferred, err := Defer(app, fixedNow)
	if err != nil {
		t.Fatalf("defer: %v", err)
	}
	if deferred.Status != StatusInactive || deferred.SubStatus != SubStatusDeferred {
		t.Fatalf("deferred state = %s/%s, want INACTIVE/DEFERRED",
			StatusLabel(deferred.Status), SubStatusLabel(deferred.SubStatus))
	}
	if deferred.DeferredAt == nil {
		t.Fatal("expected deferred_at stamp")
	}

	noDecline := applicantAt(SubStatusUnderReview)
	if _, err := Defer(noDecline, fixedNow); !apperrors.IsCode(err, apperrors.CodeApplicationDeferRequiresDecline) {
		t.Fatalf("expected decline requirement, got %v", err)
	}

	paid := true
	paidCamper := Application{Status: StatusCamper, SubStatus: SubStatusIncomplete, DeclineCount: 1, PaidInvoice: &paid}
	if _, err := Defer(paidCamper, fixedNow); !apperrors.IsCode(err, apperrors.CodeApplicationStatusDisallowsOp) {
		t.Fatalf("expected paid camper to be undeferrable, got %v", err)
	}

	terminal := Application{Status: StatusInactive, SubStatus: SubStatusWithdrawn, DeclineCount: 1}
	if _, err := Defer(terminal, fixedNow); !apperrors.IsCode(err, apperrors.CodeApplicationInvalidStatusTransition) {
		t.Fatalf("expected terminal state to stay terminal, got %v", err)
	}
}

func TestWithdraw(t *testing.T) {
	unpaid := false
	camper := Application{Status: StatusCamper, SubStatus: SubStatusIncomplete, PaidInvoice: &unpaid}
	withdrawn, err := Withdraw(camper, fixedNow)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if withdrawn.Status != StatusInactive || withdrawn.SubStatus != SubStatusWithdrawn {
		t.Fatalf("withdrawn state = %s/%s, want INACTIVE/WITHDRAWN",
			StatusLabel(withdrawn.Status), SubStatusLabel(withdrawn.SubStatus))
	}

	if _, err := Withdraw(applicantAt(SubStatusUnderReview), fixedNow); !apperrors.IsCode(err, apperrors.CodeApplicationInvalidStatusTransition) {
		t.Fatalf("expected applicant withdraw to be illegal, got %v", err)
	}

	paid := true
	paidCamper := Application{Status: StatusCamper, SubStatus: SubStatusIncomplete, PaidInvoice: &paid}
	if _, err := Withdraw(paidCamper, fixedNow); !apperrors.IsCode(err, apperrors.CodeApplicationStatusDisallowsOp) {
		t.Fatalf("expected paid camper withdraw to be blocked, got %v", err)
	}
}

func TestReject(t *testing.T) {
	rejected, err := Reject(applicantAt(SubStatusUnderReview), fixedNow)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != StatusInactive || rejected.SubStatus != SubStatusRejected {
		t.Fatalf("rejected state = %s/%s, want INACTIVE/REJECTED",
			StatusLabel(rejected.Status), SubStatusLabel(rejected.SubStatus))
	}

	// Rejection is a pre-acceptance judgment; campers withdraw instead.
	camper := Application{Status: StatusCamper, SubStatus: SubStatusIncomplete}
	if _, err := Reject(camper, fixedNow); !apperrors.IsCode(err, apperrors.CodeApplicationInvalidStatusTransition) {
		t.Fatalf("expected camper reject to be illegal, got %v", err)
	}
}

func TestCompleteEnrollment(t *testing.T) {
	paid := true
	camper := Application{Status: StatusCamper, SubStatus: SubStatusIncomplete, PaidInvoice: &paid}
	enrolled, err := CompleteEnrollment(camper, fixedNow)
	if err != nil {
		t.Fatalf("complete enrollment: %v", err)
	}
	if enrolled.SubStatus != SubStatusComplete {
		t.Fatalf("sub-status = %s, want COMPLETE", SubStatusLabel(enrolled.SubStatus))
	}
	if enrolled.EnrolledAt == nil {
		t.Fatal("expected enrolled_at stamp")
	}

	unpaid := false
	unpaidCamper := Application{Status: StatusCamper, SubStatus: SubStatusIncomplete, PaidInvoice: &unpaid}
	if _, err := CompleteEnrollment(unpaidCamper, fixedNow); !apperrors.IsCode(err, apperrors.CodeApplicationEnrollmentUnpaid) {
		t.Fatalf("expected unpaid enrollment block, got %v", err)
	}
}

func TestApplyPaymentStateStampsPaidAtOnce(t *testing.T) {
	paid := true
	app := Application{Status: StatusCamper, SubStatus: SubStatusIncomplete}

	app = ApplyPaymentState(app, &paid, fixedNow)
	if app.PaidAt == nil || !app.PaidAt.Equal(fixedNow()) {
		t.Fatalf("paid_at = %v, want %v", app.PaidAt, fixedNow())
	}

	later := func() time.Time { return fixedNow().Add(time.Hour) }
	unpaid := false
	app = ApplyPaymentState(app, &unpaid, later)
	app = ApplyPaymentState(app, &paid, later)
	if !app.PaidAt.Equal(fixedNow()) {
		t.Fatalf("paid_at restamped to %v, want original %v", app.PaidAt, fixedNow())
	}
}

func TestTransitionsProduceLegalPairs(t *testing.T) {
	// Every successful transition must land on an enumerated legal pair.
	unpaid := false
	cases := []struct {
		name string
		run  func() (Application, error)
	}{
		{"submit", func() (Application, error) { return SubmitForReview(applicantAt(SubStatusCompleted), fixedNow) }},
		{"promote", func() (Application, error) { return Promote(applicantAt(SubStatusUnderReview), fixedNow) }},
		{"waitlist", func() (Application, error) { return Waitlist(applicantAt(SubStatusUnderReview), fixedNow) }},
		{"defer", func() (Application, error) {
			app := applicantAt(SubStatusUnderReview)
			app.DeclineCount = 2
			return Defer(app, fixedNow)
		}},
		{"withdraw", func() (Application, error) {
			return Withdraw(Application{Status: StatusCamper, SubStatus: SubStatusIncomplete, PaidInvoice: &unpaid}, fixedNow)
		}},
		{"reject", func() (Application, error) { return Reject(applicantAt(SubStatusNotStarted), fixedNow) }},
	}
	for _, tc := range cases {
		app, err := tc.run()
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if !IsLegalPair(app.Status, app.SubStatus) {
			t.Fatalf("%s produced illegal pair %s/%s", tc.name, StatusLabel(app.Status), SubStatusLabel(app.SubStatus))
		}
	}
}
