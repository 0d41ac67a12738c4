package admission

import (
	"errors"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2027, 1, 15, 10, 0, 0, 0, time.UTC)
}

func fixedID() (string, error) {
	return "app-fixed-id", nil
}

func TestCreateApplication(t *testing.T) {
	app, err := CreateApplication(CreateApplicationInput{
		ApplicantName:  "  Jordan Blake  ",
		ApplicantEmail: "jordan@example.com",
		Season:         "2027",
	}, fixedNow, fixedID)
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	if app.ID != "app-fixed-id" {
		t.Fatalf("id = %q, want %q", app.ID, "app-fixed-id")
	}
	if app.ApplicantName != "Jordan Blake" {
		t.Fatalf("name = %q, want trimmed name", app.ApplicantName)
	}
	if app.Status != StatusApplicant || app.SubStatus != SubStatusNotStarted {
		t.Fatalf("new application state = %s/%s, want APPLICANT/NOT_STARTED",
			StatusLabel(app.Status), SubStatusLabel(app.SubStatus))
	}
	if app.PaidInvoice != nil {
		t.Fatal("expected unset paid invoice flag")
	}
	if !app.CreatedAt.Equal(fixedNow()) {
		t.Fatalf("created at = %v, want %v", app.CreatedAt, fixedNow())
	}
}

func TestCreateApplicationValidation(t *testing.T) {
	if _, err := CreateApplication(CreateApplicationInput{Season: "2027"}, fixedNow, fixedID); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, err := CreateApplication(CreateApplicationInput{ApplicantName: "Jordan"}, fixedNow, fixedID); !errors.Is(err, ErrEmptySeason) {
		t.Fatalf("expected ErrEmptySeason, got %v", err)
	}
}

func TestIsLegalPair(t *testing.T) {
	legal := []struct {
		status Status
		sub    SubStatus
	}{
		{StatusApplicant, SubStatusNotStarted},
		{StatusApplicant, SubStatusIncomplete},
		{StatusApplicant, SubStatusCompleted},
		{StatusApplicant, SubStatusUnderReview},
		{StatusApplicant, SubStatusWaitlist},
		{StatusCamper, SubStatusIncomplete},
		{StatusCamper, SubStatusComplete},
		{StatusInactive, SubStatusDeferred},
		{StatusInactive, SubStatusWithdrawn},
		{StatusInactive, SubStatusRejected},
	}
	for _, pair := range legal {
		if !IsLegalPair(pair.status, pair.sub) {
			t.Fatalf("expected %s/%s to be legal", StatusLabel(pair.status), SubStatusLabel(pair.sub))
		}
	}

	illegal := []struct {
		status Status
		sub    SubStatus
	}{
		{StatusApplicant, SubStatusComplete},
		{StatusApplicant, SubStatusDeferred},
		{StatusCamper, SubStatusNotStarted},
		{StatusCamper, SubStatusUnderReview},
		{StatusCamper, SubStatusRejected},
		{StatusInactive, SubStatusIncomplete},
		{StatusInactive, SubStatusWaitlist},
		{StatusUnspecified, SubStatusNotStarted},
	}
	for _, pair := range illegal {
		if IsLegalPair(pair.status, pair.sub) {
			t.Fatalf("expected %s/%s to be illegal", StatusLabel(pair.status), SubStatusLabel(pair.sub))
		}
	}
}

func TestStatusLabelRoundTrip(t *testing.T) {
	for _, status := range []Status{StatusApplicant, StatusCamper, StatusInactive} {
		if got := StatusFromLabel(StatusLabel(status)); got != status {
			t.Fatalf("status round trip: %v -> %v", status, got)
		}
	}
	for _, sub := range []SubStatus{
		SubStatusNotStarted, SubStatusIncomplete, SubStatusCompleted, SubStatusUnderReview,
		SubStatusWaitlist, SubStatusComplete, SubStatusDeferred, SubStatusWithdrawn, SubStatusRejected,
	} {
		if got := SubStatusFromLabel(SubStatusLabel(sub)); got != sub {
			t.Fatalf("sub-status round trip: %v -> %v", sub, got)
		}
	}
	if StatusFromLabel("bogus") != StatusUnspecified {
		t.Fatal("expected unknown status label to map to unspecified")
	}
	if SubStatusFromLabel("bogus") != SubStatusUnspecified {
		t.Fatal("expected unknown sub-status label to map to unspecified")
	}
}
