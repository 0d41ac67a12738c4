package review

import (
	"errors"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2027, 2, 1, 9, 30, 0, 0, time.UTC)
}

func fixedID() (string, error) {
	return "vote-fixed-id", nil
}

func TestCastVote(t *testing.T) {
	vote, err := CastVote(CastVoteInput{
		ApplicationID: "app-1",
		AdminID:       "admin-1",
		Team:          " operations ",
		Decision:      DecisionApprove,
		Note:          "strong application",
	}, fixedNow, fixedID)
	if err != nil {
		t.Fatalf("cast vote: %v", err)
	}
	if vote.ID != "vote-fixed-id" {
		t.Fatalf("id = %q, want %q", vote.ID, "vote-fixed-id")
	}
	if vote.Team != "operations" {
		t.Fatalf("team = %q, want trimmed team", vote.Team)
	}
	if !vote.CreatedAt.Equal(fixedNow()) {
		t.Fatalf("created at = %v, want %v", vote.CreatedAt, fixedNow())
	}
}

func TestCastVoteValidation(t *testing.T) {
	base := CastVoteInput{
		ApplicationID: "app-1",
		AdminID:       "admin-1",
		Team:          "operations",
		Decision:      DecisionApprove,
		Note:          "ok",
	}

	missingNote := base
	missingNote.Note = "   "
	if _, err := CastVote(missingNote, fixedNow, fixedID); !errors.Is(err, ErrEmptyNote) {
		t.Fatalf("expected ErrEmptyNote, got %v", err)
	}

	missingAdmin := base
	missingAdmin.AdminID = ""
	if _, err := CastVote(missingAdmin, fixedNow, fixedID); !errors.Is(err, ErrEmptyAdminID) {
		t.Fatalf("expected ErrEmptyAdminID, got %v", err)
	}

	missingTeam := base
	missingTeam.Team = ""
	if _, err := CastVote(missingTeam, fixedNow, fixedID); !errors.Is(err, ErrEmptyTeam) {
		t.Fatalf("expected ErrEmptyTeam, got %v", err)
	}

	badDecision := base
	badDecision.Decision = DecisionUnspecified
	if _, err := CastVote(badDecision, fixedNow, fixedID); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestCountAndQuorum(t *testing.T) {
	votes := []Vote{
		{AdminID: "a1", Team: "program", Decision: DecisionApprove},
		{AdminID: "a2", Team: "program", Decision: DecisionApprove},
		{AdminID: "a3", Team: "medical", Decision: DecisionDecline},
	}

	tally := Count(votes)
	if tally.Approvals != 2 || tally.Declines != 1 {
		t.Fatalf("tally = %d approvals, %d declines, want 2/1", tally.Approvals, tally.Declines)
	}
	if tally.ApprovingTeams != 1 {
		t.Fatalf("approving teams = %d, want 1", tally.ApprovingTeams)
	}
	if QuorumReached(tally) {
		t.Fatal("quorum should not be reached with 2 approvals")
	}

	votes = append(votes, Vote{AdminID: "a4", Team: "logistics", Decision: DecisionApprove})
	tally = Count(votes)
	if !QuorumReached(tally) {
		t.Fatal("quorum should be reached with 3 approvals")
	}
	if tally.ApprovingTeams != 2 {
		t.Fatalf("approving teams = %d, want 2", tally.ApprovingTeams)
	}
}

func TestQuorumCountsRawApprovals(t *testing.T) {
	// Three approvals from one team still reach quorum under the raw-count policy.
	votes := []Vote{
		{AdminID: "a1", Team: "program", Decision: DecisionApprove},
		{AdminID: "a2", Team: "program", Decision: DecisionApprove},
		{AdminID: "a3", Team: "program", Decision: DecisionApprove},
	}
	if !QuorumReached(Count(votes)) {
		t.Fatal("expected quorum with three approvals from a single team")
	}
}

func TestDecisionLabelRoundTrip(t *testing.T) {
	for _, decision := range []Decision{DecisionApprove, DecisionDecline} {
		if got := DecisionFromLabel(DecisionLabel(decision)); got != decision {
			t.Fatalf("decision round trip: %v -> %v", decision, got)
		}
	}
	if DecisionFromLabel("maybe") != DecisionUnspecified {
		t.Fatal("expected unknown label to map to unspecified")
	}
}
