package review

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/lakemont/admissions/internal/platform/errors"
	"github.com/lakemont/admissions/internal/platform/id"
)

// Quorum is the number of approval votes required before promotion is
// permitted for non-privileged callers.
//
// Policy note: quorum counts raw approvals from distinct reviewers. The
// per-team spread is surfaced on Tally so a distinct-team policy would be a
// one-line predicate change.
const Quorum = 3

// Decision is a reviewer's verdict on an application.
type Decision int

const (
	// DecisionUnspecified represents an invalid decision value.
	DecisionUnspecified Decision = iota
	// DecisionApprove counts toward quorum.
	DecisionApprove
	// DecisionDecline opens the deferral path.
	DecisionDecline
)

var (
	// ErrEmptyAdminID indicates a missing reviewer ID.
	ErrEmptyAdminID = apperrors.New(apperrors.CodeVoteAdminEmpty, "reviewer id is required")
	// ErrEmptyTeam indicates a missing reviewer team.
	ErrEmptyTeam = apperrors.New(apperrors.CodeVoteTeamEmpty, "reviewer team is required")
	// ErrEmptyNote indicates a missing decision note.
	ErrEmptyNote = apperrors.New(apperrors.CodeVoteNoteEmpty, "a note explaining the decision is required")
	// ErrInvalidDecision indicates a missing or invalid decision.
	ErrInvalidDecision = apperrors.New(apperrors.CodeVoteInvalidChoice, "decision must be approve or decline")
)

// Vote is one reviewer's permanent decision on one application.
// Team is captured at vote time so later reassignment does not rewrite history.
type Vote struct {
	ID            string
	ApplicationID string
	AdminID       string
	Team          string
	Decision      Decision
	Note          string
	CreatedAt     time.Time
}

// CastVoteInput describes the data needed to record a vote.
type CastVoteInput struct {
	ApplicationID string
	AdminID       string
	Team          string
	Decision      Decision
	Note          string
}

// CastVote creates a vote record with a generated ID and timestamp.
func CastVote(input CastVoteInput, now func() time.Time, idGenerator func() (string, error)) (Vote, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCastVoteInput(input)
	if err != nil {
		return Vote{}, err
	}

	voteID, err := idGenerator()
	if err != nil {
		return Vote{}, fmt.Errorf("generate vote id: %w", err)
	}

	return Vote{
		ID:            voteID,
		ApplicationID: normalized.ApplicationID,
		AdminID:       normalized.AdminID,
		Team:          normalized.Team,
		Decision:      normalized.Decision,
		Note:          normalized.Note,
		CreatedAt:     now().UTC(),
	}, nil
}

// NormalizeCastVoteInput trims and validates vote input.
func NormalizeCastVoteInput(input CastVoteInput) (CastVoteInput, error) {
	input.ApplicationID = strings.TrimSpace(input.ApplicationID)
	if input.ApplicationID == "" {
		return CastVoteInput{}, apperrors.New(apperrors.CodeApplicationIDEmpty, "application id is required")
	}
	input.AdminID = strings.TrimSpace(input.AdminID)
	if input.AdminID == "" {
		return CastVoteInput{}, ErrEmptyAdminID
	}
	input.Team = strings.TrimSpace(input.Team)
	if input.Team == "" {
		return CastVoteInput{}, ErrEmptyTeam
	}
	input.Note = strings.TrimSpace(input.Note)
	if input.Note == "" {
		return CastVoteInput{}, ErrEmptyNote
	}
	if input.Decision != DecisionApprove && input.Decision != DecisionDecline {
		return CastVoteInput{}, ErrInvalidDecision
	}
	return input, nil
}

// Tally summarizes the vote set for one application.
type Tally struct {
	Approvals int
	Declines  int
	// ApprovingTeams counts distinct teams among approvals.
	ApprovingTeams int
}

// Count derives a tally from a vote set. Counts only ever reflect distinct
// reviewers because the vote set is unique per (application, admin).
func Count(votes []Vote) Tally {
	teams := make(map[string]struct{})
	var tally Tally
	for _, vote := range votes {
		switch vote.Decision {
		case DecisionApprove:
			tally.Approvals++
			teams[vote.Team] = struct{}{}
		case DecisionDecline:
			tally.Declines++
		}
	}
	tally.ApprovingTeams = len(teams)
	return tally
}

// QuorumReached reports whether enough approvals exist for promotion
// without elevated privilege.
func QuorumReached(tally Tally) bool {
	return tally.Approvals >= Quorum
}

// DecisionLabel returns the string label for a decision.
func DecisionLabel(decision Decision) string {
	switch decision {
	case DecisionApprove:
		return "APPROVE"
	case DecisionDecline:
		return "DECLINE"
	default:
		return "UNSPECIFIED"
	}
}

// DecisionFromLabel converts a decision label to a Decision value.
func DecisionFromLabel(label string) Decision {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "APPROVE":
		return DecisionApprove
	case "DECLINE":
		return DecisionDecline
	default:
		return DecisionUnspecified
	}
}
