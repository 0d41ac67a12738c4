package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/lakemont/admissions/internal/review"
	"github.com/lakemont/admissions/internal/storage"
)

// CreateVote inserts one vote record. A second vote by the same admin on the
// same application fails with ErrAlreadyExists.
func (s *Store) CreateVote(ctx context.Context, vote review.Vote) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return insertVote(ctx, s.sqlDB, vote)
}

// ListVotes returns all votes cast on one application, oldest first.
func (s *Store) ListVotes(ctx context.Context, applicationID string) ([]review.Vote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return nil, fmt.Errorf("application id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, application_id, admin_id, team, decision, note, created_at
		   FROM votes
		  WHERE application_id = ?
		  ORDER BY created_at ASC, id ASC`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	var votes []review.Vote
	for rows.Next() {
		var vote review.Vote
		var decision string
		var createdAt string
		if err := rows.Scan(
			&vote.ID,
			&vote.ApplicationID,
			&vote.AdminID,
			&vote.Team,
			&decision,
			&vote.Note,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("list votes: %w", err)
		}
		vote.Decision = review.DecisionFromLabel(decision)
		if vote.CreatedAt, err = fromText(createdAt); err != nil {
			return nil, fmt.Errorf("list votes: %w", err)
		}
		votes = append(votes, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	return votes, nil
}

func insertVote(ctx context.Context, q querier, vote review.Vote) error {
	if strings.TrimSpace(vote.ID) == "" {
		return fmt.Errorf("vote id is required")
	}
	_, err := q.ExecContext(
		ctx,
		`INSERT INTO votes (id, application_id, admin_id, team, decision, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		vote.ID,
		vote.ApplicationID,
		vote.AdminID,
		vote.Team,
		review.DecisionLabel(vote.Decision),
		vote.Note,
		toText(vote.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}
