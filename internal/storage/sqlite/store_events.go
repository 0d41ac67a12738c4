package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lakemont/admissions/internal/event"
	"github.com/lakemont/admissions/internal/storage"
)

// ListEvents returns one page of journal events for an application, in
// sequence order. The page token is the last sequence number of the previous
// page.
func (s *Store) ListEvents(ctx context.Context, applicationID string, pageSize int, pageToken string) (storage.EventPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.EventPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.EventPage{}, fmt.Errorf("storage is not configured")
	}
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return storage.EventPage{}, fmt.Errorf("application id is required")
	}
	if pageSize <= 0 {
		return storage.EventPage{}, fmt.Errorf("page size must be greater than zero")
	}

	afterSeq := uint64(0)
	pageToken = strings.TrimSpace(pageToken)
	if pageToken != "" {
		parsed, err := strconv.ParseUint(pageToken, 10, 64)
		if err != nil {
			return storage.EventPage{}, fmt.Errorf("invalid page token: %w", err)
		}
		afterSeq = parsed
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT application_id, seq, timestamp, event_type,
		        actor_type, actor_id, entity_type, entity_id, payload_json
		   FROM events
		  WHERE application_id = ? AND seq > ?
		  ORDER BY seq ASC
		  LIMIT ?`,
		applicationID,
		afterSeq,
		pageSize+1,
	)
	if err != nil {
		return storage.EventPage{}, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	page := storage.EventPage{
		Events: make([]event.Event, 0, pageSize),
	}
	for rows.Next() {
		var evt event.Event
		var seq int64
		var timestamp, eventType, actorType string
		if err := rows.Scan(
			&evt.ApplicationID,
			&seq,
			&timestamp,
			&eventType,
			&actorType,
			&evt.ActorID,
			&evt.EntityType,
			&evt.EntityID,
			&evt.PayloadJSON,
		); err != nil {
			return storage.EventPage{}, fmt.Errorf("list events: %w", err)
		}
		evt.Seq = uint64(seq)
		evt.Type = event.Type(eventType)
		evt.ActorType = event.ActorType(actorType)
		if evt.Timestamp, err = fromText(timestamp); err != nil {
			return storage.EventPage{}, fmt.Errorf("list events: %w", err)
		}
		page.Events = append(page.Events, evt)
	}
	if err := rows.Err(); err != nil {
		return storage.EventPage{}, fmt.Errorf("list events: %w", err)
	}
	if len(page.Events) > pageSize {
		page.NextPageToken = strconv.FormatUint(page.Events[pageSize-1].Seq, 10)
		page.Events = page.Events[:pageSize]
	}
	return page, nil
}

// appendEvent assigns the next sequence number within the application and
// inserts the event. Callers hold a transaction.
func appendEvent(ctx context.Context, q querier, evt event.Event) error {
	if !evt.Type.IsValid() {
		return fmt.Errorf("event type is required")
	}
	applicationID := strings.TrimSpace(evt.ApplicationID)
	if applicationID == "" {
		return fmt.Errorf("event application id is required")
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}

	var seq int64
	row := q.QueryRowContext(
		ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM events WHERE application_id = ?`,
		applicationID,
	)
	if err := row.Scan(&seq); err != nil {
		return fmt.Errorf("next event seq: %w", err)
	}

	_, err := q.ExecContext(
		ctx,
		`INSERT INTO events (
		   application_id, seq, timestamp, event_type,
		   actor_type, actor_id, entity_type, entity_id, payload_json
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		applicationID,
		seq,
		toText(evt.Timestamp),
		string(evt.Type),
		string(evt.ActorType),
		evt.ActorID,
		evt.EntityType,
		evt.EntityID,
		evt.PayloadJSON,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}
