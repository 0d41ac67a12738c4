package service

import (
	"context"
	"fmt"

	"github.com/lakemont/admissions/internal/admission"
	"github.com/lakemont/admissions/internal/event"
	"github.com/lakemont/admissions/internal/storage"

	json "github.com/goccy/go-json"
)

// transition loads the application under its lock, applies one domain
// transition, and commits the result with a status_changed journal entry.
func (s *Service) transition(
	ctx context.Context,
	applicationID string,
	operation string,
	actor Actor,
	apply func(admission.Application) (admission.Application, error),
) (admission.Application, error) {
	release := s.locks.acquire(applicationID)
	defer release()

	before, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return admission.Application{}, err
	}
	after, err := apply(before)
	if err != nil {
		return admission.Application{}, err
	}

	evt, err := s.statusChangedEvent(before, after, operation, actor)
	if err != nil {
		return admission.Application{}, err
	}
	change := storage.Change{
		Application: &after,
		Events:      []event.Event{evt},
	}
	if err := s.store.Apply(ctx, change); err != nil {
		return admission.Application{}, fmt.Errorf("%s: %w", operation, err)
	}
	return after, nil
}

// UpdateCompletion records application form progress.
func (s *Service) UpdateCompletion(ctx context.Context, applicationID string, percentage int, actor Actor) (admission.Application, error) {
	ctx, span := s.tracer.Start(ctx, "service.UpdateCompletion")
	defer span.End()

	return s.transition(ctx, applicationID, "update_completion", actor, func(app admission.Application) (admission.Application, error) {
		return admission.UpdateCompletion(app, percentage, s.now)
	})
}

// SubmitForReview places a completed application in front of the committee.
func (s *Service) SubmitForReview(ctx context.Context, applicationID string, actor Actor) (admission.Application, error) {
	ctx, span := s.tracer.Start(ctx, "service.SubmitForReview")
	defer span.End()

	return s.transition(ctx, applicationID, "submit_for_review", actor, func(app admission.Application) (admission.Application, error) {
		return admission.SubmitForReview(app, s.now)
	})
}

// Waitlist parks an under-review applicant on the waitlist.
func (s *Service) Waitlist(ctx context.Context, applicationID string, actor Actor) (admission.Application, error) {
	ctx, span := s.tracer.Start(ctx, "service.Waitlist")
	defer span.End()

	return s.transition(ctx, applicationID, "waitlist", actor, func(app admission.Application) (admission.Application, error) {
		return admission.Waitlist(app, s.now)
	})
}

// ReturnToReview moves a waitlisted applicant back in front of the committee.
func (s *Service) ReturnToReview(ctx context.Context, applicationID string, actor Actor) (admission.Application, error) {
	ctx, span := s.tracer.Start(ctx, "service.ReturnToReview")
	defer span.End()

	return s.transition(ctx, applicationID, "return_to_review", actor, func(app admission.Application) (admission.Application, error) {
		return admission.ReturnToReview(app, s.now)
	})
}

// Defer records a terminal soft-no with a reapplication invitation.
func (s *Service) Defer(ctx context.Context, applicationID string, actor Actor) (admission.Application, error) {
	ctx, span := s.tracer.Start(ctx, "service.Defer")
	defer span.End()

	return s.transition(ctx, applicationID, "defer", actor, func(app admission.Application) (admission.Application, error) {
		return admission.Defer(app, s.now)
	})
}

// Withdraw records a terminal post-acceptance exit.
func (s *Service) Withdraw(ctx context.Context, applicationID string, actor Actor) (admission.Application, error) {
	ctx, span := s.tracer.Start(ctx, "service.Withdraw")
	defer span.End()

	return s.transition(ctx, applicationID, "withdraw", actor, func(app admission.Application) (admission.Application, error) {
		return admission.Withdraw(app, s.now)
	})
}

// Reject records a terminal pre-acceptance judgment.
func (s *Service) Reject(ctx context.Context, applicationID string, actor Actor) (admission.Application, error) {
	ctx, span := s.tracer.Start(ctx, "service.Reject")
	defer span.End()

	return s.transition(ctx, applicationID, "reject", actor, func(app admission.Application) (admission.Application, error) {
		return admission.Reject(app, s.now)
	})
}

// CompleteEnrollment moves a paid camper to the enrolled state.
func (s *Service) CompleteEnrollment(ctx context.Context, applicationID string, actor Actor) (admission.Application, error) {
	ctx, span := s.tracer.Start(ctx, "service.CompleteEnrollment")
	defer span.End()

	release := s.locks.acquire(applicationID)
	defer release()

	before, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return admission.Application{}, err
	}
	after, err := admission.CompleteEnrollment(before, s.now)
	if err != nil {
		return admission.Application{}, err
	}

	statusEvt, err := s.statusChangedEvent(before, after, "complete_enrollment", actor)
	if err != nil {
		return admission.Application{}, err
	}
	enrolledPayload, err := json.Marshal(event.ApplicationEnrolledPayload{Season: after.Season})
	if err != nil {
		return admission.Application{}, fmt.Errorf("marshal event payload: %w", err)
	}
	change := storage.Change{
		Application: &after,
		Events: []event.Event{
			statusEvt,
			{
				ApplicationID: after.ID,
				Timestamp:     after.UpdatedAt,
				Type:          event.TypeApplicationEnrolled,
				ActorType:     event.ActorTypeAdmin,
				ActorID:       actor.AdminID,
				EntityType:    "application",
				EntityID:      after.ID,
				PayloadJSON:   enrolledPayload,
			},
		},
	}
	if err := s.store.Apply(ctx, change); err != nil {
		return admission.Application{}, fmt.Errorf("complete enrollment: %w", err)
	}
	return after, nil
}
