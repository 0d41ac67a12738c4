// Package service coordinates admission operations: it loads state, applies
// the domain rules, and commits every operation's writes as one atomic change.
// Operations on the same application are serialized through a per-application
// lock, so concurrent requests observe a total order.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/lakemont/admissions/internal/admission"
	"github.com/lakemont/admissions/internal/event"
	"github.com/lakemont/admissions/internal/ledger"
	"github.com/lakemont/admissions/internal/platform/id"
	"github.com/lakemont/admissions/internal/pricing"
	"github.com/lakemont/admissions/internal/review"
	"github.com/lakemont/admissions/internal/storage"

	json "github.com/goccy/go-json"
	apperrors "github.com/lakemont/admissions/internal/platform/errors"
)

// Role identifies the privilege level of a staff actor.
type Role string

const (
	// RoleReviewer votes and manages applications but cannot bypass quorum.
	RoleReviewer Role = "reviewer"
	// RoleDirector may promote without quorum.
	RoleDirector Role = "director"
)

// Actor identifies the staff member performing an operation.
type Actor struct {
	AdminID string
	Team    string
	Role    Role
}

// Service implements the admission pipeline operations.
type Service struct {
	store       storage.Store
	schedule    pricing.Schedule
	now         func() time.Time
	idGenerator func() (string, error)
	locks       *lockTable
	tracer      trace.Tracer
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithClock overrides the service clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the service ID generator.
func WithIDGenerator(idGenerator func() (string, error)) Option {
	return func(s *Service) { s.idGenerator = idGenerator }
}

// New creates a Service backed by the given store and pricing schedule.
func New(store storage.Store, schedule pricing.Schedule, opts ...Option) *Service {
	s := &Service{
		store:       store,
		schedule:    schedule,
		now:         time.Now,
		idGenerator: id.NewID,
		locks:       newLockTable(),
		tracer:      otel.Tracer("github.com/lakemont/admissions/internal/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateApplication registers a new applicant in not_started state.
func (s *Service) CreateApplication(ctx context.Context, input admission.CreateApplicationInput) (admission.Application, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateApplication")
	defer span.End()

	application, err := admission.CreateApplication(input, s.now, s.idGenerator)
	if err != nil {
		return admission.Application{}, err
	}

	payload, err := json.Marshal(event.ApplicationCreatedPayload{
		ApplicantName:  application.ApplicantName,
		ApplicantEmail: application.ApplicantEmail,
		Season:         application.Season,
	})
	if err != nil {
		return admission.Application{}, fmt.Errorf("marshal event payload: %w", err)
	}

	change := storage.Change{
		Application: &application,
		Events: []event.Event{{
			ApplicationID: application.ID,
			Timestamp:     application.CreatedAt,
			Type:          event.TypeApplicationCreated,
			ActorType:     event.ActorTypeSystem,
			EntityType:    "application",
			EntityID:      application.ID,
			PayloadJSON:   payload,
		}},
	}
	if err := s.store.Apply(ctx, change); err != nil {
		return admission.Application{}, fmt.Errorf("create application: %w", err)
	}
	return application, nil
}

// GetApplication returns one application by ID.
func (s *Service) GetApplication(ctx context.Context, applicationID string) (admission.Application, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetApplication")
	defer span.End()
	return s.loadApplication(ctx, applicationID)
}

// ListApplications returns one page of applications.
func (s *Service) ListApplications(ctx context.Context, req storage.ListApplicationsRequest) (storage.ApplicationPage, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListApplications")
	defer span.End()

	if req.PageSize <= 0 {
		req.PageSize = 50
	}
	return s.store.ListApplications(ctx, req)
}

// ListVotes returns all votes cast on one application.
func (s *Service) ListVotes(ctx context.Context, applicationID string) ([]review.Vote, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListVotes")
	defer span.End()

	if _, err := s.loadApplication(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.store.ListVotes(ctx, applicationID)
}

// ListInvoices returns all invoices of one application.
func (s *Service) ListInvoices(ctx context.Context, applicationID string) ([]ledger.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListInvoices")
	defer span.End()

	if _, err := s.loadApplication(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.store.ListInvoices(ctx, applicationID)
}

// ListEvents returns one page of the application's audit journal.
func (s *Service) ListEvents(ctx context.Context, applicationID string, pageSize int, pageToken string) (storage.EventPage, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListEvents")
	defer span.End()

	if pageSize <= 0 {
		pageSize = 100
	}
	if _, err := s.loadApplication(ctx, applicationID); err != nil {
		return storage.EventPage{}, err
	}
	return s.store.ListEvents(ctx, applicationID, pageSize, pageToken)
}

func (s *Service) loadApplication(ctx context.Context, applicationID string) (admission.Application, error) {
	application, err := s.store.GetApplication(ctx, applicationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return admission.Application{}, apperrors.WithMetadata(
				apperrors.CodeNotFound,
				fmt.Sprintf("application %s not found", applicationID),
				map[string]string{"ApplicationID": applicationID},
			)
		}
		return admission.Application{}, err
	}
	return application, nil
}

// statusChangedEvent records one lifecycle transition in the journal.
func (s *Service) statusChangedEvent(before, after admission.Application, operation string, actor Actor) (event.Event, error) {
	payload, err := json.Marshal(event.ApplicationStatusChangedPayload{
		FromStatus:    admission.StatusLabel(before.Status),
		FromSubStatus: admission.SubStatusLabel(before.SubStatus),
		ToStatus:      admission.StatusLabel(after.Status),
		ToSubStatus:   admission.SubStatusLabel(after.SubStatus),
		Operation:     operation,
	})
	if err != nil {
		return event.Event{}, fmt.Errorf("marshal event payload: %w", err)
	}
	actorType := event.ActorTypeSystem
	if actor.AdminID != "" {
		actorType = event.ActorTypeAdmin
	}
	return event.Event{
		ApplicationID: after.ID,
		Timestamp:     after.UpdatedAt,
		Type:          event.TypeApplicationStatusChanged,
		ActorType:     actorType,
		ActorID:       actor.AdminID,
		EntityType:    "application",
		EntityID:      after.ID,
		PayloadJSON:   payload,
	}, nil
}
