package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lakemont/admissions/internal/admission"
	"github.com/lakemont/admissions/internal/event"
	"github.com/lakemont/admissions/internal/ledger"
	"github.com/lakemont/admissions/internal/review"
	"github.com/lakemont/admissions/internal/storage"

	json "github.com/goccy/go-json"
	apperrors "github.com/lakemont/admissions/internal/platform/errors"
)

// CastVote records one admin's verdict on an application under review. An
// admin votes at most once per application; votes after promotion are
// rejected.
func (s *Service) CastVote(ctx context.Context, input review.CastVoteInput) (review.Vote, admission.Application, error) {
	ctx, span := s.tracer.Start(ctx, "service.CastVote")
	defer span.End()

	vote, err := review.CastVote(input, s.now, s.idGenerator)
	if err != nil {
		return review.Vote{}, admission.Application{}, err
	}

	release := s.locks.acquire(vote.ApplicationID)
	defer release()

	application, err := s.loadApplication(ctx, vote.ApplicationID)
	if err != nil {
		return review.Vote{}, admission.Application{}, err
	}
	if !application.Reviewable() {
		return review.Vote{}, admission.Application{}, apperrors.WithMetadata(
			apperrors.CodeApplicationNotReviewable,
			"votes are only accepted while the application is an applicant",
			map[string]string{
				"Status":    admission.StatusLabel(application.Status),
				"SubStatus": admission.SubStatusLabel(application.SubStatus),
			},
		)
	}

	updated := application
	switch vote.Decision {
	case review.DecisionApprove:
		updated.ApprovalCount++
	case review.DecisionDecline:
		updated.DeclineCount++
	}
	updated.UpdatedAt = vote.CreatedAt

	payload, err := json.Marshal(event.VoteCastPayload{
		VoteID:    vote.ID,
		AdminID:   vote.AdminID,
		Team:      vote.Team,
		Decision:  review.DecisionLabel(vote.Decision),
		Approvals: updated.ApprovalCount,
		Declines:  updated.DeclineCount,
	})
	if err != nil {
		return review.Vote{}, admission.Application{}, fmt.Errorf("marshal event payload: %w", err)
	}

	change := storage.Change{
		Application: &updated,
		Votes:       []review.Vote{vote},
		Events: []event.Event{{
			ApplicationID: vote.ApplicationID,
			Timestamp:     vote.CreatedAt,
			Type:          event.TypeVoteCast,
			ActorType:     event.ActorTypeAdmin,
			ActorID:       vote.AdminID,
			EntityType:    "vote",
			EntityID:      vote.ID,
			PayloadJSON:   payload,
		}},
	}
	if err := s.store.Apply(ctx, change); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return review.Vote{}, admission.Application{}, apperrors.WithMetadata(
				apperrors.CodeVoteDuplicate,
				fmt.Sprintf("admin %s has already voted on this application", vote.AdminID),
				map[string]string{"AdminID": vote.AdminID},
			)
		}
		return review.Vote{}, admission.Application{}, fmt.Errorf("cast vote: %w", err)
	}
	return vote, updated, nil
}

// Promote accepts an applicant as a camper and opens the tuition invoice.
// Reviewers need the approval quorum; directors may promote without it.
func (s *Service) Promote(ctx context.Context, applicationID string, actor Actor) (admission.Application, error) {
	ctx, span := s.tracer.Start(ctx, "service.Promote")
	defer span.End()

	release := s.locks.acquire(applicationID)
	defer release()

	before, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return admission.Application{}, err
	}

	override := actor.Role == RoleDirector
	if !override {
		tally := review.Tally{Approvals: before.ApprovalCount, Declines: before.DeclineCount}
		if !review.QuorumReached(tally) {
			return admission.Application{}, apperrors.WithMetadata(
				apperrors.CodeConsensusNotMet,
				fmt.Sprintf("promotion requires %d approvals, have %d", review.Quorum, tally.Approvals),
				map[string]string{
					"Approvals": strconv.Itoa(tally.Approvals),
					"Required":  strconv.Itoa(review.Quorum),
				},
			)
		}
	}

	after, err := admission.Promote(before, s.now)
	if err != nil {
		return admission.Application{}, err
	}

	// Promotion opens the tuition invoice, so an outstanding invoice must be
	// settled or voided first: at most one invoice is open at a time.
	invoices, err := s.store.ListInvoices(ctx, applicationID)
	if err != nil {
		return admission.Application{}, err
	}
	for _, existing := range invoices {
		if existing.Status == ledger.StatusOpen || existing.Status == ledger.StatusDraft {
			return admission.Application{}, apperrors.WithMetadata(
				apperrors.CodeInvoiceOpenExists,
				"application already has an outstanding invoice; settle or void it before promotion",
				map[string]string{"InvoiceID": existing.ID},
			)
		}
	}

	invoice, err := ledger.NewInvoice(ledger.NewInvoiceInput{
		ApplicationID: after.ID,
		Amount:        s.schedule.TuitionAmount,
		Currency:      s.schedule.Currency,
	}, s.now, s.idGenerator)
	if err != nil {
		return admission.Application{}, fmt.Errorf("open tuition invoice: %w", err)
	}

	// Promotion resets the payment flag: the camper now owes tuition.
	paid := false
	after = admission.ApplyPaymentState(after, &paid, func() time.Time { return after.UpdatedAt })

	statusEvt, err := s.statusChangedEvent(before, after, "promote", actor)
	if err != nil {
		return admission.Application{}, err
	}
	promotedPayload, err := json.Marshal(event.ApplicationPromotedPayload{
		Approvals:        after.ApprovalCount,
		Declines:         after.DeclineCount,
		InvoiceID:        invoice.ID,
		DirectorOverride: override,
	})
	if err != nil {
		return admission.Application{}, fmt.Errorf("marshal event payload: %w", err)
	}
	invoiceEvt, err := s.invoiceOpenedEvent(invoice, actor)
	if err != nil {
		return admission.Application{}, err
	}

	change := storage.Change{
		Application: &after,
		Invoices:    []ledger.Invoice{invoice},
		Events: []event.Event{
			statusEvt,
			{
				ApplicationID: after.ID,
				Timestamp:     after.UpdatedAt,
				Type:          event.TypeApplicationPromoted,
				ActorType:     event.ActorTypeAdmin,
				ActorID:       actor.AdminID,
				EntityType:    "application",
				EntityID:      after.ID,
				PayloadJSON:   promotedPayload,
			},
			invoiceEvt,
		},
	}
	if err := s.store.Apply(ctx, change); err != nil {
		return admission.Application{}, fmt.Errorf("promote: %w", err)
	}
	return after, nil
}
