// Package seed fills a local development database with applications across
// the admission lifecycle so the API has realistic data to serve.
package seed

import (
	"context"
	"fmt"
	"log"

	"github.com/lakemont/admissions/internal/admission"
	"github.com/lakemont/admissions/internal/pricing"
	"github.com/lakemont/admissions/internal/review"
	"github.com/lakemont/admissions/internal/service"
	"github.com/lakemont/admissions/internal/storage/sqlite"
)

// Config holds seeding configuration.
type Config struct {
	DBPath      string
	PricingPath string
	Season      string
	Verbose     bool
}

// DefaultConfig returns the default seeding configuration.
func DefaultConfig() Config {
	return Config{
		DBPath: "data/admissions.db",
		Season: "2027",
	}
}

var applicantNames = []struct {
	name  string
	email string
}{
	{"Rowan Eng", "rowan@example.com"},
	{"Priya Natarajan", "priya@example.com"},
	{"Marcus Webb", "marcus@example.com"},
	{"Ines Calder", "ines@example.com"},
	{"Tomas Aldana", "tomas@example.com"},
	{"June Okafor", "june@example.com"},
}

var reviewers = []service.Actor{
	{AdminID: "seed-reviewer-1", Team: "admissions", Role: service.RoleReviewer},
	{AdminID: "seed-reviewer-2", Team: "admissions", Role: service.RoleReviewer},
	{AdminID: "seed-reviewer-3", Team: "faculty", Role: service.RoleReviewer},
}

var director = service.Actor{AdminID: "seed-director", Team: "admissions", Role: service.RoleDirector}

// Run seeds the database with one application per lifecycle stage: a fresh
// applicant, one mid-form, one under review, one waitlisted, one promoted
// camper with an open invoice, and one paid and enrolled camper.
func Run(ctx context.Context, cfg Config) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	schedule, err := pricing.Load(cfg.PricingPath)
	if err != nil {
		return fmt.Errorf("load pricing schedule: %w", err)
	}
	svc := service.New(store, schedule)

	stages := []func(context.Context, *service.Service, admission.Application) error{
		stageFresh,
		stageInProgress,
		stageUnderReview,
		stageWaitlisted,
		stagePromoted,
		stageEnrolled,
	}
	for i, stage := range stages {
		applicant := applicantNames[i%len(applicantNames)]
		application, err := svc.CreateApplication(ctx, admission.CreateApplicationInput{
			ApplicantName:  applicant.name,
			ApplicantEmail: applicant.email,
			Season:         cfg.Season,
		})
		if err != nil {
			return fmt.Errorf("create application %d: %w", i, err)
		}
		if err := stage(ctx, svc, application); err != nil {
			return fmt.Errorf("seed application %s: %w", application.ID, err)
		}
		if cfg.Verbose {
			log.Printf("seeded application %s (%s)", application.ID, applicant.name)
		}
	}
	return nil
}

func stageFresh(context.Context, *service.Service, admission.Application) error {
	return nil
}

func stageInProgress(ctx context.Context, svc *service.Service, application admission.Application) error {
	_, err := svc.UpdateCompletion(ctx, application.ID, 40, service.Actor{})
	return err
}

func stageUnderReview(ctx context.Context, svc *service.Service, application admission.Application) error {
	if err := submit(ctx, svc, application); err != nil {
		return err
	}
	_, _, err := svc.CastVote(ctx, review.CastVoteInput{
		ApplicationID: application.ID,
		AdminID:       reviewers[0].AdminID,
		Team:          reviewers[0].Team,
		Decision:      review.DecisionApprove,
		Note:          "strong portfolio",
	})
	return err
}

func stageWaitlisted(ctx context.Context, svc *service.Service, application admission.Application) error {
	if err := submit(ctx, svc, application); err != nil {
		return err
	}
	_, err := svc.Waitlist(ctx, application.ID, reviewers[0])
	return err
}

func stagePromoted(ctx context.Context, svc *service.Service, application admission.Application) error {
	if err := approve(ctx, svc, application); err != nil {
		return err
	}
	_, err := svc.Promote(ctx, application.ID, reviewers[0])
	return err
}

func stageEnrolled(ctx context.Context, svc *service.Service, application admission.Application) error {
	if err := approve(ctx, svc, application); err != nil {
		return err
	}
	if _, err := svc.Promote(ctx, application.ID, director); err != nil {
		return err
	}
	invoices, err := svc.ListInvoices(ctx, application.ID)
	if err != nil {
		return err
	}
	for _, invoice := range invoices {
		if _, err := svc.MarkInvoicePaid(ctx, application.ID, invoice.ID, "seed payment", director); err != nil {
			return err
		}
	}
	_, err = svc.CompleteEnrollment(ctx, application.ID, service.Actor{})
	return err
}

func submit(ctx context.Context, svc *service.Service, application admission.Application) error {
	if _, err := svc.UpdateCompletion(ctx, application.ID, 100, service.Actor{}); err != nil {
		return err
	}
	_, err := svc.SubmitForReview(ctx, application.ID, service.Actor{})
	return err
}

func approve(ctx context.Context, svc *service.Service, application admission.Application) error {
	if err := submit(ctx, svc, application); err != nil {
		return err
	}
	for _, reviewer := range reviewers {
		if _, _, err := svc.CastVote(ctx, review.CastVoteInput{
			ApplicationID: application.ID,
			AdminID:       reviewer.AdminID,
			Team:          reviewer.Team,
			Decision:      review.DecisionApprove,
			Note:          "ready for camp",
		}); err != nil {
			return err
		}
	}
	return nil
}
