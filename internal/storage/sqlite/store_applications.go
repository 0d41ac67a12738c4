package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lakemont/admissions/internal/admission"
	"github.com/lakemont/admissions/internal/storage"
	"github.com/lakemont/admissions/internal/storage/sqlite/filter"
)

const applicationColumns = `id, applicant_name, applicant_email, season,
	        status, sub_status, completion_percentage,
	        approval_count, decline_count, paid_invoice,
	        under_review_at, promoted_at, enrolled_at,
	        deferred_at, withdrawn_at, rejected_at, paid_at,
	        created_at, updated_at`

// CreateApplication inserts one application record.
func (s *Store) CreateApplication(ctx context.Context, application admission.Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(application.ID) == "" {
		return fmt.Errorf("application id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO applications (
		   id, applicant_name, applicant_email, season,
		   status, sub_status, completion_percentage,
		   approval_count, decline_count, paid_invoice,
		   under_review_at, promoted_at, enrolled_at,
		   deferred_at, withdrawn_at, rejected_at, paid_at,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		applicationArgs(application)...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// GetApplication returns one application by ID.
func (s *Store) GetApplication(ctx context.Context, id string) (admission.Application, error) {
	if err := ctx.Err(); err != nil {
		return admission.Application{}, err
	}
	if s == nil || s.sqlDB == nil {
		return admission.Application{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return admission.Application{}, fmt.Errorf("application id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+applicationColumns+`
		   FROM applications
		  WHERE id = ?`,
		id,
	)
	application, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return admission.Application{}, storage.ErrNotFound
		}
		return admission.Application{}, fmt.Errorf("get application: %w", err)
	}
	return application, nil
}

// UpdateApplication replaces one application record.
func (s *Store) UpdateApplication(ctx context.Context, application admission.Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return upsertApplication(ctx, s.sqlDB, application)
}

// ListApplications returns one page of application records, optionally
// narrowed by an AIP-160 filter expression.
func (s *Store) ListApplications(ctx context.Context, req storage.ListApplicationsRequest) (storage.ApplicationPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.ApplicationPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ApplicationPage{}, fmt.Errorf("storage is not configured")
	}
	if req.PageSize <= 0 {
		return storage.ApplicationPage{}, fmt.Errorf("page size must be greater than zero")
	}

	condition, err := filter.ParseApplicationFilter(req.Filter)
	if err != nil {
		return storage.ApplicationPage{}, fmt.Errorf("parse filter: %w", err)
	}

	var clauses []string
	var params []any
	if condition.Clause != "" {
		clauses = append(clauses, condition.Clause)
		params = append(params, condition.Params...)
	}
	pageToken := strings.TrimSpace(req.PageToken)
	if pageToken != "" {
		clauses = append(clauses, "id > ?")
		params = append(params, pageToken)
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	params = append(params, req.PageSize+1)

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+applicationColumns+`
		   FROM applications`+where+`
		  ORDER BY id ASC
		  LIMIT ?`,
		params...,
	)
	if err != nil {
		return storage.ApplicationPage{}, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	page := storage.ApplicationPage{
		Applications: make([]admission.Application, 0, req.PageSize),
	}
	for rows.Next() {
		application, err := scanApplication(rows)
		if err != nil {
			return storage.ApplicationPage{}, fmt.Errorf("list applications: %w", err)
		}
		page.Applications = append(page.Applications, application)
	}
	if err := rows.Err(); err != nil {
		return storage.ApplicationPage{}, fmt.Errorf("list applications: %w", err)
	}
	if len(page.Applications) > req.PageSize {
		page.NextPageToken = page.Applications[req.PageSize-1].ID
		page.Applications = page.Applications[:req.PageSize]
	}
	return page, nil
}

func upsertApplication(ctx context.Context, q querier, application admission.Application) error {
	if strings.TrimSpace(application.ID) == "" {
		return fmt.Errorf("application id is required")
	}
	_, err := q.ExecContext(
		ctx,
		`INSERT INTO applications (
		   id, applicant_name, applicant_email, season,
		   status, sub_status, completion_percentage,
		   approval_count, decline_count, paid_invoice,
		   under_review_at, promoted_at, enrolled_at,
		   deferred_at, withdrawn_at, rejected_at, paid_at,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   applicant_name = excluded.applicant_name,
		   applicant_email = excluded.applicant_email,
		   season = excluded.season,
		   status = excluded.status,
		   sub_status = excluded.sub_status,
		   completion_percentage = excluded.completion_percentage,
		   approval_count = excluded.approval_count,
		   decline_count = excluded.decline_count,
		   paid_invoice = excluded.paid_invoice,
		   under_review_at = excluded.under_review_at,
		   promoted_at = excluded.promoted_at,
		   enrolled_at = excluded.enrolled_at,
		   deferred_at = excluded.deferred_at,
		   withdrawn_at = excluded.withdrawn_at,
		   rejected_at = excluded.rejected_at,
		   paid_at = excluded.paid_at,
		   updated_at = excluded.updated_at`,
		applicationArgs(application)...,
	)
	if err != nil {
		return fmt.Errorf("upsert application: %w", err)
	}
	return nil
}

func applicationArgs(application admission.Application) []any {
	return []any{
		application.ID,
		application.ApplicantName,
		application.ApplicantEmail,
		application.Season,
		admission.StatusLabel(application.Status),
		admission.SubStatusLabel(application.SubStatus),
		application.CompletionPercentage,
		application.ApprovalCount,
		application.DeclineCount,
		toNullBool(application.PaidInvoice),
		toNullText(application.UnderReviewAt),
		toNullText(application.PromotedAt),
		toNullText(application.EnrolledAt),
		toNullText(application.DeferredAt),
		toNullText(application.WithdrawnAt),
		toNullText(application.RejectedAt),
		toNullText(application.PaidAt),
		toText(application.CreatedAt),
		toText(application.UpdatedAt),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (admission.Application, error) {
	var application admission.Application
	var status, subStatus string
	var paidInvoice sql.NullBool
	var underReviewAt, promotedAt, enrolledAt sql.NullString
	var deferredAt, withdrawnAt, rejectedAt, paidAt sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(
		&application.ID,
		&application.ApplicantName,
		&application.ApplicantEmail,
		&application.Season,
		&status,
		&subStatus,
		&application.CompletionPercentage,
		&application.ApprovalCount,
		&application.DeclineCount,
		&paidInvoice,
		&underReviewAt,
		&promotedAt,
		&enrolledAt,
		&deferredAt,
		&withdrawnAt,
		&rejectedAt,
		&paidAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		return admission.Application{}, err
	}

	application.Status = admission.StatusFromLabel(status)
	application.SubStatus = admission.SubStatusFromLabel(subStatus)
	application.PaidInvoice = fromNullBool(paidInvoice)

	var err error
	if application.UnderReviewAt, err = fromNullText(underReviewAt); err != nil {
		return admission.Application{}, err
	}
	if application.PromotedAt, err = fromNullText(promotedAt); err != nil {
		return admission.Application{}, err
	}
	if application.EnrolledAt, err = fromNullText(enrolledAt); err != nil {
		return admission.Application{}, err
	}
	if application.DeferredAt, err = fromNullText(deferredAt); err != nil {
		return admission.Application{}, err
	}
	if application.WithdrawnAt, err = fromNullText(withdrawnAt); err != nil {
		return admission.Application{}, err
	}
	if application.RejectedAt, err = fromNullText(rejectedAt); err != nil {
		return admission.Application{}, err
	}
	if application.PaidAt, err = fromNullText(paidAt); err != nil {
		return admission.Application{}, err
	}
	if application.CreatedAt, err = fromText(createdAt); err != nil {
		return admission.Application{}, err
	}
	if application.UpdatedAt, err = fromText(updatedAt); err != nil {
		return admission.Application{}, err
	}
	return application, nil
}
