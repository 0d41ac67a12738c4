package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/lakemont/admissions/internal/admission"
	"github.com/lakemont/admissions/internal/service"
	"github.com/lakemont/admissions/internal/storage"
)

// transitionFunc is the shape every lifecycle transition shares.
type transitionFunc func(ctx context.Context, applicationID string, actor service.Actor) (admission.Application, error)

type createApplicationRequest struct {
	ApplicantName  string `json:"applicant_name"`
	ApplicantEmail string `json:"applicant_email"`
	Season         string `json:"season"`
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req createApplicationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	application, err := s.service.CreateApplication(r.Context(), admission.CreateApplicationInput{
		ApplicantName:  req.ApplicantName,
		ApplicantEmail: req.ApplicantEmail,
		Season:         req.Season,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newApplicationView(application))
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	application, err := s.service.GetApplication(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newApplicationView(application))
}

type listApplicationsResponse struct {
	Applications  []applicationView `json:"applications"`
	NextPageToken string            `json:"next_page_token,omitempty"`
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pageSize := 0
	if raw := query.Get("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, invalidField("page_size", err))
			return
		}
		pageSize = parsed
	}
	page, err := s.service.ListApplications(r.Context(), storage.ListApplicationsRequest{
		PageSize:  pageSize,
		PageToken: query.Get("page_token"),
		Filter:    query.Get("filter"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]applicationView, 0, len(page.Applications))
	for _, application := range page.Applications {
		views = append(views, newApplicationView(application))
	}
	writeJSON(w, http.StatusOK, listApplicationsResponse{
		Applications:  views,
		NextPageToken: page.NextPageToken,
	})
}

type updateCompletionRequest struct {
	CompletionPercentage int `json:"completion_percentage"`
}

func (s *Server) handleUpdateCompletion(w http.ResponseWriter, r *http.Request) {
	var req updateCompletionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	application, err := s.service.UpdateCompletion(r.Context(), r.PathValue("id"), req.CompletionPercentage, staffActor(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newApplicationView(application))
}

func (s *Server) handleSubmitForReview(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.service.SubmitForReview)
}

func (s *Server) handleWaitlist(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.service.Waitlist)
}

func (s *Server) handleReturnToReview(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.service.ReturnToReview)
}

func (s *Server) handleDefer(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.service.Defer)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.service.Withdraw)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.service.Reject)
}

func (s *Server) handleCompleteEnrollment(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.service.CompleteEnrollment)
}

func (s *Server) handlePromote(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.service.Promote)
}

// handleTransition runs one lifecycle transition identified by the request
// path and writes the updated application.
func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request, transition transitionFunc) {
	application, err := transition(r.Context(), r.PathValue("id"), staffActor(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newApplicationView(application))
}
