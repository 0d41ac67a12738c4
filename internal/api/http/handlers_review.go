package http

import (
	"net/http"

	"github.com/lakemont/admissions/internal/review"
)

type castVoteRequest struct {
	Decision string `json:"decision"`
	Note     string `json:"note"`
}

type castVoteResponse struct {
	Vote        voteView        `json:"vote"`
	Application applicationView `json:"application"`
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	actor := staffActor(r.Context())
	vote, application, err := s.service.CastVote(r.Context(), review.CastVoteInput{
		ApplicationID: r.PathValue("id"),
		AdminID:       actor.AdminID,
		Team:          actor.Team,
		Decision:      review.DecisionFromLabel(req.Decision),
		Note:          req.Note,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, castVoteResponse{
		Vote:        newVoteView(vote),
		Application: newApplicationView(application),
	})
}

type listVotesResponse struct {
	Votes []voteView `json:"votes"`
}

func (s *Server) handleListVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := s.service.ListVotes(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]voteView, 0, len(votes))
	for _, vote := range votes {
		views = append(views, newVoteView(vote))
	}
	writeJSON(w, http.StatusOK, listVotesResponse{Votes: views})
}
