package http

import (
	"net/http"
	"strconv"
)

type listEventsResponse struct {
	Events        []eventView `json:"events"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
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
	page, err := s.service.ListEvents(r.Context(), r.PathValue("id"), pageSize, query.Get("page_token"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]eventView, 0, len(page.Events))
	for _, evt := range page.Events {
		views = append(views, newEventView(evt))
	}
	writeJSON(w, http.StatusOK, listEventsResponse{
		Events:        views,
		NextPageToken: page.NextPageToken,
	})
}
