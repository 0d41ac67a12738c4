// Package http exposes the admission pipeline over a JSON HTTP API.
package http

import (
	"net/http"
	"time"

	"github.com/lakemont/admissions/internal/service"
)

// Config defines the inputs for the API server.
type Config struct {
	StaffGrants   StaffGrantConfig
	WebhookSecret string
	Now           func() time.Time
}

// Server routes API requests to the admission service.
type Server struct {
	service       *service.Service
	staffGrants   StaffGrantConfig
	webhookSecret string
	now           func() time.Time
}

// NewServer builds a configured API server.
func NewServer(svc *service.Service, config Config) *Server {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		service:       svc,
		staffGrants:   config.StaffGrants,
		webhookSecret: config.WebhookSecret,
		now:           now,
	}
}

// Handler builds the HTTP handler for the API server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return mux
}
