package http

import "net/http"

func (s *Server) registerRoutes(mux *http.ServeMux) {
	if mux == nil {
		return
	}

	mux.HandleFunc(http.MethodGet+" /healthz", s.handleHealth)

	// Applicant-facing endpoints.
	mux.HandleFunc(http.MethodPost+" /v1/applications", s.handleCreateApplication)
	mux.HandleFunc(http.MethodGet+" /v1/applications/{id}", s.handleGetApplication)
	mux.HandleFunc(http.MethodPost+" /v1/applications/{id}/completion", s.handleUpdateCompletion)
	mux.HandleFunc(http.MethodPost+" /v1/applications/{id}/submit", s.handleSubmitForReview)
	mux.HandleFunc(http.MethodPost+" /v1/applications/{id}/withdraw", s.handleWithdraw)
	mux.HandleFunc(http.MethodPost+" /v1/applications/{id}/enroll", s.handleCompleteEnrollment)

	// Staff endpoints.
	mux.HandleFunc(http.MethodGet+" /v1/applications", s.requireStaff(s.handleListApplications))
	mux.HandleFunc(http.MethodPost+" /v1/applications/{id}/waitlist", s.requireStaff(s.handleWaitlist))
	mux.HandleFunc(http.MethodPost+" /v1/applications/{id}/return-to-review", s.requireStaff(s.handleReturnToReview))
	mux.HandleFunc(http.MethodPost+" /v1/applications/{id}/defer", s.requireStaff(s.handleDefer))
	mux.HandleFunc(http.MethodPost+" /v1/applications/{id}/reject", s.requireStaff(s.handleReject))
	mux.HandleFunc(http.MethodPost+" /v1/applications/{id}/promote", s.requireStaff(s.handlePromote))

	mux.HandleFunc(http.MethodPost+" /v1/applications/{id}/votes", s.requireStaff(s.handleCastVote))
	mux.HandleFunc(http.MethodGet+" /v1/applications/{id}/votes", s.requireStaff(s.handleListVotes))

	mux.HandleFunc(http.MethodPost+" /v1/applications/{id}/invoices", s.requireStaff(s.handleOpenInvoice))
	mux.HandleFunc(http.MethodGet+" /v1/applications/{id}/invoices", s.requireStaff(s.handleListInvoices))
	mux.HandleFunc(http.MethodPost+" /v1/applications/{id}/invoices/{invoiceID}/scholarship", s.requireStaff(s.handleApplyScholarship))
	mux.HandleFunc(http.MethodPost+" /v1/applications/{id}/invoices/{invoiceID}/split", s.requireStaff(s.handleSplitIntoPlan))
	mux.HandleFunc(http.MethodPost+" /v1/applications/{id}/invoices/{invoiceID}/pay", s.requireStaff(s.handleMarkInvoicePaid))
	mux.HandleFunc(http.MethodPost+" /v1/applications/{id}/invoices/{invoiceID}/unpay", s.requireStaff(s.handleMarkInvoiceUnpaid))
	mux.HandleFunc(http.MethodPost+" /v1/applications/{id}/invoices/{invoiceID}/void", s.requireStaff(s.handleVoidInvoice))

	mux.HandleFunc(http.MethodGet+" /v1/applications/{id}/events", s.requireStaff(s.handleListEvents))

	// Payment processor callbacks, authenticated by signature.
	mux.HandleFunc(http.MethodPost+" /v1/webhooks/payments", s.handlePaymentWebhook)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
