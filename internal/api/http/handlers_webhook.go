package http

import (
	"net/http"

	"github.com/lakemont/admissions/internal/service"

	json "github.com/goccy/go-json"
	apperrors "github.com/lakemont/admissions/internal/platform/errors"
)

// handlePaymentWebhook ingests payment processor notifications. Settlements
// mark the referenced invoice paid; failures void it so a fresh invoice can
// be opened. Unknown event types are acknowledged and dropped.
func (s *Server) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	if s.webhookSecret == "" {
		writeError(w, r, apperrors.New(apperrors.CodeWebhookSignature, "webhook secret is not configured"))
		return
	}
	rawBody, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := verifyWebhookSignature(r.Header.Get(paymentSignatureHeader), rawBody, s.webhookSecret, s.now()); err != nil {
		writeError(w, r, err)
		return
	}

	var payload paymentWebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		writeError(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "decode webhook payload", err))
		return
	}

	// The processor is not a staff member; ledger events record it as a
	// webhook actor.
	actor := service.Actor{}
	switch payload.Type {
	case webhookPaymentSettled:
		invoice, err := s.service.MarkInvoicePaid(r.Context(), payload.ApplicationID, payload.InvoiceID, payload.Note, actor)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newInvoiceView(invoice))
	case webhookPaymentFailed:
		invoice, err := s.service.VoidInvoice(r.Context(), payload.ApplicationID, payload.InvoiceID, payload.Reason, actor)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newInvoiceView(invoice))
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	}
}
