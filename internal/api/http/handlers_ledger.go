package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/lakemont/admissions/internal/ledger"
)

type openInvoiceRequest struct {
	Amount   int64   `json:"amount"`
	Currency string  `json:"currency"`
	DueDate  *string `json:"due_date"`
}

func (s *Server) handleOpenInvoice(w http.ResponseWriter, r *http.Request) {
	var req openInvoiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	dueDate, err := parseOptionalTime(req.DueDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	invoice, err := s.service.OpenInvoice(r.Context(), r.PathValue("id"), ledger.Amount(req.Amount), req.Currency, dueDate, staffActor(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newInvoiceView(invoice))
}

type listInvoicesResponse struct {
	Invoices []invoiceView `json:"invoices"`
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.service.ListInvoices(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listInvoicesResponse{Invoices: newInvoiceViews(invoices)})
}

type scholarshipRequest struct {
	DiscountAmount int64  `json:"discount_amount"`
	Note           string `json:"note"`
}

func (s *Server) handleApplyScholarship(w http.ResponseWriter, r *http.Request) {
	var req scholarshipRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	invoice, err := s.service.ApplyScholarship(r.Context(), r.PathValue("id"), r.PathValue("invoiceID"), ledger.Amount(req.DiscountAmount), req.Note, staffActor(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newInvoiceView(invoice))
}

type installmentRequest struct {
	Amount  int64  `json:"amount"`
	DueDate string `json:"due_date"`
}

type splitPlanRequest struct {
	Installments []installmentRequest `json:"installments"`
}

func (s *Server) handleSplitIntoPlan(w http.ResponseWriter, r *http.Request) {
	var req splitPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	installments := make([]ledger.Installment, 0, len(req.Installments))
	for i, installment := range req.Installments {
		dueDate, err := time.Parse(time.RFC3339, installment.DueDate)
		if err != nil {
			writeError(w, r, invalidField("installments["+strconv.Itoa(i)+"].due_date", err))
			return
		}
		installments = append(installments, ledger.Installment{
			Amount:  ledger.Amount(installment.Amount),
			DueDate: dueDate,
		})
	}
	plan, err := s.service.SplitIntoPlan(r.Context(), r.PathValue("id"), r.PathValue("invoiceID"), installments, staffActor(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listInvoicesResponse{Invoices: newInvoiceViews(plan)})
}

type markPaidRequest struct {
	Note string `json:"note"`
}

func (s *Server) handleMarkInvoicePaid(w http.ResponseWriter, r *http.Request) {
	var req markPaidRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	invoice, err := s.service.MarkInvoicePaid(r.Context(), r.PathValue("id"), r.PathValue("invoiceID"), req.Note, staffActor(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newInvoiceView(invoice))
}

type markUnpaidRequest struct {
	Reason string `json:"reason"`
}

type markUnpaidResponse struct {
	Voided      invoiceView `json:"voided"`
	Replacement invoiceView `json:"replacement"`
}

func (s *Server) handleMarkInvoiceUnpaid(w http.ResponseWriter, r *http.Request) {
	var req markUnpaidRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	voided, replacement, err := s.service.MarkInvoiceUnpaid(r.Context(), r.PathValue("id"), r.PathValue("invoiceID"), req.Reason, staffActor(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, markUnpaidResponse{
		Voided:      newInvoiceView(voided),
		Replacement: newInvoiceView(replacement),
	})
}

type voidInvoiceRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleVoidInvoice(w http.ResponseWriter, r *http.Request) {
	var req voidInvoiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	invoice, err := s.service.VoidInvoice(r.Context(), r.PathValue("id"), r.PathValue("invoiceID"), req.Reason, staffActor(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newInvoiceView(invoice))
}

func parseOptionalTime(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, invalidField("due_date", err)
	}
	return &parsed, nil
}
