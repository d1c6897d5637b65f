package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/keito-ux/advent-calendar/internal/apperror"
	"github.com/keito-ux/advent-calendar/internal/ctxkeys"
	"github.com/keito-ux/advent-calendar/internal/service"
)

type TipHandler struct {
	tipService *service.TipService
}

func NewTipHandler(tipService *service.TipService) *TipHandler {
	return &TipHandler{tipService: tipService}
}

type createTipRequest struct {
	DayID      *string `json:"day_id"`
	Amount     int64   `json:"amount"`
	Currency   string  `json:"currency"`
	TipperName *string `json:"tipper_name"`
	Message    *string `json:"message"`
}

// CreateTip records a pending tip and returns the checkout URL the
// client should redirect to.
func (h *TipHandler) CreateTip(w http.ResponseWriter, r *http.Request) {
	var req createTipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Validation("body", "invalid JSON body"))
		return
	}

	tip, checkoutURL, err := h.tipService.CreateTip(
		r.PathValue("id"),
		req.DayID,
		req.Amount,
		req.Currency,
		req.TipperName,
		req.Message,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"tip":          tip,
		"checkout_url": checkoutURL,
	})
}

func (h *TipHandler) TipsForCalendar(w http.ResponseWriter, r *http.Request) {
	tips, err := h.tipService.TipsForCalendar(r.PathValue("id"), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tips": tips})
}

// Webhook handles payment provider callbacks. Always returns 200 for
// recognized-but-irrelevant events so the provider stops retrying.
func (h *TipHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, apperror.Validation("body", "could not read webhook payload"))
		return
	}

	if err := h.tipService.HandleWebhook(payload, r.Header); err != nil {
		slog.Error("webhook processing failed", "error", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
