package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/keito-ux/advent-calendar/internal/apperror"
	"github.com/keito-ux/advent-calendar/internal/ctxkeys"
	"github.com/keito-ux/advent-calendar/internal/model"
	"github.com/keito-ux/advent-calendar/internal/service"
)

type CalendarHandler struct {
	calendarService *service.CalendarService
}

func NewCalendarHandler(calendarService *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

type calendarResponse struct {
	Calendar *model.Calendar   `json:"calendar"`
	Days     []service.DayView `json:"days"`
}

// MyCalendar returns the owner's calendar, creating and seeding it on
// first access. Provisioning failures degrade to an empty placeholder
// rather than an error page.
func (h *CalendarHandler) MyCalendar(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	calendar, days := h.calendarService.LoadOrProvisionOwnCalendar(userID)
	writeJSON(w, http.StatusOK, calendarResponse{Calendar: calendar, Days: days})
}

func (h *CalendarHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	calendarID := r.PathValue("id")
	viewerID := ctxkeys.UserID(r.Context())

	calendar, days, err := h.calendarService.LoadCalendar(calendarID, viewerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, calendarResponse{Calendar: calendar, Days: days})
}

func (h *CalendarHandler) GetByShareCode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	viewerID := ctxkeys.UserID(r.Context())

	calendar, days, err := h.calendarService.LoadByShareCode(code, viewerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, calendarResponse{Calendar: calendar, Days: days})
}

type updateCalendarRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	IsPublic    bool    `json:"is_public"`
	Theme       string  `json:"theme"`
}

func (h *CalendarHandler) UpdateCalendar(w http.ResponseWriter, r *http.Request) {
	var req updateCalendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Validation("body", "invalid JSON body"))
		return
	}

	calendar, err := h.calendarService.UpdateCalendar(
		ctxkeys.UserID(r.Context()),
		r.PathValue("id"),
		req.Title,
		req.Description,
		req.IsPublic,
		req.Theme,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, calendar)
}

func (h *CalendarHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	calendars, err := h.calendarService.Search(query, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"calendars": calendars})
}
