package handler

import (
	"net/http"
	"strconv"

	"github.com/keito-ux/advent-calendar/internal/service"
)

type RankingHandler struct {
	rankingService *service.RankingService
}

func NewRankingHandler(rankingService *service.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rankingService}
}

// Top lists the most liked (or most recent) publicly visible days.
func (h *RankingHandler) Top(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sort")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ranked, err := h.rankingService.Top(sortBy, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": ranked})
}
