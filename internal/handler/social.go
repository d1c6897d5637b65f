package handler

import (
	"encoding/json"
	"net/http"

	"github.com/keito-ux/advent-calendar/internal/apperror"
	"github.com/keito-ux/advent-calendar/internal/ctxkeys"
	"github.com/keito-ux/advent-calendar/internal/service"
)

type SocialHandler struct {
	socialService *service.SocialService
}

func NewSocialHandler(socialService *service.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

func (h *SocialHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	liked, count, err := h.socialService.ToggleLike(r.PathValue("dayID"), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"liked":      liked,
		"like_count": count,
	})
}

type commentRequest struct {
	Content string `json:"content"`
}

func (h *SocialHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Validation("body", "invalid JSON body"))
		return
	}

	comment, err := h.socialService.AddComment(r.PathValue("dayID"), ctxkeys.UserID(r.Context()), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *SocialHandler) Comments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.socialService.Comments(r.PathValue("dayID"), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

func (h *SocialHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.socialService.DeleteComment(r.PathValue("commentID"), ctxkeys.UserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *SocialHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	bookmarked, err := h.socialService.ToggleBookmark(r.PathValue("id"), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookmarked": bookmarked})
}

func (h *SocialHandler) Bookmarks(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := h.socialService.Bookmarks(ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookmarks": bookmarks})
}
