package handler

import (
	"encoding/json"
	"net/http"

	"github.com/keito-ux/advent-calendar/internal/apperror"
	"github.com/keito-ux/advent-calendar/internal/ctxkeys"
	"github.com/keito-ux/advent-calendar/internal/service"
)

const maxAvatarFormSize = 12 << 20

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) ByUsername(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.ByUsername(r.PathValue("username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Validation("body", "invalid JSON body"))
		return
	}

	profile, err := h.profileService.Update(ctxkeys.UserID(r.Context()), req.Username, req.Bio)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAvatarFormSize); err != nil {
		writeError(w, apperror.Validation("body", "invalid multipart form"))
		return
	}

	header := formFile(r, "avatar")
	if header == nil {
		writeError(w, apperror.Validation("avatar", "avatar file is required"))
		return
	}

	profile, err := h.profileService.UpdateAvatar(ctxkeys.UserID(r.Context()), header)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
