package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/keito-ux/advent-calendar/internal/apperror"
	"github.com/keito-ux/advent-calendar/internal/ctxkeys"
	"github.com/keito-ux/advent-calendar/internal/service"
)

// Multipart form size cap. Large enough for one model plus one image.
const maxUploadFormSize = 64 << 20

type SceneHandler struct {
	sceneService *service.SceneService
}

func NewSceneHandler(sceneService *service.SceneService) *SceneHandler {
	return &SceneHandler{sceneService: sceneService}
}

// SaveDay accepts a multipart form with title, message, and optional
// image/model files, and fully replaces the day's content.
func (h *SceneHandler) SaveDay(w http.ResponseWriter, r *http.Request) {
	dayNumber, err := strconv.Atoi(r.PathValue("day"))
	if err != nil {
		writeError(w, apperror.Validation("day_number", "day number must be an integer"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadFormSize); err != nil {
		writeError(w, apperror.Validation("body", "invalid multipart form"))
		return
	}

	day, err := h.sceneService.SaveDay(service.SaveDayInput{
		CalendarID: r.PathValue("id"),
		DayNumber:  dayNumber,
		Title:      r.FormValue("title"),
		Message:    r.FormValue("message"),
		Image:      formFile(r, "image"),
		Model:      formFile(r, "model"),
		EditorID:   ctxkeys.UserID(r.Context()),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// Upload stores a single file without targeting a day slot and returns
// its public URL.
func (h *SceneHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadFormSize); err != nil {
		writeError(w, apperror.Validation("body", "invalid multipart form"))
		return
	}

	header := formFile(r, "file")
	if header == nil {
		writeError(w, apperror.Validation("file", "file is required"))
		return
	}

	url, err := h.sceneService.Upload(ctxkeys.UserID(r.Context()), header)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func formFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
