package service

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keito-ux/advent-calendar/internal/apperror"
	"github.com/keito-ux/advent-calendar/internal/model"
	"github.com/keito-ux/advent-calendar/internal/repository"
	"github.com/keito-ux/advent-calendar/internal/storage"
	"github.com/keito-ux/advent-calendar/internal/validation"
)

const maxSceneTitleLength = 120

// SaveDayInput carries one scene save. Image and Model are optional
// new uploads; when absent, references already on the record are kept.
type SaveDayInput struct {
	CalendarID string
	DayNumber  int
	Title      string
	Message    string
	Image      *multipart.FileHeader
	Model      *multipart.FileHeader
	EditorID   string
}

// SceneService creates and replaces the content of single calendar day
// slots: media goes to object storage, the resulting public URL plus
// title/message go to the day row via full-replace upsert.
type SceneService struct {
	calendarRepo repository.CalendarRepository
	dayRepo      repository.CalendarDayRepository
	storage      storage.Storage
}

func NewSceneService(calendarRepo repository.CalendarRepository, dayRepo repository.CalendarDayRepository, storage storage.Storage) *SceneService {
	return &SceneService{
		calendarRepo: calendarRepo,
		dayRepo:      dayRepo,
		storage:      storage,
	}
}

// SaveDay validates, uploads new media, and upserts the day record.
// Input violations are rejected before any storage or database call.
// Write failures are always surfaced so the caller never believes
// unsaved content persisted.
func (s *SceneService) SaveDay(in SaveDayInput) (*model.CalendarDay, error) {
	if in.DayNumber < 1 || in.DayNumber > DaysPerCalendar {
		return nil, apperror.Validation("day_number", fmt.Sprintf("day number must be between 1 and %d", DaysPerCalendar))
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.Validation("title", "title is required")
	}
	if len(title) > maxSceneTitleLength {
		return nil, apperror.Validation("title", fmt.Sprintf("title is too long (max %d characters)", maxSceneTitleLength))
	}

	if in.Image != nil {
		err := validation.ValidateFile(in.Image, validation.ImageConstraints)
		if err != nil {
			return nil, apperror.Validation("image", err.Error())
		}
	}
	if in.Model != nil {
		err := validation.ValidateFile(in.Model, validation.ModelConstraints)
		if err != nil {
			return nil, apperror.Validation("model", err.Error())
		}
	}

	calendar, err := s.calendarRepo.ByID(in.CalendarID)
	if err != nil {
		if errors.Is(err, repository.ErrCalendarNotFound) {
			return nil, apperror.NotFound("calendar", in.CalendarID)
		}
		return nil, apperror.Persistence("calendar load", err)
	}

	if calendar.CreatorID != in.EditorID {
		return nil, apperror.Forbidden("only the calendar owner may edit its days")
	}

	// Existing record, if any: edit mode keeps its media references
	// when no new binary is supplied.
	existing, err := s.dayRepo.Day(in.CalendarID, in.DayNumber)
	if err != nil && !errors.Is(err, repository.ErrDayNotFound) {
		return nil, apperror.Persistence("day load", err)
	}

	var imageURL, modelURL *string
	if existing != nil {
		imageURL = existing.ImageURL
		modelURL = existing.ModelURL
	}

	if in.Image == nil && in.Model == nil && imageURL == nil && modelURL == nil {
		return nil, apperror.Validation("media", "an image or 3D model is required")
	}

	if in.Image != nil {
		url, err := s.uploadSceneFile(in.Image, "uploads", in.CalendarID, in.DayNumber)
		if err != nil {
			return nil, apperror.Persistence("image upload", err)
		}
		imageURL = &url
	}
	if in.Model != nil {
		url, err := s.uploadSceneFile(in.Model, "models", in.CalendarID, in.DayNumber)
		if err != nil {
			return nil, apperror.Persistence("model upload", err)
		}
		modelURL = &url
	}

	day := &model.CalendarDay{
		CalendarID: in.CalendarID,
		DayNumber:  in.DayNumber,
		Title:      &title,
		ImageURL:   imageURL,
		ModelURL:   modelURL,
	}
	if message := strings.TrimSpace(in.Message); message != "" {
		day.Message = &message
	}

	saved, err := s.dayRepo.Upsert(day)
	if err != nil {
		return nil, apperror.Persistence("day save", err)
	}

	return saved, nil
}

// Upload stores an untargeted media file (not bound to a day slot) and
// returns its public URL.
func (s *SceneService) Upload(userID string, header *multipart.FileHeader) (string, error) {
	err := validation.ValidateFile(header, validation.ImageConstraints, validation.ModelConstraints)
	if err != nil {
		return "", apperror.Validation("file", err.Error())
	}

	file, err := header.Open()
	if err != nil {
		return "", apperror.Validation("file", "failed to open file")
	}
	defer file.Close()

	path := fmt.Sprintf("uploads/%s-%d-%s", userID, time.Now().UnixMilli(), filepath.Base(header.Filename))
	err = s.storage.Save(path, file)
	if err != nil {
		return "", apperror.Persistence("file upload", err)
	}

	return s.storage.PublicURL(path), nil
}

// uploadSceneFile stores a day's media under a path scoped by calendar
// and day number so concurrent saves for different slots never collide.
func (s *SceneService) uploadSceneFile(header *multipart.FileHeader, prefix, calendarID string, dayNumber int) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := fmt.Sprintf("%s/%s/day-%d-%s%s", prefix, calendarID, dayNumber, uuid.New().String(), ext)

	err = s.storage.Save(path, file)
	if err != nil {
		return "", err
	}

	return s.storage.PublicURL(path), nil
}
