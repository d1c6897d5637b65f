package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keito-ux/advent-calendar/internal/apperror"
	"github.com/keito-ux/advent-calendar/internal/model"
	"github.com/keito-ux/advent-calendar/internal/repository"
)

// DaysPerCalendar is the number of slots in every calendar (Dec 1-25).
const DaysPerCalendar = 25

var calendarThemes = map[string]bool{
	"classic": true,
	"snow":    true,
	"golden":  true,
	"rose":    true,
	"ocean":   true,
	"forest":  true,
}

// DayView is one slot of a calendar as seen by a viewer: the persisted
// record plus date-derived unlock state. Records whose unlock date has
// not arrived are redacted for anyone but the owner.
type DayView struct {
	DayNumber int                `json:"day_number"`
	Unlocked  bool               `json:"unlocked"`
	Today     bool               `json:"today"`
	Day       *model.CalendarDay `json:"day,omitempty"`
}

type CalendarService struct {
	repo    repository.CalendarRepository
	dayRepo repository.CalendarDayRepository
	year    int

	// now is swapped in tests to pin the clock.
	now func() time.Time
}

func NewCalendarService(repo repository.CalendarRepository, dayRepo repository.CalendarDayRepository, year int) *CalendarService {
	return &CalendarService{
		repo:    repo,
		dayRepo: dayRepo,
		year:    year,
		now:     time.Now,
	}
}

// UnlockDate returns local midnight of December dayNumber in the
// calendar year.
func (s *CalendarService) UnlockDate(dayNumber int) time.Time {
	return time.Date(s.year, time.December, dayNumber, 0, 0, 0, 0, time.Local)
}

func (s *CalendarService) todayMidnight() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// IsUnlocked reports whether a slot's content may be shown. A slot
// with no populated record is never unlocked, regardless of date, and
// a populated record stays locked until its date arrives.
func (s *CalendarService) IsUnlocked(dayNumber int, day *model.CalendarDay) bool {
	if !day.HasContent() {
		return false
	}
	return !s.todayMidnight().Before(s.UnlockDate(dayNumber))
}

// IsToday reports whether dayNumber's unlock date is the current day.
func (s *CalendarService) IsToday(dayNumber int) bool {
	return s.todayMidnight().Equal(s.UnlockDate(dayNumber))
}

// LoadCalendar returns a calendar's metadata and its day views for the
// given viewer. Day content is only included when the viewer owns the
// calendar or the calendar is public; otherwise the metadata comes back
// with an empty day list. viewerID is empty for anonymous viewers.
func (s *CalendarService) LoadCalendar(calendarID, viewerID string) (*model.Calendar, []DayView, error) {
	calendar, err := s.repo.ByID(calendarID)
	if err != nil {
		if errors.Is(err, repository.ErrCalendarNotFound) {
			return nil, nil, apperror.NotFound("calendar", calendarID)
		}
		return nil, nil, apperror.Persistence("calendar load", err)
	}

	if !calendar.VisibleTo(viewerID) {
		return calendar, []DayView{}, nil
	}

	days, err := s.dayRepo.Days(calendarID)
	if err != nil {
		return nil, nil, apperror.Persistence("calendar days load", err)
	}

	return calendar, s.dayViews(days, viewerID == calendar.CreatorID), nil
}

// LoadByShareCode resolves a calendar through its share code, with the
// same visibility rules as LoadCalendar.
func (s *CalendarService) LoadByShareCode(code, viewerID string) (*model.Calendar, []DayView, error) {
	calendar, err := s.repo.ByShareCode(code)
	if err != nil {
		if errors.Is(err, repository.ErrCalendarNotFound) {
			return nil, nil, apperror.NotFound("calendar", code)
		}
		return nil, nil, apperror.Persistence("calendar load", err)
	}

	return s.LoadCalendar(calendar.ID, viewerID)
}

// LoadOrProvisionOwnCalendar returns the owner's calendar, creating it
// with 25 empty day slots on first access and topping up missing slots
// on later calls. Seeding uses conflict-ignoring inserts, so repeated
// or concurrent calls never duplicate or overwrite populated slots.
//
// On persistence failure the caller gets an in-memory placeholder
// calendar with no days instead of an error, so the grid stays
// renderable while the backend is down. The failure is logged.
func (s *CalendarService) LoadOrProvisionOwnCalendar(ownerID string) (*model.Calendar, []DayView) {
	calendar, err := s.repo.ByCreatorID(ownerID)
	if errors.Is(err, repository.ErrCalendarNotFound) {
		calendar, err = s.createCalendar(ownerID)
	}
	if err != nil {
		slog.Error("calendar provisioning failed, serving placeholder", "error", err, "owner_id", ownerID)
		return s.placeholderCalendar(ownerID), []DayView{}
	}

	days, err := s.dayRepo.Days(calendar.ID)
	if err == nil && len(days) < DaysPerCalendar {
		err = s.dayRepo.SeedDays(calendar.ID, missingDayNumbers(days))
		if err == nil {
			days, err = s.dayRepo.Days(calendar.ID)
		}
	}
	if err != nil {
		slog.Error("calendar day seeding failed, serving placeholder", "error", err, "owner_id", ownerID)
		return s.placeholderCalendar(ownerID), []DayView{}
	}

	return calendar, s.dayViews(days, true)
}

// UpdateCalendar applies owner-only metadata edits (title, description,
// visibility, theme).
func (s *CalendarService) UpdateCalendar(ownerID, calendarID, title string, description *string, isPublic bool, theme string) (*model.Calendar, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.Validation("title", "title is required")
	}
	if !calendarThemes[theme] {
		return nil, apperror.Validation("theme", "unknown theme")
	}

	calendar, err := s.repo.ByID(calendarID)
	if err != nil {
		if errors.Is(err, repository.ErrCalendarNotFound) {
			return nil, apperror.NotFound("calendar", calendarID)
		}
		return nil, apperror.Persistence("calendar load", err)
	}

	if calendar.CreatorID != ownerID {
		return nil, apperror.Forbidden("only the calendar owner may edit it")
	}

	calendar.Title = title
	calendar.Description = description
	calendar.IsPublic = isPublic
	calendar.Theme = theme

	err = s.repo.Update(calendar)
	if err != nil {
		return nil, apperror.Persistence("calendar update", err)
	}

	return calendar, nil
}

func (s *CalendarService) Search(query string, limit int) ([]*model.Calendar, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	calendars, err := s.repo.SearchPublic(query, limit)
	if err != nil {
		return nil, apperror.Persistence("calendar search", err)
	}

	return calendars, nil
}

func (s *CalendarService) createCalendar(ownerID string) (*model.Calendar, error) {
	now := time.Now()
	calendar := &model.Calendar{
		ID:        uuid.New().String(),
		CreatorID: ownerID,
		Title:     model.DefaultCalendarTitle,
		ShareCode: generateShareCode(),
		IsPublic:  false,
		Theme:     model.ThemeClassic,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.repo.Create(calendar)
	if err != nil {
		return nil, err
	}

	err = s.dayRepo.SeedDays(calendar.ID, missingDayNumbers(nil))
	if err != nil {
		return nil, err
	}

	return calendar, nil
}

func (s *CalendarService) placeholderCalendar(ownerID string) *model.Calendar {
	now := time.Now()
	return &model.Calendar{
		ID:        model.PlaceholderCalendarID,
		CreatorID: ownerID,
		Title:     model.DefaultCalendarTitle,
		Theme:     model.ThemeClassic,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// dayViews computes unlock state per slot. Non-owner viewers do not
// receive the record for a slot that exists but has not unlocked yet.
func (s *CalendarService) dayViews(days []*model.CalendarDay, isOwner bool) []DayView {
	byNumber := make(map[int]*model.CalendarDay, len(days))
	for _, d := range days {
		byNumber[d.DayNumber] = d
	}

	views := make([]DayView, 0, DaysPerCalendar)
	for n := 1; n <= DaysPerCalendar; n++ {
		day := byNumber[n]
		unlocked := s.IsUnlocked(n, day)
		if day != nil && day.HasContent() && !unlocked && !isOwner {
			day = nil // content withheld until the date arrives
		}
		views = append(views, DayView{
			DayNumber: n,
			Unlocked:  unlocked,
			Today:     s.IsToday(n),
			Day:       day,
		})
	}

	return views
}

func missingDayNumbers(existing []*model.CalendarDay) []int {
	present := make(map[int]bool, len(existing))
	for _, d := range existing {
		present[d.DayNumber] = true
	}

	var missing []int
	for n := 1; n <= DaysPerCalendar; n++ {
		if !present[n] {
			missing = append(missing, n)
		}
	}
	return missing
}

func generateShareCode() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
