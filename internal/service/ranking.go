package service

import (
	"log/slog"

	"github.com/keito-ux/advent-calendar/internal/apperror"
	"github.com/keito-ux/advent-calendar/internal/model"
	"github.com/keito-ux/advent-calendar/internal/repository"
)

const defaultRankingLimit = 20

// RankedDay is one ranking entry: a populated public day plus its
// creator's username.
type RankedDay struct {
	Day      *model.CalendarDay `json:"day"`
	Username string             `json:"username"`
}

type RankingService struct {
	dayRepo      repository.CalendarDayRepository
	calendarRepo repository.CalendarRepository
	profileRepo  repository.ProfileRepository
}

func NewRankingService(dayRepo repository.CalendarDayRepository, calendarRepo repository.CalendarRepository, profileRepo repository.ProfileRepository) *RankingService {
	return &RankingService{
		dayRepo:      dayRepo,
		calendarRepo: calendarRepo,
		profileRepo:  profileRepo,
	}
}

// Top returns populated days of public calendars ordered by like count
// or recency. A missing profile leaves the username blank instead of
// failing the whole ranking.
func (s *RankingService) Top(sortBy string, limit int) ([]RankedDay, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultRankingLimit
	}

	days, err := s.dayRepo.TopPublicDays(sortBy, limit)
	if err != nil {
		return nil, apperror.Persistence("ranking load", err)
	}

	ranked := make([]RankedDay, 0, len(days))
	for _, day := range days {
		entry := RankedDay{Day: day}

		calendar, err := s.calendarRepo.ByID(day.CalendarID)
		if err != nil {
			slog.Warn("ranking: calendar lookup failed", "error", err, "day_id", day.ID)
			ranked = append(ranked, entry)
			continue
		}

		profile, err := s.profileRepo.ByUserID(calendar.CreatorID)
		if err == nil {
			entry.Username = profile.Username
		}

		ranked = append(ranked, entry)
	}

	return ranked, nil
}
