package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keito-ux/advent-calendar/internal/model"
)

func TestRankingTop(t *testing.T) {
	repo := newFakeCalendarRepo()
	dayRepo := newFakeDayRepo()
	profiles := newFakeProfileRepo()
	s := NewRankingService(dayRepo, repo, profiles)

	calendar := seededCalendar(t, repo, dayRepo, "owner-1", true)
	require.NoError(t, profiles.Create(&model.Profile{UserID: "owner-1", Username: "santa"}))

	day := dayRepo.find(calendar.ID, 1)
	day.Title = str("Popular")
	day.LikeCount = 7

	ranked, err := s.Top("likes", 10)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "Popular", *ranked[0].Day.Title)
	assert.Equal(t, "santa", ranked[0].Username)
}

func TestRankingToleratesMissingProfile(t *testing.T) {
	repo := newFakeCalendarRepo()
	dayRepo := newFakeDayRepo()
	s := NewRankingService(dayRepo, repo, newFakeProfileRepo())

	calendar := seededCalendar(t, repo, dayRepo, "owner-1", true)
	day := dayRepo.find(calendar.ID, 1)
	day.Title = str("Orphan")

	ranked, err := s.Top("likes", 10)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Empty(t, ranked[0].Username)
}
