package repository

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keito-ux/advent-calendar/internal/model"
)

func createTestDay(t *testing.T, database *sqlx.DB, calendarID string, dayNumber int) *model.CalendarDay {
	t.Helper()

	repo := NewCalendarDayRepository(database)
	require.NoError(t, repo.SeedDays(calendarID, []int{dayNumber}))
	day, err := repo.Day(calendarID, dayNumber)
	require.NoError(t, err)
	return day
}

func TestLikeLifecycle(t *testing.T) {
	database := newTestDB(t)
	owner := createTestUser(t, database, "owner@test.dev")
	fan := createTestUser(t, database, "fan@test.dev")
	calendar := createTestCalendar(t, database, owner.ID, true)
	day := createTestDay(t, database, calendar.ID, 1)
	repo := NewLikeRepository(database)

	exists, err := repo.Exists(day.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(&model.Like{DayID: day.ID, UserID: fan.ID}))

	exists, err = repo.Exists(day.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// A second like from the same user violates the unique pair.
	err = repo.Create(&model.Like{DayID: day.ID, UserID: fan.ID})
	assert.ErrorIs(t, err, ErrDuplicateLike)

	removed, err := repo.Delete(day.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(day.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCommentsJoinUsername(t *testing.T) {
	database := newTestDB(t)
	owner := createTestUser(t, database, "owner@test.dev")
	fan := createTestUser(t, database, "fan@test.dev")
	require.NoError(t, NewProfileRepository(database).Create(&model.Profile{UserID: fan.ID, Username: "rudolph"}))
	calendar := createTestCalendar(t, database, owner.ID, true)
	day := createTestDay(t, database, calendar.ID, 1)
	repo := NewCommentRepository(database)

	require.NoError(t, repo.Create(&model.Comment{DayID: day.ID, UserID: fan.ID, Content: "first"}))
	require.NoError(t, repo.Create(&model.Comment{DayID: day.ID, UserID: owner.ID, Content: "second"}))

	comments, err := repo.ByDay(day.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "rudolph", comments[0].Username)
	assert.Empty(t, comments[1].Username, "commenters without a profile get a blank username")
}

func TestCommentDeleteIsScopedToAuthor(t *testing.T) {
	database := newTestDB(t)
	owner := createTestUser(t, database, "owner@test.dev")
	fan := createTestUser(t, database, "fan@test.dev")
	calendar := createTestCalendar(t, database, owner.ID, true)
	day := createTestDay(t, database, calendar.ID, 1)
	repo := NewCommentRepository(database)

	comment := &model.Comment{DayID: day.ID, UserID: fan.ID, Content: "mine"}
	require.NoError(t, repo.Create(comment))

	assert.ErrorIs(t, repo.Delete(comment.ID, owner.ID), ErrCommentNotFound)
	require.NoError(t, repo.Delete(comment.ID, fan.ID))

	_, err := repo.ByID(comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestBookmarkLifecycle(t *testing.T) {
	database := newTestDB(t)
	owner := createTestUser(t, database, "owner@test.dev")
	fan := createTestUser(t, database, "fan@test.dev")
	calendar := createTestCalendar(t, database, owner.ID, true)
	repo := NewBookmarkRepository(database)

	require.NoError(t, repo.Create(&model.Bookmark{CalendarID: calendar.ID, UserID: fan.ID}))
	// Racing duplicate creates are swallowed.
	require.NoError(t, repo.Create(&model.Bookmark{CalendarID: calendar.ID, UserID: fan.ID}))

	bookmarks, err := repo.ByUser(fan.ID)
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, calendar.ID, bookmarks[0].CalendarID)

	removed, err := repo.Delete(calendar.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	bookmarks, err = repo.ByUser(fan.ID)
	require.NoError(t, err)
	assert.Empty(t, bookmarks)
}

func TestTipLifecycle(t *testing.T) {
	database := newTestDB(t)
	owner := createTestUser(t, database, "owner@test.dev")
	calendar := createTestCalendar(t, database, owner.ID, true)
	repo := NewTipRepository(database)

	tip := &model.Tip{
		CalendarID: calendar.ID,
		Amount:     500,
		Currency:   "usd",
		TipperName: strp("anonymous elf"),
	}
	require.NoError(t, repo.Create(tip))
	assert.NotEmpty(t, tip.ID)

	require.NoError(t, repo.MarkPaid(tip.ID, "pi_123"))

	tips, err := repo.ByCalendar(calendar.ID)
	require.NoError(t, err)
	require.Len(t, tips, 1)
	require.NotNil(t, tips[0].StripePaymentID)
	assert.Equal(t, "pi_123", *tips[0].StripePaymentID)
}
