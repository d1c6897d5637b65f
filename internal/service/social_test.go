package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keito-ux/advent-calendar/internal/apperror"
	"github.com/keito-ux/advent-calendar/internal/model"
)

type socialFixture struct {
	service  *SocialService
	repo     *fakeCalendarRepo
	dayRepo  *fakeDayRepo
	likes    *fakeLikeRepo
	comments *fakeCommentRepo

	publicDay  *model.CalendarDay
	privateDay *model.CalendarDay
	public     *model.Calendar
	private    *model.Calendar
}

func newSocialFixture(t *testing.T) *socialFixture {
	t.Helper()

	repo := newFakeCalendarRepo()
	dayRepo := newFakeDayRepo()
	likes := newFakeLikeRepo()
	comments := newFakeCommentRepo()
	bookmarks := newFakeBookmarkRepo()

	public := seededCalendar(t, repo, dayRepo, "owner-1", true)
	private := seededCalendar(t, repo, dayRepo, "owner-2", false)

	publicDay := dayRepo.find(public.ID, 1)
	publicDay.Title = str("Public scene")
	privateDay := dayRepo.find(private.ID, 1)
	privateDay.Title = str("Private scene")

	return &socialFixture{
		service:    NewSocialService(likes, comments, bookmarks, dayRepo, repo),
		repo:       repo,
		dayRepo:    dayRepo,
		likes:      likes,
		comments:   comments,
		publicDay:  publicDay,
		privateDay: privateDay,
		public:     public,
		private:    private,
	}
}

func TestToggleLike(t *testing.T) {
	f := newSocialFixture(t)

	liked, count, err := f.service.ToggleLike(f.publicDay.ID, "fan-1")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)

	liked, count, err = f.service.ToggleLike(f.publicDay.ID, "fan-2")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 2, count)

	// Same user toggling again removes the like.
	liked, count, err = f.service.ToggleLike(f.publicDay.ID, "fan-1")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 1, count)
}

func TestToggleLikeOnPrivateDay(t *testing.T) {
	f := newSocialFixture(t)

	_, _, err := f.service.ToggleLike(f.privateDay.ID, "stranger")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// The owner can like their own private day.
	liked, count, err := f.service.ToggleLike(f.privateDay.ID, "owner-2")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)
}

func TestToggleLikeUnknownDay(t *testing.T) {
	f := newSocialFixture(t)

	_, _, err := f.service.ToggleLike("missing", "fan-1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAddComment(t *testing.T) {
	f := newSocialFixture(t)

	comment, err := f.service.AddComment(f.publicDay.ID, "fan-1", "  lovely scene  ")
	require.NoError(t, err)
	assert.Equal(t, "lovely scene", comment.Content)
	assert.Equal(t, "fan-1", comment.UserID)
	assert.NotEmpty(t, comment.ID)

	comments, err := f.service.Comments(f.publicDay.ID, "")
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestAddCommentValidation(t *testing.T) {
	f := newSocialFixture(t)

	_, err := f.service.AddComment(f.publicDay.ID, "fan-1", "   ")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.service.AddComment(f.publicDay.ID, "fan-1", strings.Repeat("a", maxCommentLength+1))
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.service.AddComment(f.privateDay.ID, "stranger", "sneaky")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestDeleteComment(t *testing.T) {
	f := newSocialFixture(t)

	comment, err := f.service.AddComment(f.publicDay.ID, "fan-1", "mine")
	require.NoError(t, err)

	// Someone else's delete attempt does not remove it.
	err = f.service.DeleteComment(comment.ID, "fan-2")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	err = f.service.DeleteComment(comment.ID, "fan-1")
	require.NoError(t, err)

	comments, err := f.service.Comments(f.publicDay.ID, "")
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestToggleBookmark(t *testing.T) {
	f := newSocialFixture(t)

	bookmarked, err := f.service.ToggleBookmark(f.public.ID, "fan-1")
	require.NoError(t, err)
	assert.True(t, bookmarked)

	bookmarks, err := f.service.Bookmarks("fan-1")
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, f.public.ID, bookmarks[0].CalendarID)

	bookmarked, err = f.service.ToggleBookmark(f.public.ID, "fan-1")
	require.NoError(t, err)
	assert.False(t, bookmarked)

	bookmarks, err = f.service.Bookmarks("fan-1")
	require.NoError(t, err)
	assert.Empty(t, bookmarks)
}

func TestToggleBookmarkOnPrivateCalendar(t *testing.T) {
	f := newSocialFixture(t)

	_, err := f.service.ToggleBookmark(f.private.ID, "stranger")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.service.ToggleBookmark("missing", "fan-1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestHasLiked(t *testing.T) {
	f := newSocialFixture(t)

	liked, err := f.service.HasLiked(f.publicDay.ID, "fan-1")
	require.NoError(t, err)
	assert.False(t, liked)

	_, _, err = f.service.ToggleLike(f.publicDay.ID, "fan-1")
	require.NoError(t, err)

	liked, err = f.service.HasLiked(f.publicDay.ID, "fan-1")
	require.NoError(t, err)
	assert.True(t, liked)
}
