package service

import (
	"errors"
	"strings"

	"github.com/keito-ux/advent-calendar/internal/apperror"
	"github.com/keito-ux/advent-calendar/internal/model"
	"github.com/keito-ux/advent-calendar/internal/repository"
)

const maxCommentLength = 1000

// SocialService covers likes, comments and bookmarks. All operations
// require a signed-in user and a day (or calendar) the user may see.
type SocialService struct {
	likeRepo     repository.LikeRepository
	commentRepo  repository.CommentRepository
	bookmarkRepo repository.BookmarkRepository
	dayRepo      repository.CalendarDayRepository
	calendarRepo repository.CalendarRepository
}

func NewSocialService(
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
	bookmarkRepo repository.BookmarkRepository,
	dayRepo repository.CalendarDayRepository,
	calendarRepo repository.CalendarRepository,
) *SocialService {
	return &SocialService{
		likeRepo:     likeRepo,
		commentRepo:  commentRepo,
		bookmarkRepo: bookmarkRepo,
		dayRepo:      dayRepo,
		calendarRepo: calendarRepo,
	}
}

// ToggleLike likes the day if the user has not liked it, unlikes it
// otherwise. Returns the new liked state and like count.
func (s *SocialService) ToggleLike(dayID, userID string) (bool, int, error) {
	day, err := s.visibleDay(dayID, userID)
	if err != nil {
		return false, 0, err
	}

	liked, err := s.likeRepo.Exists(dayID, userID)
	if err != nil {
		return false, 0, apperror.Persistence("like lookup", err)
	}

	if liked {
		removed, err := s.likeRepo.Delete(dayID, userID)
		if err != nil {
			return false, 0, apperror.Persistence("unlike", err)
		}
		if removed {
			err = s.dayRepo.AdjustLikeCount(dayID, -1)
			if err != nil {
				return false, 0, apperror.Persistence("like count update", err)
			}
		}
	} else {
		err = s.likeRepo.Create(&model.Like{DayID: dayID, UserID: userID})
		if err != nil && !errors.Is(err, repository.ErrDuplicateLike) {
			return false, 0, apperror.Persistence("like", err)
		}
		if err == nil {
			err = s.dayRepo.AdjustLikeCount(dayID, 1)
			if err != nil {
				return false, 0, apperror.Persistence("like count update", err)
			}
		}
	}

	day, err = s.dayRepo.DayByID(day.ID)
	if err != nil {
		return false, 0, apperror.Persistence("day reload", err)
	}

	return !liked, day.LikeCount, nil
}

func (s *SocialService) HasLiked(dayID, userID string) (bool, error) {
	liked, err := s.likeRepo.Exists(dayID, userID)
	if err != nil {
		return false, apperror.Persistence("like lookup", err)
	}
	return liked, nil
}

func (s *SocialService) AddComment(dayID, userID, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.Validation("content", "comment is required")
	}
	if len(content) > maxCommentLength {
		return nil, apperror.Validation("content", "comment is too long")
	}

	_, err := s.visibleDay(dayID, userID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		DayID:   dayID,
		UserID:  userID,
		Content: content,
	}
	err = s.commentRepo.Create(comment)
	if err != nil {
		return nil, apperror.Persistence("comment create", err)
	}

	return comment, nil
}

func (s *SocialService) Comments(dayID, viewerID string) ([]*model.Comment, error) {
	_, err := s.visibleDay(dayID, viewerID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ByDay(dayID)
	if err != nil {
		return nil, apperror.Persistence("comments load", err)
	}

	return comments, nil
}

// DeleteComment removes the user's own comment only.
func (s *SocialService) DeleteComment(commentID, userID string) error {
	err := s.commentRepo.Delete(commentID, userID)
	if errors.Is(err, repository.ErrCommentNotFound) {
		return apperror.NotFound("comment", commentID)
	}
	if err != nil {
		return apperror.Persistence("comment delete", err)
	}
	return nil
}

// ToggleBookmark bookmarks or un-bookmarks a calendar for the user.
func (s *SocialService) ToggleBookmark(calendarID, userID string) (bool, error) {
	calendar, err := s.calendarRepo.ByID(calendarID)
	if err != nil {
		if errors.Is(err, repository.ErrCalendarNotFound) {
			return false, apperror.NotFound("calendar", calendarID)
		}
		return false, apperror.Persistence("calendar load", err)
	}
	if !calendar.VisibleTo(userID) {
		return false, apperror.Forbidden("calendar is private")
	}

	exists, err := s.bookmarkRepo.Exists(calendarID, userID)
	if err != nil {
		return false, apperror.Persistence("bookmark lookup", err)
	}

	if exists {
		_, err = s.bookmarkRepo.Delete(calendarID, userID)
		if err != nil {
			return false, apperror.Persistence("bookmark delete", err)
		}
		return false, nil
	}

	err = s.bookmarkRepo.Create(&model.Bookmark{CalendarID: calendarID, UserID: userID})
	if err != nil {
		return false, apperror.Persistence("bookmark create", err)
	}
	return true, nil
}

func (s *SocialService) Bookmarks(userID string) ([]*model.Bookmark, error) {
	bookmarks, err := s.bookmarkRepo.ByUser(userID)
	if err != nil {
		return nil, apperror.Persistence("bookmarks load", err)
	}
	return bookmarks, nil
}

// visibleDay resolves a day and checks the viewer may see its
// calendar: owner always, others only when the calendar is public.
func (s *SocialService) visibleDay(dayID, viewerID string) (*model.CalendarDay, error) {
	day, err := s.dayRepo.DayByID(dayID)
	if err != nil {
		if errors.Is(err, repository.ErrDayNotFound) {
			return nil, apperror.NotFound("day", dayID)
		}
		return nil, apperror.Persistence("day load", err)
	}

	calendar, err := s.calendarRepo.ByID(day.CalendarID)
	if err != nil {
		return nil, apperror.Persistence("calendar load", err)
	}
	if !calendar.VisibleTo(viewerID) {
		return nil, apperror.Forbidden("calendar is private")
	}

	return day, nil
}
