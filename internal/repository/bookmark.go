package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/keito-ux/advent-calendar/internal/model"
)

type BookmarkRepository interface {
	Create(bookmark *model.Bookmark) error
	Delete(calendarID, userID string) (bool, error)
	Exists(calendarID, userID string) (bool, error)
	ByUser(userID string) ([]*model.Bookmark, error)
}

type bookmarkRepository struct {
	db *sqlx.DB
}

func NewBookmarkRepository(db *sqlx.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Create(bookmark *model.Bookmark) error {
	if bookmark.ID == "" {
		bookmark.ID = uuid.New().String()
	}
	if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = time.Now()
	}

	query := `INSERT INTO bookmarks (id, calendar_id, user_id, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, bookmark.ID, bookmark.CalendarID, bookmark.UserID, bookmark.CreatedAt)
	if err != nil {
		// Toggling twice in a race is fine, the bookmark already exists
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return nil
		}
		return err
	}

	return nil
}

func (r *bookmarkRepository) Delete(calendarID, userID string) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM bookmarks WHERE calendar_id = $1 AND user_id = $2`, calendarID, userID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *bookmarkRepository) Exists(calendarID, userID string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bookmarks WHERE calendar_id = $1 AND user_id = $2`, calendarID, userID).Scan(&count)
	return count > 0, err
}

func (r *bookmarkRepository) ByUser(userID string) ([]*model.Bookmark, error) {
	var bookmarks []*model.Bookmark
	query := `SELECT * FROM bookmarks WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&bookmarks, query, userID)
	if err != nil {
		return nil, err
	}

	return bookmarks, nil
}
