package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/keito-ux/advent-calendar/internal/model"
)

var (
	ErrCalendarNotFound = errors.New("calendar not found")
)

type CalendarRepository interface {
	Create(calendar *model.Calendar) error
	ByID(id string) (*model.Calendar, error)
	ByCreatorID(creatorID string) (*model.Calendar, error)
	ByShareCode(code string) (*model.Calendar, error)
	Update(calendar *model.Calendar) error
	SearchPublic(query string, limit int) ([]*model.Calendar, error)
}

type calendarRepository struct {
	db *sqlx.DB
}

func NewCalendarRepository(db *sqlx.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) Create(calendar *model.Calendar) error {
	query := `INSERT INTO user_calendars (id, creator_id, title, description, share_code, is_public, theme, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		calendar.ID,
		calendar.CreatorID,
		calendar.Title,
		calendar.Description,
		calendar.ShareCode,
		calendar.IsPublic,
		calendar.Theme,
		calendar.CreatedAt,
		calendar.UpdatedAt,
	)

	return err
}

func (r *calendarRepository) ByID(id string) (*model.Calendar, error) {
	calendar := &model.Calendar{}
	query := `SELECT * FROM user_calendars WHERE id = $1`

	err := r.db.Get(calendar, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrCalendarNotFound
	}

	return calendar, err
}

// ByCreatorID returns the creator's calendar. Each user has at most one.
func (r *calendarRepository) ByCreatorID(creatorID string) (*model.Calendar, error) {
	calendar := &model.Calendar{}
	query := `SELECT * FROM user_calendars WHERE creator_id = $1 ORDER BY created_at ASC LIMIT 1`

	err := r.db.Get(calendar, query, creatorID)
	if err == sql.ErrNoRows {
		return nil, ErrCalendarNotFound
	}

	return calendar, err
}

func (r *calendarRepository) ByShareCode(code string) (*model.Calendar, error) {
	calendar := &model.Calendar{}
	query := `SELECT * FROM user_calendars WHERE share_code = $1`

	err := r.db.Get(calendar, query, code)
	if err == sql.ErrNoRows {
		return nil, ErrCalendarNotFound
	}

	return calendar, err
}

func (r *calendarRepository) Update(calendar *model.Calendar) error {
	query := `UPDATE user_calendars
	          SET title = $1, description = $2, is_public = $3, theme = $4, updated_at = $5
	          WHERE id = $6 AND creator_id = $7`

	result, err := r.db.Exec(query,
		calendar.Title,
		calendar.Description,
		calendar.IsPublic,
		calendar.Theme,
		time.Now(),
		calendar.ID,
		calendar.CreatorID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCalendarNotFound
	}

	return nil
}

func (r *calendarRepository) SearchPublic(query string, limit int) ([]*model.Calendar, error) {
	var calendars []*model.Calendar
	q := `SELECT c.* FROM user_calendars c
	      LEFT JOIN profiles p ON p.user_id = c.creator_id
	      WHERE c.is_public = TRUE AND (c.title LIKE $1 OR p.username LIKE $1)
	      ORDER BY c.created_at DESC
	      LIMIT $2`

	err := r.db.Select(&calendars, q, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}

	return calendars, nil
}
