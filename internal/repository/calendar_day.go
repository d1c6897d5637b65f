package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/keito-ux/advent-calendar/internal/model"
)

const (
	RankingSortLikes  = "likes"
	RankingSortRecent = "recent"
)

var (
	ErrDayNotFound = errors.New("calendar day not found")
)

type CalendarDayRepository interface {
	SeedDays(calendarID string, dayNumbers []int) error
	Days(calendarID string) ([]*model.CalendarDay, error)
	Day(calendarID string, dayNumber int) (*model.CalendarDay, error)
	DayByID(id string) (*model.CalendarDay, error)
	Upsert(day *model.CalendarDay) (*model.CalendarDay, error)
	CountDays(calendarID string) (int, error)
	TopPublicDays(sortBy string, limit int) ([]*model.CalendarDay, error)
	AdjustLikeCount(dayID string, delta int) error
}

type calendarDayRepository struct {
	db *sqlx.DB
}

func NewCalendarDayRepository(db *sqlx.DB) CalendarDayRepository {
	return &calendarDayRepository{db: db}
}

// SeedDays inserts empty rows for the given day numbers. Conflicting
// day numbers are left untouched, so concurrent seeding of the same
// calendar is safe and never overwrites populated slots.
func (r *calendarDayRepository) SeedDays(calendarID string, dayNumbers []int) error {
	if len(dayNumbers) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO user_calendar_days (id, calendar_id, day_number, like_count, created_at, updated_at)
	          VALUES ($1, $2, $3, 0, $4, $5)
	          ON CONFLICT (calendar_id, day_number) DO NOTHING`

	now := time.Now()
	for _, n := range dayNumbers {
		_, err := tx.Exec(query, uuid.New().String(), calendarID, n, now, now)
		if err != nil {
			return fmt.Errorf("failed to seed day %d: %w", n, err)
		}
	}

	return tx.Commit()
}

func (r *calendarDayRepository) Days(calendarID string) ([]*model.CalendarDay, error) {
	var days []*model.CalendarDay
	query := `SELECT * FROM user_calendar_days WHERE calendar_id = $1 ORDER BY day_number ASC`

	err := r.db.Select(&days, query, calendarID)
	if err != nil {
		return nil, err
	}

	return days, nil
}

func (r *calendarDayRepository) Day(calendarID string, dayNumber int) (*model.CalendarDay, error) {
	day := &model.CalendarDay{}
	query := `SELECT * FROM user_calendar_days WHERE calendar_id = $1 AND day_number = $2`

	err := r.db.Get(day, query, calendarID, dayNumber)
	if err == sql.ErrNoRows {
		return nil, ErrDayNotFound
	}
	if err != nil {
		return nil, err
	}

	return day, nil
}

func (r *calendarDayRepository) DayByID(id string) (*model.CalendarDay, error) {
	day := &model.CalendarDay{}
	query := `SELECT * FROM user_calendar_days WHERE id = $1`

	err := r.db.Get(day, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrDayNotFound
	}
	if err != nil {
		return nil, err
	}

	return day, nil
}

// Upsert writes the day's content keyed by (calendar_id, day_number).
// On conflict it fully replaces title/message/media but preserves the
// row id, like_count and created_at.
func (r *calendarDayRepository) Upsert(day *model.CalendarDay) (*model.CalendarDay, error) {
	if day.ID == "" {
		day.ID = uuid.New().String()
	}
	now := time.Now()
	if day.CreatedAt.IsZero() {
		day.CreatedAt = now
	}
	day.UpdatedAt = now

	query := `INSERT INTO user_calendar_days (id, calendar_id, day_number, title, message, image_url, model_url, like_count, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9)
	          ON CONFLICT (calendar_id, day_number) DO UPDATE SET
	              title = excluded.title,
	              message = excluded.message,
	              image_url = excluded.image_url,
	              model_url = excluded.model_url,
	              updated_at = excluded.updated_at`

	_, err := r.db.Exec(query,
		day.ID,
		day.CalendarID,
		day.DayNumber,
		day.Title,
		day.Message,
		day.ImageURL,
		day.ModelURL,
		day.CreatedAt,
		day.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return r.Day(day.CalendarID, day.DayNumber)
}

func (r *calendarDayRepository) CountDays(calendarID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM user_calendar_days WHERE calendar_id = $1`
	err := r.db.QueryRow(query, calendarID).Scan(&count)
	return count, err
}

// TopPublicDays returns populated days of public calendars for the
// ranking view.
func (r *calendarDayRepository) TopPublicDays(sortBy string, limit int) ([]*model.CalendarDay, error) {
	var orderBy string
	switch sortBy {
	case RankingSortRecent:
		orderBy = "ORDER BY d.created_at DESC"
	default: // RankingSortLikes or empty
		orderBy = "ORDER BY d.like_count DESC, d.created_at DESC"
	}

	var days []*model.CalendarDay
	query := `SELECT d.* FROM user_calendar_days d
	          JOIN user_calendars c ON c.id = d.calendar_id
	          WHERE c.is_public = TRUE AND d.title IS NOT NULL ` + orderBy + ` LIMIT $1`

	err := r.db.Select(&days, query, limit)
	if err != nil {
		return nil, err
	}

	return days, nil
}

func (r *calendarDayRepository) AdjustLikeCount(dayID string, delta int) error {
	query := `UPDATE user_calendar_days
	          SET like_count = CASE WHEN like_count + $1 < 0 THEN 0 ELSE like_count + $1 END
	          WHERE id = $2`

	result, err := r.db.Exec(query, delta, dayID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrDayNotFound
	}

	return nil
}
