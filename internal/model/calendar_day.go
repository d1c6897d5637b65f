package model

import (
	"time"
)

// CalendarDay is one of the 25 slots of a calendar. Seeded rows have
// null title/media until the owner uploads a scene.
type CalendarDay struct {
	ID         string    `db:"id"`
	CalendarID string    `db:"calendar_id"`
	DayNumber  int       `db:"day_number"`
	Title      *string   `db:"title"`
	Message    *string   `db:"message"`
	ImageURL   *string   `db:"image_url"`
	ModelURL   *string   `db:"model_url"`
	LikeCount  int       `db:"like_count"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// HasContent reports whether the slot has been populated by its owner,
// as opposed to a seeded empty row.
func (d *CalendarDay) HasContent() bool {
	if d == nil {
		return false
	}
	return (d.Title != nil && *d.Title != "") ||
		(d.ImageURL != nil && *d.ImageURL != "") ||
		(d.ModelURL != nil && *d.ModelURL != "")
}
