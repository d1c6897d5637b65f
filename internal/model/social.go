package model

import "time"

// Like marks that a user liked one calendar day. At most one row per
// (day, user); the aggregate count lives on calendar_days.like_count.
type Like struct {
	ID        string    `db:"id"`
	DayID     string    `db:"day_id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

type Comment struct {
	ID        string    `db:"id"`
	DayID     string    `db:"day_id"`
	UserID    string    `db:"user_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`

	// Joined at query time, not a column.
	Username string `db:"-"`
}

type Bookmark struct {
	ID         string    `db:"id"`
	CalendarID string    `db:"calendar_id"`
	UserID     string    `db:"user_id"`
	CreatedAt  time.Time `db:"created_at"`
}
