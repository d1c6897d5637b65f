package model

import (
	"time"
)

const (
	// DefaultCalendarTitle is used when a calendar is lazily provisioned.
	DefaultCalendarTitle = "My Advent Calendar"

	ThemeClassic = "classic"
)

// PlaceholderCalendarID marks an in-memory calendar returned when
// provisioning could not reach the database. Nothing with this id is
// ever persisted.
const PlaceholderCalendarID = "default"

type Calendar struct {
	ID          string    `db:"id"`
	CreatorID   string    `db:"creator_id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	ShareCode   string    `db:"share_code"`
	IsPublic    bool      `db:"is_public"`
	Theme       string    `db:"theme"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (c *Calendar) IsPlaceholder() bool {
	return c.ID == PlaceholderCalendarID
}

// VisibleTo reports whether viewerID may see the calendar's day content.
// Calendar metadata (title, theme) is always visible.
func (c *Calendar) VisibleTo(viewerID string) bool {
	return c.IsPublic || (viewerID != "" && viewerID == c.CreatorID)
}
