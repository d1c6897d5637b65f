package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/keito-ux/advent-calendar/internal/db"
	"github.com/keito-ux/advent-calendar/internal/model"
)

// newTestDB spins up a migrated in-memory SQLite database. One open
// connection only, since every :memory: connection is its own database.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", ":memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	t.Cleanup(func() { _ = database.Close() })
	return database
}

func createTestUser(t *testing.T, database *sqlx.DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, NewUserRepository(database).Create(user))
	return user
}

func createTestCalendar(t *testing.T, database *sqlx.DB, creatorID string, public bool) *model.Calendar {
	t.Helper()

	now := time.Now()
	calendar := &model.Calendar{
		ID:        uuid.New().String(),
		CreatorID: creatorID,
		Title:     model.DefaultCalendarTitle,
		ShareCode: uuid.New().String()[:8],
		IsPublic:  public,
		Theme:     model.ThemeClassic,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, NewCalendarRepository(database).Create(calendar))
	return calendar
}

func strp(s string) *string { return &s }
