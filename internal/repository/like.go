package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/keito-ux/advent-calendar/internal/model"
)

var (
	ErrDuplicateLike = errors.New("day already liked")
)

type LikeRepository interface {
	Create(like *model.Like) error
	Delete(dayID, userID string) (bool, error)
	Exists(dayID, userID string) (bool, error)
}

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(like *model.Like) error {
	if like.ID == "" {
		like.ID = uuid.New().String()
	}
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now()
	}

	query := `INSERT INTO likes (id, day_id, user_id, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, like.ID, like.DayID, like.UserID, like.CreatedAt)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateLike
		}
		return err
	}

	return nil
}

// Delete removes the like and reports whether a row existed.
func (r *likeRepository) Delete(dayID, userID string) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM likes WHERE day_id = $1 AND user_id = $2`, dayID, userID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *likeRepository) Exists(dayID, userID string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM likes WHERE day_id = $1 AND user_id = $2`, dayID, userID).Scan(&count)
	return count > 0, err
}
