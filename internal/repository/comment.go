package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/keito-ux/advent-calendar/internal/model"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	ByDay(dayID string) ([]*model.Comment, error)
	ByID(id string) (*model.Comment, error)
	Delete(id, userID string) error
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	query := `INSERT INTO comments (id, day_id, user_id, content, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, comment.ID, comment.DayID, comment.UserID, comment.Content, comment.CreatedAt)
	return err
}

// ByDay returns comments oldest first with the author's username joined in.
func (r *commentRepository) ByDay(dayID string) ([]*model.Comment, error) {
	rows, err := r.db.Query(`
		SELECT cm.id, cm.day_id, cm.user_id, cm.content, cm.created_at, COALESCE(p.username, '')
		FROM comments cm
		LEFT JOIN profiles p ON p.user_id = cm.user_id
		WHERE cm.day_id = $1
		ORDER BY cm.created_at ASC
	`, dayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		c := &model.Comment{}
		err := rows.Scan(&c.ID, &c.DayID, &c.UserID, &c.Content, &c.CreatedAt, &c.Username)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

func (r *commentRepository) ByID(id string) (*model.Comment, error) {
	comment := &model.Comment{}
	query := `SELECT * FROM comments WHERE id = $1`

	err := r.db.Get(comment, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrCommentNotFound
	}

	return comment, err
}

func (r *commentRepository) Delete(id, userID string) error {
	result, err := r.db.Exec(`DELETE FROM comments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCommentNotFound
	}

	return nil
}
