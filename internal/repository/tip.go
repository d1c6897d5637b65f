package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/keito-ux/advent-calendar/internal/model"
)

type TipRepository interface {
	Create(tip *model.Tip) error
	ByCalendar(calendarID string) ([]*model.Tip, error)
	MarkPaid(id, stripePaymentID string) error
}

type tipRepository struct {
	db *sqlx.DB
}

func NewTipRepository(db *sqlx.DB) TipRepository {
	return &tipRepository{db: db}
}

func (r *tipRepository) Create(tip *model.Tip) error {
	if tip.ID == "" {
		tip.ID = uuid.New().String()
	}
	if tip.CreatedAt.IsZero() {
		tip.CreatedAt = time.Now()
	}

	query := `INSERT INTO tips (id, calendar_id, day_id, amount, currency, tipper_name, message, stripe_payment_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		tip.ID,
		tip.CalendarID,
		tip.DayID,
		tip.Amount,
		tip.Currency,
		tip.TipperName,
		tip.Message,
		tip.StripePaymentID,
		tip.CreatedAt,
	)

	return err
}

func (r *tipRepository) ByCalendar(calendarID string) ([]*model.Tip, error) {
	var tips []*model.Tip
	query := `SELECT * FROM tips WHERE calendar_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&tips, query, calendarID)
	if err != nil {
		return nil, err
	}

	return tips, nil
}

func (r *tipRepository) MarkPaid(id, stripePaymentID string) error {
	_, err := r.db.Exec(`UPDATE tips SET stripe_payment_id = $1 WHERE id = $2`, stripePaymentID, id)
	return err
}
