package model

import "time"

type Tip struct {
	ID              string    `db:"id"`
	CalendarID      string    `db:"calendar_id"`
	DayID           *string   `db:"day_id"`
	Amount          int64     `db:"amount"` // smallest currency unit
	Currency        string    `db:"currency"`
	TipperName      *string   `db:"tipper_name"`
	Message         *string   `db:"message"`
	StripePaymentID *string   `db:"stripe_payment_id"`
	CreatedAt       time.Time `db:"created_at"`
}
