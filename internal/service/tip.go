package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/keito-ux/advent-calendar/internal/apperror"
	"github.com/keito-ux/advent-calendar/internal/model"
	"github.com/keito-ux/advent-calendar/internal/repository"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
)

const (
	minTipAmount = 100    // smallest currency unit
	maxTipAmount = 500000 // 5,000.00 in major units
)

// TipService records tips for calendar creators and drives the Stripe
// Checkout flow. When no Stripe key is configured, tips are recorded
// without a payment session (development mode).
type TipService struct {
	repo          repository.TipRepository
	calendarRepo  repository.CalendarRepository
	webhookSecret string
	appURL        string
	stripeEnabled bool
}

func NewTipService(repo repository.TipRepository, calendarRepo repository.CalendarRepository, stripeSecretKey, webhookSecret, appURL string) *TipService {
	if stripeSecretKey != "" {
		stripe.Key = stripeSecretKey
	}

	return &TipService{
		repo:          repo,
		calendarRepo:  calendarRepo,
		webhookSecret: webhookSecret,
		appURL:        appURL,
		stripeEnabled: stripeSecretKey != "",
	}
}

// CreateTip records a tip and returns a Stripe Checkout URL to pay it.
func (s *TipService) CreateTip(calendarID string, dayID *string, amount int64, currency string, tipperName, message *string) (*model.Tip, string, error) {
	if amount < minTipAmount || amount > maxTipAmount {
		return nil, "", apperror.Validation("amount", fmt.Sprintf("amount must be between %d and %d", minTipAmount, maxTipAmount))
	}
	if currency == "" {
		currency = "usd"
	}

	calendar, err := s.calendarRepo.ByID(calendarID)
	if err != nil {
		if errors.Is(err, repository.ErrCalendarNotFound) {
			return nil, "", apperror.NotFound("calendar", calendarID)
		}
		return nil, "", apperror.Persistence("calendar load", err)
	}

	tip := &model.Tip{
		CalendarID: calendar.ID,
		DayID:      dayID,
		Amount:     amount,
		Currency:   currency,
		TipperName: tipperName,
		Message:    message,
	}
	err = s.repo.Create(tip)
	if err != nil {
		return nil, "", apperror.Persistence("tip create", err)
	}

	if !s.stripeEnabled {
		slog.Info("stripe not configured, tip recorded without payment", "tip_id", tip.ID)
		return tip, "", nil
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.appURL + "/calendars/" + calendar.ID + "?tip=success"),
		CancelURL:  stripe.String(s.appURL + "/calendars/" + calendar.ID + "?tip=cancelled"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Tip for " + calendar.Title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("tip_id", tip.ID)

	sess, err := session.New(params)
	if err != nil {
		return nil, "", apperror.Persistence("checkout session create", err)
	}

	return tip, sess.URL, nil
}

// TipsForCalendar lists tips received by a calendar; owner only.
func (s *TipService) TipsForCalendar(calendarID, viewerID string) ([]*model.Tip, error) {
	calendar, err := s.calendarRepo.ByID(calendarID)
	if err != nil {
		if errors.Is(err, repository.ErrCalendarNotFound) {
			return nil, apperror.NotFound("calendar", calendarID)
		}
		return nil, apperror.Persistence("calendar load", err)
	}
	if calendar.CreatorID != viewerID {
		return nil, apperror.Forbidden("only the calendar owner may view its tips")
	}

	tips, err := s.repo.ByCalendar(calendarID)
	if err != nil {
		return nil, apperror.Persistence("tips load", err)
	}

	return tips, nil
}

// HandleWebhook verifies and processes Stripe events. Only completed
// checkout sessions are of interest; they mark the tip paid.
func (s *TipService) HandleWebhook(payload []byte, headers http.Header) error {
	event, err := webhook.ConstructEventWithOptions(
		payload,
		headers.Get("Stripe-Signature"),
		s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return fmt.Errorf("failed to verify webhook signature: %w", err)
	}

	slog.Info("stripe webhook received", "event_type", event.Type)

	if event.Type != "checkout.session.completed" {
		return nil
	}

	var sess stripe.CheckoutSession
	err = json.Unmarshal(event.Data.Raw, &sess)
	if err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	tipID := sess.Metadata["tip_id"]
	if tipID == "" {
		slog.Warn("stripe webhook checkout session without tip_id metadata", "session_id", sess.ID)
		return nil
	}

	var paymentID string
	if sess.PaymentIntent != nil {
		paymentID = sess.PaymentIntent.ID
	}

	err = s.repo.MarkPaid(tipID, paymentID)
	if err != nil {
		return fmt.Errorf("failed to mark tip paid: %w", err)
	}

	slog.Info("tip paid", "tip_id", tipID)
	return nil
}
