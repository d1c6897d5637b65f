package routes

import (
	"net/http"

	"github.com/keito-ux/advent-calendar/internal/app"
	"github.com/keito-ux/advent-calendar/internal/handler"
	"github.com/keito-ux/advent-calendar/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.ProfileService)
	calendar := handler.NewCalendarHandler(app.CalendarService)
	scene := handler.NewSceneHandler(app.SceneService)
	social := handler.NewSocialHandler(app.SocialService)
	ranking := handler.NewRankingHandler(app.RankingService)
	profile := handler.NewProfileHandler(app.ProfileService)
	tip := handler.NewTipHandler(app.TipService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)

	// Calendars
	mux.HandleFunc("GET /api/calendars/{id}", calendar.GetCalendar)
	mux.HandleFunc("GET /api/shared/{code}", calendar.GetByShareCode)
	mux.HandleFunc("GET /api/calendars", calendar.Search)

	// Ranking
	mux.HandleFunc("GET /api/ranking", ranking.Top)

	// Comments are readable on any visible day
	mux.HandleFunc("GET /api/days/{dayID}/comments", social.Comments)

	// Profiles
	mux.HandleFunc("GET /api/profiles/{username}", profile.ByUsername)

	// Tips
	mux.HandleFunc("POST /api/calendars/{id}/tips", tip.CreateTip)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(auth.Me))

	// Own calendar
	mux.HandleFunc("GET /api/my/calendar", middleware.RequireAuth(calendar.MyCalendar))
	mux.HandleFunc("PUT /api/calendars/{id}", middleware.RequireAuth(calendar.UpdateCalendar))

	// Day content
	mux.HandleFunc("PUT /api/calendars/{id}/days/{day}", middleware.RequireAuth(scene.SaveDay))
	mux.HandleFunc("POST /api/uploads", middleware.RequireAuth(scene.Upload))

	// Social
	mux.HandleFunc("POST /api/days/{dayID}/like", middleware.RequireAuth(social.ToggleLike))
	mux.HandleFunc("POST /api/days/{dayID}/comments", middleware.RequireAuth(social.AddComment))
	mux.HandleFunc("DELETE /api/comments/{commentID}", middleware.RequireAuth(social.DeleteComment))
	mux.HandleFunc("POST /api/calendars/{id}/bookmark", middleware.RequireAuth(social.ToggleBookmark))
	mux.HandleFunc("GET /api/my/bookmarks", middleware.RequireAuth(social.Bookmarks))

	// Profile
	mux.HandleFunc("PUT /api/my/profile", middleware.RequireAuth(profile.Update))
	mux.HandleFunc("POST /api/my/profile/avatar", middleware.RequireAuth(profile.UpdateAvatar))

	// Tips received on own calendar
	mux.HandleFunc("GET /api/calendars/{id}/tips", middleware.RequireAuth(tip.TipsForCalendar))

	// ============================================================================
	// WEBHOOKS
	// ============================================================================

	mux.HandleFunc("POST /webhooks/payment", tip.Webhook)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.Auth(app.AuthService, app.ProfileService),
	)
}
