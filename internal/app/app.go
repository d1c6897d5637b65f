package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/keito-ux/advent-calendar/internal/config"
	"github.com/keito-ux/advent-calendar/internal/db"
	"github.com/keito-ux/advent-calendar/internal/repository"
	"github.com/keito-ux/advent-calendar/internal/service"
	"github.com/keito-ux/advent-calendar/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	AuthService     *service.AuthService
	ProfileService  *service.ProfileService
	CalendarService *service.CalendarService
	SceneService    *service.SceneService
	SocialService   *service.SocialService
	RankingService  *service.RankingService
	TipService      *service.TipService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	calendarRepository := repository.NewCalendarRepository(database)
	dayRepository := repository.NewCalendarDayRepository(database)
	likeRepository := repository.NewLikeRepository(database)
	commentRepository := repository.NewCommentRepository(database)
	bookmarkRepository := repository.NewBookmarkRepository(database)
	tipRepository := repository.NewTipRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.IsProduction(),
	)
	profileService := service.NewProfileService(profileRepository, fileStorage)
	calendarService := service.NewCalendarService(calendarRepository, dayRepository, cfg.CalendarYear)
	sceneService := service.NewSceneService(calendarRepository, dayRepository, fileStorage)
	socialService := service.NewSocialService(
		likeRepository,
		commentRepository,
		bookmarkRepository,
		dayRepository,
		calendarRepository,
	)
	rankingService := service.NewRankingService(dayRepository, calendarRepository, profileRepository)
	tipService := service.NewTipService(
		tipRepository,
		calendarRepository,
		cfg.StripeSecretKey,
		cfg.StripeWebhookSecret,
		cfg.AppURL,
	)

	return &App{
		Cfg:             cfg,
		DB:              database,
		AuthService:     authService,
		ProfileService:  profileService,
		CalendarService: calendarService,
		SceneService:    sceneService,
		SocialService:   socialService,
		RankingService:  rankingService,
		TipService:      tipService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
