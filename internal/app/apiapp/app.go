package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vidurapriyadarshana/loca/internal/config"
	pgrepo "github.com/vidurapriyadarshana/loca/internal/repo/postgres"
	redrepo "github.com/vidurapriyadarshana/loca/internal/repo/redis"
	authsvc "github.com/vidurapriyadarshana/loca/internal/services/auth"
	feedsvc "github.com/vidurapriyadarshana/loca/internal/services/feed"
	matchessvc "github.com/vidurapriyadarshana/loca/internal/services/matches"
	profilesvc "github.com/vidurapriyadarshana/loca/internal/services/profiles"
	ratesvc "github.com/vidurapriyadarshana/loca/internal/services/rate"
	swipesvc "github.com/vidurapriyadarshana/loca/internal/services/swipes"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	userRepo := pgrepo.NewUserRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	feedRepo := pgrepo.NewFeedRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, userRepo, sessionRepo, cfg.Auth.RefreshTTL)
	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Limits.SwipeBatchesPerMin)
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		SwipeStore:  swipeRepo,
		MatchStore:  matchRepo,
		RateLimiter: rateLimiter,
	}, swipesvc.Config{
		MaxBatchSize: cfg.Limits.MaxSwipeBatchSize,
	})
	matchesService := matchessvc.NewService(matchRepo)
	profileService := profilesvc.NewService(profileRepo)
	feedService := feedsvc.NewService(feedRepo)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:    authService,
		FeedService:    feedService,
		MatchService:   matchesService,
		ProfileService: profileService,
		SwipeService:   swipeService,
		Logger:         log,
		Config:         cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
