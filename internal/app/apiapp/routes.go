package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vidurapriyadarshana/loca/internal/config"
	authsvc "github.com/vidurapriyadarshana/loca/internal/services/auth"
	feedsvc "github.com/vidurapriyadarshana/loca/internal/services/feed"
	matchessvc "github.com/vidurapriyadarshana/loca/internal/services/matches"
	profilesvc "github.com/vidurapriyadarshana/loca/internal/services/profiles"
	swipesvc "github.com/vidurapriyadarshana/loca/internal/services/swipes"
	"github.com/vidurapriyadarshana/loca/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	FeedService    *feedsvc.Service
	MatchService   *matchessvc.Service
	ProfileService *profilesvc.Service
	SwipeService   *swipesvc.Service
	Logger         *zap.Logger
	Config         config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	healthHandler := handlers.NewHealthHandler()
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	feedHandler := handlers.NewFeedHandler(deps.FeedService, deps.Config.Limits.FeedCandidatesLimit)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService, deps.Config.Limits.HistoryDefaultLimit)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService, deps.Config.Limits.MatchesDefaultLimit)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.With(authMW).Post("/logout", authHandler.Logout)
	})

	r.With(authMW).Post("/swipes", swipeHandler.Batch)
	r.With(authMW).Get("/swipes/history", swipeHandler.History)
	r.With(authMW).Get("/matches", matchesHandler.List)
	r.With(authMW).Post("/matches/unmatch", matchesHandler.Unmatch)
	r.With(authMW).Get("/feed/candidates", feedHandler.Candidates)
	r.With(authMW).Post("/profile", profileHandler.Core)
	r.With(authMW).Post("/profile/location", profileHandler.Location)
	r.With(authMW).Get("/me", profileHandler.Me)
}
