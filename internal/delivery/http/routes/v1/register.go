package v1

import (
	"log"

	"skillbridge/internal/config"
	"skillbridge/internal/database"
	"skillbridge/internal/delivery/http/handler"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/infrastructure/cache"
	"skillbridge/internal/infrastructure/matcher"
	"skillbridge/internal/pkg/jwt"
	"skillbridge/internal/repository"
	"skillbridge/internal/usecase"
	"skillbridge/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	Logger *log.Logger
}

func Register(r fiber.Router, deps Deps) {
	if r == nil {
		return
	}
	cfg := deps.Config

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := repository.NewPostgresUserRepository(deps.DB)
	profileRepo := repository.NewPostgresProfileRepository(deps.DB)
	matchRepo := repository.NewPostgresMatchRepository(deps.DB)
	pointsRepo := repository.NewPostgresPointsRepository(deps.DB)
	sessionRepo := repository.NewPostgresSessionRepository(deps.DB)
	reviewRepo := repository.NewPostgresReviewRepository(deps.DB)

	remote := matcher.NewClient(cfg.Matcher.BaseURL, cfg.Matcher.RequestTimeout, deps.Logger)

	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc)
	profileUC := usecase.NewProfileUsecase(profileRepo)
	matchUC := usecase.NewMatchUsecase(profileRepo, matchRepo, remote, matchCache(deps.Cache), deps.Logger, cfg.Matcher.WarmupDelay)
	pointsUC := usecase.NewPointsUsecase(pointsRepo)
	sessionUC := usecase.NewSessionUsecase(sessionRepo, matchRepo)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, sessionRepo)

	authHandler := handler.NewAuthHandler(authUC)
	userHandler := handler.NewUserHandler(profileUC)
	matchHandler := handler.NewMatchHandler(matchUC)
	pointsHandler := handler.NewPointsHandler(pointsUC)
	sessionHandler := handler.NewSessionHandler(sessionUC)
	reviewHandler := handler.NewReviewHandler(reviewUC)
	wsHandler := ws.NewHandler(deps.Hub, jwtSvc, deps.Logger)

	authHandler.RegisterRoutes(r.Group("/auth"))

	r.Get("/ws/notifications", wsHandler.HandleNotificationsWS)

	protected := r.Group("", authMw.Middleware())

	RegisterUsers(protected.Group("/users"), userHandler)
	matchHandler.RegisterRoutes(protected.Group("/matches"))
	pointsHandler.RegisterRoutes(protected.Group("/points"))
	sessionHandler.RegisterRoutes(protected.Group("/sessions"))
	reviewHandler.RegisterRoutes(protected.Group("/reviews"))
}

// matchCache avoids handing the usecase a typed nil when redis is disabled.
func matchCache(r *cache.Redis) usecase.MatchCache {
	if r == nil {
		return nil
	}
	return r
}
