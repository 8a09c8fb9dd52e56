package http

import (
	"time"

	"loan-calculator/internal/adapter/middleware"
	"loan-calculator/pkg/id"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Health *Handler
	Loans  *LoanHandler
	Log    *zap.Logger
	// Redis enables idempotent replay when non-nil.
	Redis    *redis.Client
	IdempTTL time.Duration
}

func NewRouter(d RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(
		echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: id.NewID32}),
		middleware.RequestLogger(d.Log),
		echomw.Recover(),
		echomw.BodyLimit("64K"),
	)

	e.GET("/health", d.Health.Health)

	api := e.Group("/api/v1/loan")
	if d.Redis != nil {
		api.Use(middleware.IdempotencyMiddleware(d.Redis, d.IdempTTL, d.Log))
	}
	api.POST("/calculate", d.Loans.Calculate)
	api.POST("/schedule", d.Loans.Schedule)
	return e
}
