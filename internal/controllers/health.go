package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Pinger - любая зависимость, доступность которой проверяет /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc позволяет передать замыкание вместо клиента.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthController struct {
	checks map[string]Pinger
	logger *zap.Logger
}

func NewHealthController(checks map[string]Pinger, logger *zap.Logger) *HealthController {
	return &HealthController{checks: checks, logger: logger}
}

func (c *HealthController) Health(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 3*time.Second)
	defer cancel()

	result := make(map[string]string, len(c.checks))
	healthy := true
	for name, check := range c.checks {
		if err := check.Ping(reqCtx); err != nil {
			c.logger.Warn("Проверка зависимости не прошла", zap.String("dependency", name), zap.Error(err))
			result[name] = "down"
			healthy = false
			continue
		}
		result[name] = "up"
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	return ctx.JSON(code, map[string]interface{}{"status": healthy, "body": result})
}
