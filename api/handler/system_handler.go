package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type SystemHandler struct {
	Version string
	Started time.Time
	Ping    func(ctx context.Context) error
}

func NewSystemHandler(version string, ping func(ctx context.Context) error) *SystemHandler {
	return &SystemHandler{Version: version, Started: time.Now(), Ping: ping}
}

func (h *SystemHandler) Welcome(c echo.Context) error {
	return writeSuccess(c, http.StatusOK, "Welcome to the ProfileHub API", map[string]any{
		"version": h.Version,
		"endpoints": map[string]string{
			"auth":    "/auth",
			"users":   "/users",
			"me":      "/me",
			"status":  "/status",
			"metrics": "/metrics",
		},
	})
}

func (h *SystemHandler) Status(c echo.Context) error {
	database := "connected"
	status := http.StatusOK
	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.Ping(ctx); err != nil {
			database = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	data := map[string]any{
		"database": database,
		"uptime":   time.Since(h.Started).Round(time.Second).String(),
		"version":  h.Version,
	}
	if status != http.StatusOK {
		return c.JSON(status, map[string]any{"success": false, "message": "Service degraded", "data": data})
	}
	return writeSuccess(c, status, "Service is healthy", data)
}
