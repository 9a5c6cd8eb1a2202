package routes

import (
	"time"

	"profilehub/api/handler"
	"profilehub/api/middleware"
	"profilehub/internal/entity"
	"profilehub/internal/metrics"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// uploadBodyLimit covers the three largest files in one request plus form overhead.
const uploadBodyLimit = "70M"

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Users          *handler.UserHandler
	Files          *handler.FileHandler
	System         *handler.SystemHandler
	Metrics        *metrics.Metrics
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	fileHandler *handler.FileHandler,
	systemHandler *handler.SystemHandler,
	m *metrics.Metrics,
	authMiddleware middleware.AuthMiddleware,
) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		Users:          userHandler,
		Files:          fileHandler,
		System:         systemHandler,
		Metrics:        m,
		AuthMiddleware: authMiddleware,
		AuthRate:       middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:      middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo
	requireAuth := r.AuthMiddleware.RequireAuth
	adminOnly := middleware.RequireRole(entity.UserRoleAdmin)

	e.GET("/", r.System.Welcome)
	e.GET("/status", r.System.Status)
	if r.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.Metrics.Handler()))
	}

	auth := e.Group("/auth")
	auth.POST("/signup", r.Auth.Signup, r.AuthRate.Middleware())
	auth.POST("/verify-email/:token", r.Auth.VerifyEmail, r.AuthRate.Middleware())
	auth.GET("/verify-email/:token", r.Auth.VerifyEmail, r.AuthRate.Middleware())
	auth.POST("/login", r.Auth.Login, r.LoginRate.Middleware())
	auth.POST("/signin", r.Auth.Login, r.LoginRate.Middleware())
	auth.POST("/forgot-password", r.Auth.ForgotPassword, r.LoginRate.Middleware())
	auth.POST("/reset-password/:token", r.Auth.ResetPassword, r.AuthRate.Middleware())

	e.GET("/me", r.Auth.Me, requireAuth)

	users := e.Group("/users")
	users.GET("/search", r.Users.Search)
	users.POST("/upload", r.Files.Upload, echoMiddleware.BodyLimit(uploadBodyLimit), requireAuth)
	users.DELETE("/files/:fileType", r.Files.DeleteFile, requireAuth)
	users.GET("", r.Users.List, requireAuth, adminOnly)
	users.GET("/:id", r.Users.GetByID, requireAuth)
	users.PUT("/:id", r.Users.Update, requireAuth, adminOnly)
	users.DELETE("/:id", r.Users.Delete, requireAuth, adminOnly)
}
