package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"profilehub/api/handler"
	apiMiddleware "profilehub/api/middleware"
	"profilehub/api/routes"
	"profilehub/config"
	"profilehub/internal/metrics"
	"profilehub/internal/repository"
	"profilehub/internal/service"
	"profilehub/internal/storage"
	"profilehub/internal/utils"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type serveOptions struct {
	addr    string
	migrate bool
}

func NewServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	if err := cfg.Validate(); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	logger := config.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectionDb(cfg.DatabaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	logger.Info("success connect to db")
	if opts.migrate {
		if err := config.RunMigrations(ctx, db); err != nil {
			return oops.Code("MIGRATION_FAILED").Wrap(err)
		}
		logger.Info("migrations applied")
	}

	var blobs service.BlobStore
	if cfg.S3.Enabled() {
		s3Storage, err := storage.NewS3Storage(ctx, storage.Options{
			Endpoint:      cfg.S3.Endpoint,
			Region:        cfg.S3.Region,
			Bucket:        cfg.S3.Bucket,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		})
		if err != nil {
			return err
		}
		blobs = s3Storage
	} else {
		logger.Warn("S3_BUCKET or S3_ENDPOINT not set, file uploads are disabled")
	}

	app := newApp(cfg, logger, db, blobs, metrics.New())

	server := &http.Server{
		Addr:              cfg.Addr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.Addr).Info("server started")
		errCh <- app.StartServer(server)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server stopped")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

// newApp wires repositories, services and handlers into an echo instance.
func newApp(cfg config.Config, logger *logrus.Logger, db *gorm.DB, blobs service.BlobStore, m *metrics.Metrics) *echo.Echo {
	tokens := utils.TokenManager{
		Secret:         []byte(cfg.JWTSecret),
		Issuer:         cfg.JWTIssuer,
		SessionTTL:     cfg.SessionTTL,
		EmailVerifyTTL: cfg.EmailVerifyTTL,
		ResetTTL:       cfg.ResetTTL,
	}

	var mailer service.EmailSender = service.LogEmailSender{Logger: logger}
	if cfg.ResendAPIKey != "" {
		mailer = service.NewResendEmailSender(cfg.ResendAPIKey, cfg.MailFrom)
	} else {
		logger.Warn("RESEND_API_KEY not set, emails will be written to the log")
	}

	userRepo := repository.NewUserRepository(db)
	securityRepo := repository.NewSecurityLogRepository(db)

	authService := service.NewAuthService(
		userRepo,
		securityRepo,
		mailer,
		service.BcryptPasswordHasher{Cost: cfg.BcryptCost},
		tokens,
		m,
		logger,
		service.AuthConfig{
			FrontendURL:      cfg.FrontendURL,
			ResetPasswordURL: cfg.ResetPasswordURL,
		},
	)
	userService := service.NewUserService(userRepo, securityRepo, blobs, logger)
	fileService := service.NewFileService(userRepo, blobs, logger)

	validate := handler.NewValidator()

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.HTTPErrorHandler = apiMiddleware.ErrorHandler(logger)
	app.Use(echoMiddleware.Recover())
	app.Use(apiMiddleware.Metrics(m))
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status":  v.Status,
				"method":  v.Method,
				"uri":     v.URI,
				"ip":      v.RemoteIP,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	router := routes.NewRouter(
		app,
		handler.NewAuthHandler(authService, validate, logger),
		handler.NewUserHandler(userService, validate, logger),
		handler.NewFileHandler(fileService, logger),
		handler.NewSystemHandler(cfg.Version, func(ctx context.Context) error { return config.PingDB(ctx, db) }),
		m,
		apiMiddleware.AuthMiddleware{Tokens: tokens},
	)
	router.RegisterRoutes()
	return app
}
