package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Addr        string
	DatabaseURL string
	LogLevel    string
	Version     string

	JWTSecret      string
	JWTIssuer      string
	SessionTTL     time.Duration
	EmailVerifyTTL time.Duration
	ResetTTL       time.Duration
	BcryptCost     int

	FrontendURL      string
	ResetPasswordURL string

	ResendAPIKey string
	MailFrom     string

	S3 S3Config
}

type S3Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.Endpoint != ""
}

// Load reads envFile (when present) into the environment and builds the
// process configuration. A missing env file is not an error.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return Config{}, oops.In("config").With("file", envFile).Wrapf(err, "load env file")
	}

	cfg := Config{
		Addr:             envOr("HTTP_ADDR", ":8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		Version:          envOr("APP_VERSION", "1.0.0"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTIssuer:        os.Getenv("JWT_ISSUER"),
		FrontendURL:      strings.TrimRight(envOr("FRONTEND_URL", "http://localhost:3000"), "/"),
		ResetPasswordURL: strings.TrimRight(os.Getenv("RESET_PASSWORD_URL"), "/"),
		ResendAPIKey:     os.Getenv("RESEND_API_KEY"),
		MailFrom:         envOr("MAIL_FROM", "ProfileHub <noreply@profilehub.local>"),
		S3: S3Config{
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			Region:        envOr("S3_REGION", "us-east-1"),
			Bucket:        os.Getenv("S3_BUCKET"),
			AccessKey:     os.Getenv("S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("S3_SECRET_KEY"),
			PublicBaseURL: strings.TrimRight(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),
		},
	}
	if cfg.ResetPasswordURL == "" {
		cfg.ResetPasswordURL = cfg.FrontendURL + "/reset-password"
	}

	var err error
	if cfg.SessionTTL, err = durationEnv("JWT_EXPIRES_IN", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.EmailVerifyTTL, err = durationEnv("EMAIL_VERIFY_EXPIRES_IN", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ResetTTL, err = durationEnv("RESET_PASSWORD_EXPIRES_IN", 15*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost, err = intEnv("BCRYPT_COST", 10); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values the server cannot start without.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return oops.In("config").Errorf("JWT_SECRET is required")
	}
	if c.DatabaseURL == "" {
		return oops.In("config").Errorf("DATABASE_URL is required")
	}
	return nil
}

func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return 0, oops.In("config").With("key", key, "value", raw).Errorf("invalid duration")
	}
	return value, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, oops.In("config").With("key", key, "value", raw).Wrapf(err, "invalid integer")
	}
	return value, nil
}
