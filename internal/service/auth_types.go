package service

import (
	"context"
	"io"
	"time"

	"profilehub/internal/storage"
	"profilehub/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	FrontendURL      string
	ResetPasswordURL string
}

type EmailSender interface {
	SendVerificationEmail(ctx context.Context, email string, name string, link string) error
	SendPasswordResetEmail(ctx context.Context, email string, name string, link string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type TokenIssuer interface {
	IssueSessionToken(userID, email, name, role string) (string, time.Duration, error)
	IssueEmailVerifyToken(userID, email string) (string, time.Duration, error)
	IssueResetToken(userID, email string) (string, time.Duration, error)
	Parse(token string, kind utils.TokenKind) (*utils.Claims, error)
}

// BlobStore is the object storage used for profile files.
type BlobStore interface {
	Upload(ctx context.Context, body io.Reader, size int64, folder, contentType, ext string) (storage.Object, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

type EventRecorder interface {
	RecordAuthEvent(event string)
}

const DefaultBcryptCost = 10

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrInvalidInput
	}
	cost := h.Cost
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
