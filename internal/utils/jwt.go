package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrSigningKeyMissing = errors.New("token signing secret is not configured")
)

// TokenKind is carried in the typ claim. Every parse names the kind it
// expects, so a token minted for one flow is rejected by all the others.
type TokenKind string

const (
	SessionToken     TokenKind = "session"
	EmailVerifyToken TokenKind = "email_verify"
	ResetToken       TokenKind = "password_reset"
)

const (
	DefaultSessionTokenTTL     = time.Hour
	DefaultEmailVerifyTokenTTL = 24 * time.Hour
	DefaultResetTokenTTL       = 15 * time.Minute
)

type TokenManager struct {
	Secret         []byte
	Issuer         string
	SessionTTL     time.Duration
	EmailVerifyTTL time.Duration
	ResetTTL       time.Duration
	Now            func() time.Time
}

type Claims struct {
	Type   TokenKind `json:"typ"`
	UserID string    `json:"uid"`
	Email  string    `json:"email"`
	Name   string    `json:"name,omitempty"`
	Role   string    `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (m TokenManager) IssueSessionToken(userID, email, name, role string) (string, time.Duration, error) {
	ttl := orDefault(m.SessionTTL, DefaultSessionTokenTTL)
	token, err := m.issue(Claims{
		Type:   SessionToken,
		UserID: userID,
		Email:  email,
		Name:   name,
		Role:   role,
	}, ttl)
	return token, ttl, err
}

func (m TokenManager) IssueEmailVerifyToken(userID, email string) (string, time.Duration, error) {
	ttl := orDefault(m.EmailVerifyTTL, DefaultEmailVerifyTokenTTL)
	token, err := m.issue(Claims{Type: EmailVerifyToken, UserID: userID, Email: email}, ttl)
	return token, ttl, err
}

func (m TokenManager) IssueResetToken(userID, email string) (string, time.Duration, error) {
	ttl := orDefault(m.ResetTTL, DefaultResetTokenTTL)
	token, err := m.issue(Claims{Type: ResetToken, UserID: userID, Email: email}, ttl)
	return token, ttl, err
}

// Parse verifies the signature, expiry and kind of tokenString. Expired tokens
// yield ErrTokenExpired; every other failure yields ErrTokenInvalid.
func (m TokenManager) Parse(tokenString string, kind TokenKind) (*Claims, error) {
	if len(m.Secret) == 0 {
		return nil, ErrSigningKeyMissing
	}
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.Issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return m.Secret, nil
	}, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Type != kind || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (m TokenManager) issue(claims Claims, ttl time.Duration) (string, error) {
	if len(m.Secret) == 0 {
		return "", ErrSigningKeyMissing
	}
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    m.Issuer,
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.Secret)
}

func (m TokenManager) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

func orDefault(value, fallback time.Duration) time.Duration {
	if value > 0 {
		return value
	}
	return fallback
}
