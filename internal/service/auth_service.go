package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"profilehub/internal/entity"
	"profilehub/internal/repository"
	"profilehub/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

const signupMailWarning = "account created, but the verification email could not be sent"

type AuthService struct {
	users        repository.UserRepository
	securityLogs repository.SecurityLogRepository

	emailSender  EmailSender
	passwordHash PasswordHasher
	tokens       TokenIssuer
	events       EventRecorder
	logger       logrus.FieldLogger
	config       AuthConfig
}

func NewAuthService(
	users repository.UserRepository,
	securityLogs repository.SecurityLogRepository,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	tokens TokenIssuer,
	events EventRecorder,
	logger logrus.FieldLogger,
	config AuthConfig,
) *AuthService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthService{
		users:        users,
		securityLogs: securityLogs,
		emailSender:  emailSender,
		passwordHash: passwordHash,
		tokens:       tokens,
		events:       events,
		logger:       logger.WithField("component", "auth_service"),
		config:       config,
	}
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*SignupResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	role := entity.UserRoleUser
	if input.Role != "" {
		role = entity.UserRole(input.Role)
		if !role.Valid() {
			return nil, ErrInvalidInput
		}
	}

	email := utils.NormalizeEmail(input.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsVerified:   false,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}

	s.logSecurity(ctx, &user.ID, input.IPAddress, entity.Signup, map[string]any{"role": string(role)})
	s.recordEvent("signup")

	result := &SignupResult{User: user}
	if err := s.sendEmailVerification(ctx, user); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("verification email not sent")
		s.logSecurity(ctx, &user.ID, input.IPAddress, entity.NotificationFailed, map[string]any{"kind": string(utils.EmailVerifyToken)})
		s.recordEvent("notification_failed")
		result.Warning = signupMailWarning
	}
	return result, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*entity.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}
	claims, err := s.tokens.Parse(token, utils.EmailVerifyToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Email != utils.NormalizeEmail(claims.Email) {
		return nil, ErrInvalidToken
	}
	if user.IsVerified {
		return nil, ErrEmailAlreadyVerified
	}

	user.IsVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.logSecurity(ctx, &user.ID, nil, entity.EmailVerified, nil)
	s.recordEvent("email_verified")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		s.logSecurity(ctx, nil, input.IPAddress, entity.LoginFailed, map[string]any{"email": email})
		s.recordEvent("login_failed")
		return nil, ErrInvalidCredentials
	}

	if !s.passwordHash.Verify(user.PasswordHash, input.Password) {
		s.logSecurity(ctx, &user.ID, input.IPAddress, entity.LoginFailed, map[string]any{"email": email})
		s.recordEvent("login_failed")
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, ErrEmailNotVerified
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	token, expiresIn, err := s.tokens.IssueSessionToken(user.ID.String(), user.Email, user.Name, string(user.Role))
	if err != nil {
		return nil, err
	}

	s.logSecurity(ctx, &user.ID, input.IPAddress, entity.LoginSuccess, nil)
	s.recordEvent("login_success")
	return &LoginResult{
		User:      user,
		Token:     token,
		ExpiresIn: int64(expiresIn.Seconds()),
	}, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string, ipAddress *string) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	token, _, err := s.tokens.IssueResetToken(user.ID.String(), user.Email)
	if err != nil {
		return err
	}

	if s.emailSender == nil {
		return ErrNotificationFailed
	}
	link := s.config.ResetPasswordURL + "/" + token
	if err := s.emailSender.SendPasswordResetEmail(ctx, user.Email, user.Name, link); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("password reset email not sent")
		s.logSecurity(ctx, &user.ID, ipAddress, entity.NotificationFailed, map[string]any{"kind": string(utils.ResetToken)})
		s.recordEvent("notification_failed")
		return ErrNotificationFailed
	}

	s.logSecurity(ctx, &user.ID, ipAddress, entity.PasswordResetRequested, nil)
	s.recordEvent("password_reset_requested")
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token string, newPassword string, ipAddress *string) error {
	if newPassword == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(token) == "" {
		return ErrInvalidToken
	}

	claims, err := s.tokens.Parse(token, utils.ResetToken)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(claims.Email))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.ID.String() != claims.UserID {
		return ErrInvalidToken
	}

	hash, err := s.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.logSecurity(ctx, &user.ID, ipAddress, entity.Reset, nil)
	s.recordEvent("password_reset")
	return nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) sendEmailVerification(ctx context.Context, user *entity.User) error {
	if s.emailSender == nil {
		return ErrNotificationFailed
	}
	token, _, err := s.tokens.IssueEmailVerifyToken(user.ID.String(), user.Email)
	if err != nil {
		return err
	}
	link := s.config.FrontendURL + "/verify-email/" + token
	return s.emailSender.SendVerificationEmail(ctx, user.Email, user.Name, link)
}

func (s *AuthService) recordEvent(event string) {
	if s.events != nil {
		s.events.RecordAuthEvent(event)
	}
}

// logSecurity writes an audit row. Failures are logged and never reach the caller.
func (s *AuthService) logSecurity(
	ctx context.Context,
	userID *uuid.UUID,
	ipAddress *string,
	action entity.SecurityAction,
	metadata map[string]any,
) {
	writeSecurityLog(ctx, s.securityLogs, s.logger, userID, ipAddress, action, metadata)
}

func writeSecurityLog(
	ctx context.Context,
	repo repository.SecurityLogRepository,
	logger logrus.FieldLogger,
	userID *uuid.UUID,
	ipAddress *string,
	action entity.SecurityAction,
	metadata map[string]any,
) {
	if repo == nil {
		return
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			logger.WithError(err).WithField("action", action).Warn("encode security log metadata")
			return
		}
		payload = datatypes.JSON(bytes)
	}

	log := &entity.SecurityLog{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	}
	if err := repo.Log(ctx, log); err != nil {
		logger.WithError(err).WithField("action", action).Warn("security log not written")
	}
}
