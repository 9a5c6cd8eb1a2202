package service

import (
	"context"
	"errors"
	"strings"

	"profilehub/internal/dto"
	"profilehub/internal/entity"
	"profilehub/internal/repository"
	"profilehub/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type UserService struct {
	users        repository.UserRepository
	securityLogs repository.SecurityLogRepository
	blobs        BlobStore
	logger       logrus.FieldLogger
}

func NewUserService(
	users repository.UserRepository,
	securityLogs repository.SecurityLogRepository,
	blobs BlobStore,
	logger logrus.FieldLogger,
) *UserService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserService{
		users:        users,
		securityLogs: securityLogs,
		blobs:        blobs,
		logger:       logger.WithField("component", "user_service"),
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, page, limit int) ([]entity.User, dto.Pagination, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	users, total, err := s.users.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return users, dto.Pagination{Page: page, Limit: limit, Total: total, Pages: pages}, nil
}

func (s *UserService) SearchByName(ctx context.Context, name string) ([]entity.User, error) {
	if strings.TrimSpace(name) == "" {
		return []entity.User{}, nil
	}
	return s.users.FindByNameLike(ctx, name)
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, patch UserPatch, ipAddress *string) (*entity.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := make([]string, 0, 3)
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		user.Name = name
		changed = append(changed, "name")
	}
	if patch.Email != nil {
		email := utils.NormalizeEmail(*patch.Email)
		if email == "" {
			return nil, ErrInvalidInput
		}
		if email != user.Email {
			other, err := s.users.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != user.ID {
				return nil, ErrEmailAlreadyRegistered
			}
			user.Email = email
			changed = append(changed, "email")
		}
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
		changed = append(changed, "isActive")
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailAlreadyRegistered
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	writeSecurityLog(ctx, s.securityLogs, s.logger, &user.ID, ipAddress, entity.UserUpdated, map[string]any{"fields": changed})
	return user, nil
}

// Delete removes the user's stored files on a best-effort basis, then the row.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID, ipAddress *string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	for _, url := range []*string{user.ProfileImage, user.CVFile, user.IntroVideo} {
		s.removeBlob(ctx, url)
	}

	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}

	// security_logs.user_id is nulled on delete, so the id travels in metadata
	writeSecurityLog(ctx, s.securityLogs, s.logger, nil, ipAddress, entity.UserDeleted, map[string]any{"user_id": id.String()})
	return nil
}

func (s *UserService) removeBlob(ctx context.Context, url *string) {
	if s.blobs == nil || url == nil || *url == "" {
		return
	}
	key, ok := s.blobs.KeyFromURL(*url)
	if !ok {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("stored file not deleted")
	}
}
