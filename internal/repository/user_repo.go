package repository

import (
	"context"
	"errors"
	"strings"

	"profilehub/internal/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository is the whole storage contract the services rely on.
// Finders return (nil, nil) when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByNameLike(ctx context.Context, name string) ([]entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, limit, offset int) ([]entity.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return oops.In("user_repository").With("email", user.Email).Wrapf(err, "create user")
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.In("user_repository").With("user_id", id).Wrapf(err, "find user by id")
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.In("user_repository").With("email", email).Wrapf(err, "find user by email")
	}
	return &user, nil
}

func (r *userRepository) FindByNameLike(ctx context.Context, name string) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+escapeLike(name)+"%").
		Order("name ASC").
		Find(&users).Error
	if err != nil {
		return nil, oops.In("user_repository").With("name", name).Wrapf(err, "search users by name")
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	result := r.db.WithContext(ctx).
		Model(user).
		Select("Name", "Email", "PasswordHash", "Role", "IsVerified", "IsActive", "ProfileImage", "CVFile", "IntroVideo", "UpdatedAt").
		Updates(user)
	if isUniqueViolation(result.Error) {
		return ErrDuplicateEmail
	}
	if result.Error != nil {
		return oops.In("user_repository").With("user_id", user.ID).Wrapf(result.Error, "update user")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.User{})
	if result.Error != nil {
		return false, oops.In("user_repository").With("user_id", id).Wrapf(result.Error, "delete user")
	}
	return result.RowsAffected > 0, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Count(&total).Error; err != nil {
		return nil, 0, oops.In("user_repository").Wrapf(err, "count users")
	}

	var users []entity.User
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, oops.In("user_repository").With("limit", limit, "offset", offset).Wrapf(err, "list users")
	}
	return users, total, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(strings.TrimSpace(value))
}
