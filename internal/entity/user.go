package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// Valid reports whether r is one of the roles the users table accepts.
func (r UserRole) Valid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;type:text;not null"`
	Role         UserRole  `gorm:"type:varchar(16);default:'user';not null"`

	IsVerified bool `gorm:"not null;default:false"`
	IsActive   bool `gorm:"not null;default:true"`

	ProfileImage *string `gorm:"type:text"`
	CVFile       *string `gorm:"column:cv_file;type:text"`
	IntroVideo   *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
