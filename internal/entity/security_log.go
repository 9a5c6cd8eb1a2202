package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SecurityAction string

const (
	Signup                 SecurityAction = "signup"
	EmailVerified          SecurityAction = "email_verified"
	LoginSuccess           SecurityAction = "login_success"
	LoginFailed            SecurityAction = "login_failed"
	PasswordResetRequested SecurityAction = "password_reset_requested"
	Reset                  SecurityAction = "password_reset"
	NotificationFailed     SecurityAction = "notification_failed"
	UserUpdated            SecurityAction = "user_updated"
	UserDeleted            SecurityAction = "user_deleted"
)

type SecurityLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`

	IPAddress *string        `gorm:"type:varchar(64)"`
	Action    SecurityAction `gorm:"type:varchar(64);not null"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}
