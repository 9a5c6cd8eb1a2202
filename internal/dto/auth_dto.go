package dto

import (
	"time"

	"profilehub/internal/entity"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
}

type SignupResponse struct {
	User    UserResponse `json:"user"`
	Warning string       `json:"warning,omitempty"`
}

type PasswordForgotRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// UserResponse is the public projection of a user. The password hash has no
// field here on purpose.
type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IsVerified   bool      `json:"isVerified"`
	IsActive     bool      `json:"isActive"`
	ProfileImage *string   `json:"profileImage"`
	CVFile       *string   `json:"cvFile"`
	IntroVideo   *string   `json:"introVideo"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	return UserResponse{
		ID:           user.ID.String(),
		Name:         user.Name,
		Email:        user.Email,
		Role:         string(user.Role),
		IsVerified:   user.IsVerified,
		IsActive:     user.IsActive,
		ProfileImage: user.ProfileImage,
		CVFile:       user.CVFile,
		IntroVideo:   user.IntroVideo,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func UserResponsesFromEntities(users []entity.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, UserResponseFromEntity(&users[i]))
	}
	return responses
}
