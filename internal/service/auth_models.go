package service

import "profilehub/internal/entity"

type SignupInput struct {
	Name      string
	Email     string
	Password  string
	Role      string
	IPAddress *string
}

// SignupResult carries the created user. Warning is set when the account was
// created but the verification email could not be delivered.
type SignupResult struct {
	User    *entity.User
	Warning string
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress *string
}

type LoginResult struct {
	User      *entity.User
	Token     string
	ExpiresIn int64
}

type UserPatch struct {
	Name     *string
	Email    *string
	IsActive *bool
}
