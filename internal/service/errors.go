package service

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrEmailNotVerified       = errors.New("email not verified")
	ErrAccountInactive        = errors.New("account is inactive")
	ErrEmailAlreadyVerified   = errors.New("email already verified")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrUserNotFound           = errors.New("user not found")
	ErrNotificationFailed     = errors.New("failed to send email")

	ErrInvalidFileType     = errors.New("invalid file type")
	ErrUnsupportedFileType = errors.New("unsupported file format")
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileNotFound        = errors.New("file not found")
	ErrStorageUnavailable  = errors.New("file storage is not configured")
)
