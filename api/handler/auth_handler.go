package handler

import (
	"net/http"

	"profilehub/api/middleware"
	"profilehub/internal/dto"
	"profilehub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	Service  *service.AuthService
	Validate *validator.Validate
	Logger   logrus.FieldLogger
}

func NewAuthHandler(svc *service.AuthService, validate *validator.Validate, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		Service:  svc,
		Validate: validate,
		Logger:   logger,
	}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if ok, err := bindAndValidate(c, h.Validate, &req); !ok {
		return err
	}
	result, err := h.Service.Signup(c.Request().Context(), service.SignupInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		IPAddress: stringPtr(c.RealIP()),
	})
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return writeSuccess(c, http.StatusCreated,
		"User registered successfully. Please check your email to verify your account.",
		dto.SignupResponse{User: dto.UserResponseFromEntity(result.User), Warning: result.Warning},
	)
}

func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	user, err := h.Service.VerifyEmail(c.Request().Context(), c.Param("token"))
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return writeSuccess(c, http.StatusOK, "Email verified successfully", map[string]any{
		"user": dto.UserResponseFromEntity(user),
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if ok, err := bindAndValidate(c, h.Validate, &req); !ok {
		return err
	}
	result, err := h.Service.Login(c.Request().Context(), service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: stringPtr(c.RealIP()),
	})
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return writeSuccess(c, http.StatusOK, "Login successful", dto.LoginResponse{
		User:      dto.UserResponseFromEntity(result.User),
		Token:     result.Token,
		ExpiresIn: result.ExpiresIn,
	})
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req dto.PasswordForgotRequest
	if ok, err := bindAndValidate(c, h.Validate, &req); !ok {
		return err
	}
	if err := h.Service.ForgotPassword(c.Request().Context(), req.Email, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return writeSuccess(c, http.StatusOK, "Password reset link has been sent to your email", nil)
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req dto.PasswordResetRequest
	if ok, err := bindAndValidate(c, h.Validate, &req); !ok {
		return err
	}
	err := h.Service.ResetPassword(c.Request().Context(), c.Param("token"), req.NewPassword, stringPtr(c.RealIP()))
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return writeSuccess(c, http.StatusOK, "Password has been reset successfully", nil)
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "authentication required")
	}
	user, err := h.Service.GetCurrentUser(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return writeSuccess(c, http.StatusOK, "User retrieved successfully", map[string]any{
		"user": dto.UserResponseFromEntity(user),
	})
}
