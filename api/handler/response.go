package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"profilehub/api/middleware"
	"profilehub/internal/authz"
	"profilehub/internal/dto"
	"profilehub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

var errEmptyBody = errors.New("request body is required")

// NewValidator reports fields by their JSON names.
func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return errors.New("malformed JSON body")
	}
	return nil
}

// bindAndValidate decodes and validates the body. When ok is false the 400
// response has already been written and err is the write result.
func bindAndValidate(c echo.Context, validate *validator.Validate, target any) (ok bool, err error) {
	if err := decodeJSON(c, target); err != nil {
		return false, writeError(c, http.StatusBadRequest, err.Error())
	}
	if validate == nil {
		return true, nil
	}
	if err := validate.Struct(target); err != nil {
		return false, writeError(c, http.StatusBadRequest, "validation failed", validationDetails(err)...)
	}
	return true, nil
}

func validationDetails(err error) []dto.FieldDetail {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	details := make([]dto.FieldDetail, 0, len(validationErrors))
	for _, fe := range validationErrors {
		details = append(details, dto.FieldDetail{Field: fe.Field(), Message: ruleMessage(fe)})
	}
	return details
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed the %s rule", fe.Tag())
	}
}

func writeSuccess(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, dto.Success(message, data))
}

func writeError(c echo.Context, status int, message string, details ...dto.FieldDetail) error {
	return c.JSON(status, dto.Failure(message, details...))
}

// writeServiceError is the single place where domain errors become HTTP
// statuses. Unknown errors are logged and never echoed to the client.
func writeServiceError(c echo.Context, logger logrus.FieldLogger, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrInvalidFileType),
		errors.Is(err, service.ErrUnsupportedFileType),
		errors.Is(err, service.ErrFileTooLarge):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, authz.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrEmailNotVerified),
		errors.Is(err, service.ErrAccountInactive),
		errors.Is(err, authz.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrFileNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmailAlreadyRegistered), errors.Is(err, service.ErrEmailAlreadyVerified):
		status = http.StatusConflict
	case errors.Is(err, service.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		if logger == nil {
			logger = logrus.StandardLogger()
		}
		middleware.LogError(logger.WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}), "request failed", err)
		message := "internal server error"
		if errors.Is(err, service.ErrNotificationFailed) {
			message = err.Error()
		}
		return writeError(c, status, message)
	}
	return writeError(c, status, err.Error())
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
