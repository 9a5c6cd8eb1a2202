package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"profilehub/internal/dto"

	"github.com/labstack/echo/v4"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
)

// ErrorHandler renders every error that reaches echo as the JSON error
// envelope. Only HTTP errors keep their message; anything else is logged and
// reported as a 500.
func ErrorHandler(logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "internal server error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if text, ok := he.Message.(string); ok {
				message = text
			} else if code != http.StatusInternalServerError {
				message = http.StatusText(code)
			}
			if code == http.StatusNotFound && he == echo.ErrNotFound {
				message = fmt.Sprintf("route %s %s not found", c.Request().Method, c.Request().URL.Path)
			}
		}
		if code >= http.StatusInternalServerError {
			LogError(logger.WithFields(logrus.Fields{
				"method": c.Request().Method,
				"uri":    c.Request().RequestURI,
			}), "request failed", err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, dto.Failure(message))
		}
		if writeErr != nil {
			logger.WithError(writeErr).Error("write error response")
		}
	}
}

// LogError logs err with its oops code, domain and context as fields when present.
func LogError(logger logrus.FieldLogger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		fields := logrus.Fields{}
		if code := oopsErr.Code(); code != nil {
			fields["code"] = code
		}
		if domain := oopsErr.Domain(); domain != "" {
			fields["domain"] = domain
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			fields["context"] = ctx
		}
		logger.WithFields(fields).WithError(err).Error(msg)
		return
	}
	logger.WithError(err).Error(msg)
}
