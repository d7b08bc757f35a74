package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/sales-assistant/errors"
)

// RequestIDHeader carries the per-request id
const RequestIDHeader = "X-Request-ID"

type errs struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Detail  string      `json:"detail,omitempty"`
	Info    string      `json:"info,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get(RequestIDHeader)
}

// bindAndValidate decodes the request and runs struct validation
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.AppError{
			Raw:      err,
			HTTPCode: http.StatusBadRequest,
			Code:     errors.ErrorCode_INVALID_PAYLOAD,
			Message:  "Invalid payload",
		}
	}
	if err := c.Validate(req); err != nil {
		return errors.AppError{
			Raw:      err,
			HTTPCode: http.StatusBadRequest,
			Code:     errors.ErrorCode_INVALID_ARGUMENT,
			Message:  "Validation failed",
		}
	}
	return nil
}

// HandleSuccess writes data as the response body and logs the outcome
func HandleSuccess(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	if logger != nil {
		logger.Debug("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, data)
}

// HandleError centralizes error handling and logging using provided logger.
// Client errors are logged at info level; everything else is a fault.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			log := logger.Error
			if appErr.IsClientError() {
				log = logger.Info
			}
			log("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Detail:  appErr.Message,
			Info:    info,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Detail:  err.Error(),
		Info:    err.Error(),
	}

	return c.JSON(http.StatusInternalServerError, body)
}
