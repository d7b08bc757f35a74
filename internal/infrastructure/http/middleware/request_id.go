package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// RequestIDContextKey is the echo context key for the request id
	RequestIDContextKey ContextKey = "request_id"

	requestIDHeader = "X-Request-ID"
)

// RequestID makes sure every request carries an X-Request-ID header and
// echoes it on the response
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
				req.Header.Set(requestIDHeader, id)
			}
			c.Set(string(RequestIDContextKey), id)
			c.Response().Header().Set(requestIDHeader, id)
			return next(c)
		}
	}
}
