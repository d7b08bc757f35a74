package middleware

import (
	"bytes"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/sales-assistant/errors"
	"github.com/johnquangdev/sales-assistant/pkg/ai"
)

// maxRelayBody bounds the body read for signature checks
const maxRelayBody = 1 << 20

// RelaySignature rejects requests whose X-Relay-Signature is not the HMAC of
// the body under secret. An empty secret disables the check.
func RelaySignature(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if secret == "" {
			return next
		}
		return func(c echo.Context) error {
			req := c.Request()
			body, err := io.ReadAll(io.LimitReader(req.Body, maxRelayBody+1))
			if err != nil {
				return errors.ErrInvalidPayload()
			}
			_ = req.Body.Close()
			if len(body) > maxRelayBody {
				return errors.ErrPayloadTooLarge(maxRelayBody)
			}

			if !ai.VerifyHMAC(secret, body, req.Header.Get(ai.SignatureHeader)) {
				return errors.ErrInvalidRelaySignature()
			}

			// restore body for binding
			req.Body = io.NopCloser(bytes.NewReader(body))
			return next(c)
		}
	}
}
