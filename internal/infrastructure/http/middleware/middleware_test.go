package middleware

import (
	stdErrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/sales-assistant/errors"
	"github.com/johnquangdev/sales-assistant/pkg/ai"
)

func echoBody(c echo.Context) error {
	b, _ := io.ReadAll(c.Request().Body)
	return c.String(http.StatusOK, string(b))
}

func TestRelaySignature(t *testing.T) {
	e := echo.New()
	body := `{"text":"hi"}`

	tests := []struct {
		name    string
		secret  string
		sig     string
		wantErr bool
	}{
		{"disabled", "", "", false},
		{"valid", "s3cret", ai.SignHMAC("s3cret", []byte(body)), false},
		{"missing", "s3cret", "", true},
		{"wrong", "s3cret", ai.SignHMAC("other", []byte(body)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/process-transcription", strings.NewReader(body))
			if tt.sig != "" {
				req.Header.Set(ai.SignatureHeader, tt.sig)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := RelaySignature(tt.secret)(echoBody)(c)
			if tt.wantErr {
				var appErr errors.AppError
				require.True(t, stdErrors.As(err, &appErr))
				assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, body, rec.Body.String())
		})
	}
}

func TestRelaySignature_OversizedBody(t *testing.T) {
	e := echo.New()
	body := strings.Repeat("a", maxRelayBody+1)

	req := httptest.NewRequest(http.MethodPost, "/process-transcription", strings.NewReader(body))
	req.Header.Set(ai.SignatureHeader, ai.SignHMAC("s3cret", []byte(body)))
	c := e.NewContext(req, httptest.NewRecorder())

	err := RelaySignature("s3cret")(echoBody)(c)
	var appErr errors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, http.StatusRequestEntityTooLarge, appErr.HTTPCode)
	assert.Equal(t, errors.ErrorCode_INVALID_PAYLOAD, appErr.Code)
}

func TestRelaySignature_BodyAtLimit(t *testing.T) {
	e := echo.New()
	body := strings.Repeat("a", maxRelayBody)

	req := httptest.NewRequest(http.MethodPost, "/process-transcription", strings.NewReader(body))
	req.Header.Set(ai.SignatureHeader, ai.SignHMAC("s3cret", []byte(body)))
	rec := httptest.NewRecorder()

	require.NoError(t, RelaySignature("s3cret")(echoBody)(e.NewContext(req, rec)))
	assert.Len(t, rec.Body.String(), maxRelayBody)
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	handler := RequestID()(func(c echo.Context) error {
		return c.String(http.StatusOK, c.Request().Header.Get(requestIDHeader))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.NotEmpty(t, rec.Body.String())
	assert.Equal(t, rec.Body.String(), rec.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "given")
	rec = httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, "given", rec.Body.String())
}
