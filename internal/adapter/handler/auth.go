package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	authDTO "github.com/johnquangdev/sales-assistant/internal/adapter/dto/auth"
	"github.com/johnquangdev/sales-assistant/internal/adapter/presenter"
	"github.com/johnquangdev/sales-assistant/internal/usecase/auth"
)

// Auth handles credential HTTP requests
type Auth struct {
	credentials *auth.CredentialService
	logger      *zap.Logger
}

// NewAuth creates a new auth handler
func NewAuth(credentials *auth.CredentialService, logger *zap.Logger) *Auth {
	return &Auth{
		credentials: credentials,
		logger:      logger,
	}
}

// Signup handles POST /signup
// @Summary      Register a user
// @Description  Creates a credential record; usernames are unique
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.CredentialsRequest  true  "Credentials"
// @Success      200      {object}  auth.SignupResponse
// @Failure      400      {object}  common.ErrorResponse  "Username exists or invalid payload"
// @Failure      500      {object}  common.ErrorResponse
// @Router       /signup [post]
func (h *Auth) Signup(c echo.Context) error {
	var req authDTO.CredentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.credentials.Register(c.Request().Context(), req.Username, req.Password); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, &authDTO.SignupResponse{
		Message: "User registered successfully",
	})
}

// Login handles POST /login
// @Summary      Check credentials
// @Description  Verifies username and password; no session token is issued
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.CredentialsRequest  true  "Credentials"
// @Success      200      {object}  auth.LoginResponse
// @Failure      400      {object}  common.ErrorResponse  "Invalid username or password"
// @Failure      500      {object}  common.ErrorResponse
// @Router       /login [post]
func (h *Auth) Login(c echo.Context) error {
	var req authDTO.CredentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	username, err := h.credentials.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToLoginResponse(username))
}
