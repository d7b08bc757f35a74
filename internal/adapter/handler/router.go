package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/johnquangdev/sales-assistant/errors"
	"github.com/johnquangdev/sales-assistant/internal/adapter/dto/common"
	httpmw "github.com/johnquangdev/sales-assistant/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/sales-assistant/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	logger            *zap.Logger
	authHandler       *Auth
	transcriptHandler *Transcript
	callHandler       *Call
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, logger *zap.Logger, authHandler *Auth, transcriptHandler *Transcript, callHandler *Call) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		cfg:               cfg,
		logger:            logger,
		authHandler:       authHandler,
		transcriptHandler: transcriptHandler,
		callHandler:       callHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.HTTPErrorHandler = rt.errorHandler

	// Health check endpoint
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	rt.setupAuthRoutes(e)
	rt.setupTranscriptRoutes(e)
	rt.setupCallRoutes(e)
}

// setupAuthRoutes configures credential routes
func (rt *Router) setupAuthRoutes(e *echo.Echo) {
	if rt.authHandler == nil {
		e.POST("/signup", rt.notImplemented)
		e.POST("/login", rt.notImplemented)
		return
	}
	e.POST("/signup", rt.authHandler.Signup)
	e.POST("/login", rt.authHandler.Login)
}

// setupTranscriptRoutes configures relay and analysis routes
func (rt *Router) setupTranscriptRoutes(e *echo.Echo) {
	if rt.transcriptHandler == nil {
		e.POST("/process-transcription", rt.notImplemented)
		e.GET("/get-latest-analysis", rt.notImplemented)
		return
	}
	e.POST("/process-transcription", rt.transcriptHandler.ProcessTranscription, httpmw.RelaySignature(rt.cfg.Auth.RelaySecret))
	e.GET("/get-latest-analysis", rt.transcriptHandler.GetLatestAnalysis)
	e.GET("/rooms/:room_id/transcript", rt.transcriptHandler.GetRoomTranscript)
}

// setupCallRoutes configures LiveKit call routes
func (rt *Router) setupCallRoutes(e *echo.Echo) {
	if rt.callHandler == nil {
		e.POST("/connection-details", rt.notImplemented)
		return
	}
	e.POST("/connection-details", rt.callHandler.ConnectionDetails)
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not configured",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "The backing service is disabled in this deployment",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, &common.HealthResponse{
		Status:      "ok",
		Environment: rt.cfg.Server.Environment,
	})
}

// errorHandler renders errors returned by handlers and middleware
func (rt *Router) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if stdErrors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		code := errors.ErrorCode_INVALID_ARGUMENT
		if he.Code == http.StatusNotFound {
			code = errors.ErrorCode_NOT_FOUND
		} else if he.Code >= http.StatusInternalServerError {
			code = errors.ErrorCode_INTERNAL
		}
		err = errors.AppError{Raw: he.Internal, HTTPCode: he.Code, Code: code, Message: msg}
	}

	if herr := HandleError(rt.logger, c, err); herr != nil {
		rt.logger.Error("http.error_handler_failed", zap.Error(herr))
	}
}
