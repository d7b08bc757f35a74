package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	callDTO "github.com/johnquangdev/sales-assistant/internal/adapter/dto/call"
	"github.com/johnquangdev/sales-assistant/internal/adapter/presenter"
	"github.com/johnquangdev/sales-assistant/internal/usecase/call"
)

// Call handles call room requests
type Call struct {
	calls  *call.Service
	logger *zap.Logger
}

// NewCall creates a new call handler
func NewCall(calls *call.Service, logger *zap.Logger) *Call {
	return &Call{
		calls:  calls,
		logger: logger,
	}
}

// ConnectionDetails handles POST /connection-details
// @Summary      Join credentials for a call
// @Description  Creates the LiveKit room if needed and returns a caller token. The room name is the room_id used by the analysis endpoints.
// @Tags         Calls
// @Accept       json
// @Produce      json
// @Param        request  body      call.ConnectionDetailsRequest  false  "Optional room and participant names"
// @Success      200      {object}  call.ConnectionDetailsResponse
// @Failure      400      {object}  common.ErrorResponse
// @Failure      500      {object}  common.ErrorResponse
// @Router       /connection-details [post]
func (h *Call) ConnectionDetails(c echo.Context) error {
	var req callDTO.ConnectionDetailsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	details, err := h.calls.ConnectionDetails(c.Request().Context(), call.ConnectionInput{
		RoomName:        req.RoomName,
		ParticipantName: req.ParticipantName,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToConnectionDetailsResponse(details))
}
