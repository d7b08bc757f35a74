package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	transcriptDTO "github.com/johnquangdev/sales-assistant/internal/adapter/dto/transcript"
	"github.com/johnquangdev/sales-assistant/internal/adapter/presenter"
	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
	"github.com/johnquangdev/sales-assistant/internal/usecase/analysis"
)

// Transcript handles transcript relay and analysis lookups
type Transcript struct {
	analysis analysis.Service
	logger   *zap.Logger
}

// NewTranscript creates a new transcript handler
func NewTranscript(svc analysis.Service, logger *zap.Logger) *Transcript {
	return &Transcript{
		analysis: svc,
		logger:   logger,
	}
}

// ProcessTranscription handles POST /process-transcription
// @Summary      Submit a finalized utterance
// @Description  Classifies user utterances, updates the room state and stores the record. Empty text is acknowledged without changes.
// @Tags         Transcripts
// @Accept       json
// @Produce      json
// @Param        X-Relay-Signature  header    string  false  "hex HMAC-SHA256 of the body, required when a relay secret is configured"
// @Param        request            body      transcript.ProcessTranscriptionRequest  true  "Utterance"
// @Success      200                {object}  transcript.ProcessTranscriptionResponse
// @Failure      400                {object}  common.ErrorResponse
// @Failure      401                {object}  common.ErrorResponse  "Bad relay signature"
// @Failure      500                {object}  common.ErrorResponse
// @Router       /process-transcription [post]
func (h *Transcript) ProcessTranscription(c echo.Context) error {
	var req transcriptDTO.ProcessTranscriptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.analysis.SubmitTranscript(c.Request().Context(), analysis.SubmitInput{
		Text:        req.Text,
		Speaker:     entities.Speaker(req.Speaker),
		Timestamp:   *req.Timestamp,
		RoomID:      req.RoomID,
		UtteranceID: req.UtteranceID,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToProcessTranscriptionResponse(result))
}

// GetLatestAnalysis handles GET /get-latest-analysis
// @Summary      Latest sentiment for a room
// @Description  Resolves the room cache, then the transcript store, then a waiting default
// @Tags         Transcripts
// @Produce      json
// @Param        room_id  query     string  true  "Room id"
// @Success      200      {object}  transcript.LatestAnalysisResponse
// @Failure      400      {object}  common.ErrorResponse
// @Failure      500      {object}  common.ErrorResponse
// @Router       /get-latest-analysis [get]
func (h *Transcript) GetLatestAnalysis(c echo.Context) error {
	var q transcriptDTO.LatestAnalysisQuery
	if err := bindAndValidate(c, &q); err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.analysis.LatestAnalysis(c.Request().Context(), q.RoomID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, &transcriptDTO.LatestAnalysisResponse{
		OK:       true,
		RoomID:   q.RoomID,
		Analysis: presenter.ToAnalysisResponse(result),
	})
}

// GetRoomTranscript handles GET /rooms/:room_id/transcript
// @Summary      Recent transcript of a room
// @Description  Returns the room's running count and its in-memory window of recent records
// @Tags         Transcripts
// @Produce      json
// @Param        room_id  path      string  true  "Room id"
// @Success      200      {object}  transcript.RoomTranscriptResponse
// @Failure      500      {object}  common.ErrorResponse
// @Router       /rooms/{room_id}/transcript [get]
func (h *Transcript) GetRoomTranscript(c echo.Context) error {
	result, err := h.analysis.RoomTranscript(c.Request().Context(), c.Param("room_id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToRoomTranscriptResponse(result))
}
