package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"lang_portal/generator"
)

var ErrGenerationNotFound = errors.New("generation not found")

// generateFailure is the only message callers see for a failed generation.
const generateFailure = "Failed to generate vocabulary"

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrGenerationNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, generator.ErrUpstream),
		errors.Is(err, generator.ErrInvalidJSON),
		errors.Is(err, generator.ErrInvalidShape):
		s.logger.Error().Err(err).Str("request_id", requestID(c)).Msg("error generating vocabulary")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: generateFailure})
	default:
		s.logger.Error().Err(err).Str("request_id", requestID(c)).Msg("internal error")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: generateFailure})
	}
}
