package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/example/anime-browser/internal/platform/api"
	"github.com/example/anime-browser/internal/platform/httpserver"
	"github.com/example/anime-browser/services/browse/internal/domain"
)

// writeDomainError maps the data-source error taxonomy onto the HTTP envelope.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	rid := httpserver.RequestIDFromContext(r.Context())
	httpserver.LoggerFromContext(r.Context()).Warn("upstream request failed",
		zap.String("kind", domain.Kind(err).Error()), zap.Error(err))

	msg := domain.Message(err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		api.NotFound(w, "NOT_FOUND", msg, rid)
	case errors.Is(err, domain.ErrEmptyResult):
		api.NotFound(w, "EMPTY_RESULT", msg, rid)
	case errors.Is(err, domain.ErrTransport):
		api.BadGateway(w, "UPSTREAM_TRANSPORT", msg, rid)
	case errors.Is(err, domain.ErrDeserialization):
		api.BadGateway(w, "UPSTREAM_DECODE", msg, rid)
	default:
		api.BadGateway(w, "UPSTREAM_ERROR", msg, rid)
	}
}
