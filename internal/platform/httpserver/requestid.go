package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultRequestIDHeader is used when RequestIDMiddleware gets an empty name.
const DefaultRequestIDHeader = "X-Request-Id"

// maxRequestIDLen caps caller-supplied ids; longer ones are replaced.
const maxRequestIDLen = 128

type (
	ctxKeyRequestID struct{}
	ctxKeyLogger    struct{}
)

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return v
}

// LoggerFromContext returns the request-scoped logger, or a no-op logger
// outside a request.
func LoggerFromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKeyLogger{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// RequestIDMiddleware echoes or mints a request id and stores it in the
// context together with log, tagged with the id, method and path.
func RequestIDMiddleware(headerName string, log *zap.Logger) func(next http.Handler) http.Handler {
	if strings.TrimSpace(headerName) == "" {
		headerName = DefaultRequestIDHeader
	}
	if log == nil {
		log = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := strings.TrimSpace(r.Header.Get(headerName))
			if rid == "" || len(rid) > maxRequestIDLen {
				rid = uuid.NewString()
			}
			w.Header().Set(headerName, rid)

			reqLog := log.With(
				zap.String("request_id", rid),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			ctx := context.WithValue(r.Context(), ctxKeyRequestID{}, rid)
			ctx = context.WithValue(ctx, ctxKeyLogger{}, reqLog)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
