package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/negroni"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// requestID reuses a client-supplied UUID or generates one, and exposes it
// on the response and the request context.
func requestID(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	id := r.Header.Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	rw.Header().Set(RequestIDHeader, id)

	next(rw, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) logRequest(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	started := time.Now()

	ww := negroni.NewResponseWriter(rw)
	next(ww, r)

	status := ww.Status()
	if status == 0 {
		status = http.StatusOK
	}

	s.logger.Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"duration", time.Since(started),
		"request_id", RequestID(r.Context()))
}
