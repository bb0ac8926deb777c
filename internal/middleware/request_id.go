package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type requestIdKey string

// RequestIdKey is the context key handlers use to tag log lines and
// response envelopes with the request id.
const RequestIdKey requestIdKey = "requestId"

// WithRequestId assigns every request a fresh uuid, stores it on the
// context, and echoes it in the X-Request-ID response header so clients
// can quote it when reporting a failure.
func WithRequestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqId := uuid.New().String()

		w.Header().Set("X-Request-ID", reqId)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), RequestIdKey, reqId)))
	})
}
