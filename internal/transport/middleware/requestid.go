package middleware

import (
	"net/http"

	"github.com/frahmantamala/org-admin/pkg/logger"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Trace-ID"

// RequestID reuses an incoming X-Trace-ID or mints a uuid, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(RequestIDHeader)
		if traceID == "" || len(traceID) > 128 {
			traceID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, traceID)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), traceID)))
	})
}
