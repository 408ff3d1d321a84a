package middleware

import (
	"encoding/hex"
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/asr-proxy/logger"
)

// HeaderRequestID carries the correlation id in both directions.
const HeaderRequestID = "X-Request-Id"

const maxInboundIDLength = 64

// RequestID assigns every request a correlation id, reusing a caller-supplied
// X-Request-Id when present. The id is echoed in the response header and
// stored in the request context for logger.WithContext.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" || len(id) > maxInboundIDLength {
				id = NewCorrelationID()
				r.Header.Set(HeaderRequestID, id)
			}
			w.Header().Set(HeaderRequestID, id)

			ctx := logger.ContextWithCorrelationID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewCorrelationID returns 8 lowercase hex characters.
func NewCorrelationID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:4])
}
