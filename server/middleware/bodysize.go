package middleware

import (
	"net/http"

	apperrors "github.com/kbukum/asr-proxy/errors"
	"github.com/kbukum/asr-proxy/util"
)

// DefaultMaxBodySize applies when the configured size is empty or invalid.
const DefaultMaxBodySize = 100 << 20

// BodySizeLimit restricts request bodies to maxSize (e.g. "100MB"). Requests
// that declare a larger Content-Length are rejected with 413 up front; others
// fail with *http.MaxBytesError when they read past the limit.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, DefaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > size {
				writeJSON(w, http.StatusRequestEntityTooLarge, apperrors.PayloadTooLarge(size).ToResponse())
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}
