package middleware

import (
	"net/http"
)

// MaxRequestSize caps the request body. Requests that declare a larger
// Content-Length are rejected up front; others fail when the handler reads
// past the limit.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > maxBytes {
				rejectJSON(w, http.StatusRequestEntityTooLarge, CodeRequestTooLarge, "Request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
