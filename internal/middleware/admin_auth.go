package middleware

import (
	"crypto/subtle"
	"net/http"
)

// AdminMiddleware gates a route group behind a static admin token carried in
// the X-Admin-Token header. An empty configured token disables the group.
func AdminMiddleware(adminToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminToken == "" {
				http.Error(w, "Admin API disabled", http.StatusForbidden)
				return
			}

			provided := r.Header.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(adminToken)) != 1 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
