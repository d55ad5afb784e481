package routes

import (
	"net/http"
)

// adminOnly wraps a handler with the opaque admin capability check: the
// request must carry the configured bearer token. Token issuance and
// rotation live with the operator, not this server.
func adminOnly(token string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token == "" || r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
