// Package authmw provides bearer token middleware for the dashboard API.
package authmw

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Bearer returns middleware requiring an Authorization header with a Bearer
// token equal to expected. Comparison is constant-time so response latency
// leaks nothing about the token. Failed requests get a WWW-Authenticate
// challenge alongside the 401.
func Bearer(expected string) func(http.Handler) http.Handler {
	want := []byte(expected)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			if !strings.HasPrefix(auth, "Bearer ") {
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, `{"error":"missing or malformed authorization header"}`, http.StatusUnauthorized)
				return
			}

			got := []byte(strings.TrimPrefix(auth, "Bearer "))
			if subtle.ConstantTimeCompare(got, want) != 1 {
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
