// Package authmw guards operator routes with a static bearer token.
package authmw

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Rejection reasons passed to the OnReject callback.
const (
	ReasonDisabled = "disabled"
	ReasonMissing  = "missing"
	ReasonInvalid  = "invalid"
)

const realm = `Bearer realm="supportflow"`

// Options tune the middleware. The zero value is valid.
type Options struct {
	// OnReject is called with a reason each time a request is refused.
	OnReject func(r *http.Request, reason string)
}

// BearerToken returns middleware requiring "Authorization: Bearer <token>".
// An empty token disables the wrapped routes entirely: every request gets
// 404 so operator endpoints are not discoverable.
func BearerToken(token string, opts Options) func(http.Handler) http.Handler {
	expected := []byte(token)
	reject := func(r *http.Request, reason string) {
		if opts.OnReject != nil {
			opts.OnReject(r, reason)
		}
	}

	return func(next http.Handler) http.Handler {
		if len(expected) == 0 {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reject(r, ReasonDisabled)
				http.NotFound(w, r)
			})
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				reject(r, ReasonMissing)
				w.Header().Set("WWW-Authenticate", realm)
				http.Error(w, `{"error":"missing or malformed authorization header"}`, http.StatusUnauthorized)
				return
			}

			if subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
				reject(r, ReasonInvalid)
				w.Header().Set("WWW-Authenticate", realm+`, error="invalid_token"`)
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
