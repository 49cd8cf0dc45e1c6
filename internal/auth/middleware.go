package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type used for context keys in this package.
// A package-private key type means only this package can read or write
// session values in the context — no collisions with other packages.
type contextKey string

const tokenKey contextKey = "sessionToken"

// RequireSession is a middleware that enforces a session on protected
// routes. It reads the session cookie and stores the token in the
// request context. If the cookie is missing, it returns 401 Unauthorized
// and stops the chain.
//
// Note that presence is the whole check: the token is NOT resolved
// against the users table on each request. That is the documented
// session contract, not an omission — see the package comment.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := TokenFromRequest(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized","message":"Unauthorized."}`))
			return
		}

		ctx := context.WithValue(r.Context(), tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenFromContext retrieves the session token stored by RequireSession.
//
// Returns ("", false) if the request went through no session middleware
// (or the middleware let an anonymous request pass, which RequireSession
// never does).
func TokenFromContext(ctx context.Context) (Token, bool) {
	token, ok := ctx.Value(tokenKey).(Token)
	return token, ok && token != ""
}
