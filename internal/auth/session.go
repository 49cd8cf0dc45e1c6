// Package auth provides the session model and middleware for the API.
//
// SESSION FLOW OVERVIEW:
// 1. Client POSTs credentials to /auth
// 2. Server matches them against the users table and sets a "userId"
//    cookie whose value is the session token
// 3. On subsequent requests the middleware reads the cookie and puts the
//    token into the request context; handlers read it from there
//
// The token is currently the owner's user id, verbatim. Possession of
// the cookie IS the session — there is no signature, no server-side
// session store, and no existence check on reuse. Token is its own type
// (not a bare string or a user id) so a future upgrade to signed or
// opaque tokens only touches this package, not every call site.
package auth

import (
	"net/http"
	"time"
)

// Token is an opaque session credential held by the client.
type Token string

// UserID returns the user id the token resolves to. Today that is the
// token value itself; keep all conversions behind this method.
func (t Token) UserID() string {
	return string(t)
}

// CookieName is the session cookie's name on the wire.
const CookieName = "userId"

// CookieMaxAge is the client-side lifetime of the session cookie.
// There is no server-side expiry to go with it.
const CookieMaxAge = 7 * 24 * time.Hour

// SetSessionCookie writes the session cookie on the response:
// path "/", 7-day max-age, HttpOnly so page scripts cannot read it.
func SetSessionCookie(w http.ResponseWriter, token Token) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    string(token),
		Path:     "/",
		MaxAge:   int(CookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest reads the session cookie, if present.
// Returns ("", false) when the request carries no session.
func TokenFromRequest(r *http.Request) (Token, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return Token(cookie.Value), true
}
