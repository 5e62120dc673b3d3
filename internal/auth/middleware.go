package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type used for context keys in this package.
// A package-private key type means only this package can read or write the
// subject value — a plain string key could be shadowed by any other package.
type contextKey string

const subjectKey contextKey = "subject"

// sessionCookie is the name of the HttpOnly cookie carrying the JWT.
const sessionCookie = "token"

// RequireAdmin enforces an operator session on protected routes.
//
// It reads the JWT from the session cookie, validates it, and stores the
// subject in the request context. Missing or invalid tokens end the request
// with 401 before the handler runs.
func RequireAdmin(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := extractSubject(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext retrieves the authenticated subject from the request
// context. Returns ("", false) when the request carried no valid session.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok && subject != ""
}

// extractSubject reads the JWT cookie and validates it.
func extractSubject(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		// http.ErrNoCookie: no session at all
		return "", err
	}

	return tokens.Validate(cookie.Value)
}
