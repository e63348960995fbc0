package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
)

type contextKey string

const SessionIDKey contextKey = "staffSession"

const sessionCookie = "staff_session"

// GetSessionID extracts the staff session id from the request context.
func GetSessionID(r *http.Request) string {
	if val, ok := r.Context().Value(SessionIDKey).(string); ok {
		return val
	}
	return ""
}

// SessionMiddleware reads the "staff_session" cookie, issuing a new one when
// it is missing, and stores the id in the request context. Quotation drafts
// belong to the session that opened them.
func SessionMiddleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := ""
		if cookie, err := e.Request.Cookie(sessionCookie); err == nil {
			if _, err := uuid.Parse(cookie.Value); err == nil {
				id = cookie.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(e.Response, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(e.Request.Context(), SessionIDKey, id)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}

// BodyLimitMiddleware caps request bodies at maxBytes so uploads cannot
// exhaust memory.
func BodyLimitMiddleware(maxBytes int64) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Request.Body != nil && maxBytes > 0 {
			e.Request.Body = http.MaxBytesReader(e.Response, e.Request.Body, maxBytes)
		}
		return e.Next()
	}
}
