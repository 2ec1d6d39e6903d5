package middleware

import (
	"log/slog"
	"net/http"

	"github.com/rahul4469/coverage-advisor/context"
	"github.com/rahul4469/coverage-advisor/internal/workflow"
)

type SessionMiddleware struct {
	store        *workflow.SessionStore
	cookieName   string
	cookieSecure bool
	logger       *slog.Logger
}

func NewSessionMiddleware(store *workflow.SessionStore, cookieName string, cookieSecure bool, logger *slog.Logger) *SessionMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionMiddleware{
		store:        store,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// SetSession loads the advisor session named by the session cookie, or
// starts a new one when the cookie is missing, unknown or expired, and
// stores it in the request context.
func (m *SessionMiddleware) SetSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(m.cookieName); err == nil {
			if session, err := m.store.Lookup(cookie.Value); err == nil {
				next.ServeHTTP(w, r.WithContext(context.ContextSetSession(r.Context(), session)))
				return
			}
		}

		session, err := m.store.Create()
		if err != nil {
			m.logger.Error("failed to create session", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     m.cookieName,
			Value:    session.Token,
			Path:     "/",
			MaxAge:   int(m.store.SessionDuration.Seconds()),
			HttpOnly: true,
			Secure:   m.cookieSecure,
			SameSite: http.SameSiteLaxMode,
		})

		next.ServeHTTP(w, r.WithContext(context.ContextSetSession(r.Context(), session)))
	})
}

// MustCurrentSession returns the advisor session of the request and panics
// if there is none. Only use this in handlers behind SetSession.
func MustCurrentSession(r *http.Request) *workflow.Session {
	session := context.ContextGetSession(r.Context())
	if session == nil {
		panic("MustCurrentSession called without SetSession middleware")
	}
	return session
}
