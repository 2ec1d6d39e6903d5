package context

import (
	"context"

	"github.com/rahul4469/coverage-advisor/internal/workflow"
)

type contextkey string

const (
	sessionKey contextkey = "session"
)

// ContextSetSession binds the advisor session to ctx.
func ContextSetSession(ctx context.Context, session *workflow.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// ContextGetSession retrieves the advisor session from request context.
// Returns nil if no session is set.
func ContextGetSession(ctx context.Context) *workflow.Session {
	val := ctx.Value(sessionKey)
	session, ok := val.(*workflow.Session)
	if !ok {
		return nil
	}
	return session
}
