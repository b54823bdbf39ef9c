package httpapi

import (
	"context"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
)

// session is what the auth middleware learned about the caller of one request.
// Admin is set once RequireAdmin has confirmed the role.
type session struct {
	Principal user.Principal
	Admin     bool
}

type sessionKey struct{}

func withSession(ctx context.Context, s session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func sessionFrom(ctx context.Context) (session, bool) {
	s, ok := ctx.Value(sessionKey{}).(session)
	return s, ok
}
