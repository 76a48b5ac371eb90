package services

import (
	"context"

	"github.com/soaringjerry/Candor/internal/models"
)

type sessionCtxKey struct{}

func WithSession(ctx context.Context, sess models.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sess)
}

func SessionFromContext(ctx context.Context) (models.Session, bool) {
	sess, ok := ctx.Value(sessionCtxKey{}).(models.Session)
	return sess, ok
}

// requireSession returns the caller's session, optionally restricted to
// the given roles.
func requireSession(ctx context.Context, roles ...models.Role) (models.Session, error) {
	sess, ok := SessionFromContext(ctx)
	if !ok {
		return models.Session{}, NewUnauthorizedError("login required")
	}
	if len(roles) == 0 {
		return sess, nil
	}
	for _, r := range roles {
		if sess.Role == r {
			return sess, nil
		}
	}
	return models.Session{}, NewForbiddenError("not available for the " + string(sess.Role) + " role")
}
