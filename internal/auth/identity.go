package auth

import "context"

// Identity is the result of a successful validation: the authenticated user
// and the session that proved it. Command handlers receive it explicitly
// through the context, never through package-level state.
type Identity struct {
	UserID    int64
	Username  string
	SessionID int64
}

type identityCtxKey struct{}

// WithIdentity returns a context carrying the validated identity.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext extracts the validated identity, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(*Identity)
	return id, ok && id != nil
}
