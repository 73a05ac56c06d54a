package auth

import "context"

type contextKey string

const contextIdentityKey contextKey = "identity"

// WithIdentity stores the verified token identity on ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextIdentityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextIdentityKey).(Identity)
	return id, ok
}
