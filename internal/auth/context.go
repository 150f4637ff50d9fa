package auth

import "context"

// Identity is the verified identity attached to a request after token
// verification. It is the only identity handlers may trust; client-supplied
// identity fields in request bodies are ignored.
type Identity struct {
	UserID   string
	Username string
}

type identityContextKey struct{}

// ContextWithIdentity stores the verified identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the verified identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
