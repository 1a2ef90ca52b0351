package core

import "context"

type contextKey int

const principalKey contextKey = iota

// WithPrincipal attach the authenticated principal to the context
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFromContext the authenticated principal, empty if anonymous
func PrincipalFromContext(ctx context.Context) string {
	principal, _ := ctx.Value(principalKey).(string)
	return principal
}

// RequireAuthorization abort unless the caller is the stated principal
func RequireAuthorization(ctx context.Context, principal string) error {
	if principal == "" || PrincipalFromContext(ctx) != principal {
		return ErrUnauthorized
	}

	return nil
}
