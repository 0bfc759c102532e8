package httpx

import (
	"context"

	domainauth "github.com/target/ims-ui/internal/domain/auth"
)

// accessKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type accessKey struct{}

// SetAccessInContext returns a child context that carries the guard's verdict
// for the current request, so views can adapt navigation without re-reading
// the session.
func SetAccessInContext(ctx context.Context, access domainauth.Access) context.Context {
	return context.WithValue(ctx, accessKey{}, access)
}

// AccessFromContext returns the access level recorded by a guard and whether one was recorded.
func AccessFromContext(ctx context.Context) (domainauth.Access, bool) {
	access, ok := ctx.Value(accessKey{}).(domainauth.Access)
	return access, ok
}
