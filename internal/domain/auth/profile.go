package auth

import "context"

type profileKey struct{}

// WithProfile returns a context carrying the profile ID that scopes durable
// client storage (one browser, or one CLI profile file).
func WithProfile(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, profileKey{}, id)
}

// ProfileFromContext returns the profile ID stored by WithProfile.
func ProfileFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(profileKey{}).(string)
	return id, ok && id != ""
}
