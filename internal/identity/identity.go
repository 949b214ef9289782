// Package identity carries the requester identity through request contexts.
// There is no real authentication behind it; the identity is whatever the
// caller declared, defaulting to the single local viewer.
package identity

import "context"

// DefaultUser is the viewer identity assumed for unattributed requests.
const DefaultUser = "current-user"

// User identifies the requester of an operation. Ownership checks compare
// users by value.
type User struct {
	Name string
}

// Is reports whether the user matches the given author tag.
func (u User) Is(author string) bool {
	return u.Name == author
}

type ctxKey struct{}

// NewContext returns a context carrying the user.
func NewContext(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the user stored in ctx, or the default viewer.
func FromContext(ctx context.Context) User {
	if u, ok := ctx.Value(ctxKey{}).(User); ok {
		return u
	}
	return User{Name: DefaultUser}
}
