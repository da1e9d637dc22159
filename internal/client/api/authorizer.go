// internal/client/api/authorizer.go
package api

import "context"

// Authorizer supplies the bearer header for authenticated calls and is told
// when the backend rejects it
type Authorizer interface {
	// AuthorizationHeader returns "Bearer <token>" and true when a session exists
	AuthorizationHeader() (string, bool)
	// Unauthorized is called with the header the backend answered 401/403 to
	Unauthorized(ctx context.Context, header string)
}

// StaticToken authorizes with a fixed token and ignores rejections
type StaticToken string

// AuthorizationHeader implements Authorizer
func (t StaticToken) AuthorizationHeader() (string, bool) {
	if t == "" {
		return "", false
	}
	return "Bearer " + string(t), true
}

// Unauthorized implements Authorizer
func (StaticToken) Unauthorized(context.Context, string) {}

type anonymous struct{}

func (anonymous) AuthorizationHeader() (string, bool)  { return "", false }
func (anonymous) Unauthorized(context.Context, string) {}
