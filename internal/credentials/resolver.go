// Package credentials decides which credential accompanies a gateway request.
//
// Server-side handlers authenticate with the admin secret, which bypasses
// row-level permissions in the backend. Every document sent with it must carry
// its own user_id or id predicates; the backend will not scope it.
package credentials

import (
	"time-tracker-gateway/internal/domain"
)

// TokenSource yields the current user session token, if any.
type TokenSource interface {
	Token() (string, bool)
}

// Resolver is built once from configuration and shared.
type Resolver struct {
	adminSecret string
	tokens      TokenSource
}

// NewResolver creates a resolver. Either argument may be empty or nil.
func NewResolver(adminSecret string, tokens TokenSource) *Resolver {
	return &Resolver{
		adminSecret: adminSecret,
		tokens:      tokens,
	}
}

// ForServer returns the admin credential, or no credential when the secret is
// not configured. The request still proceeds in that case.
func (r *Resolver) ForServer() domain.Credential {
	return domain.AdminCredential(r.adminSecret)
}

// ForClient returns the bearer credential of the logged-in user, or no
// credential.
func (r *Resolver) ForClient() domain.Credential {
	if r.tokens == nil {
		return domain.Credential{}
	}
	token, ok := r.tokens.Token()
	if !ok {
		return domain.Credential{}
	}
	return domain.BearerCredential(token)
}

// HasAdminSecret reports whether server requests will be privileged.
func (r *Resolver) HasAdminSecret() bool {
	return r.adminSecret != ""
}
