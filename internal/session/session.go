// Package session holds the signed-in profile and the bearer token on the
// client side and keeps both mirrored to persistent storage.
package session

import (
	"context"
	"encoding/json"

	"time-tracker-gateway/internal/domain"
	"time-tracker-gateway/internal/errors"
)

// Storage keys.
const (
	ProfileKey = "profile"
	TokenKey   = "nhost_token"
)

var profileCodec = codec[*domain.Profile]{
	encode: func(p *domain.Profile) (string, bool, error) {
		if p == nil {
			return "", false, nil
		}
		data, err := json.Marshal(p)
		if err != nil {
			return "", false, errors.NewValidationError("profile could not be encoded", err)
		}
		return string(data), true, nil
	},
	decode: func(raw string) (*domain.Profile, error) {
		var p *domain.Profile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, err
		}
		return p, nil
	},
}

var tokenCodec = codec[string]{
	encode: func(token string) (string, bool, error) {
		return token, token != "", nil
	},
	decode: func(raw string) (string, error) {
		return raw, nil
	},
}

// Session is the client's view of who is signed in.
type Session struct {
	profile *Value[*domain.Profile]
	token   *Value[string]
}

// Open hydrates a session from storage. A stored profile that no longer
// decodes is dropped and its key removed.
func Open(ctx context.Context, storage Storage) (*Session, error) {
	s := &Session{
		profile: newValue(ProfileKey, storage, profileCodec),
		token:   newValue(TokenKey, storage, tokenCodec),
	}

	if err := s.profile.load(ctx); err != nil {
		if !errors.IsErrorType(err, errors.ErrorTypeValidation) {
			return nil, err
		}
		if err := storage.Remove(ctx, ProfileKey); err != nil {
			return nil, err
		}
	}
	if err := s.token.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ProfileValue exposes the observable profile.
func (s *Session) ProfileValue() *Value[*domain.Profile] {
	return s.profile
}

// TokenValue exposes the observable token.
func (s *Session) TokenValue() *Value[string] {
	return s.token
}

// CurrentProfile returns a copy of the signed-in profile, or nil.
func (s *Session) CurrentProfile() *domain.Profile {
	p := s.profile.Get()
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// SetProfile replaces the profile.
func (s *Session) SetProfile(ctx context.Context, p domain.Profile) error {
	return s.profile.Set(ctx, &p)
}

// ClearProfile signs the profile out.
func (s *Session) ClearProfile(ctx context.Context) error {
	return s.profile.Clear(ctx)
}

// Token implements credentials.TokenSource.
func (s *Session) Token() (string, bool) {
	t := s.token.Get()
	return t, t != ""
}

// SetToken stores a bearer token. An empty token clears it.
func (s *Session) SetToken(ctx context.Context, token string) error {
	return s.token.Set(ctx, token)
}

// ClearToken forgets the bearer token.
func (s *Session) ClearToken(ctx context.Context) error {
	return s.token.Clear(ctx)
}
