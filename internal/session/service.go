// Package session issues anonymous storefront sessions: an opaque session
// id plus a bearer token the browser sends with cart requests.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	tokens    *tokenManager
	accessTTL time.Duration
}

func New() *Service {
	return &Service{
		tokens:    newTokenManager(),
		accessTTL: 30 * 24 * time.Hour,
	}
}

// Issue creates a new anonymous session and a token bound to it.
func (s *Service) Issue(ctx context.Context) (sessionID, accessToken string, err error) {
	sessionID, err = randomID()
	if err != nil {
		return "", "", err
	}
	accessToken, err = s.tokens.Issue(sessionID, s.accessTTL)
	if err != nil {
		return "", "", err
	}
	return sessionID, accessToken, nil
}

// LookupByToken resolves a bearer token to its session id.
func (s *Service) LookupByToken(ctx context.Context, token string) (string, error) {
	meta, ok := s.tokens.Validate(token)
	if !ok {
		return "", ErrInvalidToken
	}
	return meta.SessionID, nil
}

// AccessTTLSeconds exposes the token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}
