package session

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// TokenSource exposes the stored credentials to code that builds HTTP
// clients with oauth2.NewClient. It never refreshes: a 401 seen by such a
// client is the caller's to handle, typically via AuthenticatedRequest.
func (m *Manager) TokenSource() oauth2.TokenSource {
	return &storeTokenSource{manager: m}
}

type storeTokenSource struct {
	manager *Manager
}

func (s *storeTokenSource) Token() (*oauth2.Token, error) {
	ctx := context.Background()
	access, ok, err := s.manager.store.ReadAccess(ctx)
	if err != nil {
		return nil, fmt.Errorf("read access credential: %w", err)
	}
	if !ok {
		return nil, ErrUnauthorized
	}
	refresh, _, err := s.manager.store.ReadRefresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("read refresh credential: %w", err)
	}
	return &oauth2.Token{
		AccessToken:  access,
		TokenType:    "Bearer",
		RefreshToken: refresh,
	}, nil
}
