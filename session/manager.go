package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-video-client/apimodel"
	"github.com/jrsteele09/go-video-client/credentials"
	"github.com/jrsteele09/go-video-client/internal/utils"
	"github.com/jrsteele09/go-video-client/transport"
	"github.com/rs/zerolog/log"
)

const (
	loginPath  = "/auth/login"
	logoutPath = "/auth/logout"
)

// Manager performs authenticated requests on behalf of the single logged-in
// identity held in a credentials.Store, refreshing the access credential
// once when the backend answers 401.
type Manager struct {
	transport   transport.Transport
	store       credentials.Store
	coordinator *Coordinator

	lock         sync.RWMutex
	state        State
	listeners    map[int]func(State)
	nextListener int
}

type Option func(*options)

type options struct {
	refreshTimeout time.Duration
}

// WithRefreshTimeout bounds each refresh exchange
func WithRefreshTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.refreshTimeout = timeout
	}
}

func NewManager(t transport.Transport, store credentials.Store, opts ...Option) *Manager {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	m := &Manager{
		transport: t,
		store:     store,
		listeners: make(map[int]func(State)),
	}
	m.coordinator = NewCoordinator(t, store, o.refreshTimeout)
	m.coordinator.onStart = func() { m.setState(RefreshPending) }
	m.coordinator.onSettle = m.refreshSettled
	return m
}

// Coordinator exposes the refresh coordinator, mainly for diagnostics.
func (m *Manager) Coordinator() *Coordinator {
	return m.coordinator
}

// AuthenticatedRequest sends a request carrying the current access
// credential. On 401 it refreshes (joining any refresh already running)
// and retries exactly once; the retry's response is returned as-is, even
// when it is another 401.
func (m *Manager) AuthenticatedRequest(ctx context.Context, path, method string, body any) (*transport.Response, error) {
	accessToken, _, err := m.store.ReadAccess(ctx)
	if err != nil {
		return nil, fmt.Errorf("read access credential: %w", err)
	}

	resp, err := m.transport.Send(ctx, method, path, bearer(accessToken), body)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusUnauthorized {
		return resp, nil
	}

	// a refresh that settled after this request was sent has already
	// replaced the credential
	if current, ok, err := m.store.ReadAccess(ctx); err == nil && ok && current != accessToken {
		log.Debug().Str("method", method).Str("path", path).Msg("access credential replaced in flight, retrying")
		return m.transport.Send(ctx, method, path, bearer(current), body)
	}

	log.Debug().Str("method", method).Str("path", path).Msg("access credential rejected, refreshing")

	refreshed, err := m.coordinator.Refresh(ctx)
	switch {
	case errors.Is(err, ErrNoRefreshCredential):
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	case errors.Is(err, ErrRefreshRejected):
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrSessionExpired)
	case err != nil:
		return nil, err
	}

	return m.transport.Send(ctx, method, path, bearer(refreshed.AccessToken), body)
}

// PublicRequest sends a request without any credential and never refreshes.
func (m *Manager) PublicRequest(ctx context.Context, path, method string, body any) (*transport.Response, error) {
	return m.transport.Send(ctx, method, path, nil, body)
}

// Login exchanges email and password for a session and persists it.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.setState(Authenticating)

	session, err := m.login(ctx, email, password)
	if err == nil {
		err = m.coordinator.replaceSession(func() error {
			if err := m.store.Save(ctx, session); err != nil {
				return fmt.Errorf("persist session: %w", err)
			}
			m.setState(Authenticated)
			return nil
		})
	}
	if err != nil {
		m.restoreState(ctx)
		return err
	}

	log.Info().Msg("logged in")
	return nil
}

func (m *Manager) login(ctx context.Context, email, password string) (credentials.Session, error) {
	resp, err := m.PublicRequest(ctx, loginPath, http.MethodPost, apimodel.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return credentials.Session{}, err
	}
	if !resp.OK() {
		return credentials.Session{}, NewStatusError(resp)
	}

	var tokens apimodel.TokenResponse
	if err := resp.Decode(&tokens); err != nil {
		return credentials.Session{}, fmt.Errorf("login: %w: %v", ErrMalformedResponse, err)
	}
	session := credentials.Session{
		AccessToken:  strings.TrimSpace(tokens.AccessToken),
		RefreshToken: strings.TrimSpace(utils.Value(tokens.RefreshToken)),
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		return credentials.Session{}, fmt.Errorf("login: %w: missing tokens", ErrMalformedResponse)
	}
	return session, nil
}

// Logout tells the backend to invalidate the session, then clears the
// store whatever happened. It never fails. A refresh still in flight
// afterwards cannot bring the session back.
func (m *Manager) Logout(ctx context.Context) {
	resp, err := m.AuthenticatedRequest(ctx, logoutPath, http.MethodPost, nil)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("logout request failed, clearing session anyway")
	case !resp.OK():
		log.Warn().Int("status", resp.Status).Msg("logout rejected, clearing session anyway")
	}

	if err := m.coordinator.replaceSession(func() error {
		err := m.store.Clear(context.WithoutCancel(ctx))
		m.setState(LoggedOut)
		return err
	}); err != nil {
		log.Err(err).Msg("failed to clear session on logout")
	}
	log.Info().Msg("logged out")
}

// Resume derives the state from the store, e.g. after a process restart.
func (m *Manager) Resume(ctx context.Context) (State, error) {
	_, ok, err := m.store.ReadAccess(ctx)
	if err != nil {
		return m.State(), fmt.Errorf("read access credential: %w", err)
	}
	if ok {
		m.setState(Authenticated)
	} else {
		m.setState(LoggedOut)
	}
	return m.State(), nil
}

func (m *Manager) State() State {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.state
}

// OnSessionChange registers fn to be called on every state transition.
// Listeners run synchronously and must not block or call back into the
// Manager.
func (m *Manager) OnSessionChange(fn func(State)) (unsubscribe func()) {
	m.lock.Lock()
	id := m.nextListener
	m.nextListener++
	m.listeners[id] = fn
	m.lock.Unlock()

	return func() {
		m.lock.Lock()
		delete(m.listeners, id)
		m.lock.Unlock()
	}
}

func (m *Manager) setState(next State) {
	m.lock.Lock()
	if m.state == next {
		m.lock.Unlock()
		return
	}
	prev := m.state
	m.state = next
	listeners := make([]func(State), 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.lock.Unlock()

	log.Debug().Stringer("from", prev).Stringer("to", next).Msg("session state changed")
	for _, fn := range listeners {
		fn(next)
	}
}

func (m *Manager) refreshSettled(err error) {
	switch {
	case err == nil:
		m.setState(Authenticated)
	case errors.Is(err, ErrNoRefreshCredential):
		// the store was not touched, it still decides
		m.restoreState(context.Background())
	case errors.Is(err, ErrRefreshRejected):
		m.setState(LoggedOut)
	default:
		// transient failure, credentials are still held
		m.setState(Authenticated)
	}
}

func (m *Manager) restoreState(ctx context.Context) {
	if _, ok, err := m.store.ReadAccess(ctx); err == nil && ok {
		m.setState(Authenticated)
		return
	}
	m.setState(LoggedOut)
}

func bearer(accessToken string) http.Header {
	if strings.TrimSpace(accessToken) == "" {
		return nil
	}
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+accessToken)
	return headers
}
