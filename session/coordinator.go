package session

import (
	"context"
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
	refreshPath           = "/auth/refresh"
	defaultRefreshTimeout = 15 * time.Second
)

// errSessionEnded settles a refresh whose session was replaced by a login
// or ended by a logout while the exchange was running.
var errSessionEnded = fmt.Errorf("%w: session ended during refresh", ErrSessionExpired)

// refreshFuture is the shared outcome of one in-flight refresh. done is
// closed exactly once, after session and err are set.
type refreshFuture struct {
	done       chan struct{}
	session    credentials.Session
	err        error
	waiters    int
	generation int
}

// Coordinator guarantees at most one refresh exchange is in flight per
// process. Every caller that asks for a refresh while one is running
// receives that refresh's outcome.
type Coordinator struct {
	transport transport.Transport
	store     credentials.Store
	timeout   time.Duration

	lock     sync.Mutex
	inflight *refreshFuture
	started  int
	// generation changes whenever the stored session is replaced or
	// ended outside of a refresh
	generation int

	// Observers run with the coordinator lock held and must not call back
	// into the coordinator. onStart runs when a refresh is installed,
	// onSettle before its waiters are released and only while the
	// session it refreshed is still current.
	onStart  func()
	onSettle func(error)
}

// NewCoordinator creates a coordinator. A zero timeout uses the default of 15 seconds.
func NewCoordinator(t transport.Transport, store credentials.Store, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = defaultRefreshTimeout
	}
	return &Coordinator{
		transport: t,
		store:     store,
		timeout:   timeout,
	}
}

// Refresh obtains a new session, joining the in-flight refresh when there
// is one. The exchange itself is detached from ctx: a caller that gives up
// returns ctx.Err() but the refresh still settles for everyone else.
func (c *Coordinator) Refresh(ctx context.Context) (credentials.Session, error) {
	c.lock.Lock()
	future := c.inflight
	if future == nil {
		future = &refreshFuture{done: make(chan struct{}), generation: c.generation}
		c.inflight = future
		c.started++
		if c.onStart != nil {
			c.onStart()
		}
		go c.run(context.WithoutCancel(ctx), future)
	}
	future.waiters++
	c.lock.Unlock()

	select {
	case <-future.done:
		return future.session, future.err
	case <-ctx.Done():
		return credentials.Session{}, ctx.Err()
	}
}

// InFlight reports whether a refresh is currently running.
func (c *Coordinator) InFlight() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.inflight != nil
}

// Started returns how many refresh exchanges this coordinator has begun.
func (c *Coordinator) Started() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.started
}

// Waiting is the number of callers blocked on the in-flight refresh
func (c *Coordinator) Waiting() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.inflight == nil {
		return 0
	}
	return c.inflight.waiters
}

// replaceSession runs write as the start of a new session, e.g. storing a
// fresh login or clearing the store on logout. A refresh in flight at that
// point belongs to the old session: it stores nothing and its waiters get
// ErrSessionExpired.
func (c *Coordinator) replaceSession(write func() error) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.generation++
	return write()
}

// commit runs write only while generation is still the current session.
func (c *Coordinator) commit(generation int, write func() error) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if generation != c.generation {
		return errSessionEnded
	}
	return write()
}

func (c *Coordinator) run(ctx context.Context, future *refreshFuture) {
	session, err := c.exchange(ctx, future.generation)

	c.lock.Lock()
	if future.generation != c.generation {
		session, err = credentials.Session{}, errSessionEnded
	} else if c.onSettle != nil {
		c.onSettle(err)
	}
	future.session = session
	future.err = err
	waiters := future.waiters
	c.inflight = nil
	close(future.done)
	c.lock.Unlock()

	if err != nil {
		log.Info().Err(err).Int("waiters", waiters).Msg("refresh settled with error")
		return
	}
	log.Info().Int("waiters", waiters).Msg("refresh settled")
}

func (c *Coordinator) exchange(ctx context.Context, generation int) (credentials.Session, error) {
	refreshToken, ok, err := c.store.ReadRefresh(ctx)
	if err != nil {
		return credentials.Session{}, fmt.Errorf("read refresh credential: %w", err)
	}
	if !ok || strings.TrimSpace(refreshToken) == "" {
		return credentials.Session{}, ErrNoRefreshCredential
	}

	log.Info().Msg("refreshing access credential")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.transport.Send(ctx, http.MethodPost, refreshPath, nil, apimodel.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return credentials.Session{}, err
	}
	if !resp.OK() {
		return credentials.Session{}, c.reject(ctx, generation, fmt.Errorf("%w: status %d", ErrRefreshRejected, resp.Status))
	}

	var tokens apimodel.TokenResponse
	if err := resp.Decode(&tokens); err != nil || strings.TrimSpace(tokens.AccessToken) == "" {
		return credentials.Session{}, c.reject(ctx, generation, fmt.Errorf("%w: response carried no access token", ErrRefreshRejected))
	}

	session := credentials.Session{
		AccessToken:  tokens.AccessToken,
		RefreshToken: refreshToken,
	}
	if rotated := utils.Value(tokens.RefreshToken); rotated != "" {
		session.RefreshToken = rotated
	}
	err = c.commit(generation, func() error {
		if err := c.store.Save(ctx, session); err != nil {
			return fmt.Errorf("persist refreshed session: %w", err)
		}
		return nil
	})
	if err != nil {
		return credentials.Session{}, err
	}
	return session, nil
}

func (c *Coordinator) reject(ctx context.Context, generation int, cause error) error {
	err := c.commit(generation, func() error {
		log.Warn().Err(cause).Msg("refresh rejected, clearing session")
		if err := c.store.Clear(ctx); err != nil {
			log.Err(err).Msg("failed to clear session after refresh rejection")
		}
		return nil
	})
	if err != nil {
		return err
	}
	return cause
}
