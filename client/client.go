package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-video-client/apimodel"
	"github.com/jrsteele09/go-video-client/credentials"
	"github.com/jrsteele09/go-video-client/internal/config"
	"github.com/jrsteele09/go-video-client/playback"
	"github.com/jrsteele09/go-video-client/session"
	"github.com/jrsteele09/go-video-client/transport"
	"github.com/rs/zerolog/log"
)

const (
	signupPath    = "/auth/signup"
	mePath        = "/auth/me"
	dashboardPath = "/dashboard"
)

// Client is the feature-level API of the video service: account
// management, the dashboard and playback.
type Client struct {
	apiURL  string
	manager *session.Manager
	issuer  *playback.Issuer
}

type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient overrides the HTTP client, which otherwise honours the configured request timeout
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

func New(cfg config.ClientConfig, store credentials.Store, opts ...Option) *Client {
	o := options{httpClient: &http.Client{Timeout: cfg.GetRequestTimeout()}}
	for _, opt := range opts {
		opt(&o)
	}

	apiURL := strings.TrimRight(cfg.GetAPIURL(), "/")
	t := transport.NewHTTPTransport(apiURL, transport.WithHTTPClient(o.httpClient))
	manager := session.NewManager(t, store, session.WithRefreshTimeout(cfg.GetRefreshTimeout()))

	return &Client{
		apiURL:  apiURL,
		manager: manager,
		issuer:  playback.NewIssuer(manager, apiURL),
	}
}

func (c *Client) APIURL() string {
	return c.apiURL
}

func (c *Client) Session() *session.Manager {
	return c.manager
}

func (c *Client) Playback() *playback.Issuer {
	return c.issuer
}

// Resume picks up a session persisted by a previous run.
func (c *Client) Resume(ctx context.Context) (session.State, error) {
	return c.manager.Resume(ctx)
}

// Signup registers an account and then logs in with it.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	resp, err := c.manager.PublicRequest(ctx, signupPath, http.MethodPost, apimodel.SignupRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}
	if resp.Status != http.StatusOK && resp.Status != http.StatusCreated {
		return session.NewStatusError(resp)
	}

	log.Info().Msg("account created, logging in")
	return c.manager.Login(ctx, email, password)
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.manager.Login(ctx, email, password)
}

// Logout never fails; the local session is always discarded.
func (c *Client) Logout(ctx context.Context) {
	c.manager.Logout(ctx)
}

func (c *Client) Me(ctx context.Context) (*apimodel.Profile, error) {
	var profile apimodel.Profile
	if err := c.getJSON(ctx, mePath, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Dashboard lists the videos currently offered to the user.
func (c *Client) Dashboard(ctx context.Context) ([]apimodel.Video, error) {
	var dashboard apimodel.DashboardResponse
	if err := c.getJSON(ctx, dashboardPath, &dashboard); err != nil {
		return nil, err
	}
	return dashboard.Videos, nil
}

// Play mints a playback grant for videoID and returns the stream URL to hand to a player.
func (c *Client) Play(ctx context.Context, videoID string) (string, error) {
	return c.issuer.StreamURL(ctx, videoID)
}

func (c *Client) ReportWatch(ctx context.Context, videoID, event string, position time.Duration) error {
	return c.issuer.ReportWatch(ctx, videoID, event, position)
}

// DashboardLoader returns a loader that fetches the dashboard at most once
// per session and forgets it when the user is logged out.
func (c *Client) DashboardLoader() *OnceLoader[[]apimodel.Video] {
	loader := NewOnceLoader(c.Dashboard)
	c.manager.OnSessionChange(func(state session.State) {
		if state == session.LoggedOut {
			loader.Reset()
		}
	})
	return loader
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.manager.AuthenticatedRequest(ctx, path, http.MethodGet, nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return session.NewStatusError(resp)
	}
	if err := resp.Decode(v); err != nil {
		return fmt.Errorf("%s: %w: %v", path, session.ErrMalformedResponse, err)
	}
	return nil
}
