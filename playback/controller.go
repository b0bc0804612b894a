package playback

import (
	"context"
	"sync"
	"time"
)

// DefaultSeekStep is how far SeekForward jumps.
const DefaultSeekStep = 10 * time.Second

// EngineStatus is what an external playback engine reports about the loaded media.
type EngineStatus struct {
	Loaded   bool
	Playing  bool
	Muted    bool
	Position time.Duration
}

// Engine renders media. Implementations live outside this module.
type Engine interface {
	Load(ctx context.Context, streamURL string) error
	Status(ctx context.Context) (EngineStatus, error)
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	SetMuted(ctx context.Context, muted bool) error
	SetPosition(ctx context.Context, position time.Duration) error
}

// Controller drives an Engine for one video at a time.
type Controller struct {
	issuer *Issuer
	engine Engine

	lock    sync.Mutex
	videoID string
	muted   bool
}

func NewController(issuer *Issuer, engine Engine) *Controller {
	return &Controller{issuer: issuer, engine: engine}
}

// Start mints a fresh grant for videoID and loads its stream into the engine.
func (c *Controller) Start(ctx context.Context, videoID string) (*Grant, error) {
	grant, err := c.issuer.MintPlaybackGrant(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := c.engine.Load(ctx, grant.StreamURL(c.issuer.apiURL)); err != nil {
		return nil, err
	}

	c.lock.Lock()
	c.videoID = grant.VideoID
	c.lock.Unlock()
	return grant, nil
}

// VideoID returns the video most recently started.
func (c *Controller) VideoID() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.videoID
}

// TogglePlayPause does nothing until the engine reports the media loaded.
func (c *Controller) TogglePlayPause(ctx context.Context) error {
	status, err := c.engine.Status(ctx)
	if err != nil {
		return err
	}
	if !status.Loaded {
		return nil
	}
	if status.Playing {
		return c.engine.Pause(ctx)
	}
	return c.engine.Play(ctx)
}

// ToggleMute flips the mute flag and returns the resulting value. When the
// engine refuses, the flag is left as it was.
func (c *Controller) ToggleMute(ctx context.Context) (bool, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	muted := !c.muted
	if err := c.engine.SetMuted(ctx, muted); err != nil {
		return c.muted, err
	}
	c.muted = muted
	return muted, nil
}

// SeekForward jumps ahead by step. It is a no-op while nothing is loaded
// or before playback has advanced past zero.
func (c *Controller) SeekForward(ctx context.Context, step time.Duration) error {
	if step <= 0 {
		step = DefaultSeekStep
	}
	status, err := c.engine.Status(ctx)
	if err != nil {
		return err
	}
	if !status.Loaded || status.Position <= 0 {
		return nil
	}
	return c.engine.SetPosition(ctx, status.Position+step)
}
