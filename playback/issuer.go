package playback

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-video-client/apimodel"
	apperrors "github.com/jrsteele09/go-video-client/internal/errors"
	"github.com/jrsteele09/go-video-client/session"
	"github.com/jrsteele09/go-video-client/transport"
	"github.com/rs/zerolog/log"
)

var (
	ErrPlaybackUnavailable = apperrors.ErrPlaybackUnavailable
	ErrEmptyVideoID        = errors.New("video id is required")
)

// Requester performs authenticated requests; *session.Manager satisfies it.
type Requester interface {
	AuthenticatedRequest(ctx context.Context, path, method string, body any) (*transport.Response, error)
}

// Grant is a short-lived playback token bound to one video. It is never
// persisted and never reused for another video.
type Grant struct {
	VideoID   string
	Token     string
	ExpiresIn time.Duration
}

// StreamURL builds {apiURL}/video/{id}/stream?token={token}. The token is opaque.
func (g *Grant) StreamURL(apiURL string) string {
	query := url.Values{}
	query.Set("token", g.Token)
	return strings.TrimRight(apiURL, "/") + videoPath(g.VideoID, "stream") + "?" + query.Encode()
}

// Issuer trades the session credential for video-scoped playback grants.
type Issuer struct {
	requester Requester
	apiURL    string
}

func NewIssuer(requester Requester, apiURL string) *Issuer {
	return &Issuer{
		requester: requester,
		apiURL:    strings.TrimRight(apiURL, "/"),
	}
}

// MintPlaybackGrant requests a playback token for videoID. Any non-2xx
// answer, or a 2xx without a token, is ErrPlaybackUnavailable; session and
// network failures propagate unchanged.
func (i *Issuer) MintPlaybackGrant(ctx context.Context, videoID string) (*Grant, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, ErrEmptyVideoID
	}

	resp, err := i.requester.AuthenticatedRequest(ctx, videoPath(videoID, "play"), http.MethodPost, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		log.Warn().Str("video_id", videoID).Int("status", resp.Status).Msg("playback grant refused")
		return nil, fmt.Errorf("%w: %w", ErrPlaybackUnavailable, session.NewStatusError(resp))
	}

	var play apimodel.PlayResponse
	if err := resp.Decode(&play); err != nil || strings.TrimSpace(play.PlaybackToken) == "" {
		return nil, fmt.Errorf("%w: response carried no playback token", ErrPlaybackUnavailable)
	}

	return &Grant{
		VideoID:   videoID,
		Token:     play.PlaybackToken,
		ExpiresIn: time.Duration(play.ExpiresIn) * time.Second,
	}, nil
}

// StreamURL mints a grant and returns the stream URL for it.
func (i *Issuer) StreamURL(ctx context.Context, videoID string) (string, error) {
	grant, err := i.MintPlaybackGrant(ctx, videoID)
	if err != nil {
		return "", err
	}
	return grant.StreamURL(i.apiURL), nil
}

// ReportWatch records a watch analytics event (start, progress, resume...)
// at the given playback position.
func (i *Issuer) ReportWatch(ctx context.Context, videoID, event string, position time.Duration) error {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return ErrEmptyVideoID
	}
	seconds := position.Seconds()
	resp, err := i.requester.AuthenticatedRequest(ctx, videoPath(videoID, "watch"), http.MethodPost, apimodel.WatchEvent{
		Event:     event,
		Timestamp: &seconds,
	})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return session.NewStatusError(resp)
	}
	return nil
}

func videoPath(videoID, action string) string {
	return "/video/" + url.PathEscape(videoID) + "/" + action
}
