package videos

import (
	"time"

	"github.com/jrsteele09/go-video-client/apimodel"
)

// Video is a catalog entry. Media is the source behind the stream endpoint
// and never leaves the backend except as stream bytes.
type Video struct {
	ID           string    `json:"id,omitempty"`
	Title        string    `json:"title,omitempty"`
	Description  string    `json:"description,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Media        []byte    `json:"-"`
	MediaType    string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Public strips everything the client must not see.
func (v *Video) Public() apimodel.Video {
	return apimodel.Video{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		ThumbnailURL: v.ThumbnailURL,
	}
}

type VideoRepo interface {
	Upsert(video *Video) error
	// Get returns an active video
	Get(id string) (*Video, error)
	// ListActive returns active videos, newest first
	ListActive(limit int) ([]*Video, error)
}

// WatchEvent is one analytics event reported by a player.
type WatchEvent struct {
	UserID     string
	VideoID    string
	Event      string
	Timestamp  float64
	RecordedAt time.Time
}

type WatchRepo interface {
	Record(event WatchEvent) error
	ListForVideo(videoID string) ([]WatchEvent, error)
}
