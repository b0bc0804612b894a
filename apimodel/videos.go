package apimodel

// Video is the public representation of a catalog entry.
// The media source backing a video is never part of this shape.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// DashboardResponse is returned by GET /dashboard.
type DashboardResponse struct {
	Videos []Video `json:"videos"`
}

// PlayResponse is returned by POST /video/{id}/play.
type PlayResponse struct {
	// VideoID echoes the video the token is bound to.
	VideoID string `json:"video_id,omitempty"`

	// PlaybackToken is an opaque credential scoped to VideoID and to streaming.
	// Usage: Appended as the "token" query parameter of /video/{id}/stream
	// Lifespan: Minutes (five by default on the development backend)
	PlaybackToken string `json:"playback_token"`

	// ExpiresIn is the lifetime in seconds of the playback token.
	ExpiresIn int `json:"expires_in,omitempty"`
}

// WatchEvent is the body of POST /video/{id}/watch.
// Example: {"event": "progress", "timestamp": 42.5}
type WatchEvent struct {
	Event string `json:"event"`

	// Timestamp is the playback position in seconds. A pointer so that a
	// missing value can be told apart from position zero.
	Timestamp *float64 `json:"timestamp"`
}
