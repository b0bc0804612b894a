package backend

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-video-client/apimodel"
	"github.com/jrsteele09/go-video-client/token"
	"github.com/jrsteele09/go-video-client/videos"
	"github.com/rs/zerolog/log"
)

// DashboardHandler returns the newest active videos, up to the configured limit
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.repos.Videos.ListActive(s.config.GetDashboardLimit())
		if err != nil {
			logError(r.Method, r.URL.Path, err)
			writeMessage(w, http.StatusInternalServerError, "Failed to load videos")
			return
		}

		resp := apimodel.DashboardResponse{Videos: make([]apimodel.Video, 0, len(list))}
		for _, v := range list {
			resp.Videos = append(resp.Videos, v.Public())
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// PlayHandler mints a playback token bound to one video
func (s *Server) PlayHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := r.PathValue("id")
		if _, err := s.repos.Videos.Get(videoID); err != nil {
			writeMessage(w, http.StatusNotFound, "Video not found")
			return
		}

		playbackToken, err := s.tokens.CreatePlaybackToken(videoID)
		if err != nil {
			logError(r.Method, r.URL.Path, err)
			writeMessage(w, http.StatusInternalServerError, "Failed to issue playback token")
			return
		}

		writeJSON(w, http.StatusOK, apimodel.PlayResponse{
			VideoID:       videoID,
			PlaybackToken: *playbackToken,
			ExpiresIn:     int(s.tokens.PlaybackExpiry().Seconds()),
		})
	}
}

// StreamHandler serves a video's media to the holder of a playback token
// for that video. No session credential is involved.
func (s *Server) StreamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := r.PathValue("id")
		playbackToken := r.URL.Query().Get("token")
		if strings.TrimSpace(playbackToken) == "" {
			writeMessage(w, http.StatusBadRequest, "Missing playback token")
			return
		}

		video, err := s.repos.Videos.Get(videoID)
		if err != nil {
			writeMessage(w, http.StatusNotFound, "Video not found")
			return
		}

		if err := s.inspector.VerifyPlaybackToken(playbackToken, videoID); err != nil {
			log.Debug().Err(err).Str("video_id", videoID).Msg("playback token rejected")
			writeMessage(w, http.StatusForbidden, "Invalid or expired playback token")
			return
		}

		mediaType := video.MediaType
		if mediaType == "" {
			mediaType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", mediaType)
		w.Header().Set("Content-Length", strconv.Itoa(len(video.Media)))
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(video.Media)
	}
}

// WatchHandler records a watch analytics event (start, progress, resume, ...)
func (s *Server) WatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := r.PathValue("id")
		if _, err := s.repos.Videos.Get(videoID); err != nil {
			writeMessage(w, http.StatusNotFound, "Video not found")
			return
		}

		var req apimodel.WatchEvent
		if err := decodeBody(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Event) == "" || req.Timestamp == nil {
			writeMessage(w, http.StatusBadRequest, "event and timestamp are required")
			return
		}

		if err := s.repos.Watches.Record(videos.WatchEvent{
			UserID:     userIDFromContext(r.Context()),
			VideoID:    videoID,
			Event:      req.Event,
			Timestamp:  *req.Timestamp,
			RecordedAt: token.NowTimeFunc().UTC(),
		}); err != nil {
			logError(r.Method, r.URL.Path, err)
			writeMessage(w, http.StatusInternalServerError, "Failed to record watch event")
			return
		}

		writeMessage(w, http.StatusCreated, "Watch event recorded")
	}
}
