package backend_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-video-client/apimodel"
	"github.com/jrsteele09/go-video-client/backend"
	"github.com/jrsteele09/go-video-client/internal/config"
	"github.com/jrsteele09/go-video-client/token"
	"github.com/stretchr/testify/require"
)

const (
	testName     = "Ada Lovelace"
	testEmail    = "ada@example.com"
	testPassword = "password123"
)

type fixture struct {
	server *httptest.Server
	repos  backend.Repos
}

func setupFixture(t *testing.T, env map[string]string) *fixture {
	t.Helper()
	t.Setenv("ENV", "TEST")
	t.Setenv("JWT_SECRET", "1234")
	t.Setenv("API_PREFIX", "/api")
	t.Setenv("LOGIN_RATE_LIMIT", "0")
	t.Setenv("ROTATE_REFRESH_TOKENS", "")
	for k, v := range env {
		t.Setenv(k, v)
	}

	repos, err := backend.NewInMemoryRepos(true)
	require.NoError(t, err)
	srv, err := backend.New(config.NewBackend(), repos)
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return &fixture{server: ts, repos: repos}
}

func (f *fixture) do(t *testing.T, method, path, accessToken string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func (f *fixture) signupAndLogin(t *testing.T) apimodel.TokenResponse {
	t.Helper()
	status, _ := f.do(t, http.MethodPost, "/api/auth/signup", "", apimodel.SignupRequest{Name: testName, Email: testEmail, Password: testPassword})
	require.Equal(t, http.StatusCreated, status)

	status, body := f.do(t, http.MethodPost, "/api/auth/login", "", apimodel.LoginRequest{Email: testEmail, Password: testPassword})
	require.Equal(t, http.StatusOK, status)

	var tokens apimodel.TokenResponse
	require.NoError(t, json.Unmarshal(body, &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	require.NotNil(t, tokens.RefreshToken)
	require.Equal(t, 3600, tokens.ExpiresIn)
	return tokens
}

func message(t *testing.T, body []byte) string {
	t.Helper()
	var msg apimodel.MessageResponse
	require.NoError(t, json.Unmarshal(body, &msg))
	return msg.Message
}

func withNow(t *testing.T, now time.Time) {
	t.Helper()
	token.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { token.NowTimeFunc = time.Now })
}

func TestRoutesAreMountedUnderPrefix(t *testing.T) {
	t.Setenv("ENV", "TEST")
	t.Setenv("API_PREFIX", "/v2")
	repos, err := backend.NewInMemoryRepos(false)
	require.NoError(t, err)
	srv, err := backend.New(config.NewBackend(), repos)
	require.NoError(t, err)

	require.Contains(t, srv.Routes(), "GET /v2/dashboard")
	require.Contains(t, srv.Routes(), "GET /v2/video/{id}/stream")
	require.Contains(t, srv.Routes(), "POST /v2/auth/refresh")
}

func TestSignup(t *testing.T) {
	f := setupFixture(t, nil)

	status, body := f.do(t, http.MethodPost, "/api/auth/signup", "", apimodel.SignupRequest{Name: testName, Email: testEmail, Password: testPassword})
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "User registered successfully", message(t, body))

	status, body = f.do(t, http.MethodPost, "/api/auth/signup", "", apimodel.SignupRequest{Name: "Other", Email: "ADA@example.com", Password: "x"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Email already registered", message(t, body))

	status, body = f.do(t, http.MethodPost, "/api/auth/signup", "", apimodel.SignupRequest{Email: "b@example.com"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "name is required", message(t, body))

	status, body = f.do(t, http.MethodPost, "/api/auth/signup", "", apimodel.SignupRequest{Name: "Bob", Email: "bob", Password: "x"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "invalid email format", message(t, body))
}

func TestLoginAndMe(t *testing.T) {
	f := setupFixture(t, nil)
	tokens := f.signupAndLogin(t)

	status, body := f.do(t, http.MethodGet, "/api/auth/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	var profile apimodel.Profile
	require.NoError(t, json.Unmarshal(body, &profile))
	require.Equal(t, apimodel.Profile{Name: testName, Email: testEmail}, profile)

	status, body = f.do(t, http.MethodPost, "/api/auth/login", "", apimodel.LoginRequest{Email: testEmail, Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Invalid credentials", message(t, body))
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	f := setupFixture(t, nil)

	status, _ := f.do(t, http.MethodGet, "/api/dashboard", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)

	status, body := f.do(t, http.MethodGet, "/api/dashboard", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Invalid token", message(t, body))
}

func TestExpiredAccessTokenIsUnauthorized(t *testing.T) {
	f := setupFixture(t, nil)
	tokens := f.signupAndLogin(t)

	withNow(t, time.Now().Add(2*time.Hour))
	status, body := f.do(t, http.MethodGet, "/api/dashboard", tokens.AccessToken, nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Token has expired", message(t, body))
}

func TestRefreshKeepsRefreshTokenByDefault(t *testing.T) {
	f := setupFixture(t, nil)
	tokens := f.signupAndLogin(t)

	status, body := f.do(t, http.MethodPost, "/api/auth/refresh", "", apimodel.RefreshRequest{RefreshToken: *tokens.RefreshToken})
	require.Equal(t, http.StatusOK, status)
	var refreshed apimodel.TokenResponse
	require.NoError(t, json.Unmarshal(body, &refreshed))
	require.NotEmpty(t, refreshed.AccessToken)
	require.Nil(t, refreshed.RefreshToken)

	status, _ = f.do(t, http.MethodPost, "/api/auth/refresh", "", apimodel.RefreshRequest{RefreshToken: *tokens.RefreshToken})
	require.Equal(t, http.StatusOK, status)

	status, _ = f.do(t, http.MethodGet, "/api/dashboard", refreshed.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestRefreshRotation(t *testing.T) {
	f := setupFixture(t, map[string]string{"ROTATE_REFRESH_TOKENS": "true"})
	tokens := f.signupAndLogin(t)

	status, body := f.do(t, http.MethodPost, "/api/auth/refresh", "", apimodel.RefreshRequest{RefreshToken: *tokens.RefreshToken})
	require.Equal(t, http.StatusOK, status)
	var refreshed apimodel.TokenResponse
	require.NoError(t, json.Unmarshal(body, &refreshed))
	require.NotNil(t, refreshed.RefreshToken)
	require.NotEqual(t, *tokens.RefreshToken, *refreshed.RefreshToken)

	status, _ = f.do(t, http.MethodPost, "/api/auth/refresh", "", apimodel.RefreshRequest{RefreshToken: *tokens.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	f := setupFixture(t, nil)

	status, body := f.do(t, http.MethodPost, "/api/auth/refresh", "", apimodel.RefreshRequest{RefreshToken: "nope"})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Invalid refresh token", message(t, body))

	status, _ = f.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{})
	require.Equal(t, http.StatusBadRequest, status)
}

func TestLogoutRevokesTokens(t *testing.T) {
	f := setupFixture(t, nil)
	tokens := f.signupAndLogin(t)

	status, body := f.do(t, http.MethodPost, "/api/auth/logout", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Logged out", message(t, body))

	status, body = f.do(t, http.MethodGet, "/api/auth/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Token has been revoked", message(t, body))

	status, _ = f.do(t, http.MethodPost, "/api/auth/refresh", "", apimodel.RefreshRequest{RefreshToken: *tokens.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestDashboardListsNewestActiveVideos(t *testing.T) {
	f := setupFixture(t, nil)
	tokens := f.signupAndLogin(t)

	status, body := f.do(t, http.MethodGet, "/api/dashboard", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.NotContains(t, string(body), "media")

	var dashboard apimodel.DashboardResponse
	require.NoError(t, json.Unmarshal(body, &dashboard))
	require.Len(t, dashboard.Videos, 2)
	require.Equal(t, "Founder Mindset", dashboard.Videos[0].Title)
	require.NotEmpty(t, dashboard.Videos[0].ID)
}

func TestPlayAndStream(t *testing.T) {
	f := setupFixture(t, nil)
	tokens := f.signupAndLogin(t)
	list, err := f.repos.Videos.ListActive(2)
	require.NoError(t, err)
	first, second := list[0], list[1]

	status, body := f.do(t, http.MethodPost, "/api/video/"+first.ID+"/play", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	var play apimodel.PlayResponse
	require.NoError(t, json.Unmarshal(body, &play))
	require.Equal(t, first.ID, play.VideoID)
	require.Equal(t, 300, play.ExpiresIn)

	status, body = f.do(t, http.MethodGet, "/api/video/"+first.ID+"/stream?token="+play.PlaybackToken, "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, first.Media, body)

	status, body = f.do(t, http.MethodGet, "/api/video/"+second.ID+"/stream?token="+play.PlaybackToken, "", nil)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "Invalid or expired playback token", message(t, body))

	status, _ = f.do(t, http.MethodGet, "/api/video/"+first.ID+"/stream", "", nil)
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = f.do(t, http.MethodGet, "/api/video/unknown/stream?token="+play.PlaybackToken, "", nil)
	require.Equal(t, http.StatusNotFound, status)

	status, _ = f.do(t, http.MethodGet, "/api/video/"+first.ID+"/stream?token="+tokens.AccessToken, "", nil)
	require.Equal(t, http.StatusForbidden, status)

	status, _ = f.do(t, http.MethodPost, "/api/video/unknown/play", tokens.AccessToken, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestPlaybackTokenExpires(t *testing.T) {
	f := setupFixture(t, nil)
	tokens := f.signupAndLogin(t)
	list, err := f.repos.Videos.ListActive(1)
	require.NoError(t, err)

	status, body := f.do(t, http.MethodPost, "/api/video/"+list[0].ID+"/play", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	var play apimodel.PlayResponse
	require.NoError(t, json.Unmarshal(body, &play))

	withNow(t, time.Now().Add(10*time.Minute))
	status, _ = f.do(t, http.MethodGet, "/api/video/"+list[0].ID+"/stream?token="+play.PlaybackToken, "", nil)
	require.Equal(t, http.StatusForbidden, status)
}

func TestWatchEvents(t *testing.T) {
	f := setupFixture(t, nil)
	tokens := f.signupAndLogin(t)
	list, err := f.repos.Videos.ListActive(1)
	require.NoError(t, err)
	videoID := list[0].ID

	position := 12.5
	status, body := f.do(t, http.MethodPost, "/api/video/"+videoID+"/watch", tokens.AccessToken, apimodel.WatchEvent{Event: "progress", Timestamp: &position})
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "Watch event recorded", message(t, body))

	status, _ = f.do(t, http.MethodPost, "/api/video/"+videoID+"/watch", tokens.AccessToken, map[string]string{"event": "progress"})
	require.Equal(t, http.StatusBadRequest, status)

	events, err := f.repos.Watches.ListForVideo(videoID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "progress", events[0].Event)
	require.InDelta(t, 12.5, events[0].Timestamp, 0.0001)
	require.NotEmpty(t, events[0].UserID)
}

func TestLoginRateLimit(t *testing.T) {
	f := setupFixture(t, map[string]string{"LOGIN_RATE_LIMIT": "2"})

	for i := 0; i < 2; i++ {
		status, _ := f.do(t, http.MethodPost, "/api/auth/login", "", apimodel.LoginRequest{Email: testEmail, Password: "x"})
		require.Equal(t, http.StatusUnauthorized, status)
	}
	status, body := f.do(t, http.MethodPost, "/api/auth/login", "", apimodel.LoginRequest{Email: testEmail, Password: "x"})
	require.Equal(t, http.StatusTooManyRequests, status)
	require.Equal(t, "Too many requests", message(t, body))
}
