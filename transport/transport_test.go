package transport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-video-client/transport"
	"github.com/stretchr/testify/require"
)

func TestSendEncodesBodyAndHeaders(t *testing.T) {
	var (
		gotMethod      string
		gotPath        string
		gotContentType string
		gotAuth        string
		gotBody        map[string]string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	tr := transport.NewHTTPTransport(server.URL+"/api/", transport.WithHTTPClient(server.Client()))
	headers := http.Header{}
	headers.Set("Authorization", "Bearer A1")

	resp, err := tr.Send(context.Background(), http.MethodPost, "/auth/signup", headers, map[string]string{"name": "Ada"})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.Status)
	require.True(t, resp.OK())
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/api/auth/signup", gotPath)
	require.Equal(t, "application/json", gotContentType)
	require.Equal(t, "Bearer A1", gotAuth)
	require.Equal(t, "Ada", gotBody["name"])

	var decoded struct {
		Message string `json:"message"`
	}
	require.NoError(t, resp.Decode(&decoded))
	require.Equal(t, "ok", decoded.Message)
}

func TestSendSetsContentTypeWithoutBody(t *testing.T) {
	var gotContentType string
	var gotLength int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotLength = r.ContentLength
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tr := transport.NewHTTPTransport(server.URL)
	resp, err := tr.Send(context.Background(), http.MethodGet, "dashboard", nil, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "application/json", gotContentType)
	require.Zero(t, gotLength)
}

func TestSendDoesNotInterpretStatus(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"message":"nope"}`))
		}))

		resp, err := transport.NewHTTPTransport(server.URL).Send(context.Background(), http.MethodGet, "/x", nil, nil)
		require.NoError(t, err)
		require.Equal(t, status, resp.Status)
		require.False(t, resp.OK())
		require.JSONEq(t, `{"message":"nope"}`, string(resp.Body))
		server.Close()
	}
}

func TestSendConnectionFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := transport.NewHTTPTransport(url).Send(context.Background(), http.MethodGet, "/dashboard", nil, nil)
	require.ErrorIs(t, err, transport.ErrNetwork)

	var netErr *transport.NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, "/dashboard", netErr.Path)
}

func TestSendTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	tr := transport.NewHTTPTransport(server.URL, transport.WithTimeout(50*time.Millisecond))
	_, err := tr.Send(context.Background(), http.MethodGet, "/slow", nil, nil)
	require.ErrorIs(t, err, transport.ErrNetwork)
}

func TestSendEncodeFailureIsNotNetworkError(t *testing.T) {
	tr := transport.NewHTTPTransport("http://127.0.0.1:0")
	_, err := tr.Send(context.Background(), http.MethodPost, "/x", nil, map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	require.NotErrorIs(t, err, transport.ErrNetwork)
}

func TestDecodeEmptyBody(t *testing.T) {
	var v map[string]any
	require.Error(t, (&transport.Response{Status: 200}).Decode(&v))
}
