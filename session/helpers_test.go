package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/jrsteele09/go-video-client/apimodel"
	"github.com/jrsteele09/go-video-client/internal/utils"
	"github.com/jrsteele09/go-video-client/transport"
)

type sentRequest struct {
	Method string
	Path   string
	Auth   string
	Body   any
}

// scriptedTransport answers every Send with handle and records what was sent.
type scriptedTransport struct {
	lock   sync.Mutex
	sent   []sentRequest
	handle func(req sentRequest) (*transport.Response, error)
}

func newScriptedTransport(handle func(req sentRequest) (*transport.Response, error)) *scriptedTransport {
	return &scriptedTransport{handle: handle}
}

func (s *scriptedTransport) Send(_ context.Context, method, path string, headers http.Header, body any) (*transport.Response, error) {
	req := sentRequest{Method: method, Path: path, Auth: headers.Get("Authorization"), Body: body}
	s.lock.Lock()
	s.sent = append(s.sent, req)
	s.lock.Unlock()
	return s.handle(req)
}

func (s *scriptedTransport) calls(path string) []sentRequest {
	s.lock.Lock()
	defer s.lock.Unlock()
	var out []sentRequest
	for _, req := range s.sent {
		if req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

func jsonResponse(status int, v any) *transport.Response {
	body, _ := json.Marshal(v)
	return &transport.Response{Status: status, Header: http.Header{}, Body: body}
}

func tokenResponse(access, refresh string) *transport.Response {
	tokens := apimodel.TokenResponse{AccessToken: access, ExpiresIn: 3600}
	if refresh != "" {
		tokens.RefreshToken = utils.Ptr(refresh)
	}
	return jsonResponse(http.StatusOK, tokens)
}

func unauthorized() *transport.Response {
	return jsonResponse(http.StatusUnauthorized, apimodel.MessageResponse{Message: "Token has expired"})
}

func networkError(req sentRequest) error {
	return &transport.NetworkError{Method: req.Method, Path: req.Path, Cause: errors.New("connection refused")}
}

// protectedBy returns a handler for a dashboard that accepts only the given
// access token and a refresh endpoint answering with refresh.
func protectedBy(accessToken string, refresh func(req sentRequest) (*transport.Response, error)) func(req sentRequest) (*transport.Response, error) {
	return func(req sentRequest) (*transport.Response, error) {
		switch req.Path {
		case refreshPath:
			return refresh(req)
		case "/dashboard":
			if req.Auth == "Bearer "+accessToken {
				return jsonResponse(http.StatusOK, apimodel.DashboardResponse{}), nil
			}
			return unauthorized(), nil
		default:
			return jsonResponse(http.StatusNotFound, apimodel.MessageResponse{Message: "Not found"}), nil
		}
	}
}
