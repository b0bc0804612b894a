package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-video-client/internal/errors"
	"github.com/rs/zerolog/log"
)

// ErrNetwork matches every *NetworkError via errors.Is.
var ErrNetwork = apperrors.ErrNetwork

const (
	contentTypeJSON = "application/json"
	maxResponseSize = 32 << 20
)

// Transport executes a single HTTP exchange. It knows nothing about
// credentials, retries or what a status code means.
type Transport interface {
	Send(ctx context.Context, method, path string, headers http.Header, body any) (*Response, error)
}

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Decode unmarshals the JSON body into v
func (r *Response) Decode(v any) error {
	if r == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return fmt.Errorf("decode response: %w", io.ErrUnexpectedEOF)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// NetworkError is a connection failure, timeout or truncated read. It is
// never retried by this package.
type NetworkError struct {
	Method string
	Path   string
	Cause  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.Path, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// HTTPTransport sends requests relative to a base URL with net/http.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

var _ Transport = (*HTTPTransport)(nil)

type Option func(*HTTPTransport)

// WithHTTPClient replaces the underlying client, e.g. an httptest server's client
func WithHTTPClient(client *http.Client) Option {
	return func(t *HTTPTransport) {
		t.client = client
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(t *HTTPTransport) {
		t.client = &http.Client{Timeout: timeout}
	}
}

func NewHTTPTransport(baseURL string, opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *HTTPTransport) BaseURL() string {
	return t.baseURL
}

func (t *HTTPTransport) Send(ctx context.Context, method, path string, headers http.Header, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("%s %s: build request: %w", method, path, err)
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return nil, &NetworkError{Method: method, Path: path, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &NetworkError{Method: method, Path: path, Cause: err}
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   data,
	}, nil
}

func (t *HTTPTransport) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return t.baseURL + path
}
