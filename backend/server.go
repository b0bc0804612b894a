package backend

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-video-client/internal/config"
	"github.com/jrsteele09/go-video-client/token"
	"github.com/jrsteele09/go-video-client/token/refresh"
	"github.com/jrsteele09/go-video-client/users"
	"github.com/jrsteele09/go-video-client/videos"
	"github.com/rs/zerolog/log"
)

// Repos is the storage the development backend runs on.
type Repos struct {
	Users         users.UserRepo
	Videos        videos.VideoRepo
	Watches       videos.WatchRepo
	RefreshTokens refresh.Repo
	Revoked       token.RevokedTokenCache
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	prefix string // Path prefix every route is mounted under
	mux    *http.ServeMux
	routes []string
	config config.BackendConfig
	repos  Repos

	tokens    *token.Creator
	inspector *token.Inspector
	refresh   *refresh.Manager
	limiter   *loginLimiter
}

func New(cfg config.BackendConfig, repos Repos) (*Server, error) {
	if strings.TrimSpace(cfg.GetJWTSecret()) == "" {
		return nil, fmt.Errorf("[Server New] JWT secret is required")
	}
	if repos.Revoked == nil {
		repos.Revoked = token.NewInMemoryRevokedTokenCache()
	}

	accessSigner := token.NewHMACSigner(cfg.GetJWTSecret())
	playbackSigner := token.NewHMACSigner(cfg.GetPlaybackTokenSecret())

	s := &Server{
		env:       cfg.GetEnv(),
		prefix:    cfg.GetAPIPrefix(),
		mux:       http.NewServeMux(),
		config:    cfg,
		repos:     repos,
		tokens:    token.NewCreator(accessSigner, playbackSigner, cfg.GetAccessTokenExpiry(), cfg.GetPlaybackTokenExpiry()),
		inspector: token.NewInspector(accessSigner, playbackSigner, repos.Revoked),
		refresh:   refresh.NewManager(repos.RefreshTokens, cfg),
		limiter:   newLoginLimiter(time.Minute, cfg.GetLoginRateLimit()),
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(method, path string, handler http.HandlerFunc) {
	pattern := method + " " + s.prefix + path
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes lists every registered pattern, e.g. "GET /api/dashboard"
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

func logError(method, path string, err error) {
	log.Error().Msgf("[%-19s] %s %s", colourMethod(method), path, Red+err.Error()+ResetColor)
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}
