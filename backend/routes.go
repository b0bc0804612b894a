package backend

import "net/http"

func (s *Server) initRoutes() {
	// Public auth routes
	s.RegisterRouteFunc(http.MethodPost, RouteAuthSignup, ChainMiddleware(s.SignupHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc(http.MethodPost, RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware(s.RateLimitMiddleware)...))
	s.RegisterRouteFunc(http.MethodPost, RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))

	// Protected routes (require a valid access token)
	s.RegisterRouteFunc(http.MethodPost, RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc(http.MethodGet, RouteAuthMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc(http.MethodGet, RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc(http.MethodPost, RouteVideoPlay, ChainMiddleware(s.PlayHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc(http.MethodPost, RouteVideoWatch, ChainMiddleware(s.WatchHandler(), s.APIMiddleware(s.RequireAuth())...))

	// The stream is authorised by its playback token, not by the session
	s.RegisterRouteFunc(http.MethodGet, RouteVideoStream, ChainMiddleware(s.StreamHandler(), s.APIMiddleware()...))
}
