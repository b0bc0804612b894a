package backend

// Route path constants, relative to the configured API prefix.
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthSignup  = "/auth/signup"
	RouteAuthLogin   = "/auth/login"
	RouteAuthRefresh = "/auth/refresh"
	RouteAuthLogout  = "/auth/logout"
	RouteAuthMe      = "/auth/me"

	// Catalog Routes
	RouteDashboard = "/dashboard"

	// Playback Routes
	RouteVideoPlay   = "/video/{id}/play"
	RouteVideoStream = "/video/{id}/stream"
	RouteVideoWatch  = "/video/{id}/watch"
)
