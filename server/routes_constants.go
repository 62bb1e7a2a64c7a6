package server

// Route path constants
const (
	RouteIndex    = "/"
	RouteLogin    = "/login"
	RouteCallback = "/callback"
	RouteEmbedded = "/embedded"
	RouteLogout   = "/logout"
)
