package middleware

import "github.com/labstack/echo/v4"

// currentUsername reads the authenticated username placed in context by
// JWTAuth. Unauthenticated requests (public routes in front of the auth
// middleware) map to "guest" so rate-limit keys stay well formed.
func currentUsername(c echo.Context) string {
	if v, ok := c.Get("username").(string); ok && v != "" {
		return v
	}
	return "guest"
}
