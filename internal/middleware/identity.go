package middleware

import "github.com/labstack/echo/v4"

// UserID returns the authenticated subject stored by JWTAuth, or "anon".
func UserID(c echo.Context) string {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s
	}
	return "anon"
}

// Role returns the role stored by JWTAuth, or "".
func Role(c echo.Context) string {
	s, _ := c.Get("role").(string)
	return s
}
