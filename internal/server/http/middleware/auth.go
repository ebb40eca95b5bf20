package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/giftpromo/internal/pkg/auth"
	"github.com/polkiloo/giftpromo/internal/server/http/dto"
)

const (
	authCookieName = "giftpromo_clerk"
	// LoginPath is the page clerks are sent to when their session is missing.
	LoginPath = "/shop/login"
)

// ClerkSession validates clerk session tokens.
type ClerkSession interface {
	ClerkAuthEnabled() bool
	ParseToken(token string) error
}

// ClerkRequired rejects API calls without a valid clerk session when clerk auth is enabled.
func ClerkRequired(session ClerkSession) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.ClerkAuthEnabled() {
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
			return
		}

		if err := session.ParseToken(token); err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Next()
	}
}

// ClerkPageRequired redirects to the clerk login page when the session is missing or invalid.
func ClerkPageRequired(session ClerkSession) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.ClerkAuthEnabled() {
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" || session.ParseToken(token) != nil {
			target := LoginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusSeeOther, target)
			c.Abort()
			return
		}

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes the clerk session cookie to the response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, token, 0, "/", "", c.Request.TLS != nil, true)
	c.Header("Authorization", "Bearer "+token)
}

// SafeRedirect returns next when it is a local path and fallback otherwise.
func SafeRedirect(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
