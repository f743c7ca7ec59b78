package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/qpaper/internal/app/auth"
	"github.com/yigit/qpaper/internal/app/services"
	"github.com/yigit/qpaper/internal/pkg/apperrors"
	"github.com/yigit/qpaper/internal/pkg/flash"
	"github.com/yigit/qpaper/internal/pkg/logger"
)

const principalKey = "principal"

// AuthMiddleware reads the session cookie and gates routes on the active policy
type AuthMiddleware struct {
	authService *services.AuthService
	authz       *appauth.AuthorizationService
	cookieName  string
	secure      bool
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authService *services.AuthService, authz *appauth.AuthorizationService, cookieName string, secure bool) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		authz:       authz,
		cookieName:  cookieName,
		secure:      secure,
	}
}

// LoadSession puts the principal of a valid session cookie into the context.
// Invalid or expired cookies are cleared and the request continues anonymously.
func (m *AuthMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		principal, err := m.authService.ParseSession(token)
		if err != nil {
			if errors.Is(err, apperrors.ErrTokenExpired) {
				logger.Debug().Msg("Session cookie expired")
			} else {
				logger.Warn().Err(err).Str("clientIP", c.ClientIP()).Msg("Rejected session cookie")
			}
			m.ClearSession(c)
			c.Next()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireView allows the request only when the requester may browse and download
func (m *AuthMiddleware) RequireView() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.authz.ValidateView(CurrentPrincipal(c)); err != nil {
			m.deny(c, err)
			return
		}
		c.Next()
	}
}

// RequireManage allows the request only when the requester may add, update and delete
func (m *AuthMiddleware) RequireManage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.authz.ValidateManage(CurrentPrincipal(c)); err != nil {
			m.deny(c, err)
			return
		}
		c.Next()
	}
}

// RequireAnonymous sends requesters that already hold a session back to the listing
func (m *AuthMiddleware) RequireAnonymous() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentPrincipal(c) != nil {
			Redirect(c, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) deny(c *gin.Context, err error) {
	logger.Info().
		Str("path", c.Request.URL.Path).
		Str("scheme", m.authz.Policy().Scheme()).
		Msg("Access denied, redirecting to login")

	flash.Warning(c, apperrors.UserMessage(err, "Please log in to access this page."))
	Redirect(c, m.authz.Policy().LoginPath())
	c.Abort()
}

// StartSession stores the session token in an HttpOnly cookie
func (m *AuthMiddleware) StartSession(c *gin.Context, session *services.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, session.Token, maxAge, "/", "", m.secure, true)
	c.Set(principalKey, session.Principal)
}

// ClearSession removes the session cookie
func (m *AuthMiddleware) ClearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
	c.Set(principalKey, (*appauth.Principal)(nil))
}

// CurrentPrincipal returns the requester loaded by LoadSession, or nil when anonymous
func CurrentPrincipal(c *gin.Context) *appauth.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(*appauth.Principal); ok {
			return p
		}
	}
	return nil
}
