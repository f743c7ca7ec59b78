package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/qpaper/internal/app/auth"
	"github.com/yigit/qpaper/internal/config"
	"github.com/yigit/qpaper/internal/middleware"
	"github.com/yigit/qpaper/internal/pkg/apperrors"
	"github.com/yigit/qpaper/internal/pkg/flash"
	"github.com/yigit/qpaper/internal/views"
)

// Renderer fills the page data shared by every template
type Renderer struct {
	authz *appauth.AuthorizationService
}

// NewRenderer creates a new Renderer
func NewRenderer(authz *appauth.AuthorizationService) *Renderer {
	return &Renderer{authz: authz}
}

// HTML renders the named template with the pending flash messages and the requester's capabilities
func (r *Renderer) HTML(ctx *gin.Context, status int, name, title string, data interface{}) {
	policy := r.authz.Policy()
	principal := middleware.CurrentPrincipal(ctx)

	ctx.HTML(status, name, views.Page{
		Title:        title,
		Flashes:      flash.Pop(ctx),
		Principal:    principal,
		Capabilities: policy.Capabilities(principal),
		Scheme:       policy.Scheme(),
		LoginPath:    policy.LoginPath(),
		LogoutPath:   logoutPath(policy.Scheme()),
		Data:         data,
	})
}

func logoutPath(scheme string) string {
	if scheme == config.SchemeAdmin {
		return "/admin_logout"
	}
	return "/logout"
}

// parseID reads the :id path parameter
func parseID(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 0 {
		return 0, apperrors.NewCustomError(apperrors.ErrInvalidPaperID, "Invalid question paper ID.")
	}
	return id, nil
}
