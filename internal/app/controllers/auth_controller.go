// Package controllers handles HTTP request handling
package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/qpaper/internal/app/models/dto"
	"github.com/yigit/qpaper/internal/app/services"
	"github.com/yigit/qpaper/internal/middleware"
	"github.com/yigit/qpaper/internal/pkg/flash"
	"github.com/yigit/qpaper/internal/views"
)

// AuthController handles signup, login and logout for both access schemes
type AuthController struct {
	authService    *services.AuthService
	authMiddleware *middleware.AuthMiddleware
	view           *Renderer
	adminLoginPath string
	databaseName   string
	logger         zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(
	authService *services.AuthService,
	authMiddleware *middleware.AuthMiddleware,
	view *Renderer,
	adminLoginPath string,
	databaseName string,
	logger zerolog.Logger,
) *AuthController {
	return &AuthController{
		authService:    authService,
		authMiddleware: authMiddleware,
		view:           view,
		adminLoginPath: adminLoginPath,
		databaseName:   databaseName,
		logger:         logger,
	}
}

// SignupForm renders the signup page
func (c *AuthController) SignupForm(ctx *gin.Context) {
	c.view.HTML(ctx, http.StatusOK, views.SignupPage, "Sign Up", nil)
}

// Signup creates an account and sends the user to the login page
func (c *AuthController) Signup(ctx *gin.Context) {
	var form dto.CredentialsForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid signup form")
	}

	if err := c.authService.Signup(ctx.Request.Context(), form); err != nil {
		middleware.HandleWebError(ctx, err, "/signup", "Error creating account. Please try again.")
		return
	}

	flash.Success(ctx, "Account created successfully! Please log in.")
	middleware.Redirect(ctx, "/login")
}

// LoginForm renders the account login page
func (c *AuthController) LoginForm(ctx *gin.Context) {
	c.view.HTML(ctx, http.StatusOK, views.LoginPage, "Login", views.LoginData{
		Heading:    "Login",
		Action:     "/login",
		ShowSignup: true,
	})
}

// Login checks account credentials and starts a session
func (c *AuthController) Login(ctx *gin.Context) {
	var form dto.CredentialsForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login form")
	}

	session, err := c.authService.Login(ctx.Request.Context(), form)
	if err != nil {
		middleware.HandleWebError(ctx, err, "/login", "Error logging in. Please try again.")
		return
	}

	c.authMiddleware.StartSession(ctx, session)
	flash.Success(ctx, "Logged in successfully!")
	middleware.Redirect(ctx, "/")
}

// Logout ends the account session
func (c *AuthController) Logout(ctx *gin.Context) {
	c.authMiddleware.ClearSession(ctx)
	flash.Success(ctx, "Logged out successfully.")
	middleware.Redirect(ctx, "/login")
}

// AdminLoginForm renders the administrator login page
func (c *AuthController) AdminLoginForm(ctx *gin.Context) {
	c.view.HTML(ctx, http.StatusOK, views.LoginPage, "Admin Login", views.LoginData{
		Heading: "Admin Login",
		Action:  c.adminLoginPath,
	})
}

// AdminLogin checks the administrator credentials and starts an admin session
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var form dto.CredentialsForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid admin login form")
	}

	session, err := c.authService.AdminLogin(ctx.Request.Context(), form)
	if err != nil {
		middleware.HandleWebError(ctx, err, c.adminLoginPath, "Error logging in. Please try again.")
		return
	}

	c.authMiddleware.StartSession(ctx, session)
	flash.Success(ctx, "Logged in as administrator.")
	middleware.Redirect(ctx, "/")
}

// AdminLogout ends the admin session and returns to the public listing
func (c *AuthController) AdminLogout(ctx *gin.Context) {
	c.authMiddleware.ClearSession(ctx)
	flash.Success(ctx, "Logged out successfully.")
	middleware.Redirect(ctx, "/")
}

// ListUsers returns the registered usernames as JSON
func (c *AuthController) ListUsers(ctx *gin.Context) {
	users, err := c.authService.ListUsernames(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list users")
		ctx.JSON(http.StatusInternalServerError, dto.UserListResponse{
			Status:  dto.StatusError,
			Message: "Failed to query users: Check logs for details.",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.UserListResponse{
		Status:  dto.StatusSuccess,
		Users:   users,
		Message: fmt.Sprintf("Found %d users in '%s' database.", len(users), c.databaseName),
	})
}
