package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/qpaper/internal/app/controllers"
	"github.com/yigit/qpaper/internal/config"
	"github.com/yigit/qpaper/internal/middleware"
)

// SetupRouter configures all application routes for the configured access scheme
func SetupRouter(
	router *gin.Engine,
	cfg *config.Config,
	questionPaperController *controllers.QuestionPaperController,
	authController *controllers.AuthController,
	adminController *controllers.AdminController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.Use(authMiddleware.LoadSession())

	// Health check (public in both schemes)
	router.GET("/test_db", healthController.TestDB)

	switch cfg.Auth.Scheme {
	case config.SchemeAdmin:
		router.GET(cfg.Auth.AdminLoginPath, authController.AdminLoginForm)
		router.POST(cfg.Auth.AdminLoginPath, authController.AdminLogin)
		router.GET("/admin_logout", authController.AdminLogout)

		admin := router.Group("/admin")
		admin.Use(authMiddleware.RequireManage())
		{
			admin.GET("", adminController.Dashboard)
		}

	default:
		anonymous := router.Group("")
		anonymous.Use(authMiddleware.RequireAnonymous())
		{
			anonymous.GET("/signup", authController.SignupForm)
			anonymous.POST("/signup", authController.Signup)
		}
		router.GET("/login", authController.LoginForm)
		router.POST("/login", authController.Login)
		router.GET("/logout", authController.Logout)

		users := router.Group("/list_users")
		users.Use(authMiddleware.RequireView())
		{
			users.GET("", authController.ListUsers)
		}
	}

	// Question paper routes; the policy decides who may view and who may manage
	viewers := router.Group("")
	viewers.Use(authMiddleware.RequireView())
	{
		viewers.GET("/", questionPaperController.Index)
		viewers.GET("/download/:id", questionPaperController.Download)
	}

	managers := router.Group("")
	managers.Use(authMiddleware.RequireManage())
	{
		managers.POST("/add", questionPaperController.Add)
		managers.GET("/update/:id", questionPaperController.EditForm)
		managers.POST("/update/:id", questionPaperController.Update)
		managers.GET("/delete/:id", questionPaperController.Delete)
	}
}
