package handlers

import (
	"time"

	"courseplatform/internal/application/usecase"
	"courseplatform/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	courseHandler *CourseHandler,
	generationHandler *GenerationHandler,
	limiter *middleware.RateLimiter,
	authUC *usecase.AuthUseCase,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", limiter.Limit("login", 5, 1*time.Minute), authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/verify-email", authHandler.VerifyEmail)
			auth.POST("/forgot-password", limiter.Limit("forgot_pass", 1, 5*time.Minute), authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.POST("/oauth/:provider", authHandler.OAuthLogin)
		}

		user := api.Group("/user")
		user.Use(middleware.AuthMiddleware(authUC))
		{
			user.GET("/profile", userHandler.GetProfile)
			user.PUT("/profile", userHandler.UpdateProfile)
		}

		// Каталог открыт без токена, всё остальное только для своих
		api.GET("/courses", courseHandler.List)
		course := api.Group("/courses")
		course.Use(middleware.AuthMiddleware(authUC))
		{
			course.GET("/my", courseHandler.MyCourses)
			course.GET("/:id", courseHandler.GetOne)
			course.DELETE("/:id", courseHandler.Delete)
			course.PATCH("/:id/publish", courseHandler.Publish)
			course.PATCH("/:id/archive", courseHandler.Archive)
			course.POST("/:id/enroll", courseHandler.Enroll)
		}

		generate := api.Group("/generate")
		generate.Use(middleware.AuthMiddleware(authUC))
		{
			generate.POST("", limiter.Limit("generate", 3, 10*time.Minute), generationHandler.Generate)
			generate.GET("/progress", generationHandler.Progress)
		}
	}

	return r
}
