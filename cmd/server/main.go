package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/softdesk/support-api/internal/cache"
	"github.com/softdesk/support-api/internal/config"
	"github.com/softdesk/support-api/internal/constants"
	"github.com/softdesk/support-api/internal/database"
	"github.com/softdesk/support-api/internal/handlers"
	"github.com/softdesk/support-api/internal/middleware"
	"github.com/softdesk/support-api/internal/repository"
	"github.com/softdesk/support-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Connect to Redis for the list cache
	cacheClient, err := cache.NewClient(cfg.RedisAddr(), cfg.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer cacheClient.Close()

	db := database.GetDB()

	// Repositories and permission resolver
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	contributorRepo := repository.NewContributorRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	resolver := repository.NewResolver(db)

	// Versioned list cache and its invalidator
	lists := cache.NewListCache(cacheClient, constants.ListCacheTTL)
	invalidator := cache.NewInvalidator(cacheClient, resolver)

	// AI issue drafting is optional
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Services
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, invalidator)
	projectService := services.NewProjectService(projectRepo, resolver, lists, invalidator)
	contributorService := services.NewContributorService(contributorRepo, userRepo, resolver, lists, invalidator)
	issueService := services.NewIssueService(issueRepo, resolver, lists, invalidator, aiService)
	commentService := services.NewCommentService(commentRepo, resolver, lists, invalidator)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	contributorHandler := handlers.NewContributorHandler(contributorService)
	issueHandler := handlers.NewIssueHandler(issueService)
	commentHandler := handlers.NewCommentHandler(commentService)

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	store, err := redisStore.NewStore(
		10,
		"tcp",
		cfg.RedisAddr(),
		"",
		cfg.RedisPassword,
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Support API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// User routes (signup is public, everything else protected)
		users := api.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", middleware.RequireAuth(), userHandler.ListUsers)
			users.GET("/:id", middleware.RequireAuth(), userHandler.GetUser)
			users.PATCH("/:id", middleware.RequireAuth(), userHandler.UpdateUser)
			users.DELETE("/:id", middleware.RequireAuth(), userHandler.DeleteUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
		}

		// Contributor routes (protected)
		contributors := api.Group("/contributors")
		contributors.Use(middleware.RequireAuth())
		{
			contributors.GET("", contributorHandler.ListContributors)
			contributors.POST("", contributorHandler.CreateContributor)
			contributors.DELETE("/:id", contributorHandler.DeleteContributor)
		}

		// Issue routes (protected)
		issues := api.Group("/issues")
		issues.Use(middleware.RequireAuth())
		{
			issues.GET("", issueHandler.ListIssues)
			issues.POST("", issueHandler.CreateIssue)
			issues.POST("/generate", issueHandler.GenerateIssues)
			issues.GET("/:id", issueHandler.GetIssue)
			issues.PUT("/:id", issueHandler.UpdateIssue)
			issues.PATCH("/:id", issueHandler.UpdateIssue)
			issues.DELETE("/:id", issueHandler.DeleteIssue)
		}

		// Comment routes (protected)
		comments := api.Group("/comments")
		comments.Use(middleware.RequireAuth())
		{
			comments.GET("", commentHandler.ListComments)
			comments.POST("", commentHandler.CreateComment)
			comments.GET("/:id", commentHandler.GetComment)
			comments.PUT("/:id", commentHandler.UpdateComment)
			comments.PATCH("/:id", commentHandler.UpdateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
