package main

import (
	"github.com/gin-gonic/gin"

	"github.com/yamabiko/project-management-api/internal/config"
	"github.com/yamabiko/project-management-api/internal/database"
	"github.com/yamabiko/project-management-api/internal/handlers"
	"github.com/yamabiko/project-management-api/internal/identity"
	"github.com/yamabiko/project-management-api/internal/logger"
	"github.com/yamabiko/project-management-api/internal/metrics"
	"github.com/yamabiko/project-management-api/internal/middleware"
	"github.com/yamabiko/project-management-api/internal/models"
	"github.com/yamabiko/project-management-api/internal/repository"
	"github.com/yamabiko/project-management-api/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	if err := database.Seed(database.GetDB()); err != nil {
		log.Fatal().Err(err).Msg("failed to seed database")
	}

	tokens := identity.NewManager(cfg.JWTSecret, cfg.TokenExpiry)

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, task suggestions disabled")
	}

	authService := services.NewAuthService(userRepo, tokens)
	projectService := services.NewProjectService(projectRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, aiService)
	userService := services.NewUserService(userRepo, projectRepo)

	authHandler := handlers.NewAuthHandler(authService, tokens)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService)

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())
	r.Use(metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/signin", authHandler.SignIn)
		auth.POST("/signout", authHandler.SignOut)
		auth.GET("/me", middleware.RequireAuth(tokens), authHandler.Me)
	}

	projects := api.Group("/projects")
	projects.Use(middleware.RequireAuth(tokens))
	{
		projects.POST("", middleware.RequireRole(models.RoleLeader), projectHandler.Create)
		projects.GET("", projectHandler.List)
		projects.GET("/:id", projectHandler.Get)
		projects.PUT("/:id", projectHandler.Update)
		projects.DELETE("/:id", projectHandler.Delete)
		projects.PUT("/:id/approve-problem-statement", projectHandler.ApproveProblemStatement)
		projects.POST("/:id/members/:user_id", projectHandler.AddMember)
		projects.DELETE("/:id/members/:user_id", projectHandler.RemoveMember)
		projects.POST("/:id/suggest-tasks", taskHandler.SuggestTasks)
	}

	tasks := api.Group("/tasks")
	tasks.Use(middleware.RequireAuth(tokens))
	{
		tasks.POST("", taskHandler.Create)
		tasks.GET("/my-tasks", taskHandler.MyTasks)
		tasks.GET("/project/:project_id", taskHandler.TasksByProject)
		tasks.PUT("/:id/update-progress", taskHandler.UpdateProgress)
		tasks.PUT("/:id/submit", taskHandler.Submit)
		tasks.PUT("/:id/review", taskHandler.Review)
		tasks.PUT("/:id/reassign/:user_id", taskHandler.Reassign)
	}

	users := api.Group("/users")
	users.Use(middleware.RequireAuth(tokens))
	{
		users.GET("", middleware.RequireRole(models.RoleLeader), userHandler.List)
		users.GET("/profile", userHandler.Profile)
		users.GET("/project/:project_id", userHandler.ProjectUsers)
	}

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
