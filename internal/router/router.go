package router

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/kanban-api/internal/config"
	"github.com/yukikurage/kanban-api/internal/constants"
	"github.com/yukikurage/kanban-api/internal/handlers"
	"github.com/yukikurage/kanban-api/internal/middleware"
	"github.com/yukikurage/kanban-api/internal/repository"
	"github.com/yukikurage/kanban-api/internal/services"
	"github.com/yukikurage/kanban-api/internal/storage"
	"github.com/yukikurage/kanban-api/internal/utils"
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP layer is built on.
type Deps struct {
	Config       *config.Config
	Logger       *logrus.Logger
	DB           *gorm.DB
	SessionStore sessions.Store
	Files        storage.FileStore
	AI           *services.AIService
}

// NewSessionStore returns the redis session store, or a cookie store when
// SESSION_STORE=cookie.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.SessionStore == "cookie" {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	} else {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis session store: %w", err)
		}
		store = rs
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// Setup builds the engine with every route.
func Setup(deps Deps) *gin.Engine {
	cfg := deps.Config

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(gin.Recovery())
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))

	utils.Validator()

	userRepo := repository.NewUserRepository(deps.DB)
	tagRepo := repository.NewTagRepository(deps.DB)
	boardRepo := repository.NewBoardRepository(deps.DB)
	columnRepo := repository.NewColumnRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)
	scope := services.NewAccessScope(boardRepo, columnRepo, taskRepo)

	authService := services.NewAuthService(userRepo)
	profileService := services.NewProfileService(userRepo, deps.Files, deps.Logger)
	tagService := services.NewTagService(tagRepo)
	boardService := services.NewBoardService(boardRepo, columnRepo, scope)
	columnService := services.NewColumnService(columnRepo, taskRepo, scope)
	taskService := services.NewTaskService(taskRepo, userRepo, tagRepo, scope, deps.AI)

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry())

	authHandler := handlers.NewAuthHandler(authService, tokens)
	profileHandler := handlers.NewProfileHandler(profileService)
	tagHandler := handlers.NewTagHandler(tagService)
	boardHandler := handlers.NewBoardHandler(boardService)
	columnHandler := handlers.NewColumnHandler(columnService, taskService)
	taskHandler := handlers.NewTaskHandler(taskService)

	requireAuth := middleware.RequireAuth(authService, tokens)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Kanban API is running",
		})
	})

	if cfg.MediaRoot != "" {
		r.Static(cfg.MediaURL, cfg.MediaRoot)
	}

	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth")
		{
			limited := middleware.RateLimiter(middleware.PerMinute(cfg.AuthRatePerMinute), 5)
			auth.POST("/register", limited, authHandler.Register)
			auth.POST("/login", limited, authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		protected := api.Group("")
		protected.Use(requireAuth)
		{
			protected.GET("/profile", profileHandler.GetProfile)
			protected.PATCH("/profile", profileHandler.UpdateProfile)
			protected.GET("/users", authHandler.ListUsers)

			protected.GET("/tags", tagHandler.ListTags)
			protected.POST("/tags", tagHandler.CreateTag)
			protected.PATCH("/tags/:id", tagHandler.UpdateTag)
			protected.DELETE("/tags/:id", tagHandler.DeleteTag)

			protected.GET("/boards", boardHandler.ListBoards)
			protected.POST("/boards", boardHandler.CreateBoard)
			protected.GET("/boards/:id", boardHandler.GetBoard)
			protected.PATCH("/boards/:id", boardHandler.UpdateBoard)
			protected.DELETE("/boards/:id", boardHandler.DeleteBoard)
			protected.GET("/boards/:id/columns", boardHandler.ListColumns)

			protected.POST("/columns", columnHandler.CreateColumn)
			protected.PATCH("/columns/:id", columnHandler.UpdateColumn)
			protected.DELETE("/columns/:id", columnHandler.DeleteColumn)
			protected.GET("/columns/:id/tasks", columnHandler.ListTasks)
			protected.POST("/columns/:id/suggestions", columnHandler.SuggestTasks)

			protected.POST("/tasks", taskHandler.CreateTask)
			protected.GET("/tasks/:id", taskHandler.GetTask)
			protected.PATCH("/tasks/:id", taskHandler.UpdateTask)
			protected.DELETE("/tasks/:id", taskHandler.DeleteTask)
			protected.POST("/tasks/:id/move", taskHandler.MoveTask)
		}
	}

	return r
}
