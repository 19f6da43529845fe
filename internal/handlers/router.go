package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Services bundles everything the HTTP layer calls into
type Services struct {
	Auth   *services.AuthService
	Users  *services.UserService
	Tasks  *services.TaskService
	AI     *services.AIService
	Tokens middleware.TokenParser
}

// NewServices wires repositories and services on top of db. ai may be nil.
func NewServices(db *gorm.DB, tokens *auth.TokenManager, ai *services.AIService, random services.RandomSource) Services {
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	userService := services.NewUserService(userRepo)

	return Services{
		Auth:   services.NewAuthService(userService, tokens),
		Users:  userService,
		Tasks:  services.NewTaskService(taskRepo, userRepo, random),
		AI:     ai,
		Tokens: tokens,
	}
}

// RouterOptions configures cross-cutting middleware
type RouterOptions struct {
	CORSOrigins []string
	// AuthRateLimit and AuthRateBurst limit /auth requests per client IP.
	// A zero burst disables the limiter.
	AuthRateLimit rate.Limit
	AuthRateBurst int
	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty means the client IP is always the connection's peer.
	TrustedProxies []string
}

// NewRouter builds the gin engine serving the whole API
func NewRouter(svc Services, opts RouterOptions) (*gin.Engine, error) {
	r := gin.Default()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	r.Use(middleware.RequestID())

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", constants.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", constants.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	authHandler := NewAuthHandler(svc.Auth, svc.Users)
	userHandler := NewUserHandler(svc.Auth, svc.Users)
	taskHandler := NewTaskHandler(svc.Tasks, svc.AI)
	requireAuth := middleware.RequireAuth(svc.Tokens)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes (public)
	authRoutes := r.Group("/auth")
	if opts.AuthRateBurst > 0 {
		authRoutes.Use(middleware.RateLimiter(opts.AuthRateLimit, opts.AuthRateBurst))
	}
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// User routes (protected)
	users := r.Group("/users")
	users.Use(requireAuth)
	{
		users.GET("/me", userHandler.GetCurrentUser)
		users.GET("", userHandler.ListUsers)
	}

	// Task routes: reads are public, writes need a bearer token
	tasks := r.Group("/tasks")
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("", requireAuth, taskHandler.CreateTask)
		tasks.POST("/suggest", requireAuth, taskHandler.SuggestTasks)
		tasks.GET("/:id", middleware.RequireTaskID(), taskHandler.GetTask)
		tasks.PATCH("/:id", requireAuth, middleware.RequireTaskID(), taskHandler.UpdateTask)
		tasks.DELETE("/:id", requireAuth, middleware.RequireTaskID(), taskHandler.DeleteTask)
	}

	return r, nil
}
