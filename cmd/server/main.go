package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/taskmaster-api/internal/config"
	"github.com/yukikurage/taskmaster-api/internal/constants"
	"github.com/yukikurage/taskmaster-api/internal/database"
	"github.com/yukikurage/taskmaster-api/internal/engine"
	"github.com/yukikurage/taskmaster-api/internal/events"
	"github.com/yukikurage/taskmaster-api/internal/handlers"
	"github.com/yukikurage/taskmaster-api/internal/metrics"
	"github.com/yukikurage/taskmaster-api/internal/middleware"
	"github.com/yukikurage/taskmaster-api/internal/repository"
	"github.com/yukikurage/taskmaster-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	bus := events.NewBus()
	bus.Subscribe(func(e events.Event) {
		log.Printf("event %s user=%d task=%s", e.Topic, e.UserID, e.TaskID)
	},
		events.TopicTaskCreated,
		events.TopicTaskUpdated,
		events.TopicTaskDeleted,
		events.TopicUserLoggedIn,
		events.TopicUserLoggedOut,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)
	appMetrics.ObserveEvents(bus)

	// Initialize AI service
	var generator services.TaskGenerator
	if cfg.OpenAIAPIKey != "" {
		generator = services.NewAIService(cfg.OpenAIAPIKey)
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, cfg.JWT, bus)
	taskService := services.NewTaskService(taskRepo, bus, generator)

	location := cfg.Location()
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService, location)
	dashboardHandler := handlers.NewDashboardHandler(taskService, location)
	healthHandler := handlers.NewHealthHandler(db)

	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(appMetrics.Middleware())
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	r.GET("/health/live", healthHandler.Liveness)
	r.GET("/health/ready", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	requireAuth := middleware.RequireAuth(authService)
	requireTask := middleware.RequireTaskAccess(taskService)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
			auth.PATCH("/me", requireAuth, authHandler.UpdateProfile)
			auth.PUT("/me/password", requireAuth, authHandler.ChangePassword)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/today", taskHandler.ListView(engine.RouteToday))
			tasks.GET("/upcoming", taskHandler.ListView(engine.RouteUpcoming))
			tasks.GET("/completed", taskHandler.ListView(engine.RouteCompleted))
			tasks.GET("/tags", taskHandler.ListTags)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/:id", requireTask, taskHandler.GetTask)
			tasks.PUT("/:id", requireTask, taskHandler.UpdateTask)
			tasks.PATCH("/:id", requireTask, taskHandler.UpdateTask)
			tasks.POST("/:id/toggle", requireTask, taskHandler.ToggleTask)
			tasks.DELETE("/:id", requireTask, taskHandler.DeleteTask)
		}

		api.GET("/dashboard", requireAuth, dashboardHandler.GetDashboard)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Server exited gracefully")
}

// newSessionStore builds the Redis store, or a cookie store when
// SESSION_STORE=cookie.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.Session.Store == "cookie" {
		store = cookie.NewStore([]byte(cfg.Session.Secret))
	} else {
		redisAddr := cfg.Session.RedisHost + ":" + cfg.Session.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(cfg.Session.Secret), // authentication key
		)
		if err != nil {
			return nil, err
		}
		store = rs
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
