package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/joho/godotenv"
	"github.com/karimd18/maxiphy-todo-app/modules/api"
	"github.com/karimd18/maxiphy-todo-app/modules/auth"
	"github.com/karimd18/maxiphy-todo-app/modules/cache"
	"github.com/karimd18/maxiphy-todo-app/modules/todo"
)

const shutdownTimeout = 30 * time.Second

func main() {
	appEnv := getEnv("APP_ENV", "development")
	if appEnv != "production" {
		if err := godotenv.Load(); err == nil {
			log.Println("Loaded environment from .env")
		}
	}

	port := getEnvInt("PORT", 3000)
	redisAddr := os.Getenv("REDIS_ADDR")
	cacheTTL := getEnvDuration("CACHE_TTL", 5*time.Minute)

	log.Println("=== Maxiphy Todo App ===")
	log.Printf("Environment: %s", appEnv)
	log.Printf("HTTP Port: %d", port)
	if redisAddr != "" {
		log.Printf("Redis: %s (TTL: %s)", redisAddr, cacheTTL)
	} else {
		log.Println("Redis: disabled (set REDIS_ADDR to enable user caching)")
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	authModule := auth.NewModule()

	var cacheModule *cache.Module
	if redisAddr != "" {
		cacheModule = cache.NewModule(redisAddr, "user:", cacheTTL)
		app.Register(cacheModule)
	}

	app.Register(authModule)       // Provides auth services
	app.Register(todo.NewModule()) // Depends on auth module
	app.Register(api.NewModule(port, appEnv == "production"))

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wire the optional cache into the auth module after start
	if cacheModule != nil {
		authModule.SetCache(cacheModule.GetCache())
	}

	printStartupInfo(port)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port int) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", port)
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/v1/auth/register     - Register a new user")
	log.Println("  POST   /api/v1/auth/login        - Login and get tokens")
	log.Println("  POST   /api/v1/auth/refresh      - Refresh access token")
	log.Println("  POST   /api/v1/auth/logout       - Clear the token cookie")
	log.Println("  GET    /health                   - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (Bearer token or token cookie):")
	log.Println("  GET    /api/v1/me                - Get current user profile")
	log.Println("  PATCH  /api/v1/me                - Update profile")
	log.Println("  PUT    /api/v1/me/password       - Change password")
	log.Println("  GET    /api/v1/todos             - List todos (filter, sort, paginate)")
	log.Println("  POST   /api/v1/todos             - Create a todo")
	log.Println("  GET    /api/v1/todos/:id         - Get a todo")
	log.Println("  PATCH  /api/v1/todos/:id         - Update a todo")
	log.Println("  DELETE /api/v1/todos/:id         - Delete a todo")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
