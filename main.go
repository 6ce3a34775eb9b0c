package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hacktoberfest-api/auth-service/handlers"
	"github.com/hacktoberfest-api/auth-service/internal/config"
	"github.com/hacktoberfest-api/auth-service/internal/database"
	"github.com/hacktoberfest-api/auth-service/internal/provider"
	"github.com/hacktoberfest-api/auth-service/internal/provider/github"
	"github.com/hacktoberfest-api/auth-service/internal/provider/google"
	"github.com/hacktoberfest-api/auth-service/internal/sessions"
	"github.com/hacktoberfest-api/auth-service/internal/state"
	"github.com/hacktoberfest-api/auth-service/internal/users"
	"github.com/hacktoberfest-api/auth-service/pkg/logger"
	"github.com/hacktoberfest-api/auth-service/pkg/metrics"
	"github.com/hacktoberfest-api/auth-service/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: google=%v github=%v mongo=%v redis=%v",
		cfg.OAuth.Google.Configured(), cfg.OAuth.GitHub.Configured(), cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Connect to Redis early so the state store and rate limiter can use it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// OAuth state: Redis when available so callbacks can land on any
	// instance, in-memory otherwise
	var stateStore state.Store
	if redisClient != nil {
		stateStore = state.NewRedisStore(redisClient, "")
	} else {
		stateStore = state.NewMemoryStore()
		logger.Warn("using in-memory OAuth state store; run a single instance or configure Redis")
	}
	revoked := sessions.NewRevokedStore(redisClient)

	// user directory: Mongo when configured, in-memory fallback for dev
	ctx := context.Background()
	var directory users.Directory
	if cfg.MongoDB.URI != "" {
		// Retry/backoff when connecting to MongoDB to tolerate startup races
		const maxAttempts = 5
		backoff := time.Second
		var client *mongo.Client
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		}
		defer func() { _ = client.Disconnect(ctx) }()
		md := users.NewMongoDirectory(client.Database(cfg.MongoDB.Database).Collection("users"))
		// The unique email index is what makes concurrent first logins safe.
		if err := md.EnsureIndexes(ctx); err != nil {
			logger.Fatalf("failed to ensure user directory indexes: %v", err)
		}
		directory = md
	} else {
		logger.Warn("MONGODB_URI not set; using in-memory user directory")
		directory = users.NewMemoryDirectory()
	}
	userSvc := users.NewService(directory)

	// provider strategies
	var strategies []provider.Strategy
	if cfg.OAuth.Google.Configured() {
		g, err := google.New(ctx, cfg.OAuth.Google.ClientID, cfg.OAuth.Google.ClientSecret, cfg.OAuth.CallbackBase+"/oauth/google/callback")
		if err != nil {
			logger.Fatalf("failed to initialize google provider: %v", err)
		}
		strategies = append(strategies, g)
	}
	if cfg.OAuth.GitHub.Configured() {
		gh, err := github.New(cfg.OAuth.GitHub.ClientID, cfg.OAuth.GitHub.ClientSecret, cfg.OAuth.CallbackBase+"/oauth/github/callback")
		if err != nil {
			logger.Fatalf("failed to initialize github provider: %v", err)
		}
		strategies = append(strategies, gh)
	}
	if len(strategies) == 0 {
		logger.Warn("no OAuth providers configured; login endpoints will reject all requests")
	}
	registry := provider.NewRegistry(strategies...)

	h := handlers.NewOAuthHandler(cfg, registry, provider.NewAuthenticator(userSvc), stateStore, revoked, userSvc)
	h.Register(r.Group("/"))
	handlers.RegisterSwagger(r)

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint: return 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["providers"] = len(registry.Names()) > 0
		if !deps["providers"] {
			ready = false
		}
		if cfg.Redis.Host != "" {
			deps["redis"] = redisClient != nil
			if !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}
		deps["directory"] = directory != nil

		status := http.StatusOK
		label := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			label = "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// session-token protected API
	api := r.Group("/api/v1")
	api.GET("/me", middleware.SessionAuth(cfg, revoked), func(c *gin.Context) {
		claims, _ := c.Get("claims")
		cm, _ := claims.(map[string]interface{})
		email, _ := cm["email"].(string)
		u, err := userSvc.GetByEmail(c.Request.Context(), email)
		if err != nil || u == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u})
	})

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting auth service on %s (providers: %v)", addr, registry.Names())
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
