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

	"github.com/cccenter/site-backend/handlers"
	"github.com/cccenter/site-backend/internal/audit"
	"github.com/cccenter/site-backend/internal/config"
	"github.com/cccenter/site-backend/internal/content"
	"github.com/cccenter/site-backend/internal/posts"
	"github.com/cccenter/site-backend/internal/routing"
	"github.com/cccenter/site-backend/internal/sessions"
	"github.com/cccenter/site-backend/internal/storage"
	"github.com/cccenter/site-backend/internal/users"
	"github.com/cccenter/site-backend/pkg/logger"
	"github.com/cccenter/site-backend/pkg/metrics"
	"github.com/cccenter/site-backend/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: root=%s redis=%v smtp=%v", cfg.Paths.RootDir, cfg.Redis.Host != "", cfg.SMTP.Host != "")

	if cfg.Session.Secret == "" {
		logger.Fatalf("SESSION_SECRET is required")
	}

	// File stores. Initialize is fatal when the users file is missing and no
	// bootstrap password is configured: serving without any admin account
	// would leave the management surface permanently locked out.
	contentSt := content.NewStore(cfg.Paths.DataDir, cfg.Paths.UploadsDir, cfg.Paths.ContentFile, cfg.Paths.PublishedContentFile, cfg.Paths.ContactsFile)
	if err := contentSt.Initialize(); err != nil {
		logger.Fatalf("failed to initialize content store: %v", err)
	}
	postsSt := posts.NewStore(cfg.Paths.DataDir, cfg.Paths.PostsFile, cfg.Paths.PublishedPostsFile)
	if err := postsSt.EnsureFiles(); err != nil {
		logger.Fatalf("failed to initialize posts store: %v", err)
	}
	usersSt := users.NewStore(cfg.Paths.UsersFile)
	if err := usersSt.EnsureBootstrap(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Email); err != nil {
		logger.Fatalf("failed to initialize users store: %v", err)
	}

	auditLog := audit.New(cfg.Paths.AuditFile)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.SecurityHeaders(cfg.IsProd()), middleware.BlockSensitivePaths())

	// Connect to Redis early: sessions live there, and the rate limiter can
	// use it when configured. A failed connection degrades authenticated
	// routes to 503 instead of crashing startup.
	var redisClient *redis.Client
	var sessionsSvc *sessions.Service
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
			logger.Infof("Using Redis for session storage: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	} else {
		logger.Warnf("REDIS_HOST not set; admin authentication will be unavailable")
	}

	if cfg.RateLimit.Enabled {
		win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
		if cfg.RateLimit.UseRedis && redisClient != nil {
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, "global", cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware("global", cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"sessions": sessionsSvc != nil,
			"content":  true,
		}
		if sessionsSvc == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": time.Since(startTime).String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// Optional S3-compatible mirror for backup archives.
	var mirror *storage.ArchiveMirror
	if mcfg := storage.LoadMinIOConfig(); mcfg != nil {
		m, err := storage.NewArchiveMirror(mcfg)
		if err != nil {
			logger.Warnf("failed to initialize backup mirror: %v", err)
		} else {
			mirror = m
			logger.Infof("Backup archives will be mirrored to bucket %q", mcfg.Bucket)
		}
	}

	dispatcher := routing.NewDispatcher(cfg.SMTP, &http.Client{Timeout: 10 * time.Second})

	handlers.NewPublicHandler(cfg, contentSt, postsSt, dispatcher, auditLog).Register(r)
	handlers.NewAuthHandler(cfg, usersSt, sessionsSvc, auditLog).Register(r)
	handlers.NewAdminHandler(cfg, contentSt, postsSt, sessionsSvc, auditLog, mirror).Register(r)

	// Static assets: public site, admin styling, uploaded media. API routes
	// take precedence; everything else falls through to the website dir.
	r.Static("/uploads", cfg.Paths.UploadsDir)
	r.Static("/assets", cfg.Paths.WebsiteDir+"/assets")
	r.NoRoute(func(c *gin.Context) {
		c.File(cfg.Paths.WebsiteDir + "/index.html")
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting site backend on %s (env=%s)", addr, cfg.Server.Environment)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
