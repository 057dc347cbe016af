package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studentportal/internal/attendance"
	"studentportal/internal/auth"
	"studentportal/internal/cloudinary"
	"studentportal/internal/config"
	"studentportal/internal/handler"
	"studentportal/internal/httpmiddleware"
	"studentportal/internal/live"
	"studentportal/internal/metrics"
	"studentportal/internal/portal"
	"studentportal/internal/queue"
	"studentportal/internal/session"
	"studentportal/internal/store"
	"studentportal/internal/webhook"
)

func main() {
	cfg := config.Load()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var redisClient *store.Redis
	if cfg.SessionBackend == "redis" || cfg.QueueBackend == "redis" {
		redisClient = store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
		if !redisClient.Healthy(ctx) {
			log.Printf("warning: redis not reachable at %s", cfg.RedisAddr)
		}
	}

	var sessions session.Store
	if cfg.SessionBackend == "redis" {
		sessions = session.NewRedis(redisClient.Client, "")
	} else {
		sessions = session.NewMemory()
	}

	var (
		db      *store.DB
		catalog portal.Catalog = portal.Static{}
	)
	if cfg.CatalogBackend == "postgres" {
		var err error
		db, err = store.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		pg := portal.NewPostgres(db.Client)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		catalog = pg
		log.Println("catalog: postgres")
	}

	var q queue.Queue
	if cfg.QueueBackend == "redis" {
		q = queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	} else {
		q = queue.NewInMemory(64)
	}

	hub := live.NewHub(nil)
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg, func() float64 { return float64(hub.Clients()) })

	syncer := attendance.NewSyncer(webhook.New(cfg.SyncTimeout), cfg.SyncTimeout)
	att := attendance.NewService(attendance.NewRegister(), syncer, hub, m)

	// Cloudinary client (nil when not configured)
	var uploader handler.Uploader
	if cfg.CloudinaryConfigured() {
		uploader = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Println("Cloudinary configured:", cfg.CloudinaryCloudName)
	} else {
		log.Println("Cloudinary not configured (CLOUDINARY_CLOUD_NAME / API_KEY / API_SECRET not set)")
	}

	health := func(ctx context.Context) map[string]bool {
		out := map[string]bool{}
		if redisClient != nil {
			out["redis"] = redisClient.Healthy(ctx)
		}
		if db != nil {
			out["db"] = db.Healthy(ctx)
		}
		return out
	}

	h := handler.New(att, sessions, catalog, uploader, health, handler.Options{
		JWTIssuer:      cfg.JWTIssuer,
		JWTSigningKey:  cfg.JWTSigningKey,
		SessionTTL:     cfg.SessionTTL,
		DefaultWebhook: cfg.WebhookURL,
		PublicOrigin:   cfg.PublicOrigin,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))
	r.Use(securityHeaders())

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	sessionAuth := auth.SessionAuth(cfg.JWTSigningKey, cfg.JWTIssuer, sessions)
	limiter := httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin, m.RateLimited.Inc)
	h.Mount(r, sessionAuth, limiter.GinMiddleware())
	if cfg.LiveUpdates {
		r.GET("/v1/live", sessionAuth, hub.Handle)
	}

	go consumeScans(ctx, q, att)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	cancel()

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// consumeScans applies queued card swipes to the register until ctx is done.
func consumeScans(ctx context.Context, q queue.Queue, att *attendance.Service) {
	messages, err := q.Consume(ctx)
	if err != nil {
		log.Printf("queue consume init failed: %v", err)
		return
	}
	for msg := range messages {
		if msg.Kind != queue.KindScan {
			continue
		}
		rec, notice, err := att.Scan(msg.CardID)
		if err != nil {
			log.Printf("scan from %q rejected: %s", msg.Source, notice.Description)
			continue
		}
		log.Printf("scan from %q: %s (%s) class %q", msg.Source, rec.Name, rec.ID, msg.ClassLabel)
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
