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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chitkaraconnect/internal/account"
	"chitkaraconnect/internal/activity"
	"chitkaraconnect/internal/attendance"
	"chitkaraconnect/internal/auth"
	"chitkaraconnect/internal/config"
	"chitkaraconnect/internal/faq"
	"chitkaraconnect/internal/gatepass"
	"chitkaraconnect/internal/handler"
	"chitkaraconnect/internal/httpmiddleware"
	"chitkaraconnect/internal/notice"
	"chitkaraconnect/internal/performance"
	"chitkaraconnect/internal/query"
	"chitkaraconnect/internal/queue"
	"chitkaraconnect/internal/store"
	"chitkaraconnect/internal/support"
	"chitkaraconnect/internal/syllabus"
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

// backends groups the per-collection stores for one STORE_BACKEND choice.
type backends struct {
	accounts    account.Store
	gatepasses  gatepass.Store
	queries     query.Store
	attendance  attendance.Repository
	notices     store.Docs
	syllabus    store.Docs
	support     store.Docs
	performance store.Docs
	activity    activity.Store
}

func mongoBackends(db *store.Mongo, timeout time.Duration) backends {
	return backends{
		accounts:    account.NewMongoStore(db, timeout),
		gatepasses:  gatepass.NewMongoStore(db, timeout),
		queries:     query.NewMongoStore(db, timeout),
		attendance:  attendance.NewMongoRepository(db, timeout),
		notices:     store.NewMongoDocs(db, store.Notices, timeout),
		syllabus:    store.NewMongoDocs(db, store.Syllabus, timeout),
		support:     store.NewMongoDocs(db, store.Support, timeout),
		performance: store.NewMongoDocs(db, store.Performance, timeout),
		activity:    activity.NewMongoStore(db, timeout),
	}
}

func memoryBackends() backends {
	return backends{
		accounts:    account.NewMemoryStore(),
		gatepasses:  gatepass.NewMemoryStore(),
		queries:     query.NewMemoryStore(),
		attendance:  attendance.NewMemoryRepository(),
		notices:     store.NewMemoryDocs(),
		syllabus:    store.NewMemoryDocs(),
		support:     store.NewMemoryDocs(),
		performance: store.NewMemoryDocs(),
		activity:    activity.NewMemoryStore(),
	}
}

func runHTTP(cfg config.App) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var db *store.Mongo
	var be backends
	if cfg.StoreBackend == "memory" {
		log.Println("using in-memory store; data is lost on restart")
		be = memoryBackends()
	} else {
		var err error
		db, err = store.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := db.Close(closeCtx); err != nil {
				log.Printf("mongo disconnect failed: %v", err)
			}
		}()
		log.Printf("connected to mongo database %s", cfg.MongoDatabase)
		be = mongoBackends(db, cfg.StoreTimeout)
	}

	var redisClient *store.Redis
	if cfg.UsesRedis() {
		redisClient = store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
		if !redisClient.Healthy(ctx) {
			log.Printf("warning: redis not reachable at %s", cfg.RedisAddr)
		}
	}

	var denylist auth.Denylist = auth.NewMemoryDenylist(cfg.JWTSecret)
	if redisClient != nil {
		denylist = auth.NewRedisDenylist(redisClient.Client, cfg.JWTSecret)
	}
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL, denylist)

	var q queue.Queue
	var memQueue *queue.InMemory
	consumerDone := make(chan struct{})
	if cfg.QueueBackend == "redis" {
		q = queue.NewRedisQueue(redisClient.Client, "")
	} else {
		memQueue = queue.NewInMemory(256)
		q = memQueue
		go func() {
			defer close(consumerDone)
			if err := activity.Consume(ctx, q, be.activity); err != nil {
				log.Printf("activity consumer stopped: %v", err)
			}
		}()
	}
	recorder := activity.NewPublisher(q)

	var globalLimit, loginLimit httpmiddleware.Limiter
	if cfg.RateLimitBackend == "redis" {
		globalLimit = httpmiddleware.NewRedisWindow(redisClient.Client, "connect:rl", cfg.RateLimitPerMin)
		loginLimit = httpmiddleware.NewRedisWindow(redisClient.Client, "connect:rl", cfg.LoginRateLimitPerMin)
	} else {
		globalLimit = httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
		loginLimit = httpmiddleware.NewSimpleTokenBucket(cfg.LoginRateLimitPerMin, cfg.LoginRateLimitPerMin)
	}

	h := handler.New(handler.Services{
		Accounts:    account.NewService(be.accounts, cfg.UpgradeLegacyPasswords),
		Gatepasses:  gatepass.NewService(be.gatepasses, recorder, cfg.StrictGatepassTransitions),
		Queries:     query.NewService(be.queries, recorder),
		Attendance:  attendance.NewService(be.attendance, recorder),
		Notices:     notice.NewService(be.notices),
		Syllabus:    syllabus.NewService(be.syllabus),
		Support:     support.NewService(be.support),
		Performance: performance.NewService(be.performance),
		Activity:    be.activity,
		FAQ:         faq.MustLoad(),
	}, issuer, handler.Options{
		CookieSecure: cfg.CookieSecure,
		EnforceRoles: cfg.EnforceRoles,
		LoginLimiter: loginLimit,
	})
	if cfg.EnforceRoles {
		log.Println("role enforcement enabled on role-specific routes")
	}

	r := gin.New()

	r.Use(gin.Recovery())

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))

	r.Use(httpmiddleware.RequestID())
	r.Use(httpmiddleware.Metrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", httpmiddleware.RequestIDHeader},
		ExposeHeaders:    []string{httpmiddleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(securityHeaders())

	r.Use(httpmiddleware.Limit(globalLimit, "global"))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		storeHealthy := db == nil || db.Healthy(c.Request.Context())
		redisHealthy := redisClient == nil || redisClient.Healthy(c.Request.Context())
		status := http.StatusOK
		if !storeHealthy || !redisHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "store": storeHealthy, "redis": redisHealthy})
	})

	h.Register(r)

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

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	// Persist activity still buffered in-process before the consumer stops.
	if memQueue != nil {
		memQueue.Close()
		select {
		case <-consumerDone:
		case <-time.After(5 * time.Second):
			log.Printf("activity consumer did not drain in time, %d events dropped", memQueue.Len())
		}
	}
	cancel()

	log.Println("Server exited")
	return nil
}

// Security headers middleware
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
