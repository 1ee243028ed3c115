package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/georgemunganga/coffee-tracker/internal/modules/auth"
	"github.com/georgemunganga/coffee-tracker/internal/modules/catalog"
	"github.com/georgemunganga/coffee-tracker/internal/modules/dashboard"
	"github.com/georgemunganga/coffee-tracker/internal/modules/inventory"
	"github.com/georgemunganga/coffee-tracker/internal/modules/pos"
	"github.com/georgemunganga/coffee-tracker/internal/modules/review"
	"github.com/georgemunganga/coffee-tracker/internal/modules/user"
	"github.com/georgemunganga/coffee-tracker/internal/platform/config"
	"github.com/georgemunganga/coffee-tracker/internal/platform/database"
	"github.com/georgemunganga/coffee-tracker/internal/platform/events"
	"github.com/georgemunganga/coffee-tracker/internal/platform/lock"
	"github.com/georgemunganga/coffee-tracker/internal/platform/logger"
	"github.com/georgemunganga/coffee-tracker/internal/platform/metrics"
	appmw "github.com/georgemunganga/coffee-tracker/internal/platform/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL, database.Options{
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
	})
	if err != nil {
		log.WithError(err).Fatal("connect postgres")
	}
	defer db.Close()
	log.Info("connected to postgres")

	if cfg.MigrateOnStart {
		if err := database.Migrate(db, log); err != nil {
			log.WithError(err).Fatal("migrate")
		}
	}

	locker := newLocker(ctx, cfg, log)
	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers)
	defer publisher.Close()

	reviewDB, disconnect := connectMongo(ctx, cfg, log)
	defer disconnect()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appmw.RequestLogger(log))
	router.Use(metrics.Middleware)
	router.Use(middleware.Recoverer)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("coffee-tracker API\n"))
	})
	router.Handle("/metrics", metrics.Handler())

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	user.NewHandler(userService).RegisterRoutes(router)

	if cfg.CredentialsSeedPath != "" {
		n, err := user.SeedFromFile(ctx, userService, cfg.CredentialsSeedPath, log)
		if err != nil {
			log.WithError(err).Fatal("seed credentials")
		}
		log.WithField("created", n).Info("credentials seed imported")
	}

	authService := auth.NewService(userService, cfg.JWTSecret, cfg.TokenTTL)
	auth.NewHandler(authService, log).RegisterRoutes(router)

	// ── Catalog & Inventory ─────────────────────────────────
	catalogService := catalog.NewService(catalog.NewPostgresRepository(db))
	catalog.NewHandler(catalogService).RegisterRoutes(router)

	inventoryRepo := inventory.NewPostgresRepository(db)
	inventoryService := inventory.NewService(inventoryRepo, locker, publisher, log, cfg.LowStockThreshold)

	// ── Purchases ───────────────────────────────────────────
	posService := pos.NewService(pos.NewPostgresRepository(db), catalogService, locker, publisher, log, cfg.LowStockThreshold)

	// ── Reviews ─────────────────────────────────────────────
	var reviewFinder dashboard.ReviewFinder
	if reviewDB != nil {
		reviewService := review.NewService(review.NewMongoRepository(reviewDB), userService, log)
		limiter := appmw.NewRateLimiter(cfg.ReviewRateLimit, cfg.ReviewRateBurst, log)
		limiter.StartCleanup(ctx, time.Minute, 10*time.Minute)
		review.NewHandler(reviewService, limiter.Handler).RegisterRoutes(router)
		reviewFinder = reviewService
	}

	// ── Store-scoped routes ─────────────────────────────────
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireStore(authService))
		inventory.NewHandler(inventoryService, catalogService).RegisterRoutes(r)
		pos.NewHandler(posService, catalogService).RegisterRoutes(r)
		dashboard.NewHandler(dashboard.NewService(inventoryService, reviewFinder, log)).RegisterRoutes(r)
	})

	// ── Background jobs ─────────────────────────────────────
	scheduler := cron.New()
	watcher := inventory.NewExpiryWatcher(inventoryRepo, publisher, log, cfg.ExpiryWindow)
	if _, err := watcher.Schedule(scheduler, cfg.ExpiryCheckSpec); err != nil {
		log.WithError(err).Fatal("schedule expiry check")
	}
	scheduler.Start()

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.WithField("port", cfg.Port).Info("coffee-tracker API starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	<-scheduler.Stop().Done()
}

func newLocker(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) lock.Locker {
	if cfg.RedisAddr == "" {
		log.Info("using in-process inventory locks")
		return lock.NewLocal()
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("connect redis")
	}
	log.WithField("addr", cfg.RedisAddr).Info("using redis inventory locks")
	return lock.NewRedis(rdb, cfg.LockTTL)
}

// connectMongo returns a nil database when MONGO_URI is empty.
func connectMongo(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*mongo.Database, func()) {
	if cfg.MongoURI == "" {
		log.Warn("MONGO_URI not set, reviews disabled")
		return nil, func() {}
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.WithError(err).Fatal("connect mongo")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		log.WithError(err).Warn("mongo not reachable yet, reviews may fail")
	}
	return client.Database(cfg.MongoDatabase), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
}

