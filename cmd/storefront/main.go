package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/catalog"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/checkout"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/httpapi"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/notify"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/persist"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/session"
)

type Config struct {
	HTTPPort        string
	RedisAddr       string
	RedisPassword   string
	CatalogDBPath   string
	MigrationsPath  string
	KafkaBrokers    []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		CatalogDBPath:   getEnv("CATALOG_DB_PATH", "catalog.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "internal/catalog/migrations"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := loadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Persistence adapter: Redis when configured, in-memory otherwise.
	var blobs persist.Store
	var productCache catalog.ProductCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		blobs = persist.NewRedisStore(redisClient)
		productCache = catalog.NewRedisCache(redisClient)
		logger.Info("using redis persistence", zap.String("addr", cfg.RedisAddr))
	} else {
		blobs = persist.NewMemoryStore()
		logger.Info("REDIS_ADDR unset, using in-memory persistence")
	}

	// Catalog: sqlite with seed migrations.
	repo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		logger.Fatal("failed to open catalog database", zap.Error(err))
	}
	defer repo.Close()
	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		logger.Fatal("failed to run catalog migrations", zap.Error(err))
	}
	catalogSvc := catalog.NewService(repo, productCache, logger)

	// Notifier: Kafka when brokers are configured, simulated channels
	// otherwise.
	var notifier notify.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier := notify.NewKafkaNotifier(cfg.KafkaBrokers...)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
		logger.Info("using kafka notifier", zap.Strings("brokers", cfg.KafkaBrokers))
	} else {
		notifier = notify.NewSimulatedNotifier(0, logger)
		logger.Info("KAFKA_BROKERS unset, using simulated notifier")
	}

	sessions := session.NewManager(blobs, notifier, checkout.DefaultPricing(), logger)

	productHandler := httpapi.NewProductHandler(catalogSvc)
	cartHandler := httpapi.NewCartHandler(sessions, catalogSvc)
	wishlistHandler := httpapi.NewWishlistHandler(sessions, catalogSvc)
	checkoutHandler := httpapi.NewCheckoutHandler(sessions)

	// Setup router
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(httpapi.SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{product_id}", productHandler.GetProduct)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Post("/items/{product_id}/save", cartHandler.SaveForLater)
			r.Post("/saved/{product_id}/restore", cartHandler.MoveToCart)
			r.Delete("/saved/{product_id}", cartHandler.RemoveSavedItem)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/toggle", cartHandler.ToggleVisibility)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.GetWishlist)
			r.Post("/items", wishlistHandler.AddItem)
			r.Delete("/items/{product_id}", wishlistHandler.RemoveItem)
			r.Delete("/", wishlistHandler.Clear)
			r.Get("/items/{product_id}", wishlistHandler.Contains)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutHandler.Begin)
			r.Post("/shipping", checkoutHandler.SubmitShipping)
			r.Post("/payment", checkoutHandler.SubmitPayment)
			r.Post("/back", checkoutHandler.Back)
			r.Post("/submit", checkoutHandler.Submit)
		})
	})

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	go func() {
		logger.Info("storefront listening", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down storefront")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown did not complete cleanly", zap.Error(err))
	}
	logger.Info("storefront stopped")
}
