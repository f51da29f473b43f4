package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"wisewatt-cloud/internal/audit"
	"wisewatt-cloud/internal/auth"
	consumptionapp "wisewatt-cloud/internal/consumption/application"
	consumptionhttp "wisewatt-cloud/internal/consumption/interfaces/http"
	deviceapp "wisewatt-cloud/internal/devices/application"
	devicerepo "wisewatt-cloud/internal/devices/infrastructure/postgres"
	devicehttp "wisewatt-cloud/internal/devices/interfaces/http"
	"wisewatt-cloud/internal/observability/metrics"
	pricingapp "wisewatt-cloud/internal/pricing/application"
	"wisewatt-cloud/internal/pricing/infrastructure/feed"
	pricerepo "wisewatt-cloud/internal/pricing/infrastructure/postgres"
	userapp "wisewatt-cloud/internal/users/application"
	userrepo "wisewatt-cloud/internal/users/infrastructure/postgres"
	userhttp "wisewatt-cloud/internal/users/interfaces/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)

	deviceRepo := devicerepo.NewDeviceRepository(db)
	deviceService, err := deviceapp.NewService(deviceRepo, deviceapp.SystemClock{}, deviceapp.WithAuditLogger(auditRepo))
	if err != nil {
		logger.Fatalf("device service error: %v", err)
	}
	deviceHandler, err := devicehttp.NewHandler(deviceService)
	if err != nil {
		logger.Fatalf("device handler error: %v", err)
	}

	feedCfg, err := pricingapp.LoadFeedConfig()
	if err != nil {
		logger.Fatalf("feed config error: %v", err)
	}
	feedClient, err := feed.NewClient(feedCfg.URL, feedCfg.Region, feedCfg.Tariff, feed.WithTimeout(feedCfg.Timeout))
	if err != nil {
		logger.Fatalf("feed client error: %v", err)
	}
	priceRepo := pricerepo.NewPriceRepository(db)
	priceService, err := pricingapp.NewService(priceRepo, feedClient, logger,
		pricingapp.WithFetchWindow(feedCfg.DaysBackward, feedCfg.DaysForward))
	if err != nil {
		logger.Fatalf("price service error: %v", err)
	}

	consumptionService, err := consumptionapp.NewService(priceService)
	if err != nil {
		logger.Fatalf("consumption service error: %v", err)
	}
	consumptionHandler, err := consumptionhttp.NewHandler(deviceService, consumptionService)
	if err != nil {
		logger.Fatalf("consumption handler error: %v", err)
	}

	userRepo, err := userrepo.NewUserRepository(db)
	if err != nil {
		logger.Fatalf("user repository error: %v", err)
	}
	userService, err := userapp.NewService(userRepo, deviceRepo, []byte(cfg.JWTSecret), logger,
		userapp.WithTokenTTL(cfg.TokenTTL))
	if err != nil {
		logger.Fatalf("user service error: %v", err)
	}
	userHandler, err := userhttp.NewHandler(userService)
	if err != nil {
		logger.Fatalf("user handler error: %v", err)
	}

	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), []string{
		"/healthz",
		"/metrics",
		"/api/v1/auth/",
	})

	mux := http.NewServeMux()
	mux.Handle("/api/v1/auth/", userHandler)
	mux.Handle("/api/v1/devices", deviceHandler)
	mux.Handle("/api/v1/devices/", deviceHandler)
	mux.Handle("/api/v1/consumption/", consumptionHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string
	TokenTTL    time.Duration
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		TokenTTL:    getenvDuration("AUTH_TOKEN_TTL", 24*time.Hour),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
