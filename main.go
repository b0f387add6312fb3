package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/fxdiary/backend/src/config"
	"github.com/username/fxdiary/backend/src/database"
	"github.com/username/fxdiary/backend/src/handlers"
	"github.com/username/fxdiary/backend/src/logger"
	"github.com/username/fxdiary/backend/src/services"
	"github.com/username/fxdiary/backend/src/storage"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	allowedOrigins := make(map[string]bool)
	for _, origin := range config.Cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("FxDiary backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	db := database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(db, config.Cfg.DatabasePath)

	store := storage.NewSQLStore(db)
	reportCache := cache.New(config.Cfg.CacheExpiration, config.Cfg.CacheCleanupInterval)

	investmentService := services.NewInvestmentService(store, logger.L, reportCache)

	// Repair any duplicate profit rows left by a previous run before serving.
	if removed, err := investmentService.Reconcile(); err != nil {
		logger.L.Error("Startup reconciliation failed", "error", err)
	} else if removed > 0 {
		logger.L.Warn("Startup reconciliation removed duplicate profit records", "removed", removed)
	}

	investmentHandler := handlers.NewInvestmentHandler(investmentService)
	ocrHandler := handlers.NewOCRHandler()
	summaryHandler := handlers.NewSummaryHandler(investmentService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)
	r.Use(handlers.MaxBodyBytesMiddleware(config.Cfg.MaxBodyBytes))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "FxDiary Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/investments", investmentHandler.HandleGetRecords)
		r.Post("/investments", investmentHandler.HandleIngest)
		r.Delete("/investments", investmentHandler.HandleClearAll)
		r.Delete("/investments/{id}", investmentHandler.HandleDeleteRecord)
		r.Delete("/profits/{id}", investmentHandler.HandleDeleteProfit)
		r.Post("/reconcile", investmentHandler.HandleReconcile)
		r.Post("/ocr/parse", ocrHandler.HandleParse)
		r.Get("/summary/monthly", summaryHandler.HandleGetMonthlySummary)
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
