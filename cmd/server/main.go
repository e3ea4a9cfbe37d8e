package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/liamcoop/carmatch/internal/config"
	"github.com/liamcoop/carmatch/internal/logger"
	"github.com/liamcoop/carmatch/inventory"
	"github.com/liamcoop/carmatch/marketplace"
	"github.com/liamcoop/carmatch/rules"

	_ "github.com/lib/pq"
)

type Server struct {
	db       *sql.DB       // nil when running on in-memory stores
	redis    *redis.Client // nil when the inventory cache is in-process
	cars     *inventory.CachedStore
	rules    *rules.Engine
	service  *marketplace.Service
	validate *validator.Validate
	router   *chi.Mux
	timeout  time.Duration
}

func NewServer(ctx context.Context, cfg config.Config) (*Server, error) {
	s := &Server{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		timeout:  cfg.RequestTimeout,
	}

	var (
		baseCars     inventory.Store
		ruleStore    rules.RuleStore
		requirements marketplace.RequirementStore
		quotations   marketplace.QuotationStore
	)

	if cfg.UsesDatabase() {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		s.db = db
		baseCars = inventory.NewPostgresStore(db)
		ruleStore = rules.NewPostgresRuleStore(db)
		requirements = marketplace.NewPostgresRequirementStore(db)
		quotations = marketplace.NewPostgresQuotationStore(db)
		logger.Info("Using PostgreSQL stores")
	} else {
		mem, err := inventory.NewInMemoryStoreFromFile(cfg.InventoryPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load inventory: %w", err)
		}
		baseCars = mem
		ruleStore = rules.NewInMemoryRuleStore()
		requirements = marketplace.NewInMemoryRequirementStore()
		quotations = marketplace.NewInMemoryQuotationStore()
		logger.Info("Using in-memory stores", "inventory", cfg.InventoryPath)
	}

	var cache inventory.Cache
	if cfg.UsesRedis() {
		client, err := inventory.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.redis = client
		cache = inventory.NewRedisCache(client, "carmatch:inventory:", cfg.InventoryCacheTTL)
		logger.Info("Using Redis inventory cache", "ttl", cfg.InventoryCacheTTL.String())
	} else {
		cache = inventory.NewInMemoryCache(cfg.InventoryCacheTTL)
	}
	s.cars = inventory.NewCachedStore(baseCars, cache)

	engine, err := rules.NewEngine(ctx, ruleStore,
		rules.WithCache(rules.NewInMemoryRulesCache(rules.DefaultCacheConfig())))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create rule engine: %w", err)
	}
	s.rules = engine

	s.service = marketplace.NewService(requirements, quotations, s.cars,
		marketplace.WithEligibility(engine))

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/cars", s.handleListCars)
		r.Get("/cars/{carId}", s.handleGetCar)

		r.Post("/requirements", s.handleCreateRequirement)

		r.Route("/ai", func(r chi.Router) {
			r.Post("/interpret", s.handleInterpret)
			r.Post("/interpret/batch", s.handleInterpretBatch)
			r.Get("/interpret/customer/{customerId}", s.handleInterpretCustomer)
			r.Post("/score", s.handleScore)
			r.Post("/recommend", s.handleRecommend)
			r.Post("/generate-quotation", s.handleGenerateQuotation)
		})

		r.Get("/quotations/{quotationId}", s.handleGetQuotation)

		r.Route("/rules", func(r chi.Router) {
			r.Get("/", s.handleListRules)
			r.Post("/", s.handleCreateRule)
			r.Post("/evaluate", s.handleEvaluate)
			r.Get("/{ruleId}", s.handleGetRule)
			r.Put("/{ruleId}", s.handleUpdateRule)
			r.Delete("/{ruleId}", s.handleDeleteRule)
		})
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases the database and Redis connections, if any.
func (s *Server) Close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			logger.Warn("Failed to close redis client", "error", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Warn("Failed to close database", "error", err)
		}
	}
}

type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response{Success: true, Data: data}); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	switch {
	case status >= 500:
		logger.ErrorHttp5xx()
		logger.Error(message, "status", status, "error", err)
	case status >= 400:
		logger.WarnHttp4xx(status)
	}

	body := response{Success: false, Error: message}
	if err != nil {
		body.Details = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", "error", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal("Invalid log level", "error", err)
	}
	logger.SetLevel(level)
	logger.SetSampleRate(cfg.ErrorSampleRate)

	ctx := context.Background()
	server, err := NewServer(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to create server", "error", err)
	}
	defer server.Close()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped", "counters", logger.Counters())
}
