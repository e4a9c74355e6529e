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

	database "github.com/sebuszqo/ExpenseTracker/db"
	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/config"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/infrastructure"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/interfaces"
	"github.com/sebuszqo/ExpenseTracker/internal/log"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthChecker reports database availability for the readiness probe.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	router             *http.ServeMux
	authHandler        *auth.Handler
	userHandler        *user.Handler
	authService        auth.Service
	categoryHandler    *interfaces.CategoryHandler
	transactionHandler *interfaces.PersonalTransactionHandler
	health             HealthChecker
}

func NewServer(
	authHandler *auth.Handler,
	authService auth.Service,
	userHandler *user.Handler,
	categoryHandler *interfaces.CategoryHandler,
	transactionHandler *interfaces.PersonalTransactionHandler,
	health HealthChecker,
) *Server {
	return &Server{
		authHandler:        authHandler,
		userHandler:        userHandler,
		authService:        authService,
		categoryHandler:    categoryHandler,
		transactionHandler: transactionHandler,
		health:             health,
		router:             http.NewServeMux(),
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Status: "error", Message: "Path not found", Code: http.StatusNotFound})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	stats := s.health.Health(r.Context())
	if stats["status"] != "up" {
		interfaces.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"db":     stats["status"],
		})
		return
	}
	interfaces.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"db":     stats["status"],
	})
}

func (s *Server) RegisterRoutes() {
	protected := s.authService.JWTAccessTokenMiddleware()

	router := http.NewServeMux()

	// Public routes
	router.Handle("POST /api/auth/register", http.HandlerFunc(s.userHandler.HandleRegister))
	router.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	router.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// CATEGORIES API
	router.Handle("GET /api/categories", protected(http.HandlerFunc(s.categoryHandler.ListCategories)))
	router.Handle("POST /api/categories", protected(http.HandlerFunc(s.categoryHandler.CreateCategory)))
	router.Handle("DELETE /api/categories/{id}", protected(http.HandlerFunc(s.categoryHandler.DeleteCategory)))

	// TRANSACTIONS API
	router.Handle("GET /api/transactions", protected(http.HandlerFunc(s.transactionHandler.GetUserTransactions)))
	router.Handle("POST /api/transactions", protected(http.HandlerFunc(s.transactionHandler.CreateTransaction)))
	router.Handle("GET /api/transactions/summary", protected(http.HandlerFunc(s.transactionHandler.GetFinancialSummary)))
	router.Handle("PUT /api/transactions/{id}", protected(http.HandlerFunc(s.transactionHandler.UpdateTransaction)))
	router.Handle("DELETE /api/transactions/{id}", protected(http.HandlerFunc(s.transactionHandler.DeleteTransaction)))

	router.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = router
}

const maxRequestBodyBytes = 1 << 20

// limitRequestBody caps every request body; decoders see an error once the
// limit is crossed.
func limitRequestBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// corsMiddleware lets the browser UI on allowedOrigin call the API. An empty
// origin disables CORS headers entirely.
func corsMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if allowedOrigin == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowedOrigin == "*" || origin == allowedOrigin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.Header().Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// appDatabase is what start-up needs from the store.
type appDatabase interface {
	HealthChecker
	Migrate() error
	Conn() *sql.DB
	Close() error
}

type openDatabaseFunc func(ctx context.Context, opts database.Options) (appDatabase, error)

func openPostgres(ctx context.Context, opts database.Options) (appDatabase, error) {
	return database.NewDBService(ctx, opts)
}

func main() {
	cfg := config.Load()

	logger := log.New(log.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Component: "expense-tracker"})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Missing configuration, update to start server", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger, openPostgres); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// run owns every resource it opens, so deferred cleanup happens on all
// return paths.
func run(cfg *config.Config, logger *log.Logger, openDatabase openDatabaseFunc) error {
	dbService, err := openDatabase(context.Background(), database.Options{
		ConnectionString: cfg.DBConnectionString,
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetime:  cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer dbService.Close()

	if err := dbService.Migrate(); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	categoryRepo := infrastructure.NewCategoryRepository(dbService.Conn())
	transactionRepo := infrastructure.NewPersonalTransactionRepository(dbService.Conn())
	userRepo := user.NewUserRepository(dbService.Conn())

	onboarding := application.NewOnboarding(categoryRepo)
	userService := user.NewUserService(userRepo, onboarding, cfg.BcryptCost, logger.WithComponent("user"))
	userHandler := user.NewHandler(userService, logger.WithComponent("user"))

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authService, err := auth.NewAuthService(userService, jwtManager, cfg.BcryptCost, logger.WithComponent("auth"))
	if err != nil {
		return fmt.Errorf("initialize auth service: %w", err)
	}
	authHandler := auth.NewHandler(authService)

	financeLogger := logger.WithComponent("finance")
	categoryService := application.NewCategoryService(categoryRepo, transactionRepo)
	transactionService := application.NewPersonalTransactionService(transactionRepo, categoryService, financeLogger)
	categoryHandler := interfaces.NewCategoryHandler(categoryService, financeLogger, interfaces.RespondJSON, interfaces.RespondError)
	transactionHandler := interfaces.NewPersonalTransactionHandler(transactionService, financeLogger, interfaces.RespondJSON, interfaces.RespondError)

	server := NewServer(authHandler, authService, userHandler, categoryHandler, transactionHandler, dbService)
	server.RegisterRoutes()

	handler := corsMiddleware(cfg.CORSAllowedOrigin)(log.HTTPMiddleware(logger.WithComponent("http"))(limitRequestBody(maxRequestBodyBytes)(server.router)))
	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
			return
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Server starting", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on port %s: %w", cfg.Port, err)
	}

	<-ctx.Done()
	return nil
}
