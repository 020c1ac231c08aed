package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/seyio/bankledger/internal/config"
	"github.com/seyio/bankledger/internal/handler"
	"github.com/seyio/bankledger/internal/identifier"
	"github.com/seyio/bankledger/internal/logging"
	"github.com/seyio/bankledger/internal/middleware"
	"github.com/seyio/bankledger/internal/repository"
	"github.com/seyio/bankledger/internal/service"
	"github.com/seyio/bankledger/internal/service/ledger"
)

func main() {
	// Local development may keep settings in a .env file; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("bankledger-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ids := identifier.New()

	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)

	ledgerSvc := ledger.NewService(accountRepo, transactionRepo, ids, db)
	accountSvc := service.NewAccountService(accountRepo, transactionRepo, customerRepo, ids)
	customerSvc := service.NewCustomerService(customerRepo, accountRepo, ids)
	employeeSvc := service.NewEmployeeService(employeeRepo)

	transferHandler := handler.NewTransferHandler(ledgerSvc)
	accountHandler := handler.NewAccountHandler(accountSvc)
	customerHandler := handler.NewCustomerHandler(customerSvc)
	employeeHandler := handler.NewEmployeeHandler(employeeSvc)
	healthHandler := handler.NewHealthHandler(db)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health/live", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)

	mux.HandleFunc("POST /api/v1/transfers", transferHandler.Create)

	mux.HandleFunc("POST /api/v1/accounts", accountHandler.Open)
	mux.HandleFunc("GET /api/v1/accounts", accountHandler.List)
	mux.HandleFunc("GET /api/v1/accounts/{id}", accountHandler.Get)
	mux.HandleFunc("GET /api/v1/accounts/{id}/transactions", accountHandler.Transactions)
	mux.HandleFunc("PUT /api/v1/accounts/{id}/link", accountHandler.LinkCustomer)
	mux.HandleFunc("DELETE /api/v1/accounts/{id}", accountHandler.Delete)

	mux.HandleFunc("POST /api/v1/customers", customerHandler.Create)
	mux.HandleFunc("GET /api/v1/customers", customerHandler.Search)
	mux.HandleFunc("GET /api/v1/customers/{id}", customerHandler.Get)
	mux.HandleFunc("PUT /api/v1/customers/{id}", customerHandler.Update)
	mux.HandleFunc("DELETE /api/v1/customers/{id}", customerHandler.Delete)

	mux.HandleFunc("GET /api/v1/employees", employeeHandler.Search)
	mux.HandleFunc("GET /api/v1/employees/{id}", employeeHandler.Get)
	mux.Handle("POST /api/v1/employees", middleware.RequireAdmin(http.HandlerFunc(employeeHandler.Create)))
	mux.Handle("DELETE /api/v1/employees/{id}", middleware.RequireAdmin(http.HandlerFunc(employeeHandler.Delete)))

	var root http.Handler = mux
	root = middleware.Recovery(root)
	root = middleware.Logging(root)
	root = authExceptHealth(cfg.JWTSecret, root)
	root = middleware.RequestID(root)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// authExceptHealth applies token auth to everything except the health probes.
func authExceptHealth(secret string, next http.Handler) http.Handler {
	authed := middleware.Auth(secret)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health/live" || r.URL.Path == "/health/ready" {
			next.ServeHTTP(w, r)
			return
		}
		authed.ServeHTTP(w, r)
	})
}
