package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/phuc2705/Project-Sach/internal/adapter/handler"
	"github.com/phuc2705/Project-Sach/internal/adapter/storage"
	"github.com/phuc2705/Project-Sach/internal/adapter/token"
	"github.com/phuc2705/Project-Sach/internal/core/service"
)

const (
	defaultHTTPAddr  = ":8080"
	defaultMySQLDSN  = "root:root@tcp(localhost:3306)/bookstore?parseTime=true"
	defaultRedisAddr = "localhost:6379"
	defaultJWTSecret = "dev-secret-change-in-production"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpAddr := envOr("HTTP_ADDR", defaultHTTPAddr)
	mysqlDSN := envOr("MYSQL_DSN", defaultMySQLDSN)
	redisAddr := envOr("REDIS_ADDR", defaultRedisAddr)
	jwtSecret := envOr("JWT_SECRET", defaultJWTSecret)
	if jwtSecret == defaultJWTSecret {
		slog.Warn("JWT_SECRET not set, using development secret")
	}

	// Initialize MySQL
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		slog.Error("failed to open mysql", "error", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		slog.Error("failed to ping mysql", "error", err)
		os.Exit(1)
	}
	if err := storage.ApplySchema(ctx, db); err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to mysql")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to redis")

	// Initialize adapters
	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb)
	tokenManager := token.NewJWTManager(jwtSecret)

	// Initialize services
	authService := service.NewAuthService(mysqlAdapter, tokenManager)
	catalogService := service.NewCatalogService(mysqlAdapter, redisAdapter)
	orderService := service.NewOrderService(mysqlAdapter, redisAdapter)
	reviewService := service.NewReviewService(mysqlAdapter, redisAdapter)
	adminService := service.NewAdminService(
		authService, mysqlAdapter, mysqlAdapter, mysqlAdapter, mysqlAdapter, redisAdapter,
	)

	httpHandler := handler.NewHTTPHandler(
		authService, catalogService, orderService, reviewService, adminService,
	)

	httpServer := &http.Server{
		Addr:    httpAddr,
		Handler: handler.NewRouter(httpHandler, tokenManager),
	}

	go func() {
		slog.Info("HTTP server listening", "addr", httpAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	slog.Info("HTTP server stopped")

	rdb.Close()
	db.Close()
	slog.Info("connections closed")
}
