package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/ardiwn/shop-api/internal/adapter/handler"
	"github.com/ardiwn/shop-api/internal/adapter/storage"
	"github.com/ardiwn/shop-api/internal/auth"
	"github.com/ardiwn/shop-api/internal/config"
	"github.com/ardiwn/shop-api/internal/core/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	log.Println("connected to mysql")

	store := storage.NewMySQLAdapter(db)
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	if cfg.Env != "production" {
		if err := store.Seed(ctx); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		log.Println("seeded development data")
	}

	// Signing secret lives in this one object; both issuing and verification
	// go through it.
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	authService := service.NewAuthService(store, tokens)
	catalogService := service.NewCatalogService(store)
	orderService := service.NewOrderService(store, store)

	h := handler.NewHTTPHandler(authService, catalogService, orderService, tokens.TTL())

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.NewRouter(h, tokens),
	}

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	db.Close()
	log.Println("connections closed")
}
