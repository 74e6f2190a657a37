package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bodegabaratote/backend/internal/config"
	"bodegabaratote/backend/internal/httpapi"
	"bodegabaratote/backend/internal/ledger"
	"bodegabaratote/backend/internal/snapshot"
)

func main() {
	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var slot snapshot.Store
	closers := make([]func() error, 0, 1)

	switch {
	case cfg.DatabaseURL != "":
		pg, err := snapshot.NewPostgres(ctx, cfg.DatabaseURL, cfg.SnapshotKey)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with a file fallback", err)
		}
		slot = pg
		closers = append(closers, pg.Close)
		log.Println("snapshot slot: postgres")
	case cfg.RedisAddr != "":
		rd := snapshot.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SnapshotKey)
		if err := rd.Ping(ctx); err != nil {
			log.Fatalf("redis unavailable (%v) and REDIS_ADDR is set; refusing to start with a file fallback", err)
		}
		slot = rd
		closers = append(closers, rd.Close)
		log.Println("snapshot slot: redis")
	default:
		slot = snapshot.NewFile(cfg.SnapshotPath)
		log.Printf("snapshot slot: file %s", cfg.SnapshotPath)
	}

	book, err := ledger.New(ctx, slot, ledger.SeedPasswords{
		Admin:    cfg.SeedAdminPassword,
		Stockist: cfg.SeedStockistPassword,
	})
	if err != nil {
		log.Fatalf("load ledger: %v", err)
	}

	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, book)
	api := httpapi.New(book, auth, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("bodega backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	return nil
}
