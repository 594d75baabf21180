package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"absensi/internal/api"
	"absensi/internal/attendance"
	"absensi/internal/config"
	"absensi/internal/live"
	"absensi/internal/report"
	"absensi/internal/session"
	"absensi/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.AdminPassword == "" {
		log.Println("WARNING: ADMIN_PASSWORD not set, admin login disabled")
	}

	if err := run(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func run(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()

	var broker live.Broker
	if cfg.LiveBackend == "memory" {
		broker = live.NewMemory()
	} else {
		broker = live.NewRedisBroker(redisClient.Client)
	}

	sessionRepo := session.NewRepository(db.Client)
	sessions := session.NewService(sessionRepo, cfg.PublicBaseURL)

	attRepo := attendance.NewRepository(db.Client)
	att := attendance.NewService(attRepo, sessions, live.Notifier{Broker: broker}, cfg.CheckinDedupWindow)

	logo := report.NewLogoFetcher(cfg.LetterheadLogoURL)

	server := api.NewServer(cfg, sessions, att, broker, logo, redisClient, db)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // live streams stay open indefinitely
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}
