package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invertred/config"
	"invertred/internal/database"
	"invertred/internal/logging"
	"invertred/internal/router"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	log, err := logging.New(cfg.Server.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}
	if err := database.SeedAdmin(db, &cfg.Admin); err != nil {
		log.Fatal("seed admin", zap.Error(err))
	}

	engine := router.Setup(cfg, db, log)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
