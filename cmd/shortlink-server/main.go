package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/jhopan/shortlink/pkg/shortlink/admin"
	"github.com/jhopan/shortlink/pkg/shortlink/config"
	"github.com/jhopan/shortlink/pkg/shortlink/database"
	"github.com/jhopan/shortlink/pkg/shortlink/ids"
	"github.com/jhopan/shortlink/pkg/shortlink/logger"
	"github.com/jhopan/shortlink/pkg/shortlink/models"
	"github.com/jhopan/shortlink/pkg/shortlink/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		zlog.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			zlog.Error("Failed to close database", zap.Error(err))
		}
	}()

	if err := models.AutoMigrate(db); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}
	zlog.Info("Database migrations completed", zap.String("path", cfg.Database.Path))

	gen, err := ids.New(cfg.App.SnowflakeNode)
	if err != nil {
		zlog.Fatal("Failed to create id generator", zap.Error(err))
	}

	if !cfg.Log.Pretty {
		gin.SetMode(gin.ReleaseMode)
	}

	router := server.New(server.Deps{
		DB:            db,
		IDs:           gen,
		Log:           zlog,
		CodeLength:    cfg.App.CodeLength,
		DefaultDomain: cfg.App.DefaultDomain,
		Policy:        admin.NewPolicy(cfg.App.AdminUserID),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("Starting shortlink server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Shutdown failed", zap.Error(err))
	}
	zlog.Info("Server stopped")
}
