package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/accesslog"
	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/logging"
	"github.com/inkwell/internal/router"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[server] failed to load config: %v", err)
	}
	logging.Configure(cfg.LogLevel, cfg.IsDevelopment())
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(db.Options{
		Driver:  cfg.DatabaseDriver,
		Path:    cfg.DatabasePath,
		DSN:     cfg.DatabaseURL,
		Verbose: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("[server] failed to initialize database: %v", err)
	}

	if err := db.EnsureUser(db.DB, cfg.BootstrapAuthorName, cfg.BootstrapAuthorEmail, cfg.BootstrapAuthorPassword, db.RoleAuthor); err != nil {
		log.Fatalf("[server] failed to bootstrap author: %v", err)
	}

	var sink accesslog.Sink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink := accesslog.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if err := kafkaSink.Close(); err != nil {
				log.Errorf("[server] failed to close access log writer: %v", err)
			}
		}()
		sink = kafkaSink
		log.Infof("[server] shipping access logs to kafka topic %s", cfg.KafkaTopic)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.SetupRouter(db.DB, cfg, sink),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("[server] starting on %s (%s)", cfg.ListenAddr, cfg.Env)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[server] failed to run server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("[server] HTTP server shutdown error: %v", err)
	} else {
		log.Info("[server] HTTP server shut down gracefully")
	}

	if sqlDB, err := db.DB.DB(); err == nil {
		_ = sqlDB.Close()
		log.Info("[server] disconnected from DB")
	}
}
