// cmd/api/main.go
// Gmail Sender API 入口

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gmail-sender/internal/api/routes"
	"gmail-sender/internal/config"
	"gmail-sender/internal/logger"
	"gmail-sender/internal/services"
)

func main() {
	// 載入設定
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	log.Info().Msg("Starting Gmail Sender API Server...")

	// Gmail SMTP 傳輸 (每個請求使用寄件者自己的認證)
	transports := services.NewGmailSMTPFactory(cfg)
	log.Info().
		Str("smtp_host", cfg.GmailSMTPHost).
		Int("smtp_port", cfg.GmailSMTPPort).
		Str("smtp_tls", cfg.GmailSMTPTLSMode).
		Msg("Gmail transport configured")

	// 註冊路由
	router := routes.NewRouter(&routes.Dependencies{
		Config:     cfg,
		Logger:     log,
		Transports: transports,
	})

	// 建立 HTTP Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// 優雅關機
	go func() {
		log.Info().Msgf("Gmail Sender Service Running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("API Server stopped")
}
