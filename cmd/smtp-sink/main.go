// cmd/smtp-sink/main.go
// 本機 SMTP Sink 入口程式
// 接收 API 發出的郵件並記錄在日誌中，不會轉發到外部
// 搭配 GMAIL_SMTP_HOST=localhost GMAIL_SMTP_PORT=2525 GMAIL_SMTP_TLS=none 使用

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gmail-sender/internal/config"
	"gmail-sender/internal/logger"
	"gmail-sender/internal/smtp"
)

func main() {
	// 載入設定
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat).WithComponent("smtp-sink")

	log.Info().Msg("啟動 SMTP Sink 服務...")

	// 建立 SMTP 伺服器
	smtpServer := smtp.NewServer(cfg, log)

	// 啟動 SMTP 伺服器（非同步）
	go func() {
		if err := smtpServer.Start(); err != nil {
			log.Fatal().Err(err).Msg("SMTP 伺服器錯誤")
		}
	}()

	log.Info().Msgf("SMTP Sink 已啟動，監聽埠號: %s，按 Ctrl+C 停止服務", cfg.SinkPort)

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// 優雅關機
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := smtpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("關閉 SMTP 伺服器時發生錯誤")
	}

	log.Info().Int("received", smtpServer.Inbox().Len()).Msg("SMTP Sink 已停止")
}
