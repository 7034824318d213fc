// internal/smtp/server.go
// SMTP Sink 伺服器 - 本機開發與測試用，收信後只記錄不轉發

package smtp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	gosmtp "github.com/emersion/go-smtp"

	"gmail-sender/internal/config"
	"gmail-sender/internal/logger"
)

// Server SMTP Sink 伺服器
type Server struct {
	cfg        *config.Config
	log        *logger.Logger
	inbox      *Inbox
	smtpServer *gosmtp.Server
}

// NewServer 建立 SMTP 伺服器
func NewServer(cfg *config.Config, log *logger.Logger) *Server {
	inbox := NewInbox(cfg.SinkInboxSize)

	s := gosmtp.NewServer(NewBackend(cfg, log, inbox))
	s.Addr = fmt.Sprintf(":%s", cfg.SinkPort)
	s.Domain = cfg.SinkDomain
	s.ReadTimeout = 30 * time.Second
	s.WriteTimeout = 30 * time.Second
	s.MaxMessageBytes = int64(cfg.SinkMaxMessageSizeMB) * 1024 * 1024
	s.MaxRecipients = 50
	s.AllowInsecureAuth = true // 只在本機使用，不啟用 TLS

	return &Server{
		cfg:        cfg,
		log:        log,
		inbox:      inbox,
		smtpServer: s,
	}
}

// Inbox 取得收件匣
func (s *Server) Inbox() *Inbox {
	return s.inbox
}

// Start 啟動 SMTP 伺服器（阻塞式）
func (s *Server) Start() error {
	s.logSettings()

	if err := s.smtpServer.ListenAndServe(); err != nil && !errors.Is(err, gosmtp.ErrServerClosed) {
		return fmt.Errorf("SMTP server error: %w", err)
	}
	return nil
}

// Serve 在指定的 listener 上提供服務（阻塞式）
func (s *Server) Serve(l net.Listener) error {
	s.logSettings()

	if err := s.smtpServer.Serve(l); err != nil && !errors.Is(err, gosmtp.ErrServerClosed) {
		return fmt.Errorf("SMTP server error: %w", err)
	}
	return nil
}

// Shutdown 優雅關機
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("[SMTP] 正在關閉伺服器...")
	return s.smtpServer.Shutdown(ctx)
}

func (s *Server) logSettings() {
	event := s.log.Info().
		Str("addr", s.smtpServer.Addr).
		Bool("auth_required", s.cfg.SinkAuthRequired).
		Int("max_message_size_mb", s.cfg.SinkMaxMessageSizeMB)

	if len(s.cfg.SinkAllowedDomains) > 0 {
		event = event.Strs("allowed_domains", s.cfg.SinkAllowedDomains)
	}

	event.Msg("[SMTP] 伺服器啟動中...")
}
