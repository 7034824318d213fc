// internal/smtp/backend.go
// SMTP Backend 介面實作 - 處理 SMTP 連線並建立 Session

package smtp

import (
	gosmtp "github.com/emersion/go-smtp"

	"gmail-sender/internal/config"
	"gmail-sender/internal/logger"
)

// Backend 實作 smtp.Backend 介面
type Backend struct {
	cfg   *config.Config // 應用程式設定
	log   *logger.Logger // 日誌
	inbox *Inbox         // 收件匣
}

// NewBackend 建立 SMTP Backend
func NewBackend(cfg *config.Config, log *logger.Logger, inbox *Inbox) *Backend {
	return &Backend{
		cfg:   cfg,
		log:   log,
		inbox: inbox,
	}
}

// NewSession 建立新的 SMTP Session
// 實作 smtp.Backend 介面
func (b *Backend) NewSession(c *gosmtp.Conn) (gosmtp.Session, error) {
	b.log.Debug().Str("remote", c.Conn().RemoteAddr().String()).Msg("[SMTP] 新連線")

	return NewSession(b.cfg, b.log, b.inbox), nil
}
