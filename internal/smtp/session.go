// internal/smtp/session.go
// SMTP Session 處理 - 接收郵件並解析 MIME 格式

package smtp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"
	"github.com/google/uuid"

	"gmail-sender/internal/config"
	"gmail-sender/internal/logger"
	"gmail-sender/internal/models"
)

// Session 實作 smtp.Session 與 smtp.AuthSession 介面
// 處理單一 SMTP 連線的郵件接收
type Session struct {
	cfg   *config.Config
	log   *logger.Logger
	inbox *Inbox

	authUser string   // AUTH 成功的帳號
	from     string   // 寄件者地址
	to       []string // 收件者地址列表
}

// NewSession 建立新的 Session
func NewSession(cfg *config.Config, log *logger.Logger, inbox *Inbox) *Session {
	return &Session{
		cfg:   cfg,
		log:   log,
		inbox: inbox,
		to:    make([]string, 0),
	}
}

// AuthMechanisms 支援的認證機制
func (s *Session) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

// Auth 處理 AUTH 指令
// Sink 接受任何帳密，只記錄帳號
func (s *Session) Auth(mech string) (sasl.Server, error) {
	if mech != sasl.Plain {
		return nil, gosmtp.ErrAuthUnknownMechanism
	}

	return sasl.NewPlainServer(func(identity, username, password string) error {
		if username == "" || password == "" {
			return errors.New("invalid credentials")
		}
		s.log.Info().Str("username", username).Msg("[SMTP] 認證成功")
		s.authUser = username
		return nil
	}), nil
}

// Mail 處理 MAIL FROM 指令
func (s *Session) Mail(from string, opts *gosmtp.MailOptions) error {
	if s.cfg.SinkAuthRequired && s.authUser == "" {
		return gosmtp.ErrAuthRequired
	}

	// 移除可能的角括號
	from = cleanEmail(from)
	s.log.Debug().Str("from", from).Msg("[SMTP] MAIL FROM")

	// 檢查是否在允許的網域清單中
	if len(s.cfg.SinkAllowedDomains) > 0 {
		allowed := false
		for _, domain := range s.cfg.SinkAllowedDomains {
			if strings.HasSuffix(strings.ToLower(from), strings.ToLower(domain)) {
				allowed = true
				break
			}
		}
		if !allowed {
			return &gosmtp.SMTPError{
				Code:         550,
				EnhancedCode: gosmtp.EnhancedCode{5, 7, 1},
				Message:      fmt.Sprintf("sender domain not allowed: %s", from),
			}
		}
	}

	s.from = from
	return nil
}

// Rcpt 處理 RCPT TO 指令
func (s *Session) Rcpt(to string, opts *gosmtp.RcptOptions) error {
	to = cleanEmail(to)
	s.log.Debug().Str("to", to).Msg("[SMTP] RCPT TO")

	s.to = append(s.to, to)
	return nil
}

// Data 處理 DATA 指令，接收郵件內容
func (s *Session) Data(r io.Reader) error {
	buf := new(bytes.Buffer)
	size, err := buf.ReadFrom(r)
	if err != nil {
		s.log.Warn().Err(err).Msg("[SMTP] 讀取郵件資料失敗")
		return fmt.Errorf("failed to read mail data: %w", err)
	}

	// 檢查郵件大小
	maxSizeBytes := int64(s.cfg.SinkMaxMessageSizeMB) * 1024 * 1024
	if size > maxSizeBytes {
		return gosmtp.ErrDataTooLarge
	}

	received := s.parseMailData(buf.Bytes())
	received.SizeBytes = size
	s.inbox.Add(received)

	s.log.Info().
		Str("mail_id", received.ID).
		Str("auth_user", received.AuthUser).
		Str("from", received.Envelope.From).
		Strs("to", received.Envelope.To).
		Str("subject", received.Subject).
		Int64("size_bytes", size).
		Msg("[SMTP] 收到郵件")

	return nil
}

// parseMailData 解析 MIME 郵件
// 無法解析時保留原始內容為純文字
func (s *Session) parseMailData(raw []byte) models.ReceivedMail {
	received := models.ReceivedMail{
		ID:       uuid.New().String(),
		AuthUser: s.authUser,
		Envelope: models.Envelope{
			From: s.from,
			To:   append([]string(nil), s.to...),
		},
		ReceivedAt: time.Now().UTC(),
	}

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil && mr == nil {
		s.log.Warn().Err(err).Msg("[SMTP] 無法解析 MIME，保留原始內容")
		received.Subject = "(No Subject)"
		received.Text = string(raw)
		return received
	}
	defer mr.Close()

	header := mr.Header
	received.Subject, _ = header.Subject()
	received.MessageID, _ = header.MessageID()
	received.From = addressList(header, "From")
	received.To = addressList(header, "To")

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("[SMTP] 解析郵件部分失敗")
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			content, _ := io.ReadAll(part.Body)

			if strings.HasPrefix(contentType, "text/html") {
				received.HTML = string(content)
			} else if strings.HasPrefix(contentType, "text/plain") || contentType == "" {
				received.Text = string(content)
			}

		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			if filename == "" {
				filename = fmt.Sprintf("attachment_%d", len(received.Attachments)+1)
			}
			received.Attachments = append(received.Attachments, filename)
		}
	}

	return received
}

// Reset 重置 Session 狀態 (保留認證)
func (s *Session) Reset() {
	s.from = ""
	s.to = make([]string, 0)
}

// Logout 處理 QUIT 指令
func (s *Session) Logout() error {
	s.log.Debug().Msg("[SMTP] Session 結束")
	return nil
}

// addressList 取出標頭中的地址
func addressList(header mail.Header, key string) []string {
	addrs, err := header.AddressList(key)
	if err != nil {
		return nil
	}

	out := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		out = append(out, addr.Address)
	}
	return out
}

// cleanEmail 清理郵件地址（移除角括號）
func cleanEmail(email string) string {
	email = strings.TrimSpace(email)
	email = strings.TrimPrefix(email, "<")
	email = strings.TrimSuffix(email, ">")
	return email
}
