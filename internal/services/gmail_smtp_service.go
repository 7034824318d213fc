// internal/services/gmail_smtp_service.go
// Gmail SMTP 郵件發送服務

package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"

	"gmail-sender/internal/config"
	"gmail-sender/internal/models"
)

// GmailSMTPFactory 依請求的寄件者認證建立 Gmail SMTP 傳輸
// 本身只保存連線端點，不保存任何認證資料
type GmailSMTPFactory struct {
	host      string
	port      int
	tlsMode   string
	tlsConfig *tls.Config
}

// NewGmailSMTPFactory 建立 Gmail SMTP 傳輸工廠
func NewGmailSMTPFactory(cfg *config.Config) *GmailSMTPFactory {
	return &GmailSMTPFactory{
		host:    cfg.GmailSMTPHost,
		port:    cfg.GmailSMTPPort,
		tlsMode: cfg.GmailSMTPTLSMode,
	}
}

// WithTLSConfig 指定 TLS 設定 (測試時信任自簽憑證用)
func (f *GmailSMTPFactory) WithTLSConfig(tlsConfig *tls.Config) *GmailSMTPFactory {
	f.tlsConfig = tlsConfig
	return f
}

// New 建立一次性的傳輸
func (f *GmailSMTPFactory) New(creds models.GmailCredentials) (MailSender, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, fmt.Errorf("gmail credentials are incomplete")
	}

	tlsConfig := f.tlsConfig
	if tlsConfig == nil {
		tlsConfig = &tls.Config{ServerName: f.host}
	}

	return &GmailSMTPTransport{
		addr:      net.JoinHostPort(f.host, strconv.Itoa(f.port)),
		tlsMode:   f.tlsMode,
		tlsConfig: tlsConfig,
		creds:     creds,
		now:       time.Now,
	}, nil
}

// GmailSMTPTransport 單次請求使用的 Gmail SMTP 傳輸
// 實作 MailSender interface
type GmailSMTPTransport struct {
	addr      string
	tlsMode   string
	tlsConfig *tls.Config
	creds     models.GmailCredentials
	now       func() time.Time
}

// Name 回傳服務名稱
func (t *GmailSMTPTransport) Name() string {
	return "Gmail SMTP"
}

// Send 發送郵件 (使用寄件者的應用程式密碼登入)
func (t *GmailSMTPTransport) Send(ctx context.Context, msg *models.GmailMessage) error {
	// 組裝 MIME 內容
	body, err := ComposeMessage(msg, t.now())
	if err != nil {
		return transportError(StageCompose, err)
	}

	// 建立連線
	client, err := t.dial(ctx)
	if err != nil {
		return transportError(StageDial, err)
	}
	defer client.Close()

	// SASL PLAIN 認證
	if err := client.Auth(sasl.NewPlainClient("", t.creds.Username, t.creds.Password)); err != nil {
		return transportError(StageAuth, err)
	}

	// 發送郵件
	if err := client.SendMail(msg.From, []string{msg.To}, bytes.NewReader(body)); err != nil {
		return transportError(StageSend, err)
	}

	// 已送出，QUIT 失敗不影響結果
	_ = client.Quit()
	return nil
}

// dial 依 TLS 模式建立 SMTP client
func (t *GmailSMTPTransport) dial(ctx context.Context) (*gosmtp.Client, error) {
	switch t.tlsMode {
	case config.TLSModeImplicit:
		dialer := &tls.Dialer{Config: t.tlsConfig}
		conn, err := dialer.DialContext(ctx, "tcp", t.addr)
		if err != nil {
			return nil, err
		}
		return gosmtp.NewClient(conn), nil

	case config.TLSModeStartTLS:
		var dialer net.Dialer
		conn, err := dialer.DialContext(ctx, "tcp", t.addr)
		if err != nil {
			return nil, err
		}
		client, err := gosmtp.NewClientStartTLS(conn, t.tlsConfig)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return client, nil

	case config.TLSModeNone:
		var dialer net.Dialer
		conn, err := dialer.DialContext(ctx, "tcp", t.addr)
		if err != nil {
			return nil, err
		}
		return gosmtp.NewClient(conn), nil

	default:
		return nil, fmt.Errorf("unsupported TLS mode: %q", t.tlsMode)
	}
}
