// internal/models/mail.go
// 郵件資料模型

package models

import "time"

// EmailSendRequest 通過驗證的發送請求 (不落地，僅存在於單次請求)
type EmailSendRequest struct {
	SenderAddress   string
	AppPassword     string
	ReceiverAddress string
	Subject         *string // nil 表示未提供
	Body            string  // HTML
}

// Credentials 由請求的寄件者資料取得 SMTP 認證
func (r *EmailSendRequest) Credentials() GmailCredentials {
	return GmailCredentials{
		Username: r.SenderAddress,
		Password: r.AppPassword,
	}
}

// Message 建立要交給傳輸層發送的郵件
func (r *EmailSendRequest) Message() *GmailMessage {
	return &GmailMessage{
		From:    r.SenderAddress,
		To:      r.ReceiverAddress,
		Subject: r.Subject,
		HTML:    r.Body,
	}
}

// GmailCredentials 寄件者的 Gmail 帳號與應用程式密碼
type GmailCredentials struct {
	Username string
	Password string
}

// String 避免密碼出現在 log 中
func (c GmailCredentials) String() string {
	return c.Username + ":<redacted>"
}

// GmailMessage 傳輸層郵件格式
type GmailMessage struct {
	From    string
	To      string
	Subject *string
	HTML    string
}

// ReceivedMail SMTP Sink 收到的郵件
type ReceivedMail struct {
	ID          string    `json:"id"`
	AuthUser    string    `json:"auth_user,omitempty"`
	Envelope    Envelope  `json:"envelope"`
	From        []string  `json:"from,omitempty"`
	To          []string  `json:"to,omitempty"`
	Subject     string    `json:"subject"`
	MessageID   string    `json:"message_id,omitempty"`
	Text        string    `json:"text,omitempty"`
	HTML        string    `json:"html,omitempty"`
	Attachments []string  `json:"attachments,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	ReceivedAt  time.Time `json:"received_at"`
}

// Envelope SMTP 信封 (MAIL FROM / RCPT TO)
type Envelope struct {
	From string   `json:"from"`
	To   []string `json:"to"`
}
