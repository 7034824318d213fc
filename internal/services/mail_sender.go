// internal/services/mail_sender.go
// 郵件發送服務共用介面

package services

import (
	"context"
	"fmt"

	"gmail-sender/internal/models"
)

// MailSender 郵件發送服務介面
type MailSender interface {
	// Send 發送郵件，只嘗試一次
	Send(ctx context.Context, msg *models.GmailMessage) error

	// Name 回傳服務名稱，用於 logging
	Name() string
}

// TransportFactory 依請求的認證資料建立傳輸層
// 每個請求都要建立新的 MailSender，認證資料不可快取
type TransportFactory interface {
	New(creds models.GmailCredentials) (MailSender, error)
}

// TransportStage 發送失敗時所在的階段
type TransportStage string

const (
	StageCompose TransportStage = "compose"
	StageDial    TransportStage = "dial"
	StageAuth    TransportStage = "auth"
	StageSend    TransportStage = "send"
)

// TransportError 傳輸層錯誤 (網路、認證、額度限制等)
type TransportError struct {
	Stage TransportStage
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gmail transport %s failed: %v", e.Stage, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func transportError(stage TransportStage, err error) error {
	return &TransportError{Stage: stage, Err: err}
}
