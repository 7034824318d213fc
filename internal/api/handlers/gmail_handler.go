// internal/api/handlers/gmail_handler.go
// Gmail 發送 API Handler

package handlers

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"gmail-sender/internal/api/middlewares"
	"gmail-sender/internal/logger"
	"gmail-sender/internal/services"
	"gmail-sender/internal/validation"
)

// 固定回應訊息
const (
	MessageSent           = "Gmail sent successfully"
	MessageInvalidRequest = "Invalid Gmail Data Credentials/Format"
	MessageSendFailed     = "Unable to send gmail"
	MessageMalformedJSON  = "Malformed JSON payload"
)

// GmailHandler Gmail Handler
type GmailHandler struct {
	log        *logger.Logger
	transports services.TransportFactory
}

// NewGmailHandler 建立 Gmail Handler
func NewGmailHandler(log *logger.Logger, transports services.TransportFactory) *GmailHandler {
	return &GmailHandler{
		log:        log,
		transports: transports,
	}
}

// Send 驗證請求並透過寄件者的 Gmail 帳號發送一封郵件
func (h *GmailHandler) Send(c *gin.Context) {
	log := h.log.WithRequestID(middlewares.GetRequestID(c))

	// 未預期的錯誤一律回 500，不外洩細節
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("unexpected error while sending gmail")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": MessageSendFailed})
		}
	}()

	raw, err := readJSONBody(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to read request body")
		c.JSON(http.StatusInternalServerError, gin.H{"message": MessageSendFailed})
		return
	}

	// 驗證請求格式
	req, issues, err := validation.Validate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": MessageMalformedJSON})
		return
	}
	if len(issues) > 0 {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": MessageInvalidRequest,
			"issues":  validation.Messages(issues),
		})
		return
	}

	// 每個請求使用寄件者自己的認證建立新的傳輸
	transport, err := h.transports.New(req.Credentials())
	if err != nil {
		log.Error().Err(err).Str("sender", req.SenderAddress).Msg("failed to create gmail transport")
		c.JSON(http.StatusInternalServerError, gin.H{"message": MessageSendFailed})
		return
	}

	// 用戶端斷線也要把這次發送做完
	ctx := context.WithoutCancel(c.Request.Context())

	if err := transport.Send(ctx, req.Message()); err != nil {
		event := log.Warn()
		var terr *services.TransportError
		if errors.As(err, &terr) {
			event = event.Str("stage", string(terr.Stage))
		} else {
			event = log.Error()
		}
		event.Err(err).
			Str("transport", transport.Name()).
			Str("sender", req.SenderAddress).
			Str("receiver", req.ReceiverAddress).
			Msg("failed to send gmail")

		c.JSON(http.StatusInternalServerError, gin.H{"message": MessageSendFailed})
		return
	}

	log.Info().
		Str("transport", transport.Name()).
		Str("sender", req.SenderAddress).
		Str("receiver", req.ReceiverAddress).
		Msg("gmail sent")

	c.JSON(http.StatusOK, gin.H{"message": MessageSent})
}

// readJSONBody 讀取請求內容，非 JSON 的 Content-Type 視為空物件
func readJSONBody(c *gin.Context) ([]byte, error) {
	if !isJSONContentType(c.GetHeader("Content-Type")) {
		return nil, nil
	}
	return c.GetRawData()
}

func isJSONContentType(value string) bool {
	if value == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return false
	}
	return mediaType == gin.MIMEJSON
}
