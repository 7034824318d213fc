// internal/logger/logger.go
// 日誌模組 - zerolog 封裝

package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger 應用程式 Logger
type Logger struct {
	zerolog.Logger
}

// New 建立 Logger，format 為 "console" 或 "text" 時輸出人類可讀格式，其餘為 JSON
func New(level, format string) *Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter 建立輸出到指定 writer 的 Logger
func NewWithWriter(w io.Writer, level, format string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if format == "text" || format == "console" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	return &Logger{
		Logger: zerolog.New(w).Level(lvl).With().Timestamp().Logger(),
	}
}

// Nop 不輸出任何內容的 Logger (測試用)
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// WithRequestID 附加 request ID
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.With().Str("request_id", requestID).Logger(),
	}
}

// WithComponent 附加元件名稱
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.With().Str("component", component).Logger(),
	}
}

// HTTPRequest 記錄 HTTP 請求
func (l *Logger) HTTPRequest(requestID, method, path string, statusCode int, duration time.Duration, clientIP string) {
	event := l.Info()
	if statusCode >= 500 {
		event = l.Error()
	} else if statusCode >= 400 {
		event = l.Warn()
	}

	event.
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", statusCode).
		Dur("duration", duration).
		Str("client_ip", clientIP).
		Msg("HTTP request")
}
