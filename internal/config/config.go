// internal/config/config.go
// 設定模組 - 載入環境變數

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// SMTP 連線加密模式
const (
	TLSModeImplicit = "implicit" // 直接建立 TLS 連線 (Gmail 465)
	TLSModeStartTLS = "starttls" // 明文連線後升級 (Gmail 587)
	TLSModeNone     = "none"     // 不加密，僅供本機 SMTP Sink 使用
)

// Config 應用程式設定
type Config struct {
	// 環境
	Env  string
	Port string

	// Logging
	LogLevel  string
	LogFormat string

	// Gmail SMTP 傳輸
	GmailSMTPHost    string
	GmailSMTPPort    int
	GmailSMTPTLSMode string

	// 優雅關機
	ShutdownTimeout time.Duration

	// SMTP Sink (本機開發用)
	SinkPort             string
	SinkDomain           string
	SinkAuthRequired     bool
	SinkAllowedDomains   []string
	SinkMaxMessageSizeMB int
	SinkInboxSize        int
}

// Load 載入設定
func Load() *Config {
	// 嘗試載入 .env 檔案 (開發環境)
	_ = godotenv.Load()

	return &Config{
		// 環境
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "3000"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Gmail SMTP
		GmailSMTPHost:    getEnv("GMAIL_SMTP_HOST", "smtp.gmail.com"),
		GmailSMTPPort:    getEnvAsInt("GMAIL_SMTP_PORT", 465),
		GmailSMTPTLSMode: getEnvAsTLSMode("GMAIL_SMTP_TLS", TLSModeImplicit),

		ShutdownTimeout: time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second,

		// SMTP Sink
		SinkPort:             getEnv("SINK_PORT", "2525"),
		SinkDomain:           getEnv("SINK_DOMAIN", "gmail-sender.local"),
		SinkAuthRequired:     getEnvAsBool("SINK_AUTH_REQUIRED", false),
		SinkAllowedDomains:   getEnvAsSlice("SINK_ALLOWED_DOMAINS", []string{}),
		SinkMaxMessageSizeMB: getEnvAsInt("SINK_MAX_MESSAGE_SIZE_MB", 25),
		SinkInboxSize:        getEnvAsInt("SINK_INBOX_SIZE", 100),
	}
}

// IsProduction 是否為正式環境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv 取得環境變數，若不存在則回傳預設值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt 取得環境變數並轉換為整數
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool 取得環境變數並轉換為布林值
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getEnvAsSlice 取得環境變數並轉換為字串切片（以逗號分隔）
func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return defaultValue
}

// getEnvAsTLSMode 取得 TLS 模式，無法辨識的值使用預設值
func getEnvAsTLSMode(key, defaultValue string) string {
	switch mode := strings.ToLower(getEnv(key, defaultValue)); mode {
	case TLSModeImplicit, TLSModeStartTLS, TLSModeNone:
		return mode
	default:
		return defaultValue
	}
}
