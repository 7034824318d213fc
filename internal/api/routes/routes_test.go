package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"gmail-sender/internal/api/handlers"
	"gmail-sender/internal/api/middlewares"
	"gmail-sender/internal/config"
	"gmail-sender/internal/logger"
	"gmail-sender/internal/models"
	"gmail-sender/internal/services"
)

type okFactory struct{ sends int }

func (f *okFactory) New(models.GmailCredentials) (services.MailSender, error) { return f, nil }
func (f *okFactory) Name() string { return "ok" }
func (f *okFactory) Send(context.Context, *models.GmailMessage) error {
	f.sends++
	return nil
}

func newTestRouter(f services.TransportFactory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(&Dependencies{
		Config:     &config.Config{Env: "test"},
		Logger:     logger.Nop(),
		Transports: f,
	})
}

func TestLiveness(t *testing.T) {
	router := newTestRouter(&okFactory{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", w.Code)
	}
	if w.Body.String() != handlers.LivenessMessage {
		t.Errorf("GET / body = %q", w.Body.String())
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("HEAD / status = %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("HEAD / should not write a body, got %q", w.Body.String())
	}
}

func TestSendGmailRoute(t *testing.T) {
	f := &okFactory{}
	router := newTestRouter(f)

	payload := `{"senderGmailAddress":"sender123@gmail.com","senderGmailAppPassword":"abcdefghijklmnop","receiverGmailAddress":"receiver123@gmail.com","gmailBody":"<p>Hi</p>"}`
	req := httptest.NewRequest(http.MethodPost, "/sendGmail", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
	}
	if f.sends != 1 {
		t.Errorf("sends = %d, want 1", f.sends)
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(&okFactory{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get(middlewares.RequestIDHeader) == "" {
		t.Error("response should carry a generated request ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middlewares.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get(middlewares.RequestIDHeader); got != "abc-123" {
		t.Errorf("request ID = %q, want inbound abc-123", got)
	}
}

func TestCORS(t *testing.T) {
	router := newTestRouter(&okFactory{})

	req := httptest.NewRequest(http.MethodOptions, "/sendGmail", nil)
	req.Header.Set("Origin", "http://frontend.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://frontend.test")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("simple request Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middlewares.RequestID(), middlewares.Recovery(logger.Nop()))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "boom") {
		t.Error("panic value leaked to the client")
	}
}
