package smtp

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"

	"gmail-sender/internal/config"
	"gmail-sender/internal/logger"
	"gmail-sender/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		SinkPort:             "0",
		SinkDomain:           "sink.test",
		SinkMaxMessageSizeMB: 1,
		SinkInboxSize:        10,
	}
}

func startServer(t *testing.T, cfg *config.Config) (*Server, string) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := NewServer(cfg, logger.Nop())
	go srv.Serve(l)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})

	return srv, l.Addr().String()
}

const rawHTMLMail = "From: Sender <sender123@gmail.com>\r\n" +
	"To: receiver123@gmail.com\r\n" +
	"Subject: Greetings\r\n" +
	"Message-Id: <abc@sink.test>\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<p>Hello</p>\r\n"

func TestServerReceivesAuthenticatedMail(t *testing.T) {
	srv, addr := startServer(t, testConfig())

	c, err := gosmtp.Dial(addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	if err := c.Auth(sasl.NewPlainClient("", "sender123@gmail.com", "abcd efgh ijkl mnop")); err != nil {
		t.Fatalf("auth: %v", err)
	}
	if err := c.SendMail("sender123@gmail.com", []string{"receiver123@gmail.com"}, strings.NewReader(rawHTMLMail)); err != nil {
		t.Fatalf("send: %v", err)
	}
	c.Quit()

	got, ok := srv.Inbox().Latest()
	if !ok {
		t.Fatal("inbox is empty")
	}
	if got.AuthUser != "sender123@gmail.com" {
		t.Errorf("AuthUser = %q", got.AuthUser)
	}
	if got.Envelope.From != "sender123@gmail.com" || len(got.Envelope.To) != 1 || got.Envelope.To[0] != "receiver123@gmail.com" {
		t.Errorf("Envelope = %+v", got.Envelope)
	}
	if got.Subject != "Greetings" {
		t.Errorf("Subject = %q", got.Subject)
	}
	if got.MessageID != "abc@sink.test" {
		t.Errorf("MessageID = %q", got.MessageID)
	}
	if len(got.From) != 1 || got.From[0] != "sender123@gmail.com" {
		t.Errorf("From = %v", got.From)
	}
	if !strings.Contains(got.HTML, "<p>Hello</p>") {
		t.Errorf("HTML = %q", got.HTML)
	}
	if got.SizeBytes == 0 {
		t.Error("SizeBytes should be recorded")
	}
}

func TestServerRequiresAuthWhenConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.SinkAuthRequired = true
	srv, addr := startServer(t, cfg)

	c, err := gosmtp.Dial(addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	if err := c.Mail("sender123@gmail.com", nil); err == nil {
		t.Fatal("MAIL FROM without AUTH should be rejected")
	}
	if srv.Inbox().Len() != 0 {
		t.Errorf("inbox should stay empty, got %d", srv.Inbox().Len())
	}
}

func TestServerRejectsDisallowedDomain(t *testing.T) {
	cfg := testConfig()
	cfg.SinkAllowedDomains = []string{"@gmail.com"}
	_, addr := startServer(t, cfg)

	c, err := gosmtp.Dial(addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	if err := c.Mail("someone@example.org", nil); err == nil {
		t.Fatal("sender outside allowed domains should be rejected")
	}
	if err := c.Mail("sender123@GMAIL.com", nil); err != nil {
		t.Fatalf("allowed domain rejected: %v", err)
	}
}

func TestSessionParsesMultipartMail(t *testing.T) {
	raw := "From: a@gmail.com\r\n" +
		"To: b@gmail.com\r\n" +
		"Subject: Report\r\n" +
		"Content-Type: multipart/mixed; boundary=BOUNDARY\r\n" +
		"\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"plain body\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: application/pdf\r\n" +
		"Content-Disposition: attachment; filename=\"report.pdf\"\r\n" +
		"\r\n" +
		"%PDF-1.4\r\n" +
		"--BOUNDARY--\r\n"

	s := NewSession(testConfig(), logger.Nop(), NewInbox(1))
	got := s.parseMailData([]byte(raw))

	if got.Subject != "Report" {
		t.Errorf("Subject = %q", got.Subject)
	}
	if !strings.Contains(got.Text, "plain body") {
		t.Errorf("Text = %q", got.Text)
	}
	if len(got.Attachments) != 1 || got.Attachments[0] != "report.pdf" {
		t.Errorf("Attachments = %v", got.Attachments)
	}
}

func TestInboxDropsOldest(t *testing.T) {
	inbox := NewInbox(2)
	for _, id := range []string{"1", "2", "3"} {
		inbox.Add(models.ReceivedMail{ID: id})
	}

	list := inbox.List()
	if len(list) != 2 || list[0].ID != "2" || list[1].ID != "3" {
		t.Fatalf("List = %+v", list)
	}
	if latest, _ := inbox.Latest(); latest.ID != "3" {
		t.Errorf("Latest = %q, want 3", latest.ID)
	}
	if _, ok := NewInbox(0).Latest(); ok {
		t.Error("empty inbox should report no latest mail")
	}
}

func TestCleanEmail(t *testing.T) {
	if got := cleanEmail(" <a@gmail.com> "); got != "a@gmail.com" {
		t.Errorf("cleanEmail = %q", got)
	}
}
