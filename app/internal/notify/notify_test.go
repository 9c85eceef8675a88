package notify

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

// closedPort returns a port on localhost that refuses connections.
func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

func TestSendWebhook_PayloadShape(t *testing.T) {
	var gotBody []byte
	var gotContentType, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	m := NewManager(Config{WebhookURL: srv.URL})
	if err := m.SendWebhook("2 new slot(s) detected"); err != nil {
		t.Fatalf("SendWebhook failed: %v", err)
	}

	var payload map[string]string
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("webhook body is not JSON: %v", err)
	}
	if payload["message"] != "2 new slot(s) detected" {
		t.Errorf("message = %q", payload["message"])
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotUA != "slotwatch/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestSendWebhook_NoURLConfigured(t *testing.T) {
	m := NewManager(Config{})
	if err := m.SendWebhook("ignored"); err != nil {
		t.Errorf("unconfigured webhook should be a silent no-op, got %v", err)
	}
}

func TestSendWebhook_ErrorStatusIgnored(t *testing.T) {
	// The response is not inspected beyond the transport completing.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := NewManager(Config{WebhookURL: srv.URL})
	if err := m.SendWebhook("hello"); err != nil {
		t.Errorf("non-2xx webhook response should not be an error, got %v", err)
	}
}

func TestSendWebhook_TransportError(t *testing.T) {
	m := NewManager(Config{WebhookURL: "http://127.0.0.1:1/webhook"})
	if err := m.SendWebhook("hello"); err == nil {
		t.Error("expected an error for an unreachable webhook")
	}
}

func TestSendEmail_TransportError(t *testing.T) {
	m := NewManager(Config{
		SMTPHost: "127.0.0.1",
		SMTPPort: closedPort(t),
		SMTPUser: "u",
		SMTPPass: "p",
		MailFrom: "from@example.com",
		MailTo:   "to@example.com",
	})
	if err := m.SendEmail("subject", "body", nil); err == nil {
		t.Error("expected an error for an unreachable SMTP server")
	}
}

func TestBroadcast_ChannelFailureDoesNotBlockOthers(t *testing.T) {
	// Email transport is dead; the webhook must still receive the message.
	var webhookHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		webhookHits++
	}))
	defer srv.Close()

	m := NewManager(Config{
		SMTPHost:   "127.0.0.1",
		SMTPPort:   closedPort(t),
		MailFrom:   "from@example.com",
		MailTo:     "to@example.com",
		WebhookURL: srv.URL,
	})

	m.Broadcast("subject", "body") // must not panic or propagate
	if webhookHits != 1 {
		t.Errorf("webhook hits = %d, want 1 despite email failure", webhookHits)
	}
}

func TestBroadcastPriority_DoesNotPropagate(t *testing.T) {
	m := NewManager(Config{
		SMTPHost: "127.0.0.1",
		SMTPPort: closedPort(t),
		MailFrom: "from@example.com",
		MailTo:   "to@example.com",
		ExtraTo:  []string{"urgent@example.com"},
	})
	m.BroadcastPriority("subject", "body") // must not panic
}
