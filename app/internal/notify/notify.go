// Package notify delivers slot alerts and heartbeats over email and a chat
// webhook. Delivery is best effort: each channel logs its own failures and
// never aborts the monitoring cycle.
package notify

import (
	"log"
	"net/http"
	"time"
)

// Config holds the notifier transport settings.
type Config struct {
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string
	MailTo   string

	// ExtraTo receives priority alerts on top of MailTo.
	ExtraTo []string

	// WebhookURL is the chat webhook endpoint; empty disables the channel.
	WebhookURL string
}

// Manager fans a message out to the configured channels.
type Manager struct {
	cfg  Config
	http *http.Client
}

// NewManager creates a notifier manager.
func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Broadcast sends a message through every configured channel, logging and
// swallowing per-channel failures.
func (m *Manager) Broadcast(subject, body string) {
	if err := m.SendEmail(subject, body, nil); err != nil {
		log.Printf("email send failed: %v", err)
	}
	if err := m.SendWebhook(subject + "\n" + body); err != nil {
		log.Printf("webhook send failed: %v", err)
	}
}

// BroadcastPriority is Broadcast with the extra recipient list included on
// the email, used for time-sensitive alerts.
func (m *Manager) BroadcastPriority(subject, body string) {
	if err := m.SendEmail(subject, body, m.cfg.ExtraTo); err != nil {
		log.Printf("priority email send failed: %v", err)
	}
	if err := m.SendWebhook(subject + "\n" + body); err != nil {
		log.Printf("webhook send failed: %v", err)
	}
}
