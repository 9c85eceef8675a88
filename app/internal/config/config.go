package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// SMTP
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailTo   string
	MailFrom string

	// Priority alerts (extra recipients for slots in the priority year)
	ExtraMailTo  []string
	PriorityYear string

	// Webhook
	WebhookURL string

	// Watch target
	WatchURLs    []string
	WatchYears   []string
	FetchTimeout time.Duration

	// Loop
	PollInterval      time.Duration
	HeartbeatInterval time.Duration
	StatePath         string
	DBPath            string
}

// Candidate URLs for the booking calendar. The page answers under a few
// slightly different query shapes; the fetcher tries them in order.
var defaultWatchURLs = []string{
	"https://rdvma18.apps.paris.fr/rdvma18/jsp/site/Portal.jsp?page=appointment&view=getViewAppointmentCalendar&id_form=44",
	"https://rdvma18.apps.paris.fr/rdvma18/jsp/site/Portal.jsp?page=appointment&view=getViewAppointmentCalendar&id_form=44&anchor=step3",
	"https://rdvma18.apps.paris.fr/rdvma18/jsp/site/Portal.jsp?page=appointment&id_form=44&anchor=step3",
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		SMTPHost:          getenv("SMTP_HOST", ""),
		SMTPPort:          envInt("SMTP_PORT", 465),
		SMTPUser:          getenv("SMTP_USER", ""),
		SMTPPass:          getenv("SMTP_PASS", ""),
		ExtraMailTo:       envList("EXTRA_MAIL_TO", nil),
		PriorityYear:      getenv("PRIORITY_YEAR", "2025"),
		WebhookURL:        getenv("WEBHOOK_URL", ""),
		WatchURLs:         envList("WATCH_URLS", defaultWatchURLs),
		WatchYears:        envList("WATCH_YEARS", []string{"2025", "2026"}),
		FetchTimeout:      envDurSecs("FETCH_TIMEOUT_SECS", 30),
		PollInterval:      envDurSecs("POLL_SECONDS", 10),
		HeartbeatInterval: envDurSecs("HEARTBEAT_SECONDS", 8*3600),
		StatePath:         getenv("HEARTBEAT_STATE_PATH", "/var/tmp/slotwatch_heartbeat.json"),
		DBPath:            getenv("DB_PATH", "./slotwatch.db"),
	}

	// MAIL_TO / MAIL_FROM default to the SMTP account
	cfg.MailTo = getenv("MAIL_TO", cfg.SMTPUser)
	cfg.MailFrom = getenv("MAIL_FROM", cfg.SMTPUser)

	var missing []string
	for _, req := range []struct{ key, val string }{
		{"SMTP_HOST", cfg.SMTPHost},
		{"SMTP_USER", cfg.SMTPUser},
		{"SMTP_PASS", cfg.SMTPPass},
		{"MAIL_TO", cfg.MailTo},
		{"MAIL_FROM", cfg.MailFrom},
	} {
		if req.val == "" {
			missing = append(missing, req.key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// Helper functions
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDurSecs(k string, def int) time.Duration {
	return time.Duration(envInt(k, def)) * time.Second
}

func envList(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
