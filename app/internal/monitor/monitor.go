// Package monitor runs the polling loop: fetch, extract, diff, notify,
// heartbeat, sleep. A failed cycle is logged and the loop carries on.
package monitor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"slotwatch/app/internal/config"
	"slotwatch/app/internal/database"
	"slotwatch/app/internal/extract"
	"slotwatch/app/internal/fetch"
	"slotwatch/app/internal/heartbeat"
	"slotwatch/app/internal/models"
)

const (
	subjectTag   = "[slotwatch]"
	logKeepCount = 10000
)

// Fetcher retrieves the booking page.
type Fetcher interface {
	Fetch(ctx context.Context) (*fetch.Page, error)
}

// Notifier delivers alerts and heartbeats.
type Notifier interface {
	SendEmail(subject, body string, extraTo []string) error
	SendWebhook(message string) error
	Broadcast(subject, body string)
	BroadcastPriority(subject, body string)
}

// Monitor owns the last-seen slot state and drives the polling cycle.
type Monitor struct {
	cfg       *config.Config
	fetcher   Fetcher
	extractor *extract.Extractor
	notifier  Notifier
	store     *heartbeat.Store

	lastSlots []models.Slot
	lastHB    time.Time
}

// New creates a monitor. The last heartbeat time is loaded from the store so
// a restart neither re-fires a recent heartbeat nor suppresses an overdue one.
func New(cfg *config.Config, fetcher Fetcher, extractor *extract.Extractor, notifier Notifier, store *heartbeat.Store) *Monitor {
	return &Monitor{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extractor,
		notifier:  notifier,
		store:     store,
		lastHB:    store.Load(),
	}
}

// Run polls until the context is cancelled. The first cycle runs immediately.
func (m *Monitor) Run(ctx context.Context) {
	log.Printf("monitoring active, checking every %v", m.cfg.PollInterval)
	m.sendStartupTest()

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		m.cycle(ctx, time.Now())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// sendStartupTest exercises the priority alert path on boot so a broken mail
// configuration is noticed right away. Failure is logged, never fatal.
func (m *Monitor) sendStartupTest() {
	subject := subjectTag + " startup test, priority alert path"
	body := "This is an automatic test of the priority notification path.\n" +
		"If you received this message the system is working."
	if err := m.notifier.SendEmail(subject, body, m.cfg.ExtraMailTo); err != nil {
		log.Printf("startup test email failed: %v", err)
		return
	}
	log.Printf("startup test email sent")
}

func (m *Monitor) cycle(ctx context.Context, now time.Time) {
	page, err := m.fetcher.Fetch(ctx)
	if err != nil {
		log.Printf("[%s] collection error: %v", now.Format("15:04:05"), err)
		_ = database.InsertLog(database.LogLevelError, database.LogCategoryCycle, "Fetch failed", err.Error())
		return
	}

	slots := m.extractor.Extract(page.Body)
	fresh := extract.DetectNew(slots, m.lastSlots)
	if len(fresh) > 0 {
		m.announce(fresh, page.URL, now)
		m.lastSlots = slots
	} else {
		log.Printf("[%s] no new slots", now.Format("15:04:05"))
	}

	m.maybeHeartbeat(now, slots)
	_ = database.PruneLogs(logKeepCount)
}

// announce notifies about newly detected slots, with an additional urgent
// message for slots in the priority year.
func (m *Monitor) announce(fresh []models.Slot, sourceURL string, now time.Time) {
	lines := make([]string, 0, len(fresh))
	var priority []string
	for _, s := range fresh {
		line := s.Date + " " + s.Time
		lines = append(lines, line)
		if strings.HasPrefix(s.Date, m.cfg.PriorityYear+"-") {
			priority = append(priority, line)
		}
		if err := database.InsertSighting(now, s, sourceURL); err != nil {
			log.Printf("failed to record sighting %s: %v", s.Key, err)
		}
	}
	log.Printf("%d new slot(s): %s", len(fresh), strings.Join(lines, ", "))

	subject := fmt.Sprintf("%s %d new slot(s)", subjectTag, len(fresh))
	body := "New appointment slots detected:\n" + strings.Join(lines, "\n")
	m.notifier.Broadcast(subject, body)

	if len(priority) > 0 {
		urgentSubject := fmt.Sprintf("%s URGENT: %s slot available", subjectTag, m.cfg.PriorityYear)
		urgentBody := fmt.Sprintf("A %s slot was detected!\n\n%s\n\nCheck availability on the booking site immediately.",
			m.cfg.PriorityYear, strings.Join(priority, "\n"))
		m.notifier.BroadcastPriority(urgentSubject, urgentBody)
	}
}

// maybeHeartbeat sends the liveness summary when due. The timestamp is
// persisted only after a successful email dispatch so a failed send retries
// on the next cycle.
func (m *Monitor) maybeHeartbeat(now time.Time, slots []models.Slot) {
	if !heartbeat.Due(now, m.lastHB, m.cfg.HeartbeatInterval) {
		return
	}

	counts := make(map[string]int, len(m.cfg.WatchYears))
	for _, s := range slots {
		for _, y := range m.cfg.WatchYears {
			if strings.HasPrefix(s.Date, y+"-") {
				counts[y]++
				break
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "System OK %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Scan interval: %v\n", m.cfg.PollInterval)
	for _, y := range m.cfg.WatchYears {
		fmt.Fprintf(&b, "Slots observed (%s): %d\n", y, counts[y])
	}

	subject := subjectTag + " heartbeat, system alive"
	if err := m.notifier.SendEmail(subject, b.String(), nil); err != nil {
		log.Printf("heartbeat send failed: %v", err)
		_ = database.InsertLog(database.LogLevelError, database.LogCategoryHeartbeat, "Heartbeat send failed", err.Error())
		return
	}
	if err := m.notifier.SendWebhook(subject + "\n" + b.String()); err != nil {
		log.Printf("heartbeat webhook failed: %v", err)
	}

	m.lastHB = now
	if err := m.store.Save(now); err != nil {
		log.Printf("failed to persist heartbeat state: %v", err)
	}
	_ = database.InsertLog(database.LogLevelInfo, database.LogCategoryHeartbeat, "Heartbeat sent", "")
}
