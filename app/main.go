package main

import (
	"context"
	"log"

	"slotwatch/app/internal/config"
	"slotwatch/app/internal/database"
	"slotwatch/app/internal/extract"
	"slotwatch/app/internal/fetch"
	"slotwatch/app/internal/heartbeat"
	"slotwatch/app/internal/monitor"
	"slotwatch/app/internal/notify"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize the history database. A broken store degrades to logging
	// only; it never stops the watcher.
	if err := database.Init(cfg.DBPath); err != nil {
		log.Printf("Warning: failed to initialize database: %v", err)
	}

	fetcher := fetch.NewClient(cfg.WatchURLs, cfg.FetchTimeout)
	extractor := extract.New(cfg.WatchYears)
	notifier := notify.NewManager(notify.Config{
		SMTPHost:   cfg.SMTPHost,
		SMTPPort:   cfg.SMTPPort,
		SMTPUser:   cfg.SMTPUser,
		SMTPPass:   cfg.SMTPPass,
		MailFrom:   cfg.MailFrom,
		MailTo:     cfg.MailTo,
		ExtraTo:    cfg.ExtraMailTo,
		WebhookURL: cfg.WebhookURL,
	})
	store := heartbeat.NewStore(cfg.StatePath)

	mon := monitor.New(cfg, fetcher, extractor, notifier, store)
	mon.Run(context.Background())
}
