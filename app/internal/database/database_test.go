package database

import (
	"path/filepath"
	"testing"
	"time"

	"slotwatch/app/internal/models"
)

func initTestDB(t *testing.T) {
	t.Helper()
	if err := Init(filepath.Join(t.TempDir(), "test.db")); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() {
		DB.Close()
		DB = nil
	})
}

func TestInsertAndGetSightings(t *testing.T) {
	initTestDB(t)

	now := time.Now()
	slots := []models.Slot{
		{Date: "2025-06-01", Time: "09:30", Key: "2025-06-01T09:30"},
		{Date: "2025-06-02", Time: "11:00", Key: "2025-06-02T11:00"},
	}
	for _, s := range slots {
		if err := InsertSighting(now, s, "https://example.com/calendar"); err != nil {
			t.Fatalf("InsertSighting failed: %v", err)
		}
	}

	got, err := GetRecentSightings(10)
	if err != nil {
		t.Fatalf("GetRecentSightings failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d sightings, want 2", len(got))
	}
	// Same timestamp, so ordering falls back to id DESC (latest insert first).
	if got[0].Key != "2025-06-02T11:00" {
		t.Errorf("first sighting key = %q, want latest insert", got[0].Key)
	}
	if got[0].Source != "https://example.com/calendar" {
		t.Errorf("source = %q", got[0].Source)
	}
}

func TestGetRecentSightings_Limit(t *testing.T) {
	initTestDB(t)

	now := time.Now()
	for i := 0; i < 5; i++ {
		s := models.Slot{Date: "2025-06-01", Time: "09:30", Key: "2025-06-01T09:30"}
		if err := InsertSighting(now, s, ""); err != nil {
			t.Fatal(err)
		}
	}

	got, err := GetRecentSightings(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("got %d sightings, want 3", len(got))
	}
}

func TestInsertLog_AndFilter(t *testing.T) {
	initTestDB(t)

	if err := InsertLog(LogLevelInfo, LogCategoryEmail, "Email sent", "to=a@example.com"); err != nil {
		t.Fatalf("InsertLog failed: %v", err)
	}
	if err := InsertLog(LogLevelError, LogCategoryWebhook, "Webhook failed", "connection refused"); err != nil {
		t.Fatalf("InsertLog failed: %v", err)
	}

	all, err := GetLogs(10, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d logs, want 2", len(all))
	}

	errs, err := GetLogs(10, LogLevelError, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) != 1 || errs[0].Category != LogCategoryWebhook {
		t.Errorf("level filter returned %v", errs)
	}

	emails, err := GetLogs(10, "", LogCategoryEmail)
	if err != nil {
		t.Fatal(err)
	}
	if len(emails) != 1 || emails[0].Message != "Email sent" {
		t.Errorf("category filter returned %v", emails)
	}
}

func TestPruneLogs(t *testing.T) {
	initTestDB(t)

	for i := 0; i < 10; i++ {
		if err := InsertLog(LogLevelInfo, LogCategorySystem, "entry", ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := PruneLogs(4); err != nil {
		t.Fatalf("PruneLogs failed: %v", err)
	}

	logs, err := GetLogs(100, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 4 {
		t.Errorf("got %d logs after prune, want 4", len(logs))
	}
}

func TestNilDBIsNoop(t *testing.T) {
	DB = nil
	if err := InsertLog(LogLevelInfo, LogCategorySystem, "x", ""); err != nil {
		t.Errorf("InsertLog with nil DB should be a no-op, got %v", err)
	}
	if err := InsertSighting(time.Now(), models.Slot{}, ""); err != nil {
		t.Errorf("InsertSighting with nil DB should be a no-op, got %v", err)
	}
	if err := PruneLogs(1); err != nil {
		t.Errorf("PruneLogs with nil DB should be a no-op, got %v", err)
	}
}
