package database

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"slotwatch/app/internal/models"
)

// DB is the global database instance
var DB *sql.DB

// Init initializes the database connection and creates schema
func Init(dbPath string) error {
	var err error
	DB, err = sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	return EnsureSchema()
}

// EnsureSchema creates all necessary database tables
func EnsureSchema() error {
	_, err := DB.Exec(`
CREATE TABLE IF NOT EXISTS sightings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  seen_at TEXT NOT NULL,
  slot_date TEXT NOT NULL,
  slot_time TEXT NOT NULL,
  datetime_key TEXT NOT NULL,
  source_url TEXT
);
CREATE INDEX IF NOT EXISTS idx_sightings_seen ON sightings(seen_at);
CREATE INDEX IF NOT EXISTS idx_sightings_key ON sightings(datetime_key);

CREATE TABLE IF NOT EXISTS system_logs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  timestamp TEXT NOT NULL,
  level TEXT NOT NULL,
  category TEXT NOT NULL,
  message TEXT NOT NULL,
  details TEXT
);
CREATE INDEX IF NOT EXISTS idx_logs_timestamp ON system_logs(timestamp);
`)
	return err
}

// InsertSighting records a newly observed slot
func InsertSighting(ts time.Time, slot models.Slot, sourceURL string) error {
	if DB == nil {
		return nil
	}
	_, err := DB.Exec(`INSERT INTO sightings (seen_at, slot_date, slot_time, datetime_key, source_url)
		VALUES (?,?,?,?,?)`,
		ts.UTC().Format(time.RFC3339), slot.Date, slot.Time, slot.Key, sourceURL)
	return err
}

// GetRecentSightings returns the most recently recorded sightings
func GetRecentSightings(limit int) ([]models.Sighting, error) {
	rows, err := DB.Query(`SELECT id, seen_at, slot_date, slot_time, datetime_key, COALESCE(source_url, '')
		FROM sightings ORDER BY seen_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Sighting
	for rows.Next() {
		var s models.Sighting
		if err := rows.Scan(&s.ID, &s.SeenAt, &s.SlotDate, &s.SlotTime, &s.Key, &s.Source); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
