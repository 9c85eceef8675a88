package models

// Slot represents a candidate appointment start extracted from the booking page
type Slot struct {
	Date string `json:"date"`         // YYYY-MM-DD
	Time string `json:"time"`         // HH:MM, local to the source page
	Key  string `json:"datetime_key"` // YYYY-MM-DDTHH:MM, identity for dedup and diffing
}

// Sighting records when a slot was first observed and on which page
type Sighting struct {
	ID       int64  `json:"id"`
	SeenAt   string `json:"seen_at"`
	SlotDate string `json:"slot_date"`
	SlotTime string `json:"slot_time"`
	Key      string `json:"datetime_key"`
	Source   string `json:"source_url"`
}

// LogEntry represents a system log record
type LogEntry struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Category  string `json:"category"`
	Message   string `json:"message"`
	Details   string `json:"details"`
}
