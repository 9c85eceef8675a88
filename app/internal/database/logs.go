package database

import "slotwatch/app/internal/models"

// LogLevel constants
const (
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// LogCategory constants
const (
	LogCategoryCycle     = "cycle"
	LogCategoryEmail     = "email"
	LogCategoryWebhook   = "webhook"
	LogCategoryHeartbeat = "heartbeat"
	LogCategorySystem    = "system"
)

// InsertLog adds a new log entry
func InsertLog(level, category, message, details string) error {
	if DB == nil {
		return nil
	}
	_, err := DB.Exec(`INSERT INTO system_logs (timestamp, level, category, message, details)
		VALUES (datetime('now'), ?, ?, ?, ?)`,
		level, category, message, details)
	return err
}

// GetLogs retrieves logs with optional level/category filtering
func GetLogs(limit int, level, category string) ([]models.LogEntry, error) {
	query := `SELECT id, timestamp, level, category, message, COALESCE(details, '')
		FROM system_logs WHERE 1=1`
	args := []interface{}{}

	if level != "" {
		query += " AND level = ?"
		args = append(args, level)
	}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}

	query += " ORDER BY timestamp DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.LogEntry
	for rows.Next() {
		var log models.LogEntry
		if err := rows.Scan(&log.ID, &log.Timestamp, &log.Level, &log.Category, &log.Message, &log.Details); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// PruneLogs removes old logs to keep the database size manageable (keeps last N logs)
func PruneLogs(keepCount int) error {
	if DB == nil {
		return nil
	}
	_, err := DB.Exec(`DELETE FROM system_logs WHERE id NOT IN (
		SELECT id FROM system_logs ORDER BY timestamp DESC, id DESC LIMIT ?
	)`, keepCount)
	return err
}
