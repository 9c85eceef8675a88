package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"slotwatch/app/internal/database"
)

// SendWebhook posts the message as JSON to the chat webhook. The response is
// not inspected beyond the transport completing.
func (m *Manager) SendWebhook(message string) error {
	if m.cfg.WebhookURL == "" {
		return nil
	}

	payload := map[string]string{"message": message}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", m.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "slotwatch/1.0")

	resp, err := m.http.Do(req)
	if err != nil {
		_ = database.InsertLog(database.LogLevelError, database.LogCategoryWebhook,
			"Webhook notification failed", err.Error())
		return err
	}
	defer resp.Body.Close()
	_ = database.InsertLog(database.LogLevelInfo, database.LogCategoryWebhook,
		"Webhook notification sent", fmt.Sprintf("status=%d", resp.StatusCode))
	return nil
}
