// Package heartbeat decides when the periodic liveness notification is due
// and persists the last-sent timestamp across restarts.
package heartbeat

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// State is the on-disk representation of the heartbeat timestamp.
type State struct {
	LastHeartbeatTS int64 `json:"last_heartbeat_ts"`
}

// Store persists the heartbeat state as a small JSON file.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the last heartbeat time. A missing or corrupt state file
// means "never sent" (the zero epoch).
func (s *Store) Load() time.Time {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return time.Unix(0, 0)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return time.Unix(0, 0)
	}
	return time.Unix(st.LastHeartbeatTS, 0)
}

// Save persists the given time as the last heartbeat timestamp.
func (s *Store) Save(ts time.Time) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.Marshal(State{LastHeartbeatTS: ts.Unix()})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Due reports whether a heartbeat should fire: the interval has fully
// elapsed since the last one. The boundary counts as due.
func Due(now, last time.Time, interval time.Duration) bool {
	return now.Sub(last) >= interval
}
