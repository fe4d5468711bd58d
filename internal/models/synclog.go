package models

// SyncLogEntry is one line of the local sync audit trail. The log is an
// append-only JSON file capped to the most recent entries; merge logic never
// reads it.
type SyncLogEntry struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Filename  string `json:"filename"`
	UserID    string `json:"user_id"`
	DealCount int    `json:"deal_count"`
}

// Conflict describes a same-timestamp content divergence found during merge.
// The merge still proceeds; the conflict is reported for awareness.
type Conflict struct {
	DealID        string `json:"deal_id"`
	Company       string `json:"company"`
	LocalUpdated  string `json:"local_updated"`
	RemoteUpdated string `json:"remote_updated"`
	Type          string `json:"type"`
}
