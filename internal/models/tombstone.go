package models

// Tombstone records that a deal was deleted, by whom and when. Tombstones are
// exchanged inside sync manifests so a deletion performed on one instance is
// not resurrected by another instance's older copy. DeletedAt is an ISO-8601
// timestamp; entries older than the retention window are pruned.
type Tombstone struct {
	DealID    string `json:"deal_id"`
	DeletedBy string `json:"deleted_by"`
	DeletedAt string `json:"deleted_at"`
}
