// Package models defines the deal record and related types exchanged during
// synchronization.
package models

import (
	"encoding/json"
	"reflect"
)

// Note is a single note entry attached to a deal. Notes are append-only and
// are merged as a union by id.
type Note struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text,omitempty"`
	Author    string `json:"author,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// SyncMetadata carries provenance for a synchronized deal. It is informational
// only: merge decisions never depend on it and it is excluded from
// content-equality comparison.
type SyncMetadata struct {
	LastSynced   string `json:"last_synced,omitempty"`
	SyncedBy     string `json:"synced_by,omitempty"`
	ImportedFrom string `json:"imported_from,omitempty"`
	ImportedAt   string `json:"imported_at,omitempty"`
	LastMerged   string `json:"last_merged,omitempty"`
	MergedFrom   string `json:"merged_from,omitempty"`
}

// IsZero reports whether no provenance has been recorded yet.
func (m SyncMetadata) IsZero() bool {
	return m == SyncMetadata{}
}

// Deal is a sales-opportunity record, the unit of synchronization.
//
// Only the fields the merge engine reasons about are typed. Every other
// business field (forecast amount, status, customer, type, ...) is preserved
// verbatim in Fields and treated as opaque. Timestamps are ISO-8601 strings
// and are compared lexicographically, which orders them chronologically.
type Deal struct {
	ID            string
	OwnedBy       string
	CreatedBy     string
	CreatedAt     string
	UpdatedAt     string
	DateWon       string
	FinancialYear any
	Notes         []Note
	SyncMetadata  SyncMetadata
	Fields        map[string]any
}

// Keys lifted out of Fields into typed struct members.
const (
	keyID            = "id"
	keyOwnedBy       = "owned_by"
	keyCreatedBy     = "created_by"
	keyCreatedAt     = "created_at"
	keyUpdatedAt     = "updated_at"
	keyDateWon       = "date_won"
	keyFinancialYear = "financial_year"
	keyNotes         = "notes"
	keySyncMetadata  = "sync_metadata"
)

// UnmarshalJSON decodes a deal object, lifting the known keys into typed
// fields and keeping everything else in Fields.
func (d *Deal) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	take := func(key string, v any) error {
		msg, ok := raw[key]
		if !ok {
			return nil
		}
		delete(raw, key)
		return json.Unmarshal(msg, v)
	}

	if err := take(keyID, &d.ID); err != nil {
		return err
	}
	if err := take(keyOwnedBy, &d.OwnedBy); err != nil {
		return err
	}
	if err := take(keyCreatedBy, &d.CreatedBy); err != nil {
		return err
	}
	if err := take(keyCreatedAt, &d.CreatedAt); err != nil {
		return err
	}
	if err := take(keyUpdatedAt, &d.UpdatedAt); err != nil {
		return err
	}
	if err := take(keyDateWon, &d.DateWon); err != nil {
		return err
	}
	if err := take(keyFinancialYear, &d.FinancialYear); err != nil {
		return err
	}
	if err := take(keyNotes, &d.Notes); err != nil {
		return err
	}
	if err := take(keySyncMetadata, &d.SyncMetadata); err != nil {
		return err
	}

	if len(raw) > 0 {
		d.Fields = make(map[string]any, len(raw))
		for key, msg := range raw {
			var v any
			if err := json.Unmarshal(msg, &v); err != nil {
				return err
			}
			d.Fields[key] = v
		}
	}

	return nil
}

// MarshalJSON reassembles the deal into a flat JSON object so the wire format
// stays identical to what other instances produce and consume.
func (d Deal) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Fields)+9)
	for key, v := range d.Fields {
		out[key] = v
	}

	out[keyID] = d.ID
	if d.OwnedBy != "" {
		out[keyOwnedBy] = d.OwnedBy
	}
	if d.CreatedBy != "" {
		out[keyCreatedBy] = d.CreatedBy
	}
	if d.CreatedAt != "" {
		out[keyCreatedAt] = d.CreatedAt
	}
	if d.UpdatedAt != "" {
		out[keyUpdatedAt] = d.UpdatedAt
	}
	if d.DateWon != "" {
		out[keyDateWon] = d.DateWon
	}
	if d.FinancialYear != nil {
		out[keyFinancialYear] = d.FinancialYear
	}
	if d.Notes != nil {
		out[keyNotes] = d.Notes
	}
	if !d.SyncMetadata.IsZero() {
		out[keySyncMetadata] = d.SyncMetadata
	}

	return json.Marshal(out)
}

// Clone returns a copy safe to modify independently: the notes slice and the
// business-field map are copied. Nested values inside Fields are shared; the
// merge engine only ever replaces whole values, never mutates them in place.
func (d Deal) Clone() Deal {
	c := d
	if d.Notes != nil {
		c.Notes = make([]Note, len(d.Notes))
		copy(c.Notes, d.Notes)
	}
	if d.Fields != nil {
		c.Fields = make(map[string]any, len(d.Fields))
		for key, v := range d.Fields {
			c.Fields[key] = v
		}
	}
	return c
}

// UpdatedOrCreated returns the timestamp used for conflict resolution:
// updated_at, falling back to created_at when a record was never updated.
func (d Deal) UpdatedOrCreated() string {
	if d.UpdatedAt != "" {
		return d.UpdatedAt
	}
	return d.CreatedAt
}

// CompanyName returns a human-readable label for reports. Deals created
// through different UI versions carry either customerName or company_name.
func (d Deal) CompanyName() string {
	for _, key := range []string{"customerName", "company_name"} {
		if s, ok := d.Fields[key].(string); ok && s != "" {
			return s
		}
	}
	return "Unknown"
}

// ContentEquals compares the business content of two deals, excluding
// sync_metadata, updated_at and notes. Used for same-timestamp conflict
// detection.
func (d Deal) ContentEquals(other Deal) bool {
	if d.ID != other.ID ||
		d.OwnedBy != other.OwnedBy ||
		d.CreatedBy != other.CreatedBy ||
		d.CreatedAt != other.CreatedAt ||
		d.DateWon != other.DateWon {
		return false
	}
	if !reflect.DeepEqual(d.FinancialYear, other.FinancialYear) {
		return false
	}
	if len(d.Fields) == 0 && len(other.Fields) == 0 {
		return true
	}
	return reflect.DeepEqual(d.Fields, other.Fields)
}
