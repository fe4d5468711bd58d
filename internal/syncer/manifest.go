// Package syncer implements the multi-writer deal synchronization cycle:
// building and uploading sync manifests, downloading peer manifests and
// merging them into the local deal list.
package syncer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/dealsync/internal/common"
	"github.com/dmitrijs2005/dealsync/internal/models"
)

// Manifest is the unit of exchange: one user's full deal set, the ids they
// still consider active, and their tombstone list.
//
// ActiveDealIDs distinguishes nil from empty. Nil means the sender did not
// report an active set (legacy blob) and deletion-by-absence is skipped; an
// empty non-nil set means the sender owns no live deals.
type Manifest struct {
	UserID        string             `json:"user_id"`
	Timestamp     string             `json:"timestamp"`
	ActiveDealIDs []string           `json:"active_deal_ids"`
	DeletedDeals  []models.Tombstone `json:"deleted_deals"`
	Deals         []models.Deal      `json:"deals"`
}

// DecodeManifest parses a downloaded blob. Older instances uploaded a bare
// JSON array of deals with no wrapper object; those are still accepted and
// normalized into a Manifest with no user id and a nil active set.
func DecodeManifest(data []byte) (*Manifest, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty blob", common.ErrManifestDecode)
	}

	if trimmed[0] == '[' {
		var deals []models.Deal
		if err := json.Unmarshal(trimmed, &deals); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrManifestDecode, err)
		}
		return &Manifest{Deals: deals}, nil
	}

	var m Manifest
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrManifestDecode, err)
	}
	return &m, nil
}

// EncodeManifest serializes a manifest for upload.
func EncodeManifest(m *Manifest) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
