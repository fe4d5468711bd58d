package deals

import (
	"context"
	"path/filepath"

	"github.com/dmitrijs2005/dealsync/internal/filex"
	"github.com/dmitrijs2005/dealsync/internal/models"
)

const fileName = "deals.json"

// JSONFileRepository persists deals as a single JSON array, replaced
// atomically on save.
type JSONFileRepository struct {
	path string
}

func NewJSONFileRepository(dataDir string) *JSONFileRepository {
	return &JSONFileRepository{path: filepath.Join(dataDir, fileName)}
}

func (r *JSONFileRepository) Load(ctx context.Context) ([]models.Deal, error) {
	var list []models.Deal
	if _, err := filex.ReadJSON(r.path, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Deal{}
	}
	return list, nil
}

func (r *JSONFileRepository) Save(ctx context.Context, deals []models.Deal) error {
	if deals == nil {
		deals = []models.Deal{}
	}
	return filex.WriteJSON(r.path, deals)
}
