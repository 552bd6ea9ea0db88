package menu

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolboard/core/internal/models"
	"gorm.io/gorm"
)

// The navigation renders two levels: top entries and one dropdown under
// each. Deeper nesting is rejected outright.
const maxMenuDepth = 2

var ErrMenuTooDeep = errors.New("menu nesting exceeds two levels")

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Get returns the navigation tree, creating an empty document on first
// access.
func (s *Service) Get() (*models.MenuModel, error) {
	var m models.MenuModel
	err := s.db.Order("created_at ASC").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		m = models.MenuModel{Items: []models.MenuItem{}}
		return &m, s.db.Create(&m).Error
	}
	if err != nil {
		return nil, err
	}
	if m.Items == nil {
		m.Items = []models.MenuItem{}
	}
	return &m, nil
}

// Replace validates and persists a whole navigation tree. Children
// ride inside their parent, so dropping a top entry drops its subtree
// with it.
func (s *Service) Replace(ctx context.Context, items []models.MenuItem) error {
	if err := validateDepth(items, 1); err != nil {
		return err
	}
	assignIDs(items)

	m, err := s.Get()
	if err != nil {
		return err
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	return s.db.WithContext(ctx).Model(m).Update("items", items).Error
}

// FetchAll returns the top-level entries as raw documents for the
// dashboard editor. Each document carries its children.
func (s *Service) FetchAll(ctx context.Context) ([]json.RawMessage, error) {
	m, err := s.Get()
	if err != nil {
		return nil, err
	}
	out := make([]json.RawMessage, len(m.Items))
	for i := range m.Items {
		raw, err := json.Marshal(&m.Items[i])
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

// ReplaceAll swaps the whole tree for the given top-level documents.
func (s *Service) ReplaceAll(ctx context.Context, docs []json.RawMessage) error {
	items := make([]models.MenuItem, len(docs))
	for i, raw := range docs {
		if err := json.Unmarshal(raw, &items[i]); err != nil {
			return err
		}
	}
	return s.Replace(ctx, items)
}

// Normalize validates an edited entry before it lands in the draft.
func (s *Service) Normalize(_, next json.RawMessage) (json.RawMessage, error) {
	var item models.MenuItem
	if err := json.Unmarshal(next, &item); err != nil {
		return nil, err
	}
	wrapped := []models.MenuItem{item}
	if err := validateDepth(wrapped, 1); err != nil {
		return nil, err
	}
	assignIDs(wrapped)
	return json.Marshal(&wrapped[0])
}

func validateDepth(items []models.MenuItem, level int) error {
	for i := range items {
		if len(items[i].Children) == 0 {
			continue
		}
		if level >= maxMenuDepth {
			return ErrMenuTooDeep
		}
		if err := validateDepth(items[i].Children, level+1); err != nil {
			return err
		}
	}
	return nil
}

func assignIDs(items []models.MenuItem) {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		assignIDs(items[i].Children)
	}
}
