package sidebar

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/schoolboard/core/internal/models"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns sidebar sections in display order.
func (s *Service) List() ([]models.SidebarSectionModel, error) {
	var items []models.SidebarSectionModel
	return items, s.db.Order("order_num ASC, created_at ASC").Find(&items).Error
}

// FetchAll returns the sections as raw documents for the dashboard
// editor.
func (s *Service) FetchAll(ctx context.Context) ([]json.RawMessage, error) {
	var items []models.SidebarSectionModel
	err := s.db.WithContext(ctx).Order("order_num ASC, created_at ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	out := make([]json.RawMessage, len(items))
	for i := range items {
		raw, err := json.Marshal(&items[i])
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

// ReplaceAll swaps the section set in one transaction. Every document
// must carry a data payload that matches its type.
func (s *Service) ReplaceAll(ctx context.Context, docs []json.RawMessage) error {
	items := make([]models.SidebarSectionModel, len(docs))
	for i, raw := range docs {
		if err := json.Unmarshal(raw, &items[i]); err != nil {
			return err
		}
		if !items[i].Type.Valid() {
			return models.ErrSectionTypeUnknown
		}
		if err := models.ValidateSectionData(items[i].Type, items[i].Data); err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
		items[i].Order = i
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.SidebarSectionModel{}).Error; err != nil {
			return err
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Normalize reconciles a section edit with its previous version. When
// the type changed, the data payload is reset to the new type's default
// shape so no field from the old shape survives. Type and data move as
// one unit.
func (s *Service) Normalize(prev, next json.RawMessage) (json.RawMessage, error) {
	var incoming models.SidebarSectionModel
	if err := json.Unmarshal(next, &incoming); err != nil {
		return nil, err
	}
	if !incoming.Type.Valid() {
		return nil, models.ErrSectionTypeUnknown
	}

	typeChanged := len(prev) == 0
	if !typeChanged {
		var previous models.SidebarSectionModel
		if err := json.Unmarshal(prev, &previous); err == nil {
			typeChanged = previous.Type != incoming.Type
		}
	}

	if typeChanged || len(incoming.Data) == 0 {
		data, ok := models.DefaultSectionData(incoming.Type)
		if !ok {
			return nil, models.ErrSectionTypeUnknown
		}
		incoming.Data = data
		return json.Marshal(&incoming)
	}

	if err := models.ValidateSectionData(incoming.Type, incoming.Data); err != nil {
		return nil, err
	}
	return next, nil
}
