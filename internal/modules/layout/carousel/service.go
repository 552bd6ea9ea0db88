package carousel

import (
	"context"
	"encoding/json"

	"github.com/schoolboard/core/internal/models"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns the slides in strip order.
func (s *Service) List() ([]models.CarouselItemModel, error) {
	var items []models.CarouselItemModel
	return items, s.db.Order("order_num ASC, created_at ASC").Find(&items).Error
}

// FetchAll returns the slides as raw documents for the dashboard editor.
func (s *Service) FetchAll(ctx context.Context) ([]json.RawMessage, error) {
	var items []models.CarouselItemModel
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

// ReplaceAll swaps the whole strip in one transaction. Slice position
// becomes the slide order.
func (s *Service) ReplaceAll(ctx context.Context, docs []json.RawMessage) error {
	items := make([]models.CarouselItemModel, len(docs))
	for i, raw := range docs {
		if err := json.Unmarshal(raw, &items[i]); err != nil {
			return err
		}
		items[i].Order = i
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.CarouselItemModel{}).Error; err != nil {
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
