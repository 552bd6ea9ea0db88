package widget

import (
	"context"
	"encoding/json"

	"github.com/schoolboard/core/internal/models"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// ListWidgets returns home widgets in display order. Hidden widgets are
// only included for admins.
func (s *Service) ListWidgets(includeHidden bool) ([]models.HomeWidgetModel, error) {
	tx := s.db.Order("order_num ASC, created_at ASC")
	if !includeHidden {
		tx = tx.Where("visible = ?", true)
	}
	var items []models.HomeWidgetModel
	return items, tx.Find(&items).Error
}

// ListInfoCards returns the info strip cards in display order.
func (s *Service) ListInfoCards() ([]models.InfoCardModel, error) {
	var items []models.InfoCardModel
	return items, s.db.Order("order_num ASC, created_at ASC").Find(&items).Error
}

// FetchAllWidgets returns home widgets as raw documents for the
// dashboard editor.
func (s *Service) FetchAllWidgets(ctx context.Context) ([]json.RawMessage, error) {
	var items []models.HomeWidgetModel
	err := s.db.WithContext(ctx).Order("order_num ASC, created_at ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return marshalDocs(items)
}

// ReplaceAllWidgets swaps the widget set in one transaction.
func (s *Service) ReplaceAllWidgets(ctx context.Context, docs []json.RawMessage) error {
	items := make([]models.HomeWidgetModel, len(docs))
	for i, raw := range docs {
		if err := json.Unmarshal(raw, &items[i]); err != nil {
			return err
		}
		items[i].Order = i
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.HomeWidgetModel{}).Error; err != nil {
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

// FetchAllInfoCards returns info cards as raw documents for the
// dashboard editor.
func (s *Service) FetchAllInfoCards(ctx context.Context) ([]json.RawMessage, error) {
	var items []models.InfoCardModel
	err := s.db.WithContext(ctx).Order("order_num ASC, created_at ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return marshalDocs(items)
}

// ReplaceAllInfoCards swaps the info card set in one transaction.
func (s *Service) ReplaceAllInfoCards(ctx context.Context, docs []json.RawMessage) error {
	items := make([]models.InfoCardModel, len(docs))
	for i, raw := range docs {
		if err := json.Unmarshal(raw, &items[i]); err != nil {
			return err
		}
		items[i].Order = i
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.InfoCardModel{}).Error; err != nil {
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

func marshalDocs[T any](items []T) ([]json.RawMessage, error) {
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
