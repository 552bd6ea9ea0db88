package page

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/schoolboard/core/internal/models"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns pages ordered by their manual order, then title.
func (s *Service) List(includeUnpublished bool) ([]models.PageModel, error) {
	tx := s.db.Order("order_num ASC, title ASC")
	if !includeUnpublished {
		tx = tx.Where("published = ?", true)
	}
	var items []models.PageModel
	return items, tx.Find(&items).Error
}

func (s *Service) GetBySlug(slug string) (*models.PageModel, error) {
	var p models.PageModel
	if err := s.db.First(&p, "slug = ?", normalizeSlug(slug)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) GetByID(id string) (*models.PageModel, error) {
	var p models.PageModel
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) IncrementRead(id string) {
	_ = s.db.Model(&models.PageModel{}).Where("id = ?", id).
		UpdateColumn("read_count", gorm.Expr("read_count + 1")).Error
}

func (s *Service) Create(dto *CreatePageDTO) (*models.PageModel, error) {
	slug := normalizeSlug(dto.Slug)
	if existing, err := s.GetBySlug(slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, errDuplicateSlug
	}

	published := true
	if dto.Published != nil {
		published = *dto.Published
	}
	p := models.PageModel{
		Slug: slug, Title: dto.Title, Subtitle: dto.Subtitle,
		Text: dto.Text, Image: dto.Image, Order: dto.Order,
		Published: published,
	}
	return &p, s.db.Create(&p).Error
}

func (s *Service) Update(id string, dto *UpdatePageDTO) (*models.PageModel, error) {
	p, err := s.GetByID(id)
	if err != nil || p == nil {
		return p, err
	}
	updates := map[string]interface{}{}
	if dto.Slug != nil {
		slug := normalizeSlug(*dto.Slug)
		if slug != p.Slug {
			if existing, err := s.GetBySlug(slug); err != nil {
				return nil, err
			} else if existing != nil {
				return nil, errDuplicateSlug
			}
		}
		updates["slug"] = slug
	}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Subtitle != nil {
		updates["subtitle"] = *dto.Subtitle
	}
	if dto.Text != nil {
		updates["text"] = *dto.Text
	}
	if dto.Image != nil {
		updates["image"] = *dto.Image
	}
	if dto.Order != nil {
		updates["order_num"] = *dto.Order
	}
	if dto.Published != nil {
		updates["published"] = *dto.Published
	}
	if len(updates) == 0 {
		return p, nil
	}
	return p, s.db.Model(p).Updates(updates).Error
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.PageModel{}, "id = ?", id).Error
}

// FetchAll returns every page as raw documents for the dashboard
// editor, in manual order.
func (s *Service) FetchAll(ctx context.Context) ([]json.RawMessage, error) {
	var items []models.PageModel
	err := s.db.WithContext(ctx).Order("order_num ASC, title ASC").Find(&items).Error
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

// ReplaceAll swaps the stored page set in a single transaction. Slice
// position becomes the manual order.
func (s *Service) ReplaceAll(ctx context.Context, docs []json.RawMessage) error {
	items := make([]models.PageModel, len(docs))
	seen := make(map[string]struct{}, len(docs))
	for i, raw := range docs {
		if err := json.Unmarshal(raw, &items[i]); err != nil {
			return err
		}
		items[i].Slug = normalizeSlug(items[i].Slug)
		if _, dup := seen[items[i].Slug]; dup {
			return errDuplicateSlug
		}
		seen[items[i].Slug] = struct{}{}
		items[i].Order = i
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.PageModel{}).Error; err != nil {
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

func normalizeSlug(slug string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(slug)), "/")
}
