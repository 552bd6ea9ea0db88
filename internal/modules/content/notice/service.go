package notice

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/schoolboard/core/internal/models"
	"github.com/schoolboard/core/internal/pkg/pagination"
	"github.com/schoolboard/core/internal/pkg/response"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns notices of one kind, pinned first then newest first.
// Unpublished entries are only visible to admins.
func (s *Service) List(q pagination.Query, kind models.NoticeKind, includeUnpublished bool) ([]models.NoticeModel, response.Pagination, error) {
	tx := s.db.Model(&models.NoticeModel{}).
		Where("kind = ?", kind).
		Order("pinned DESC, created_at DESC")
	if !includeUnpublished {
		tx = tx.Where("published = ?", true)
	}
	var items []models.NoticeModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) GetByID(id string) (*models.NoticeModel, error) {
	var n models.NoticeModel
	if err := s.db.First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// Search matches published notices and news by title, newest first.
func (s *Service) Search(q pagination.Query, term string) ([]models.NoticeModel, response.Pagination, error) {
	tx := s.db.Model(&models.NoticeModel{}).
		Where("published = ? AND title LIKE ?", true, "%"+term+"%").
		Order("created_at DESC")
	var items []models.NoticeModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// IncrementRead bumps the read counter without touching updated_at.
func (s *Service) IncrementRead(id string) {
	_ = s.db.Model(&models.NoticeModel{}).Where("id = ?", id).
		UpdateColumn("read_count", gorm.Expr("read_count + 1")).Error
}

func (s *Service) Create(dto *CreateNoticeDTO) (*models.NoticeModel, error) {
	kind := dto.Kind
	if kind == "" {
		kind = models.NoticeKindNotice
	}
	published := true
	if dto.Published != nil {
		published = *dto.Published
	}
	n := models.NoticeModel{
		Kind: kind, Title: dto.Title, Text: dto.Text,
		Attachment: dto.Attachment, Image: dto.Image,
		Pinned: dto.Pinned, Published: published,
	}
	return &n, s.db.Create(&n).Error
}

func (s *Service) Update(id string, dto *UpdateNoticeDTO) (*models.NoticeModel, error) {
	n, err := s.GetByID(id)
	if err != nil || n == nil {
		return n, err
	}
	updates := map[string]interface{}{}
	if dto.Kind != nil {
		updates["kind"] = *dto.Kind
	}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Text != nil {
		updates["text"] = *dto.Text
	}
	if dto.Attachment != nil {
		updates["attachment"] = *dto.Attachment
	}
	if dto.Image != nil {
		updates["image"] = *dto.Image
	}
	if dto.Pinned != nil {
		updates["pinned"] = *dto.Pinned
	}
	if dto.Published != nil {
		updates["published"] = *dto.Published
	}
	if len(updates) == 0 {
		return n, nil
	}
	return n, s.db.Model(n).Updates(updates).Error
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.NoticeModel{}, "id = ?", id).Error
}

// FetchAll returns every notice of one kind as raw documents for the
// dashboard editor, pinned first.
func (s *Service) FetchAll(ctx context.Context, kind models.NoticeKind) ([]json.RawMessage, error) {
	var items []models.NoticeModel
	err := s.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("pinned DESC, created_at DESC").
		Find(&items).Error
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

// ReplaceAll swaps the stored set of one kind for the given documents
// in a single transaction. Existing ids are preserved.
func (s *Service) ReplaceAll(ctx context.Context, kind models.NoticeKind, docs []json.RawMessage) error {
	items := make([]models.NoticeModel, len(docs))
	for i, raw := range docs {
		if err := json.Unmarshal(raw, &items[i]); err != nil {
			return err
		}
		items[i].Kind = kind
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("kind = ?", kind).Delete(&models.NoticeModel{}).Error; err != nil {
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
