package notice

import (
	"time"

	"github.com/schoolboard/core/internal/models"
)

type CreateNoticeDTO struct {
	Kind       models.NoticeKind `json:"kind"`
	Title      string            `json:"title" binding:"required"`
	Text       string            `json:"text"`
	Attachment string            `json:"attachment"`
	Image      string            `json:"image"`
	Pinned     bool              `json:"pinned"`
	Published  *bool             `json:"published"`
}

type UpdateNoticeDTO struct {
	Kind       *models.NoticeKind `json:"kind"`
	Title      *string            `json:"title"`
	Text       *string            `json:"text"`
	Attachment *string            `json:"attachment"`
	Image      *string            `json:"image"`
	Pinned     *bool              `json:"pinned"`
	Published  *bool              `json:"published"`
}

type noticeListItem struct {
	ID         string            `json:"id"`
	Kind       models.NoticeKind `json:"kind"`
	Title      string            `json:"title"`
	Summary    string            `json:"summary"`
	Image      string            `json:"image"`
	Attachment string            `json:"attachment,omitempty"`
	Pinned     bool              `json:"pinned"`
	Published  bool              `json:"published"`
	ReadCount  int64             `json:"read_count"`
	Created    time.Time         `json:"created"`
	Modified   time.Time         `json:"modified"`
}

type noticeDetail struct {
	noticeListItem
	Text string `json:"text"`
	HTML string `json:"html"`
}
