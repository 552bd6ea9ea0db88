package page

import (
	"errors"
	"time"
)

type CreatePageDTO struct {
	Slug      string `json:"slug"  binding:"required"`
	Title     string `json:"title" binding:"required"`
	Subtitle  string `json:"subtitle"`
	Text      string `json:"text"`
	Image     string `json:"image"`
	Order     int    `json:"order"`
	Published *bool  `json:"published"`
}

type UpdatePageDTO struct {
	Slug      *string `json:"slug"`
	Title     *string `json:"title"`
	Subtitle  *string `json:"subtitle"`
	Text      *string `json:"text"`
	Image     *string `json:"image"`
	Order     *int    `json:"order"`
	Published *bool   `json:"published"`
}

type pageListItem struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle,omitempty"`
	Image     string    `json:"image,omitempty"`
	Order     int       `json:"order"`
	Published bool      `json:"published"`
	Created   time.Time `json:"created"`
	Modified  time.Time `json:"modified"`
}

type pageDetail struct {
	pageListItem
	Text      string `json:"text"`
	HTML      string `json:"html"`
	ReadCount int64  `json:"read_count"`
}

var errDuplicateSlug = errors.New("slug already in use")
