package navigate

import (
	"github.com/schoolboard/core/internal/models"
	"github.com/schoolboard/core/internal/pkg/response"
	"github.com/schoolboard/core/internal/pkg/route"
)

// Resolution is a decoded fragment plus the payload its view renders.
// State carries the raw decoded page name; View is what actually
// mounts after the unknown-page fallback.
type Resolution struct {
	State    route.State    `json:"state"`
	View     route.PageName `json:"view"`
	Fragment string         `json:"fragment"`
	Data     interface{}    `json:"data,omitempty"`
}

type EncodeDTO struct {
	Page  string `json:"page" binding:"required"`
	ID    string `json:"id"`
	Title string `json:"title"`
	Query string `json:"q"`
	Slug  string `json:"slug"`
}

type homePayload struct {
	Carousel  []models.CarouselItemModel   `json:"carousel"`
	Widgets   []models.HomeWidgetModel     `json:"widgets"`
	InfoCards []models.InfoCardModel       `json:"info_cards"`
	Sidebar   []models.SidebarSectionModel `json:"sidebar"`
	Menu      []models.MenuItem            `json:"menu"`
}

type noticePayload struct {
	Notice *models.NoticeModel `json:"notice"`
	HTML   string              `json:"html"`
}

type listPayload struct {
	Items      []models.NoticeModel `json:"items"`
	Pagination response.Pagination  `json:"pagination"`
}

type pagePayload struct {
	Page *models.PageModel `json:"page"`
	HTML string            `json:"html"`
}

type searchPayload struct {
	Term       string               `json:"term"`
	Items      []models.NoticeModel `json:"items"`
	Pagination *response.Pagination `json:"pagination,omitempty"`
}
