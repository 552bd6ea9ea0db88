package navigate

import (
	"github.com/schoolboard/core/internal/models"
	"github.com/schoolboard/core/internal/modules/content/notice"
	"github.com/schoolboard/core/internal/modules/content/page"
	"github.com/schoolboard/core/internal/modules/layout/carousel"
	"github.com/schoolboard/core/internal/modules/layout/menu"
	"github.com/schoolboard/core/internal/modules/layout/sidebar"
	"github.com/schoolboard/core/internal/modules/layout/widget"
	"github.com/schoolboard/core/internal/pkg/markdown"
	"github.com/schoolboard/core/internal/pkg/pagination"
	"github.com/schoolboard/core/internal/pkg/route"
)

const chairmanPageSlug = "chairman"

// Service resolves a route fragment into the state plus the payload
// the resolved view renders, so the shell can hydrate a deep link in
// one round trip.
type Service struct {
	notices  *notice.Service
	pages    *page.Service
	carousel *carousel.Service
	widgets  *widget.Service
	sidebar  *sidebar.Service
	menu     *menu.Service
}

func NewService(
	notices *notice.Service,
	pages *page.Service,
	carouselSvc *carousel.Service,
	widgets *widget.Service,
	sidebarSvc *sidebar.Service,
	menuSvc *menu.Service,
) *Service {
	return &Service{
		notices:  notices,
		pages:    pages,
		carousel: carouselSvc,
		widgets:  widgets,
		sidebar:  sidebarSvc,
		menu:     menuSvc,
	}
}

// Resolve decodes a fragment and loads the resolved view's data. The
// state round-trips verbatim; unknown pages fall back to the home view
// with the home payload.
func (s *Service) Resolve(fragment string) (*Resolution, error) {
	state := route.Decode(fragment)
	view := state.View()

	res := &Resolution{
		State:    state,
		View:     view,
		Fragment: route.Encode(state),
	}

	var err error
	switch view {
	case route.PageHome:
		res.Data, err = s.homePayload()
	case route.PageChairman:
		res.Data, err = s.pagePayloadBySlug(chairmanPageSlug)
	case route.PageNotice, route.PageNews:
		res.Data, err = s.noticePayload(state.ID)
	case route.PageAllNotices:
		res.Data, err = s.listPayload(models.NoticeKindNotice)
	case route.PageAllNews:
		res.Data, err = s.listPayload(models.NoticeKindNews)
	case route.PagePageViewer:
		res.Data, err = s.pagePayloadBySlug(state.Slug)
	case route.PageSearch:
		res.Data, err = s.searchPayload(state.Query)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) homePayload() (interface{}, error) {
	slides, err := s.carousel.List()
	if err != nil {
		return nil, err
	}
	widgets, err := s.widgets.ListWidgets(false)
	if err != nil {
		return nil, err
	}
	cards, err := s.widgets.ListInfoCards()
	if err != nil {
		return nil, err
	}
	sections, err := s.sidebar.List()
	if err != nil {
		return nil, err
	}
	m, err := s.menu.Get()
	if err != nil {
		return nil, err
	}
	return homePayload{
		Carousel:  slides,
		Widgets:   widgets,
		InfoCards: cards,
		Sidebar:   sections,
		Menu:      m.Items,
	}, nil
}

func (s *Service) noticePayload(id string) (interface{}, error) {
	if id == "" {
		return nil, nil
	}
	n, err := s.notices.GetByID(id)
	if err != nil {
		return nil, err
	}
	if n == nil || !n.Published {
		return nil, nil
	}
	return noticePayload{
		Notice: n,
		HTML:   markdown.Render(n.Text),
	}, nil
}

func (s *Service) listPayload(kind models.NoticeKind) (interface{}, error) {
	items, pag, err := s.notices.List(pagination.Query{Page: 1, Size: pagination.DefaultSize}, kind, false)
	if err != nil {
		return nil, err
	}
	return listPayload{Items: items, Pagination: pag}, nil
}

func (s *Service) pagePayloadBySlug(slug string) (interface{}, error) {
	if slug == "" {
		return nil, nil
	}
	p, err := s.pages.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.Published {
		return nil, nil
	}
	return pagePayload{
		Page: p,
		HTML: markdown.Render(p.Text),
	}, nil
}

func (s *Service) searchPayload(term string) (interface{}, error) {
	if term == "" {
		return searchPayload{Term: "", Items: []models.NoticeModel{}}, nil
	}
	items, pag, err := s.notices.Search(pagination.Query{Page: 1, Size: pagination.DefaultSize}, term)
	if err != nil {
		return nil, err
	}
	return searchPayload{Term: term, Items: items, Pagination: &pag}, nil
}
