package page

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/schoolboard/core/internal/middleware"
	"github.com/schoolboard/core/internal/models"
	"github.com/schoolboard/core/internal/pkg/markdown"
	"github.com/schoolboard/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/pages")

	g.GET("", h.list)
	g.GET("/slug/:slug", h.getBySlug)
	g.GET("/:id", h.get)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.PUT("/all", h.replaceAll)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

// PUT /pages/all — swap the whole page set at once.
func (h *Handler) replaceAll(c *gin.Context) {
	var docs []json.RawMessage
	if err := c.ShouldBindJSON(&docs); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.ReplaceAll(c.Request.Context(), docs); err != nil {
		if errors.Is(err, errDuplicateSlug) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) list(c *gin.Context) {
	isAdmin := middleware.IsAuthenticated(c)
	items, err := h.svc.List(isAdmin)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]pageListItem, len(items))
	for i := range items {
		out[i] = toListItem(&items[i])
	}
	response.OK(c, out)
}

// GET /pages/slug/:slug — the page-viewer route resolves by slug.
func (h *Handler) getBySlug(c *gin.Context) {
	p, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.renderDetail(c, p)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.renderDetail(c, p)
}

func (h *Handler) renderDetail(c *gin.Context, p *models.PageModel) {
	isAdmin := middleware.IsAuthenticated(c)
	if p == nil || (!p.Published && !isAdmin) {
		response.NotFound(c)
		return
	}
	if !isAdmin {
		h.svc.IncrementRead(p.ID)
	}
	response.OK(c, toDetail(p))
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, errDuplicateSlug) {
			response.Conflict(c, "slug already in use")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, toDetail(p))
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdatePageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, errDuplicateSlug) {
			response.Conflict(c, "slug already in use")
			return
		}
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toDetail(p))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func toListItem(p *models.PageModel) pageListItem {
	return pageListItem{
		ID: p.ID, Slug: p.Slug, Title: p.Title, Subtitle: p.Subtitle,
		Image: p.Image, Order: p.Order, Published: p.Published,
		Created: p.CreatedAt, Modified: p.UpdatedAt,
	}
}

func toDetail(p *models.PageModel) pageDetail {
	return pageDetail{
		pageListItem: toListItem(p),
		Text:         p.Text,
		HTML:         markdown.Render(p.Text),
		ReadCount:    p.ReadCount,
	}
}
