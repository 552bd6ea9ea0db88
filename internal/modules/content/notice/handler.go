package notice

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/schoolboard/core/internal/middleware"
	"github.com/schoolboard/core/internal/models"
	"github.com/schoolboard/core/internal/pkg/markdown"
	"github.com/schoolboard/core/internal/pkg/pagination"
	"github.com/schoolboard/core/internal/pkg/response"
)

const summaryRunes = 160

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/notices")

	g.GET("", h.list)
	g.GET("/search", h.search)
	g.GET("/:id", h.get)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.PUT("/all", h.replaceAll)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

// GET /notices/search?q=&page=&size= — published titles, both kinds.
func (h *Handler) search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	items, pag, err := h.svc.Search(pagination.FromContext(c), term)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]noticeListItem, len(items))
	for i := range items {
		out[i] = toListItem(&items[i])
	}
	response.Paged(c, out, pag)
}

// PUT /notices/all?kind= — swap the whole set of one kind at once.
func (h *Handler) replaceAll(c *gin.Context) {
	kind := models.NoticeKind(c.DefaultQuery("kind", string(models.NoticeKindNotice)))
	if kind != models.NoticeKindNotice && kind != models.NoticeKindNews {
		response.BadRequest(c, "unknown notice kind")
		return
	}
	var docs []json.RawMessage
	if err := c.ShouldBindJSON(&docs); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.ReplaceAll(c.Request.Context(), kind, docs); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// GET /notices?kind=notice|news&page=&size=
func (h *Handler) list(c *gin.Context) {
	kind := models.NoticeKind(c.DefaultQuery("kind", string(models.NoticeKindNotice)))
	if kind != models.NoticeKindNotice && kind != models.NoticeKindNews {
		response.BadRequest(c, "unknown notice kind")
		return
	}
	q := pagination.FromContext(c)
	isAdmin := middleware.IsAuthenticated(c)

	items, pag, err := h.svc.List(q, kind, isAdmin)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]noticeListItem, len(items))
	for i := range items {
		out[i] = toListItem(&items[i])
	}
	response.Paged(c, out, pag)
}

// GET /notices/:id
func (h *Handler) get(c *gin.Context) {
	n, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	isAdmin := middleware.IsAuthenticated(c)
	if n == nil || (!n.Published && !isAdmin) {
		response.NotFound(c)
		return
	}
	if !isAdmin {
		h.svc.IncrementRead(n.ID)
	}
	response.OK(c, toDetail(n))
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateNoticeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	n, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, toDetail(n))
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateNoticeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	n, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if n == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toDetail(n))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func toListItem(n *models.NoticeModel) noticeListItem {
	return noticeListItem{
		ID: n.ID, Kind: n.Kind, Title: n.Title,
		Summary:    markdown.Summary(n.Text, summaryRunes),
		Image:      n.Image,
		Attachment: n.Attachment,
		Pinned:     n.Pinned,
		Published:  n.Published,
		ReadCount:  n.ReadCount,
		Created:    n.CreatedAt,
		Modified:   n.UpdatedAt,
	}
}

func toDetail(n *models.NoticeModel) noticeDetail {
	return noticeDetail{
		noticeListItem: toListItem(n),
		Text:           n.Text,
		HTML:           markdown.Render(n.Text),
	}
}
