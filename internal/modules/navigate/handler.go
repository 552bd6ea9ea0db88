package navigate

import (
	"github.com/gin-gonic/gin"
	"github.com/schoolboard/core/internal/pkg/response"
	"github.com/schoolboard/core/internal/pkg/route"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	g := rg.Group("/navigate")
	g.GET("/resolve", h.resolve)
	g.POST("/encode", h.encode)
}

// GET /navigate/resolve?hash=... — decode a fragment and hydrate the
// resolved view in one round trip. Malformed fragments never fail;
// they resolve to the home view.
func (h *Handler) resolve(c *gin.Context) {
	res, err := h.svc.Resolve(c.Query("hash"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, res)
}

// POST /navigate/encode — canonical fragment for a route state.
func (h *Handler) encode(c *gin.Context) {
	var dto EncodeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	state := route.State{
		Page:  route.PageName(dto.Page),
		ID:    dto.ID,
		Title: dto.Title,
		Query: dto.Query,
		Slug:  dto.Slug,
	}
	response.OK(c, gin.H{
		"fragment": route.Encode(state),
		"view":     state.View(),
	})
}
