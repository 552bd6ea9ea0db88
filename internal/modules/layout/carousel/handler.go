package carousel

import (
	"github.com/gin-gonic/gin"
	"github.com/schoolboard/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	rg.GET("/carousel", h.list)
}

// GET /carousel — the home page slide strip. Edits go through the
// dashboard workspace, so there are no direct write routes.
func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}
