package sidebar

import (
	"github.com/gin-gonic/gin"
	"github.com/schoolboard/core/internal/models"
	"github.com/schoolboard/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	rg.GET("/sidebar", h.list)
	rg.GET("/sidebar/types", h.types)
}

// GET /sidebar — sections in display order.
func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// GET /sidebar/types — the valid section types with their default
// payloads, used by the dashboard editor's type picker.
func (h *Handler) types(c *gin.Context) {
	out := make([]gin.H, 0, len(models.SectionTypes))
	for _, t := range models.SectionTypes {
		data, _ := models.DefaultSectionData(t)
		out = append(out, gin.H{"type": t, "default_data": data})
	}
	response.OK(c, out)
}
