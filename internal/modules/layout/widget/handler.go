package widget

import (
	"github.com/gin-gonic/gin"
	"github.com/schoolboard/core/internal/middleware"
	"github.com/schoolboard/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	rg.GET("/widgets", h.listWidgets)
	rg.GET("/info-cards", h.listInfoCards)
}

// GET /widgets — home page blocks in display order.
func (h *Handler) listWidgets(c *gin.Context) {
	items, err := h.svc.ListWidgets(middleware.IsAuthenticated(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// GET /info-cards — the home info strip.
func (h *Handler) listInfoCards(c *gin.Context) {
	items, err := h.svc.ListInfoCards()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}
