package menu

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/schoolboard/core/internal/models"
	"github.com/schoolboard/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/menu", h.get)
	rg.PUT("/menu", authMW, h.replace)
}

// GET /menu — the navigation tree.
func (h *Handler) get(c *gin.Context) {
	m, err := h.svc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"items": m.Items})
}

// PUT /menu — replace the whole navigation tree.
func (h *Handler) replace(c *gin.Context) {
	var dto struct {
		Items []models.MenuItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Replace(c.Request.Context(), dto.Items); err != nil {
		if errors.Is(err, ErrMenuTooDeep) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	m, err := h.svc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"items": m.Items})
}
