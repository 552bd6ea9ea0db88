package assistant

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/schoolboard/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	g := rg.Group("/assistant")
	g.POST("/chat", h.chat)
	g.POST("/chat/stream", h.chatStream)
}

// POST /assistant/chat — full reply in one response.
func (h *Handler) chat(c *gin.Context) {
	var dto ChatDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	reply, err := h.svc.Chat(c.Request.Context(), dto.Messages)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, chatResponse{Reply: reply})
}

// POST /assistant/chat/stream — SSE token stream, terminated by a
// "done" event carrying the full reply.
func (h *Handler) chatStream(c *gin.Context) {
	var dto ChatDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.Flush()

	reply, err := h.svc.ChatStream(c.Request.Context(), dto.Messages, func(token string) {
		c.SSEvent("token", token)
		c.Writer.Flush()
	})
	if err != nil {
		c.SSEvent("error", err.Error())
		c.Writer.Flush()
		return
	}
	c.SSEvent("done", chatResponse{Reply: reply})
	c.Writer.Flush()
}

func (h *Handler) renderError(c *gin.Context, err error) {
	if errors.Is(err, ErrAssistantDisabled) {
		response.ForbiddenMsg(c, "the assistant is currently turned off")
		return
	}
	response.InternalError(c, err)
}
