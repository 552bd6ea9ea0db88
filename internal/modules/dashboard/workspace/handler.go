package workspace

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/schoolboard/core/internal/middleware"
	"github.com/schoolboard/core/internal/pkg/draftsync"
	"github.com/schoolboard/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/workspace", authMW)

	g.GET("/collections", h.listCollections)
	g.POST("/:collection/open", h.open)
	g.GET("/:collection", h.state)
	g.POST("/:collection/items", h.addItem)
	g.PUT("/:collection/items/:id", h.updateItem)
	g.DELETE("/:collection/items/:id", h.removeItem)
	g.POST("/:collection/items/:id/move", h.moveItem)
	g.POST("/:collection/commit", h.commit)
	g.POST("/:collection/discard", h.discard)
}

// Drafts are scoped to the admin's login session, so two browser
// sessions never share a working copy.
func workspaceSession(c *gin.Context) string {
	if sid := middleware.CurrentSessionID(c); sid != "" {
		return sid
	}
	return middleware.CurrentUserID(c)
}

// GET /workspace/collections — the editable collection names.
func (h *Handler) listCollections(c *gin.Context) {
	response.OK(c, gin.H{"collections": h.svc.Registry().Names()})
}

// POST /workspace/:collection/open — seed (or re-seed) from the store.
func (h *Handler) open(c *gin.Context) {
	collection := c.Param("collection")
	if _, err := h.svc.Open(c.Request.Context(), workspaceSession(c), collection); err != nil {
		h.renderError(c, err)
		return
	}
	state, err := h.svc.State(workspaceSession(c), collection)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, state)
}

// GET /workspace/:collection — the current draft state.
func (h *Handler) state(c *gin.Context) {
	state, err := h.svc.State(workspaceSession(c), c.Param("collection"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, state)
}

// POST /workspace/:collection/items — append a document to the draft.
func (h *Handler) addItem(c *gin.Context) {
	var doc json.RawMessage
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	added, err := h.svc.AddItem(workspaceSession(c), c.Param("collection"), doc)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Created(c, added)
}

// PUT /workspace/:collection/items/:id — replace one draft document.
func (h *Handler) updateItem(c *gin.Context) {
	var doc json.RawMessage
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	updated, err := h.svc.UpdateItem(workspaceSession(c), c.Param("collection"), c.Param("id"), doc)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, updated)
}

// DELETE /workspace/:collection/items/:id
func (h *Handler) removeItem(c *gin.Context) {
	if err := h.svc.RemoveItem(workspaceSession(c), c.Param("collection"), c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	response.NoContent(c)
}

// POST /workspace/:collection/items/:id/move — swap with a neighbour.
func (h *Handler) moveItem(c *gin.Context) {
	var dto moveDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if dto.Direction != draftsync.Up && dto.Direction != draftsync.Down {
		response.BadRequest(c, "direction must be up or down")
		return
	}
	if err := h.svc.MoveItem(workspaceSession(c), c.Param("collection"), c.Param("id"), dto.Direction); err != nil {
		h.renderError(c, err)
		return
	}
	response.NoContent(c)
}

// POST /workspace/:collection/commit?force=true
func (h *Handler) commit(c *gin.Context) {
	collection := c.Param("collection")
	force := c.Query("force") == "true"
	if err := h.svc.Commit(c.Request.Context(), workspaceSession(c), collection, force); err != nil {
		h.renderError(c, err)
		return
	}
	state, err := h.svc.State(workspaceSession(c), collection)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, state)
}

// POST /workspace/:collection/discard
func (h *Handler) discard(c *gin.Context) {
	collection := c.Param("collection")
	if err := h.svc.Discard(workspaceSession(c), collection); err != nil {
		h.renderError(c, err)
		return
	}
	state, err := h.svc.State(workspaceSession(c), collection)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, state)
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnknownCollection):
		response.NotFoundMsg(c, "unknown collection")
	case errors.Is(err, ErrNotOpen):
		response.BadRequest(c, "open the collection before editing it")
	case errors.Is(err, ErrItemNotFound):
		response.NotFoundMsg(c, "item not in draft")
	case errors.Is(err, draftsync.ErrConflict):
		response.Conflict(c, "collection changed since the draft was opened; discard or force the commit")
	case errors.Is(err, draftsync.ErrCommitInFlight):
		response.Conflict(c, "a save is already in progress")
	default:
		response.InternalError(c, err)
	}
}
