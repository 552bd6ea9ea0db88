package media

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/schoolboard/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/media")

	g.GET("/:bucket/:name", h.get)

	a := g.Group("", authMW)
	a.POST("/upload", h.upload)
	a.GET("/:bucket", h.list)
	a.DELETE("/:bucket/:name", h.delete)
}

// POST /media/upload — multipart form with "file" and optional
// "bucket" (defaults to image).
func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file field is required")
		return
	}
	bucket := c.DefaultPostForm("bucket", "image")

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()
	payload, err := io.ReadAll(f)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	result, err := h.svc.Upload(c.Request.Context(), bucket, fileHeader.Filename, payload,
		fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Created(c, result)
}

// GET /media/:bucket/:name — serve a locally stored file.
func (h *Handler) get(c *gin.Context) {
	path := h.svc.LocalPath(c.Param("bucket"), c.Param("name"))
	if path == "" {
		response.NotFound(c)
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000")
	c.File(path)
}

// GET /media/:bucket — list a bucket, newest first.
func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Param("bucket"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, items)
}

// DELETE /media/:bucket/:name
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("bucket"), c.Param("name")); err != nil {
		h.renderError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBucketInvalid), errors.Is(err, ErrNameInvalid):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrFileTooLarge):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
