// Package media serves static assets and uploaded files, and accepts
// multipart uploads into a fixed set of media subdirectories.
package media

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/centek/clinic-api/internal/handler"
	"github.com/centek/clinic-api/pkg/apperror"
	"github.com/centek/clinic-api/pkg/storage"
)

// allowedDirs are the media subdirectories uploads may target.
var allowedDirs = map[string]bool{
	"avatar":   true,
	"patients": true,
	"meetings": true,
}

type Handler struct {
	store *storage.MediaStore
}

func NewHandler(store *storage.MediaStore) *Handler {
	return &Handler{store: store}
}

// RegisterFileRoutes attaches the read-only file routes, which stay
// public.
func (h *Handler) RegisterFileRoutes(r *gin.Engine) {
	r.GET("/static/*filepath", h.ServeStatic)
	r.GET("/media/*filepath", h.ServeMedia)
}

// RegisterUploadRoutes attaches the authenticated upload route.
func (h *Handler) RegisterUploadRoutes(r *gin.RouterGroup) {
	r.POST("/media", h.Upload)
}

func (h *Handler) ServeStatic(c *gin.Context) {
	abs, err := h.store.StaticPath(c.Param("filepath"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid file path"))
		return
	}
	h.serveFile(c, abs)
}

func (h *Handler) ServeMedia(c *gin.Context) {
	abs, err := h.store.MediaPath(c.Param("filepath"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid file path"))
		return
	}
	h.serveFile(c, abs)
}

func (h *Handler) serveFile(c *gin.Context, abs string) {
	// gin falls back to a 404 page itself, but the API answers JSON.
	if !fileExists(abs) {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("file not found"))
		return
	}
	c.File(abs)
}

// Upload stores a multipart file under the subdirectory named by the
// file_dir query parameter, keeping the client-provided name. Taken
// names are rejected rather than overwritten.
func (h *Handler) Upload(c *gin.Context) {
	dir := c.Query("file_dir")
	if !allowedDirs[dir] {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid file_dir"))
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("file is required"))
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("failed to read uploaded file"))
		return
	}
	defer src.Close()

	rel, err := h.store.Save(dir, file.Filename, src)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			handler.Error(c, apperror.Conflict("file with this name already exists"))
		case errors.Is(err, storage.ErrInvalidPath):
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid file path"))
		default:
			handler.Error(c, apperror.StorageIO("failed to store file", err))
		}
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{"path": rel}))
}

func fileExists(abs string) bool {
	info, err := os.Stat(abs)
	return err == nil && !info.IsDir()
}
