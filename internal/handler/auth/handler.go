// Package auth exposes the /users endpoints: registration, token
// issuance and profile management.
package auth

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/centek/clinic-api/internal/handler"
	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/service/auth"
	"github.com/centek/clinic-api/pkg/storage"
)

const avatarDir = "avatar"

type Handler struct {
	service *auth.Service
	store   *storage.MediaStore
}

func NewHandler(service *auth.Service, store *storage.MediaStore) *Handler {
	return &Handler{service: service, store: store}
}

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("/token/", h.Login)
		users.POST("/register/", h.Register)
		users.POST("/registration/username/:username/", h.CheckUsername)
	}
}

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("/me/", h.Me)
		users.POST("/edit", h.EditProfile)
		users.POST("/change-password/", h.ChangePassword)
		users.POST("/set_avatar", h.SetAvatar)
		users.POST("/logout/", h.Logout)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(user))
}

// Login implements the OAuth2 password flow the frontend uses: the
// credentials arrive form-encoded, the token comes back with the user.
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	token, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// CheckUsername reports whether a username is still available, for the
// registration form's inline probe.
func (h *Handler) CheckUsername(c *gin.Context) {
	available, err := h.service.UsernameAvailable(c.Request.Context(), c.Param("username"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"available": available}))
}

func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.CurrentUser(c)))
}

func (h *Handler) EditProfile(c *gin.Context) {
	var patch model.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), handler.CurrentUser(c).ID, &patch)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), handler.CurrentUser(c).ID, &req); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"detail": "password changed"}))
}

// SetAvatar stores an uploaded photo under media/avatar and points the
// account at it. Posting without a file resets to the default avatar.
func (h *Handler) SetAvatar(c *gin.Context) {
	var rel string

	file, err := c.FormFile("file")
	if err == nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("failed to read uploaded file"))
			return
		}
		defer src.Close()

		name := uuid.New().String() + filepath.Ext(file.Filename)
		rel, err = h.store.Save(avatarDir, name, src)
		if err != nil {
			handler.Error(c, err)
			return
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid multipart form"))
		return
	}

	user, err := h.service.SetAvatar(c.Request.Context(), handler.CurrentUser(c).ID, rel)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), handler.CurrentClaims(c)); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"detail": "logged out"}))
}
