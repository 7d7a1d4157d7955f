// Package meeting exposes the /meetings endpoints and the patient
// roster management.
package meeting

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centek/clinic-api/internal/handler"
	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/service/meeting"
)

type Handler struct {
	service *meeting.Service
}

func NewHandler(service *meeting.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	meetings := r.Group("/meetings")
	{
		meetings.GET("/", h.List)
		meetings.POST("/create", h.Create)
		meetings.GET("/:id", h.Get)
		meetings.PUT("/:id/update", h.Update)
		meetings.DELETE("/:id/delete", h.Delete)
		meetings.GET("/:id/patients", h.Patients)
		meetings.POST("/:id/patients/add", h.AddPatient)
		meetings.DELETE("/:id/patients/delete", h.RemovePatient)
	}
}

func (h *Handler) List(c *gin.Context) {
	var filters model.MeetingFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	meetings, err := h.service.List(c.Request.Context(), &filters)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(meetings))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	m, err := h.service.Create(c.Request.Context(), handler.CurrentUser(c).ID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(m))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var patch model.MeetingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	m, err := h.service.Update(c.Request.Context(), handler.CurrentUser(c).ID, id, &patch)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), handler.CurrentUser(c).ID, id); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"detail": "meeting deleted"}))
}

func (h *Handler) Patients(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	patients, err := h.service.Patients(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) AddPatient(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}
	patientID, ok := handler.ParseQueryID(c, "patient_id")
	if !ok {
		return
	}

	m, err := h.service.AddPatient(c.Request.Context(), handler.CurrentUser(c).ID, id, patientID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}

func (h *Handler) RemovePatient(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}
	patientID, ok := handler.ParseQueryID(c, "patient_id")
	if !ok {
		return
	}

	m, err := h.service.RemovePatient(c.Request.Context(), handler.CurrentUser(c).ID, id, patientID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}
