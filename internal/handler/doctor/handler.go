// Package doctor exposes the /doctors directory endpoints.
package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centek/clinic-api/internal/handler"
	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/service/doctor"
)

type Handler struct {
	service *doctor.Service
}

func NewHandler(service *doctor.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("/", h.List)
		doctors.GET("/meetings", h.MyMeetings)
		doctors.GET("/visits", h.MyVisits)
		doctors.GET("/specialities", h.Specialities)
		doctors.GET("/patients/", h.MyPatients)
		doctors.GET("/:id/", h.Get)
		doctors.GET("/:id/meetings/", h.Meetings)
		doctors.GET("/:id/patients/", h.Patients)
	}
}

func (h *Handler) List(c *gin.Context) {
	var filters model.DoctorFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	doctors, err := h.service.List(c.Request.Context(), &filters)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doc))
}

func (h *Handler) MyMeetings(c *gin.Context) {
	h.meetings(c, handler.CurrentUser(c).ID)
}

func (h *Handler) Meetings(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}
	h.meetings(c, id)
}

func (h *Handler) meetings(c *gin.Context, doctorID int64) {
	meetings, err := h.service.Meetings(c.Request.Context(), doctorID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(meetings))
}

func (h *Handler) MyPatients(c *gin.Context) {
	h.patients(c, handler.CurrentUser(c).ID)
}

func (h *Handler) Patients(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}
	h.patients(c, id)
}

func (h *Handler) patients(c *gin.Context, doctorID int64) {
	patients, err := h.service.Patients(c.Request.Context(), doctorID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) MyVisits(c *gin.Context) {
	visits, err := h.service.Visits(c.Request.Context(), handler.CurrentUser(c).ID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(visits))
}

func (h *Handler) Specialities(c *gin.Context) {
	specialities, err := h.service.Specialities(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(specialities))
}
