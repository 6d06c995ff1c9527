package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linepay_backend/internal/dto"
	"linepay_backend/internal/services"
)

type ScheduleHandler struct {
	*BaseHandler
	scheduleService services.ScheduleService
}

func NewScheduleHandler(base *BaseHandler, scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		BaseHandler:     base,
		scheduleService: scheduleService,
	}
}

func (h *ScheduleHandler) RegisterRoutes(r *gin.RouterGroup) {
	schedules := r.Group("/billing-schedules")
	{
		schedules.GET("", h.ListSchedules)
		schedules.GET("/:id", h.GetSchedule)
		schedules.POST("", h.CreateSchedule)
		schedules.PUT("/:id", h.UpdateSchedule)
		schedules.DELETE("/:id", h.DeleteSchedule)
	}
}

func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.scheduleService.List()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, schedules)
}

func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	id, err := ParseParamInt(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	schedule, err := h.scheduleService.Get(id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, schedule)
}

func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	schedule, err := h.scheduleService.Create(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, schedule)
}

func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	id, err := ParseParamInt(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateScheduleRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	schedule, err := h.scheduleService.Update(id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, schedule)
}

func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	id, err := ParseParamInt(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.scheduleService.Delete(id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Billing schedule deleted",
	})
}
