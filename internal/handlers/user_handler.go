package handlers

import (
	"github.com/gin-gonic/gin"

	"linepay_backend/internal/services"
	"linepay_backend/pkg/apperrors"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/search", h.SearchUsers)
		users.GET("/stats", h.GetStats)
		users.GET("/payment-list", h.PaymentList)
		users.GET("/:userId", h.GetUser)
		users.GET("/:userId/images", h.ListUserImages)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, users)
}

func (h *UserHandler) SearchUsers(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing required query parameter: name"))
		return
	}

	users, err := h.userService.SearchByName(name)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, users)
}

func (h *UserHandler) GetStats(c *gin.Context) {
	stats, err := h.userService.GetStats()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, stats)
}

func (h *UserHandler) PaymentList(c *gin.Context) {
	entries, err := h.userService.PaymentList()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, entries)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	detail, err := h.userService.GetUser(c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, detail)
}

func (h *UserHandler) ListUserImages(c *gin.Context) {
	images, err := h.userService.ListUserImages(c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, images)
}
