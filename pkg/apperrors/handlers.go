package apperrors

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linepay_backend/internal/logger"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Error   *AppError `json:"error,omitempty"`
}

// HandleError writes an AppError (or anything else, wrapped) as the
// response for a gin request.
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if !As(err, &appErr) {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= http.StatusInternalServerError {
		logger.CtxWithError(c.Request.Context(), "server error", appErr, "path", c.Request.URL.Path)
	}

	c.JSON(appErr.HTTPCode, ErrorResponse{
		Status:  "error",
		Message: appErr.Message,
		Error:   appErr,
	})
}
