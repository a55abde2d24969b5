package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/yourusername/wordduel-api/internal/domain/entity"
	"github.com/yourusername/wordduel-api/internal/middleware"
	apperrors "github.com/yourusername/wordduel-api/internal/pkg/errors"
	"github.com/yourusername/wordduel-api/internal/service"
)

// respondOK пишет успешный ответ в общем конверте {"success": true, "message": ...} с полями payload
func respondOK(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func respondFailure(c *gin.Context, status int, errorType, message string) {
	c.JSON(status, gin.H{
		"success":    false,
		"message":    message,
		"error_type": errorType,
	})
}

// respondError выбирает HTTP статус по категории ошибки, а error_type - по доменному коду
func respondError(c *gin.Context, component string, err error) {
	var domainErr *service.DomainError
	hasCode := errors.As(err, &domainErr)

	status, errorType, message := http.StatusInternalServerError, "internal_error", "Internal server error"
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, errorType, message = http.StatusNotFound, "not_found", "Not found"
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, errorType, message = http.StatusUnauthorized, "authentication_failed", "Authentication failed"
	case errors.Is(err, apperrors.ErrForbidden):
		status, errorType, message = http.StatusForbidden, "forbidden", "Permission denied"
	case errors.Is(err, apperrors.ErrConflict):
		status, errorType, message = http.StatusConflict, "conflict", "Conflict"
	case errors.Is(err, apperrors.ErrValidation):
		status, errorType, message = http.StatusUnprocessableEntity, "validation_error", "Validation failed"
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		status, errorType, message = http.StatusServiceUnavailable, "store_unavailable", "Service temporarily unavailable"
	}

	if hasCode {
		errorType, message = domainErr.Code, domainErr.Message
	}
	if status >= http.StatusInternalServerError {
		log.Printf("[%s] %s %s (request_id=%s): %v", component, c.Request.Method, c.FullPath(),
			c.GetString(middleware.ContextRequestIDKey), err)
	}
	respondFailure(c, status, errorType, message)
}

// respondBindingError отвечает 400 на некорректное тело запроса
func respondBindingError(c *gin.Context, err error) {
	respondFailure(c, http.StatusBadRequest, "validation_error", "Invalid request data: "+err.Error())
}

// bindJSON разбирает тело через кеш gin: middleware учётных данных уже могло его прочитать
func bindJSON(c *gin.Context, obj interface{}) error {
	return c.ShouldBindBodyWith(obj, binding.JSON)
}

// currentUser возвращает пользователя, проверенного middleware.RequireCredentials
func currentUser(c *gin.Context) *entity.User {
	return c.MustGet(middleware.ContextUserKey).(*entity.User)
}

// pagination читает page и page_size. Границы проверяет сервис.
func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	if err != nil {
		pageSize = 0
	}
	return page, pageSize
}
