package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/wordduel-api/internal/handler/dto"
	"github.com/yourusername/wordduel-api/internal/service"
)

// UserHandler обрабатывает запросы, связанные с пользователями
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UpdateProfileRequest - изменения профиля.
// introduction = null значит "не менять", пустая строка очищает текст.
type UpdateProfileRequest struct {
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password"`
	Introduction    *string `json:"introduction"`
}

// GetProfile возвращает публичный профиль
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	user, err := h.userService.GetPublicProfile(userID)
	if err != nil {
		respondError(c, "UserHandler", err)
		return
	}

	respondOK(c, http.StatusOK, "", gin.H{"user": dto.NewUserProfileResponse(user)})
}

// UpdateProfile меняет пароль и/или текст "о себе". После смены пароля клиент получает новый pwhash.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	targetID := c.MustGet("userID").(uint)

	var req UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	updated, err := h.userService.UpdateProfile(currentUser(c), targetID, service.UpdateProfileInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		Introduction:    req.Introduction,
	})
	if err != nil {
		respondError(c, "UserHandler", err)
		return
	}

	respondOK(c, http.StatusOK, "User updated successfully", gin.H{
		"uid":    updated.ID,
		"pwhash": updated.Credential(),
		"user":   dto.NewUserProfileResponse(updated),
	})
}

// GetLeaderboard обрабатывает запрос на получение лидерборда
func (h *UserHandler) GetLeaderboard(c *gin.Context) {
	page, pageSize := pagination(c)

	leaderboard, err := h.userService.GetLeaderboard(page, pageSize)
	if err != nil {
		respondError(c, "UserHandler", err)
		return
	}

	respondOK(c, http.StatusOK, "", gin.H{"leaderboard": leaderboard})
}
