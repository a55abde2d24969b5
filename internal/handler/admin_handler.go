package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/wordduel-api/internal/handler/dto"
	"github.com/yourusername/wordduel-api/internal/service"
)

// AdminHandler обрабатывает запросы администратора
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler создает новый обработчик администратора
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ResetPasswordRequest - новый пароль для пользователя
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// Check возвращает роль текущего пользователя. Доступно любому вошедшему пользователю.
func (h *AdminHandler) Check(c *gin.Context) {
	respondOK(c, http.StatusOK, "", gin.H{"type": currentUser(c).Role})
}

// ListUsers возвращает пользователей, ?include_deleted=true добавляет удалённых
func (h *AdminHandler) ListUsers(c *gin.Context) {
	includeDeleted := c.DefaultQuery("include_deleted", "false") == "true"

	users, err := h.adminService.ListUsers(currentUser(c), includeDeleted)
	if err != nil {
		respondError(c, "AdminHandler", err)
		return
	}

	respondOK(c, http.StatusOK, "", gin.H{"users": dto.NewAdminUserListResponse(users)})
}

// ResetPassword задаёт новый пароль пользователю
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	targetID := c.MustGet("userID").(uint)

	var req ResetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.adminService.ResetPassword(currentUser(c), targetID, req.NewPassword); err != nil {
		respondError(c, "AdminHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "Password reset successfully", nil)
}

// DeleteUser мягко удаляет пользователя
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	targetID := c.MustGet("userID").(uint)

	if err := h.adminService.DeleteUser(currentUser(c), targetID); err != nil {
		respondError(c, "AdminHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "User deleted successfully", nil)
}

// RestoreUser восстанавливает пользователя
func (h *AdminHandler) RestoreUser(c *gin.Context) {
	targetID := c.MustGet("userID").(uint)

	if err := h.adminService.RestoreUser(currentUser(c), targetID); err != nil {
		respondError(c, "AdminHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "User restored successfully", nil)
}
