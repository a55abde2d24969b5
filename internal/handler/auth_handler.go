package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/wordduel-api/internal/handler/dto"
	"github.com/yourusername/wordduel-api/internal/service"
)

// AuthHandler обрабатывает регистрацию, вход и проверку учётных данных
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest представляет запрос на регистрацию
type RegisterRequest struct {
	Username     string `json:"username" binding:"required"`
	Password     string `json:"password" binding:"required"`
	Introduction string `json:"introduction"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register обрабатывает запрос на регистрацию.
// Клиент сразу получает pwhash, чтобы не делать отдельный вход.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.authService.Register(req.Username, req.Password, req.Introduction)
	if err != nil {
		respondError(c, "AuthHandler", err)
		return
	}

	respondOK(c, http.StatusCreated, "Registration successful", gin.H{
		"uid":    user.ID,
		"pwhash": user.Credential(),
	})
}

// Login обрабатывает запрос на вход. Возвращает пару (uid, pwhash) для следующих запросов.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		respondError(c, "AuthHandler", err)
		return
	}

	log.Printf("[AuthHandler] Пользователь ID=%d вошёл в систему", user.ID)
	respondOK(c, http.StatusOK, "", gin.H{
		"uid":    user.ID,
		"pwhash": user.Credential(),
		"user":   dto.NewUserProfileResponse(user),
	})
}

// Verify подтверждает, что пара (uid, pwhash) действительна. Проверку делает middleware.
func (h *AuthHandler) Verify(c *gin.Context) {
	user := currentUser(c)
	respondOK(c, http.StatusOK, "", gin.H{"uid": user.ID})
}
