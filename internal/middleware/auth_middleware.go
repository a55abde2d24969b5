package middleware

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/yourusername/wordduel-api/internal/domain/entity"
	apperrors "github.com/yourusername/wordduel-api/internal/pkg/errors"
)

// Ключи контекста gin, которые выставляет AuthMiddleware
const (
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"
)

// Имена заголовков, cookie и полей, в которых клиент передаёт пару (uid, pwhash)
const (
	HeaderUID    = "X-Uid"
	HeaderPwhash = "X-Pwhash"
	FieldUID     = "uid"
	FieldPwhash  = "pwhash"
)

// Authenticator проверяет пару (uid, pwhash). Реализуется service.AuthService.
type Authenticator interface {
	Authenticate(userID uint, credential string) (*entity.User, error)
}

// AuthMiddleware проверяет учётные данные на каждом защищённом запросе.
// Сессий нет: клиент присылает uid и pwhash с каждым запросом.
type AuthMiddleware struct {
	authenticator Authenticator
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// credentialBody - поля учётных данных в JSON теле запроса. uid может прийти числом или строкой.
type credentialBody struct {
	UID    interface{} `json:"uid"`
	Pwhash string      `json:"pwhash"`
}

// ExtractCredentials ищет uid и pwhash по порядку: заголовки, cookie, query, JSON тело.
// Тело читается через ShouldBindBodyWith, поэтому хендлер может разобрать его повторно.
func ExtractCredentials(c *gin.Context) (string, string) {
	if uid, pw := c.GetHeader(HeaderUID), c.GetHeader(HeaderPwhash); uid != "" && pw != "" {
		return uid, pw
	}

	uidCookie, errUID := c.Cookie(FieldUID)
	pwCookie, errPw := c.Cookie(FieldPwhash)
	if errUID == nil && errPw == nil && uidCookie != "" && pwCookie != "" {
		return uidCookie, pwCookie
	}

	if uid, pw := c.Query(FieldUID), c.Query(FieldPwhash); uid != "" && pw != "" {
		return uid, pw
	}

	if c.Request.ContentLength != 0 && strings.HasPrefix(c.ContentType(), binding.MIMEJSON) {
		var body credentialBody
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err == nil {
			switch v := body.UID.(type) {
			case float64:
				// Дробные и отрицательные значения не проходят ParseUint в RequireCredentials
				return strconv.FormatFloat(v, 'f', -1, 64), body.Pwhash
			case string:
				return v, body.Pwhash
			}
		}
	}

	return "", ""
}

// RequireCredentials пускает запрос только с верной парой (uid, pwhash) неудалённого пользователя
func (m *AuthMiddleware) RequireCredentials() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawUID, pwhash := ExtractCredentials(c)
		if rawUID == "" || pwhash == "" {
			abortWithError(c, http.StatusBadRequest, "validation_error", "Missing uid or pwhash")
			return
		}

		uid, err := strconv.ParseUint(strings.TrimSpace(rawUID), 10, 32)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "validation_error", "Invalid uid")
			return
		}

		user, err := m.authenticator.Authenticate(uint(uid), pwhash)
		if err != nil {
			if errors.Is(err, apperrors.ErrUnauthorized) {
				abortWithError(c, http.StatusUnauthorized, "authentication_failed", "Authentication failed")
				return
			}
			log.Printf("[AuthMiddleware] Ошибка проверки учётных данных uid=%d (request_id=%s): %v",
				uid, c.GetString(ContextRequestIDKey), err)
			abortWithError(c, http.StatusServiceUnavailable, "store_unavailable", "Service temporarily unavailable")
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}

// RootOnly проверяет роль root. Должен применяться ПОСЛЕ RequireCredentials.
func (m *AuthMiddleware) RootOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "authentication_failed", "Authentication failed")
			return
		}
		if !user.IsRoot() {
			abortWithError(c, http.StatusForbidden, "forbidden", "Root privileges required")
			return
		}
		c.Next()
	}
}

// CurrentUser возвращает пользователя, которого выставил RequireCredentials
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	raw, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := raw.(*entity.User)
	return user, ok && user != nil
}

func abortWithError(c *gin.Context, status int, errorType, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success":    false,
		"message":    message,
		"error_type": errorType,
	})
}
