package service

import (
	apperrors "github.com/yourusername/wordduel-api/internal/pkg/errors"
)

// Ошибки регистрации и входа. Хендлеры используют Code как error_type.
var (
	// ErrAuthenticationFailed одна на все случаи: неизвестный uid, удалённый пользователь,
	// неверный пароль или pwhash. Так нельзя узнать, существует ли пользователь.
	ErrAuthenticationFailed = newDomainError(apperrors.ErrUnauthorized, "authentication_failed", "Authentication failed")
	ErrUsernameTaken        = newDomainError(apperrors.ErrConflict, "username_taken", "Username already exists")
)
