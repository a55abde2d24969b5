package errors

import "errors"

// Общие категории ошибок приложения.
// Доменные ошибки сервисов оборачивают одну из них, а хендлеры выбирают HTTP статус по категории.
var (
	// ErrNotFound используется, когда запись отсутствует или мягко удалена.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется, когда пара (uid, pwhash) не прошла проверку.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется, когда операция недопустима в текущем состоянии ресурса
	// (чужой ход, игра уже начата, проигранная гонка за версию строки и т.д.).
	ErrConflict = errors.New("resource state conflict")

	// ErrStoreUnavailable скрывает от клиента причину сбоя хранилища. Исходная ошибка логируется.
	ErrStoreUnavailable = errors.New("store unavailable")
)
