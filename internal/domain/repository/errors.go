package repository

import (
	"errors"
	"fmt"

	apperrors "github.com/yourusername/wordduel-api/internal/pkg/errors"
)

var (
	// ErrStaleVersion означает, что строка игры изменилась между чтением и записью
	// (версия или статус уже не те). Изменения не применены.
	ErrStaleVersion = fmt.Errorf("%w: stale game version", apperrors.ErrConflict)
	// ErrDuplicate означает нарушение уникального ограничения.
	ErrDuplicate = fmt.Errorf("%w: duplicate key", apperrors.ErrConflict)
	// ErrRatingTargetMissing означает, что участника игры нет в users при начислении рейтинга.
	// Это нарушение целостности, а не отсутствие игры: транзакция откатывается целиком.
	ErrRatingTargetMissing = errors.New("rating target user missing")
)
