package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/wordduel-api/internal/domain/repository"
	apperrors "github.com/yourusername/wordduel-api/internal/pkg/errors"
)

// DomainError - ошибка бизнес-правила со стабильным кодом для error_type.
// Kind - категория из internal/pkg/errors, по ней хендлер выбирает HTTP статус.
type DomainError struct {
	Code    string
	Message string
	Kind    error
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Kind }

func newDomainError(kind error, code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: kind}
}

// validationError создаёт ошибку валидации с конкретным сообщением
func validationError(message string) error {
	return &DomainError{Code: "validation_error", Message: message, Kind: apperrors.ErrValidation}
}

// Ошибки игрового движка и хранилищ
var (
	ErrGameNotFound       = newDomainError(apperrors.ErrNotFound, "game_not_found", "Game not found")
	ErrDictionaryNotFound = newDomainError(apperrors.ErrNotFound, "dictionary_not_found", "Dictionary not found")
	ErrWordNotFound       = newDomainError(apperrors.ErrNotFound, "word_not_found", "Word not found")
	ErrUserNotFound       = newDomainError(apperrors.ErrNotFound, "user_not_found", "User not found")

	ErrInvalidState     = newDomainError(apperrors.ErrConflict, "invalid_state", "Operation not allowed in the current game state")
	ErrNotMember        = newDomainError(apperrors.ErrConflict, "not_member", "Not in game")
	ErrNotYourTurn      = newDomainError(apperrors.ErrConflict, "not_your_turn", "Not your turn")
	ErrWrongWord        = newDomainError(apperrors.ErrConflict, "wrong_word", "This is not the expected word for your turn")
	ErrGameComplete     = newDomainError(apperrors.ErrConflict, "game_complete", "All words have been answered")
	ErrAlreadyJoined    = newDomainError(apperrors.ErrConflict, "already_joined", "Already joined")
	ErrOwnerCannotLeave = newDomainError(apperrors.ErrConflict, "owner_cannot_leave", "Owner cannot leave the game")
	ErrConcurrentUpdate = newDomainError(apperrors.ErrConflict, "concurrent_update", "Game was changed by another request, reload and retry")
	ErrEmptyDictionary  = newDomainError(apperrors.ErrValidation, "empty_dictionary", "Dictionary has no words")

	ErrNotOwner   = newDomainError(apperrors.ErrForbidden, "not_owner", "Only the game owner can do this")
	ErrForbidden  = newDomainError(apperrors.ErrForbidden, "forbidden", "Permission denied")
	ErrSelfAction = newDomainError(apperrors.ErrValidation, "self_action", "Cannot perform this action on your own account")
	ErrNoUpdates  = newDomainError(apperrors.ErrValidation, "no_updates", "No updates provided")
)

// storeFailure логирует причину сбоя хранилища и скрывает её от клиента
func storeFailure(op string, err error) error {
	log.Printf("[Service] %s: ошибка хранилища: %v", op, err)
	return fmt.Errorf("%s: %w", op, apperrors.ErrStoreUnavailable)
}

// lookupFailure переводит NotFound в доменную ошибку, остальное - в сбой хранилища
func lookupFailure(op string, err error, notFound error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return notFound
	}
	return storeFailure(op, err)
}

// mutationFailure разбирает ошибку условной записи игры
func (s *GameService) mutationFailure(op string, gameID uint, err error) error {
	switch {
	case errors.Is(err, repository.ErrStaleVersion):
		log.Printf("[GameService] %s: игра #%d изменена параллельно: %v", op, gameID, err)
		s.metrics.IncConflict(op)
		return ErrConcurrentUpdate
	case errors.Is(err, apperrors.ErrNotFound):
		return ErrGameNotFound
	default:
		return storeFailure(op, err)
	}
}
