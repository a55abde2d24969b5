package repository

import (
	"github.com/yourusername/wordduel-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// Create возвращает ErrDuplicate, если имя пользователя занято
	Create(user *entity.User) error
	// GetByID возвращает пользователя, в том числе удалённого
	GetByID(id uint) (*entity.User, error)
	GetActiveByID(id uint) (*entity.User, error)
	GetActiveByUsername(username string) (*entity.User, error)
	// GetByUsername ищет среди всех пользователей, включая удалённых
	GetByUsername(username string) (*entity.User, error)
	// GetByIDs возвращает пользователей, включая удалённых, для истории игр
	GetByIDs(ids []uint) ([]entity.User, error)
	UpdateIntroduction(userID uint, introduction string) error
	UpdatePassword(userID uint, newPassword string) error
	SetDeleted(userID uint, deleted bool) error
	SetRole(userID uint, role string) error
	List(includeDeleted bool) ([]entity.User, error)
	// GetLeaderboard возвращает неудалённых пользователей по рейтингу и их общее количество
	GetLeaderboard(limit, offset int) ([]entity.User, int64, error)
}
