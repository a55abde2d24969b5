package postgres

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/wordduel-api/internal/domain/entity"
	"github.com/yourusername/wordduel-api/internal/domain/repository"
	apperrors "github.com/yourusername/wordduel-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя. Пароль хешируется хуком BeforeSave.
func (r *UserRepo) Create(user *entity.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username %q", repository.ErrDuplicate, user.Username)
		}
		return err
	}
	return nil
}

// GetByID возвращает пользователя по ID, включая удалённых
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetActiveByID возвращает неудалённого пользователя по ID
func (r *UserRepo) GetActiveByID(id uint) (*entity.User, error) {
	var user entity.User
	if err := r.db.Where("id = ? AND deleted = ?", id, false).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetActiveByUsername возвращает неудалённого пользователя по имени
func (r *UserRepo) GetActiveByUsername(username string) (*entity.User, error) {
	var user entity.User
	if err := r.db.Where("username = ? AND deleted = ?", username, false).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetByUsername возвращает пользователя по имени, включая удалённых
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	var user entity.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetByIDs возвращает пользователей по списку ID в порядке id
func (r *UserRepo) GetByIDs(ids []uint) ([]entity.User, error) {
	var users []entity.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.Where("id IN ?", ids).Order("id").Find(&users).Error
	return users, err
}

// UpdateIntroduction обновляет текст "о себе"
func (r *UserRepo) UpdateIntroduction(userID uint, introduction string) error {
	result := r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"introduction": introduction,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdatePassword хеширует пароль и сохраняет его в обход хука BeforeSave
func (r *UserRepo) UpdatePassword(userID uint, newPassword string) error {
	hashedPassword, err := entity.HashPassword(newPassword)
	if err != nil {
		log.Printf("[UserRepo.UpdatePassword] Ошибка при хешировании пароля: %v", err)
		return err
	}

	// Прямой SQL, чтобы не было двойного хеширования
	result := r.db.Exec(
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		hashedPassword,
		time.Now(),
		userID,
	)
	if result.Error != nil {
		log.Printf("[UserRepo.UpdatePassword] Ошибка при обновлении пароля ID=%d: %v", userID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	log.Printf("[UserRepo.UpdatePassword] Пароль обновлён для пользователя ID=%d", userID)
	return nil
}

// SetDeleted включает или снимает мягкое удаление
func (r *UserRepo) SetDeleted(userID uint, deleted bool) error {
	result := r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"deleted":    deleted,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetRole меняет роль пользователя
func (r *UserRepo) SetRole(userID uint, role string) error {
	result := r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// List возвращает пользователей, новые первыми
func (r *UserRepo) List(includeDeleted bool) ([]entity.User, error) {
	var users []entity.User
	query := r.db.Model(&entity.User{})
	if !includeDeleted {
		query = query.Where("deleted = ?", false)
	}
	err := query.Order("id DESC").Find(&users).Error
	return users, err
}

// GetLeaderboard возвращает неудалённых пользователей по убыванию рейтинга
// с пагинацией и общим количеством
func (r *UserRepo) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	var users []entity.User
	var total int64

	// Транзакция для согласованности страницы и общего количества
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.User{}).Where("deleted = ?", false).Count(&total).Error; err != nil {
			return err
		}
		return tx.Where("deleted = ?", false).
			Order("rating DESC, id ASC").
			Limit(limit).
			Offset(offset).
			Select("id", "username", "introduction", "rating").
			Find(&users).Error
	})
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
