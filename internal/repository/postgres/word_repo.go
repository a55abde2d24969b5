package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/wordduel-api/internal/domain/entity"
	apperrors "github.com/yourusername/wordduel-api/internal/pkg/errors"
)

const wordBatchSize = 500

// WordRepo реализует repository.WordRepository
type WordRepo struct {
	db *gorm.DB
}

// NewWordRepo создает новый репозиторий слов
func NewWordRepo(db *gorm.DB) *WordRepo {
	return &WordRepo{db: db}
}

// Create создает слово
func (r *WordRepo) Create(word *entity.Word) error {
	return r.db.Create(word).Error
}

// CreateBatch вставляет слова пачками в одной транзакции
func (r *WordRepo) CreateBatch(words []entity.Word) error {
	if len(words) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&words, wordBatchSize).Error
	})
}

// GetActiveByID возвращает неудалённое слово
func (r *WordRepo) GetActiveByID(id uint) (*entity.Word, error) {
	var word entity.Word
	if err := r.db.Where("id = ? AND deleted = ?", id, false).First(&word).Error; err != nil {
		return nil, notFound(err)
	}
	return &word, nil
}

// GetByIDs возвращает слова по списку ID, включая удалённые
func (r *WordRepo) GetByIDs(ids []uint) ([]entity.Word, error) {
	var words []entity.Word
	if len(ids) == 0 {
		return words, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&words).Error
	return words, err
}

// ListActiveByDictionary возвращает живые слова словаря по id
func (r *WordRepo) ListActiveByDictionary(dictionaryID uint) ([]entity.Word, error) {
	var words []entity.Word
	err := r.db.Where("dictionary_id = ? AND deleted = ?", dictionaryID, false).
		Order("id").
		Find(&words).Error
	return words, err
}

// ListActiveIDsByDictionary возвращает ID живых слов словаря
func (r *WordRepo) ListActiveIDsByDictionary(dictionaryID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entity.Word{}).
		Where("dictionary_id = ? AND deleted = ?", dictionaryID, false).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

// Update меняет пару терминов неудалённого слова
func (r *WordRepo) Update(id uint, term, translation string) error {
	result := r.db.Model(&entity.Word{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]interface{}{
			"term":        term,
			"translation": translation,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDelete помечает слово удалённым
func (r *WordRepo) SoftDelete(id uint) error {
	result := r.db.Model(&entity.Word{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]interface{}{"deleted": true, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
