package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/wordduel-api/internal/domain/entity"
	apperrors "github.com/yourusername/wordduel-api/internal/pkg/errors"
)

// DictionaryRepo реализует repository.DictionaryRepository
type DictionaryRepo struct {
	db *gorm.DB
}

// NewDictionaryRepo создает новый репозиторий словарей
func NewDictionaryRepo(db *gorm.DB) *DictionaryRepo {
	return &DictionaryRepo{db: db}
}

// Create создает словарь
func (r *DictionaryRepo) Create(dict *entity.Dictionary) error {
	return r.db.Create(dict).Error
}

// GetActiveByID возвращает неудалённый словарь
func (r *DictionaryRepo) GetActiveByID(id uint) (*entity.Dictionary, error) {
	var dict entity.Dictionary
	if err := r.db.Where("id = ? AND deleted = ?", id, false).First(&dict).Error; err != nil {
		return nil, notFound(err)
	}
	return &dict, nil
}

// GetByID возвращает словарь, включая удалённый
func (r *DictionaryRepo) GetByID(id uint) (*entity.Dictionary, error) {
	var dict entity.Dictionary
	if err := r.db.First(&dict, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &dict, nil
}

// GetByIDs возвращает словари по списку ID, включая удалённые
func (r *DictionaryRepo) GetByIDs(ids []uint) ([]entity.Dictionary, error) {
	var dicts []entity.Dictionary
	if len(ids) == 0 {
		return dicts, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&dicts).Error
	return dicts, err
}

// ListWithWordCount возвращает живые словари с количеством живых слов
func (r *DictionaryRepo) ListWithWordCount() ([]entity.DictionarySummary, error) {
	var out []entity.DictionarySummary
	err := r.db.Model(&entity.Dictionary{}).
		Select("dictionaries.id, dictionaries.name, COUNT(words.id) AS word_count").
		Joins("LEFT JOIN words ON words.dictionary_id = dictionaries.id AND words.deleted = ?", false).
		Where("dictionaries.deleted = ?", false).
		Group("dictionaries.id, dictionaries.name").
		Order("dictionaries.id DESC").
		Scan(&out).Error
	return out, err
}

// Rename переименовывает неудалённый словарь
func (r *DictionaryRepo) Rename(id uint, name string) error {
	result := r.db.Model(&entity.Dictionary{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]interface{}{"name": name, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDeleteCascade помечает словарь и его слова удалёнными
func (r *DictionaryRepo) SoftDeleteCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&entity.Dictionary{}).
			Where("id = ? AND deleted = ?", id, false).
			Updates(map[string]interface{}{"deleted": true, "updated_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}

		return tx.Model(&entity.Word{}).
			Where("dictionary_id = ? AND deleted = ?", id, false).
			Updates(map[string]interface{}{"deleted": true, "updated_at": now}).Error
	})
}
