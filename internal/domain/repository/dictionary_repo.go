package repository

import (
	"github.com/yourusername/wordduel-api/internal/domain/entity"
)

// DictionaryRepository определяет методы для работы со словарями
type DictionaryRepository interface {
	Create(dict *entity.Dictionary) error
	GetActiveByID(id uint) (*entity.Dictionary, error)
	// GetByID возвращает словарь, в том числе удалённый
	GetByID(id uint) (*entity.Dictionary, error)
	// GetByIDs возвращает словари, включая удалённые, для списков игр
	GetByIDs(ids []uint) ([]entity.Dictionary, error)
	// ListWithWordCount возвращает живые словари с числом живых слов, новые первыми
	ListWithWordCount() ([]entity.DictionarySummary, error)
	Rename(id uint, name string) error
	// SoftDeleteCascade помечает словарь и все его слова удалёнными в одной транзакции
	SoftDeleteCascade(id uint) error
}

// WordRepository определяет методы для работы со словами
type WordRepository interface {
	Create(word *entity.Word) error
	CreateBatch(words []entity.Word) error
	GetActiveByID(id uint) (*entity.Word, error)
	// GetByIDs возвращает слова, включая удалённые, для истории игр
	GetByIDs(ids []uint) ([]entity.Word, error)
	ListActiveByDictionary(dictionaryID uint) ([]entity.Word, error)
	ListActiveIDsByDictionary(dictionaryID uint) ([]uint, error)
	Update(id uint, term, translation string) error
	SoftDelete(id uint) error
}
