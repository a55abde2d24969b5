package entity

import (
	"time"
)

// Dictionary представляет именованный словарь с парами слов
type Dictionary struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Deleted   bool      `gorm:"not null;default:false;index" json:"-"`
	Words     []Word    `gorm:"foreignKey:DictionaryID" json:"words,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Dictionary) TableName() string {
	return "dictionaries"
}

// DictionarySummary - строка списка словарей с числом живых слов
type DictionarySummary struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	WordCount int64  `json:"word_count"`
}
