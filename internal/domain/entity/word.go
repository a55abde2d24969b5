package entity

import (
	"strings"
	"time"
)

// Word - пара терминов внутри словаря.
// Term показывается игроку как подсказка, Translation - ожидаемый ответ.
type Word struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DictionaryID uint      `gorm:"not null;index" json:"dictionary_id"`
	Term         string    `gorm:"size:255;not null" json:"term"`
	Translation  string    `gorm:"size:255;not null" json:"translation"`
	Deleted      bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Word) TableName() string {
	return "words"
}

// IsCorrect проверяет ответ без учёта регистра и пробелов по краям
func (w *Word) IsCorrect(answer string) bool {
	return CheckAnswer(answer, w.Translation)
}

// CheckAnswer сравнивает ответ с ожидаемым переводом
func CheckAnswer(answer, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(expected))
}
