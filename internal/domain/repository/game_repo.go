package repository

import (
	"time"

	"github.com/yourusername/wordduel-api/internal/domain/entity"
)

// GameFilters определяет фильтры для списка игр
type GameFilters struct {
	Status        string // open, in_progress, finished; пусто - все
	ParticipantID uint   // 0 - без фильтра по участнику
}

// GameRepository определяет методы для работы с играми.
// Каждое изменение - условное обновление по (id, version): если версия в базе
// уже другая, возвращается ErrStaleVersion и ничего не меняется.
type GameRepository interface {
	Create(game *entity.Game) error
	// GetByID возвращает игру с журналом ответов, упорядоченным по turn_index
	GetByID(id uint) (*entity.Game, error)
	List(filters GameFilters, limit, offset int) ([]entity.Game, int64, error)
	// UpdateParticipants меняет состав участников открытой игры
	UpdateParticipants(gameID uint, version int64, participants entity.IDList) error
	// Start переводит игру open → in_progress
	Start(gameID uint, version int64, startedAt time.Time) error
	// AppendAnswer добавляет запись в журнал и увеличивает версию в одной транзакции
	AppendAnswer(gameID uint, version int64, answer *entity.GameAnswer) error
	// Finish переводит игру в finished и применяет изменения рейтинга в одной транзакции
	Finish(gameID uint, version int64, finishedAt time.Time, ratingDeltas map[uint]int64) error
}
