package postgres

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/wordduel-api/internal/domain/entity"
	"github.com/yourusername/wordduel-api/internal/domain/repository"
)

// GameRepo реализует repository.GameRepository
type GameRepo struct {
	db *gorm.DB
}

// NewGameRepo создает новый репозиторий игр
func NewGameRepo(db *gorm.DB) *GameRepo {
	return &GameRepo{db: db}
}

// Create создает игру. Журнал ответов при создании пуст.
func (r *GameRepo) Create(game *entity.Game) error {
	return r.db.Omit("Answers").Create(game).Error
}

// GetByID возвращает игру вместе с журналом ответов
func (r *GameRepo) GetByID(id uint) (*entity.Game, error) {
	var game entity.Game
	err := r.db.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("turn_index ASC")
	}).First(&game, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &game, nil
}

// List возвращает игры, новые первыми, и общее количество
func (r *GameRepo) List(filters repository.GameFilters, limit, offset int) ([]entity.Game, int64, error) {
	var games []entity.Game
	var total int64

	query := r.db.Model(&entity.Game{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.ParticipantID != 0 {
		query = query.Where("? = ANY(participants)", filters.ParticipantID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&games).Error; err != nil {
		return nil, 0, err
	}

	return games, total, nil
}

// casScope выбирает строку игры, только если версия и статус не изменились с момента чтения
func casScope(tx *gorm.DB, gameID uint, version int64, fromStatuses []string) *gorm.DB {
	return tx.Model(&entity.Game{}).
		Where("id = ? AND version = ? AND status IN ?", gameID, version, fromStatuses)
}

// bumpVersion - условное обновление строки игры.
// RowsAffected == 0 значит, что версия или статус уже другие: ErrStaleVersion.
func bumpVersion(tx *gorm.DB, gameID uint, version int64, fromStatuses []string, updates map[string]interface{}) error {
	updates["version"] = gorm.Expr("version + 1")
	updates["updated_at"] = time.Now()

	result := casScope(tx, gameID, version, fromStatuses).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update game #%d failed: %w", gameID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: game #%d at version %d", repository.ErrStaleVersion, gameID, version)
	}
	return nil
}

// UpdateParticipants меняет состав участников открытой игры
func (r *GameRepo) UpdateParticipants(gameID uint, version int64, participants entity.IDList) error {
	return bumpVersion(r.db, gameID, version, []string{entity.GameStatusOpen}, map[string]interface{}{
		"participants": participants,
	})
}

// Start переводит open → in_progress
func (r *GameRepo) Start(gameID uint, version int64, startedAt time.Time) error {
	return bumpVersion(r.db, gameID, version, []string{entity.GameStatusOpen}, map[string]interface{}{
		"status":     entity.GameStatusInProgress,
		"started_at": startedAt,
	})
}

// AppendAnswer увеличивает версию игры и вставляет запись журнала в одной транзакции.
// Строка игры блокируется первым UPDATE, поэтому конкурент за тот же ход
// увидит новую версию и получит ErrStaleVersion.
func (r *GameRepo) AppendAnswer(gameID uint, version int64, answer *entity.GameAnswer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := bumpVersion(tx, gameID, version, []string{entity.GameStatusInProgress}, map[string]interface{}{}); err != nil {
			return err
		}

		answer.GameID = gameID
		if err := tx.Create(answer).Error; err != nil {
			return answerInsertError(gameID, answer.TurnIndex, err)
		}
		return nil
	})
}

// answerInsertError: уникальный индекс (game_id, turn_index) - второй рубеж после версии строки
func answerInsertError(gameID uint, turnIndex int, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: game #%d turn %d already answered", repository.ErrStaleVersion, gameID, turnIndex)
	}
	return fmt.Errorf("insert answer for game #%d failed: %w", gameID, err)
}

// Finish завершает игру и атомарно прибавляет изменения рейтинга участникам.
// Пользователи обновляются в порядке id, чтобы параллельные завершения не блокировали друг друга.
func (r *GameRepo) Finish(gameID uint, version int64, finishedAt time.Time, ratingDeltas map[uint]int64) error {
	userIDs := make([]uint, 0, len(ratingDeltas))
	for uid, delta := range ratingDeltas {
		if delta != 0 {
			userIDs = append(userIDs, uid)
		}
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	return r.db.Transaction(func(tx *gorm.DB) error {
		err := bumpVersion(tx, gameID, version,
			[]string{entity.GameStatusOpen, entity.GameStatusInProgress},
			map[string]interface{}{
				"status":      entity.GameStatusFinished,
				"finished_at": finishedAt,
			})
		if err != nil {
			return err
		}

		for _, uid := range userIDs {
			result := tx.Model(&entity.User{}).
				Where("id = ?", uid).
				UpdateColumn("rating", gorm.Expr("rating + ?", ratingDeltas[uid]))
			if result.Error != nil {
				return fmt.Errorf("apply rating delta to user #%d failed: %w", uid, result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("user #%d: %w", uid, repository.ErrRatingTargetMissing)
			}
		}
		return nil
	})
}
