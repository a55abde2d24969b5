package service

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/wordduel-api/internal/domain/entity"
	"github.com/yourusername/wordduel-api/internal/domain/repository"
	"github.com/yourusername/wordduel-api/internal/handler/dto"
	apperrors "github.com/yourusername/wordduel-api/internal/pkg/errors"
)

const (
	leaderboardVersionKey   = "leaderboard:version"
	defaultLeaderboardLimit = 10
)

// UserService предоставляет методы для работы с профилями и лидербордом
type UserService struct {
	userRepo    repository.UserRepository
	cacheRepo   repository.CacheRepository // может быть nil: тогда лидерборд читается из БД
	cacheTTL    time.Duration
	maxPageSize int
}

// NewUserService создает новый сервис пользователей
func NewUserService(
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	cacheTTL time.Duration,
	maxPageSize int,
) *UserService {
	if maxPageSize < 1 {
		maxPageSize = 100
	}
	return &UserService{
		userRepo:    userRepo,
		cacheRepo:   cacheRepo,
		cacheTTL:    cacheTTL,
		maxPageSize: maxPageSize,
	}
}

// GetPublicProfile возвращает неудалённого пользователя
func (s *UserService) GetPublicProfile(userID uint) (*entity.User, error) {
	user, err := s.userRepo.GetActiveByID(userID)
	if err != nil {
		return nil, lookupFailure("get profile", err, ErrUserNotFound)
	}
	return user, nil
}

// UpdateProfileInput - изменения профиля. Пустой NewPassword и nil Introduction значат "не менять".
type UpdateProfileInput struct {
	CurrentPassword string
	NewPassword     string
	Introduction    *string
}

// UpdateProfile меняет пароль и/или текст "о себе" своего профиля.
// Смена пароля требует текущий пароль и меняет pwhash, поэтому возвращается обновлённый пользователь.
func (s *UserService) UpdateProfile(actor *entity.User, targetID uint, in UpdateProfileInput) (*entity.User, error) {
	if actor.ID != targetID {
		return nil, ErrForbidden
	}

	newPassword := strings.TrimSpace(in.NewPassword)
	changePassword := newPassword != ""
	if changePassword {
		if !actor.CheckPassword(strings.TrimSpace(in.CurrentPassword)) {
			return nil, ErrAuthenticationFailed
		}
		if err := ValidatePassword(newPassword); err != nil {
			return nil, err
		}
	}
	if !changePassword && in.Introduction == nil {
		return nil, ErrNoUpdates
	}

	if changePassword {
		if err := s.userRepo.UpdatePassword(actor.ID, newPassword); err != nil {
			return nil, lookupFailure("update password", err, ErrUserNotFound)
		}
	}
	if in.Introduction != nil {
		if err := s.userRepo.UpdateIntroduction(actor.ID, strings.TrimSpace(*in.Introduction)); err != nil {
			return nil, lookupFailure("update introduction", err, ErrUserNotFound)
		}
	}

	updated, err := s.userRepo.GetActiveByID(actor.ID)
	if err != nil {
		return nil, lookupFailure("reload profile", err, ErrUserNotFound)
	}
	return updated, nil
}

// GetLeaderboard возвращает пагинированный лидерборд.
// Страницы кешируются в Redis; ключ включает версию, которую сбрасывает InvalidateLeaderboard.
func (s *UserService) GetLeaderboard(page, pageSize int) (*dto.PaginatedLeaderboardResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultLeaderboardLimit
	} else if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	cacheKey := ""
	if s.cacheRepo != nil {
		cacheKey = fmt.Sprintf("leaderboard:v%d:%d:%d", s.leaderboardVersion(), page, pageSize)
		var cached dto.PaginatedLeaderboardResponse
		if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[UserService] Кеш лидерборда недоступен: %v", err)
		}
	}

	offset := (page - 1) * pageSize

	users, total, err := s.userRepo.GetLeaderboard(pageSize, offset)
	if err != nil {
		return nil, storeFailure("get leaderboard", err)
	}

	userDTOs := make([]*dto.LeaderboardUserDTO, len(users))
	for i, user := range users {
		userDTOs[i] = &dto.LeaderboardUserDTO{
			Rank:         offset + i + 1,
			UserID:       user.ID,
			Username:     user.Username,
			Introduction: user.Introduction,
			Rating:       user.Rating,
		}
	}

	response := &dto.PaginatedLeaderboardResponse{
		Users:   userDTOs,
		Total:   total,
		Page:    page,
		PerPage: pageSize,
	}

	if cacheKey != "" {
		if err := s.cacheRepo.SetJSON(cacheKey, response, s.cacheTTL); err != nil {
			log.Printf("[UserService] Не удалось сохранить лидерборд в кеш: %v", err)
		}
	}

	return response, nil
}

// InvalidateLeaderboard делает все закешированные страницы устаревшими
func (s *UserService) InvalidateLeaderboard() {
	if s.cacheRepo == nil {
		return
	}
	if _, err := s.cacheRepo.Increment(leaderboardVersionKey); err != nil {
		log.Printf("[UserService] Не удалось сбросить кеш лидерборда: %v", err)
	}
}

func (s *UserService) leaderboardVersion() int64 {
	raw, err := s.cacheRepo.Get(leaderboardVersionKey)
	if err != nil {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
