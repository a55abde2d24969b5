package service

import (
	"log"
	"strings"

	"github.com/yourusername/wordduel-api/internal/domain/entity"
	"github.com/yourusername/wordduel-api/internal/domain/repository"
)

// AdminService - действия администратора (роль root) над пользователями
type AdminService struct {
	userRepo    repository.UserRepository
	userService *UserService
}

// NewAdminService создает новый сервис администрирования
func NewAdminService(userRepo repository.UserRepository, userService *UserService) *AdminService {
	return &AdminService{userRepo: userRepo, userService: userService}
}

func requireRoot(actor *entity.User) error {
	if actor == nil || !actor.IsRoot() {
		return ErrForbidden
	}
	return nil
}

// ListUsers возвращает пользователей, новые первыми
func (s *AdminService) ListUsers(actor *entity.User, includeDeleted bool) ([]entity.User, error) {
	if err := requireRoot(actor); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(includeDeleted)
	if err != nil {
		return nil, storeFailure("list users", err)
	}
	return users, nil
}

// ResetPassword задаёт новый пароль другому пользователю
func (s *AdminService) ResetPassword(actor *entity.User, targetID uint, newPassword string) error {
	if err := requireRoot(actor); err != nil {
		return err
	}
	newPassword = strings.TrimSpace(newPassword)
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	if actor.ID == targetID {
		return ErrSelfAction
	}
	if _, err := s.userRepo.GetByID(targetID); err != nil {
		return lookupFailure("reset password", err, ErrUserNotFound)
	}

	if err := s.userRepo.UpdatePassword(targetID, newPassword); err != nil {
		return lookupFailure("reset password", err, ErrUserNotFound)
	}
	log.Printf("[AdminService] Администратор ID=%d сбросил пароль пользователю ID=%d", actor.ID, targetID)
	return nil
}

// DeleteUser мягко удаляет другого пользователя
func (s *AdminService) DeleteUser(actor *entity.User, targetID uint) error {
	if err := requireRoot(actor); err != nil {
		return err
	}
	if actor.ID == targetID {
		return ErrSelfAction
	}
	return s.setDeleted(actor, targetID, true)
}

// RestoreUser снимает мягкое удаление
func (s *AdminService) RestoreUser(actor *entity.User, targetID uint) error {
	if err := requireRoot(actor); err != nil {
		return err
	}
	return s.setDeleted(actor, targetID, false)
}

func (s *AdminService) setDeleted(actor *entity.User, targetID uint, deleted bool) error {
	if _, err := s.userRepo.GetByID(targetID); err != nil {
		return lookupFailure("set deleted", err, ErrUserNotFound)
	}
	if err := s.userRepo.SetDeleted(targetID, deleted); err != nil {
		return lookupFailure("set deleted", err, ErrUserNotFound)
	}
	// Удалённые пользователи исключаются из лидерборда
	if s.userService != nil {
		s.userService.InvalidateLeaderboard()
	}
	log.Printf("[AdminService] Администратор ID=%d: пользователь ID=%d deleted=%t", actor.ID, targetID, deleted)
	return nil
}

// GrantRoot выдаёт роль root пользователю по имени. Используется из vocabctl.
func (s *AdminService) GrantRoot(username string) (*entity.User, error) {
	user, err := s.userRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, lookupFailure("grant root", err, ErrUserNotFound)
	}
	if user.IsRoot() {
		return user, nil
	}
	if err := s.userRepo.SetRole(user.ID, entity.UserRoleRoot); err != nil {
		return nil, lookupFailure("grant root", err, ErrUserNotFound)
	}
	user.Role = entity.UserRoleRoot
	log.Printf("[AdminService] Пользователю ID=%d выдана роль root", user.ID)
	return user, nil
}
