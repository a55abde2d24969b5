package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/yourusername/wordduel-api/internal/domain/entity"
	"github.com/yourusername/wordduel-api/internal/domain/repository"
	apperrors "github.com/yourusername/wordduel-api/internal/pkg/errors"
)

const maxUsernameLength = 255

// AuthService отвечает за регистрацию, вход и проверку пары (uid, pwhash)
type AuthService struct {
	userRepo repository.UserRepository
	// dummyHash сравнивается с паролем, когда пользователь не найден,
	// чтобы время ответа не выдавало существование имени
	dummyHash string
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(userRepo repository.UserRepository) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	dummy, err := entity.HashPassword("wordduel-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare AuthService: %w", err)
	}
	return &AuthService{userRepo: userRepo, dummyHash: dummy}, nil
}

// ValidatePassword проверяет минимальную длину пароля
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < entity.MinPasswordLength {
		return validationError(fmt.Sprintf("Password must be at least %d characters", entity.MinPasswordLength))
	}
	return nil
}

// Register создает пользователя с ролью normal и нулевым рейтингом
func (s *AuthService) Register(username, password, introduction string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	introduction = strings.TrimSpace(introduction)

	if username == "" || password == "" {
		return nil, validationError("Username and password required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return nil, validationError("Invalid username or password length")
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	// Имя занято и удалёнными пользователями: строки не удаляются физически
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, storeFailure("register", err)
	}

	user := &entity.User{
		Username:     username,
		Password:     password, // хешируется в BeforeSave
		Introduction: introduction,
		Rating:       0,
		Role:         entity.UserRoleNormal,
	}
	if err := s.userRepo.Create(user); err != nil {
		// Гонка двух регистраций с одним именем ловится уникальным индексом
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, storeFailure("register", err)
	}

	log.Printf("[AuthService] Зарегистрирован пользователь ID=%d username=%s", user.ID, user.Username)
	return user, nil
}

// Login проверяет имя и пароль. Клиент дальше предъявляет user.Credential() как pwhash.
func (s *AuthService) Login(username, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, validationError("Username and password required")
	}

	user, err := s.userRepo.GetActiveByUsername(username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			(&entity.User{Password: s.dummyHash}).CheckPassword(password)
			return nil, ErrAuthenticationFailed
		}
		return nil, storeFailure("login", err)
	}

	if !user.CheckPassword(password) {
		log.Printf("[AuthService] Неверный пароль для пользователя ID=%d", user.ID)
		return nil, ErrAuthenticationFailed
	}

	return user, nil
}

// Authenticate проверяет пару (uid, pwhash) на неудалённом пользователе.
// Любое несовпадение даёт ErrAuthenticationFailed.
func (s *AuthService) Authenticate(userID uint, credential string) (*entity.User, error) {
	credential = strings.TrimSpace(credential)
	if userID == 0 || credential == "" {
		return nil, ErrAuthenticationFailed
	}

	user, err := s.userRepo.GetActiveByID(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, storeFailure("authenticate", err)
	}

	if !user.MatchesCredential(credential) {
		return nil, ErrAuthenticationFailed
	}
	return user, nil
}
