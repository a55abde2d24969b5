package entity

import (
	"crypto/subtle"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Роли пользователей
const (
	UserRoleNormal = "normal"
	UserRoleRoot   = "root"
)

// MinPasswordLength минимальная длина пароля при регистрации и смене пароля
const MinPasswordLength = 6

// User представляет пользователя в системе.
// Пользователи никогда не удаляются физически: флаг Deleted скрывает их из списков и входа,
// но строки остаются для истории прошлых игр.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:255;not null;uniqueIndex" json:"username"`
	Password     string    `gorm:"column:password_hash;size:100;not null" json:"-"`
	Introduction string    `gorm:"type:text;not null;default:''" json:"introduction"`
	Rating       int64     `gorm:"not null;default:0;index:idx_users_leaderboard" json:"rating"`
	Role         string    `gorm:"size:20;not null;default:'normal'" json:"type"`
	Deleted      bool      `gorm:"not null;default:false;index:idx_users_leaderboard" json:"deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// IsRoot проверяет, является ли пользователь администратором
func (u *User) IsRoot() bool {
	return u.Role == UserRoleRoot
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешем
func (u *User) BeforeSave(tx *gorm.DB) error {
	if len(u.Password) > 0 && !IsPasswordHash(u.Password) {
		hashed, err := HashPassword(u.Password)
		if err != nil {
			log.Printf("[User.BeforeSave] Ошибка при хешировании пароля для username=%s: %v", u.Username, err)
			return err
		}
		u.Password = hashed
	}
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// Credential возвращает значение, которое клиент предъявляет как pwhash.
// Это сам сохранённый одноразовый дайджест, поэтому сверка - точное сравнение строк.
func (u *User) Credential() string {
	return u.Password
}

// MatchesCredential сравнивает предъявленный pwhash с сохранённым дайджестом за постоянное время
func (u *User) MatchesCredential(credential string) bool {
	if credential == "" || u.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(u.Password), []byte(credential)) == 1
}

// HashPassword возвращает bcrypt-дайджест пароля
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// IsPasswordHash сообщает, похожа ли строка на bcrypt-хеш ("$2a$", "$2b$" или "$2y$")
func IsPasswordHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
