package dto

import (
	"github.com/yourusername/wordduel-api/internal/domain/entity"
)

// LeaderboardUserDTO представляет одного пользователя в лидерборде
type LeaderboardUserDTO struct {
	Rank         int    `json:"rank"`    // Место пользователя в рейтинге
	UserID       uint   `json:"user_id"` // ID пользователя
	Username     string `json:"username"`
	Introduction string `json:"introduction"`
	Rating       int64  `json:"rating"`
}

// PaginatedLeaderboardResponse представляет пагинированный ответ для лидерборда
type PaginatedLeaderboardResponse struct {
	Users   []*LeaderboardUserDTO `json:"users"`    // Список пользователей на странице
	Total   int64                 `json:"total"`    // Общее количество пользователей в лидерборде
	Page    int                   `json:"page"`     // Текущая страница
	PerPage int                   `json:"per_page"` // Количество пользователей на странице
}

// UserProfileResponse - публичный профиль
type UserProfileResponse struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Introduction string `json:"introduction"`
	Rating       int64  `json:"rating"`
	Type         string `json:"type"`
}

// AdminUserResponse - строка списка пользователей для администратора
type AdminUserResponse struct {
	UserProfileResponse
	Deleted bool `json:"deleted"`
}

// UserRef - краткая ссылка на пользователя в играх
type UserRef struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// NewUserProfileResponse создает DTO публичного профиля
func NewUserProfileResponse(u *entity.User) UserProfileResponse {
	return UserProfileResponse{
		ID:           u.ID,
		Username:     u.Username,
		Introduction: u.Introduction,
		Rating:       u.Rating,
		Type:         u.Role,
	}
}

// NewAdminUserListResponse создает DTO списка пользователей
func NewAdminUserListResponse(users []entity.User) []AdminUserResponse {
	out := make([]AdminUserResponse, len(users))
	for i := range users {
		out[i] = AdminUserResponse{
			UserProfileResponse: NewUserProfileResponse(&users[i]),
			Deleted:             users[i].Deleted,
		}
	}
	return out
}
