package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BeforeSave не использует tx, но сигнатура требует его
var mockTx *gorm.DB = nil

func TestUser_BeforeSave_HashesPassword(t *testing.T) {
	// Arrange: пользователь с открытым паролем
	plainPassword := "secret123"
	user := &User{Username: "alice", Password: plainPassword}

	// Act
	err := user.BeforeSave(mockTx)

	// Assert: пароль хеширован bcrypt
	require.NoError(t, err, "BeforeSave не должен возвращать ошибку")
	assert.NotEqual(t, plainPassword, user.Password, "Пароль должен быть изменён после хеширования")
	assert.True(t, IsPasswordHash(user.Password), "Ожидается bcrypt-хеш")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(plainPassword)))
}

func TestUser_BeforeSave_KeepsExistingHashAndEmptyPassword(t *testing.T) {
	hashed, err := HashPassword("alreadyHashed")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
	}{
		{name: "уже хешированный пароль", password: hashed},
		{name: "пустой пароль", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Username: "bob", Password: tt.password}

			require.NoError(t, user.BeforeSave(mockTx))
			assert.Equal(t, tt.password, user.Password, "Пароль не должен меняться")
		})
	}
}

func TestUser_CheckPassword(t *testing.T) {
	hashed, err := HashPassword("correct-horse")
	require.NoError(t, err)
	user := &User{Username: "carol", Password: hashed}

	assert.True(t, user.CheckPassword("correct-horse"))
	assert.False(t, user.CheckPassword("wrong-horse"))
	assert.False(t, user.CheckPassword(""))
}

func TestUser_MatchesCredential(t *testing.T) {
	hashed, err := HashPassword("secret123")
	require.NoError(t, err)
	user := &User{ID: 7, Username: "dave", Password: hashed}

	// Клиент предъявляет дайджест, полученный при входе
	assert.True(t, user.MatchesCredential(user.Credential()))
	// Открытый пароль не является учётными данными
	assert.False(t, user.MatchesCredential("secret123"))
	assert.False(t, user.MatchesCredential(""))
	assert.False(t, (&User{}).MatchesCredential(""), "Пустой дайджест ни с чем не совпадает")
}

func TestUser_IsRoot(t *testing.T) {
	assert.True(t, (&User{Role: UserRoleRoot}).IsRoot())
	assert.False(t, (&User{Role: UserRoleNormal}).IsRoot())
	assert.False(t, (&User{}).IsRoot())
}

func TestUser_TableName(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName(), "TableName должен возвращать 'users'")
}
