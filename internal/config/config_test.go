package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db.local
  user: wordduel
  dbname: wordduel
redis:
  addr: redis.local:6379
leaderboard:
  cache_ttl: 45s
ratelimit:
  auth_window: 2m
`)
	t.Setenv("GIN_MODE", "test")
	t.Setenv("DATABASE_HOST", "db.override")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "db.override", cfg.Database.Host, "Переменная окружения важнее файла")
	assert.Equal(t, "wordduel", cfg.Database.DBName)
	assert.Equal(t, "5432", cfg.Database.Port, "Значение по умолчанию")
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "redis.local:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 45*time.Second, cfg.Leaderboard.CacheTTL)
	assert.Equal(t, 2*time.Minute, cfg.RateLimit.AuthWindow)
	assert.Equal(t, 10, cfg.RateLimit.AuthMaxRequests)
	assert.Equal(t, 100, cfg.Leaderboard.MaxPageSize)
	assert.Equal(t, "file://migrations", cfg.Database.MigrationsPath)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("GIN_MODE", "test")
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("DATABASE_USER", "u")
	t.Setenv("DATABASE_DBNAME", "d")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestConfig_Validate(t *testing.T) {
	t.Setenv("GIN_MODE", "test")
	valid := func() Config {
		return Config{
			Database:    DatabaseConfig{Host: "h", User: "u", DBName: "d"},
			Redis:       RedisConfig{Enabled: true, Addr: "localhost:6379"},
			Leaderboard: LeaderboardConfig{MaxPageSize: 100},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "валидная", mutate: func(c *Config) {}},
		{name: "нет хоста БД", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: true},
		{name: "redis без адреса", mutate: func(c *Config) { c.Redis.Addr = "" }, wantErr: true},
		{name: "redis выключен", mutate: func(c *Config) { c.Redis = RedisConfig{} }},
		{name: "нулевая страница", mutate: func(c *Config) { c.Leaderboard.MaxPageSize = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseConfig_ConnectionStrings(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}

	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", d.PostgresConnectionString())
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", d.PostgresURL())
}
