package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_Defaults(t *testing.T) {
	env, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "admin", env.AdminUser)
	assert.Equal(t, "tasks.txt", env.TasksFile)
	assert.Equal(t, "user.txt", env.UsersFile)
	assert.Equal(t, "text", env.TaskFormat)
	assert.Equal(t, "strict", env.LoadPolicy)
	assert.Equal(t, "local", env.StorageEnv.Type)
	assert.Equal(t, ":3100", env.Addr())
	assert.Equal(t, slog.LevelInfo, env.SlogLevel())
}

func TestLoadEnv_DotenvAndOverrides(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("TASKDESK_TASK_FORMAT=yaml\nTASKDESK_LOG_LEVEL=debug\n"), 0644))
	t.Setenv("TASKDESK_LOG_LEVEL", "warn")
	t.Setenv("TASKDESK_HTTP_PORT", "8080")
	// godotenv sets variables that are not yet defined; drop it afterwards.
	t.Cleanup(func() { os.Unsetenv("TASKDESK_TASK_FORMAT") })

	env, err := LoadEnv(dotenv)
	require.NoError(t, err)
	assert.Equal(t, "yaml", env.TaskFormat)
	assert.Equal(t, slog.LevelWarn, env.SlogLevel())
	assert.Equal(t, ":8080", env.Addr())
}

func TestSlogLevelFallsBack(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, (&BaseEnv{LogLevel: "loud"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (*BaseEnv)(nil).SlogLevel())
}
