package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type BaseEnv struct {
	Env       string `envconfig:"ENV" default:"local"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile   string `envconfig:"LOG_FILE"`
	AdminUser string `envconfig:"ADMIN_USER" default:"admin"`
}

type StorageEnv struct {
	Type    string `envconfig:"STORAGE_TYPE" default:"local"`
	BaseDir string `envconfig:"STORAGE_BASE_DIR" default:"."`
	// S3 settings (used when Type == "s3")
	S3Bucket string `envconfig:"S3_BUCKET"`
	S3Prefix string `envconfig:"S3_PREFIX" default:"taskdesk/"`
	S3Region string `envconfig:"S3_REGION" default:"ap-northeast-1"`
}

type StoreEnv struct {
	TasksFile        string `envconfig:"TASKS_FILE" default:"tasks.txt"`
	UsersFile        string `envconfig:"USERS_FILE" default:"user.txt"`
	TaskFormat       string `envconfig:"TASK_FORMAT" default:"text"`
	LoadPolicy       string `envconfig:"LOAD_POLICY" default:"strict"`
	TaskOverviewFile string `envconfig:"TASK_OVERVIEW_FILE" default:"task_overview.txt"`
	UserOverviewFile string `envconfig:"USER_OVERVIEW_FILE" default:"user_overview.txt"`
	// ActivityFile may be set to an empty string to turn the activity log off.
	ActivityFile string `envconfig:"ACTIVITY_FILE" default:"activity.ndjson"`
}

type HTTPEnv struct {
	HTTPHost string `envconfig:"HTTP_HOST" default:""`
	HTTPPort string `envconfig:"HTTP_PORT" default:"3100"`
	APIKey   string `envconfig:"API_KEY"`
}

type Env struct {
	BaseEnv
	StorageEnv
	StoreEnv
	HTTPEnv
}

const namespace = "TASKDESK"

// LoadEnv reads the environment after loading the given dotenv files.
// Missing dotenv files are ignored and real environment variables win.
func LoadEnv(dotenvFiles ...string) (*Env, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelInfo
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (e *HTTPEnv) Addr() string {
	return net.JoinHostPort(e.HTTPHost, e.HTTPPort)
}
