package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	BackendRedis  = "redis"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"BATTLESHIP_LOG_LEVEL" env-default:"info"`
	HTTPPort string  `yaml:"http-port" env:"BATTLESHIP_HTTP_PORT" env-default:"9090"`
	Storage  Storage `yaml:"storage"`
	Redis    Redis   `yaml:"redis"`
	Lock     Lock    `yaml:"lock"`
}

type Storage struct {
	Backend    string `yaml:"backend" env:"BATTLESHIP_STORAGE_BACKEND" env-default:"redis"`
	Dir        string `yaml:"dir" env:"BATTLESHIP_STORAGE_DIR" env-default:"./data/games"`
	SQLitePath string `yaml:"sqlite-path" env:"BATTLESHIP_SQLITE_PATH" env-default:"./data/games.db"`
}

type Redis struct {
	Host     string `yaml:"host" env:"BATTLESHIP_REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"BATTLESHIP_REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"BATTLESHIP_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"BATTLESHIP_REDIS_DB" env-default:"0"`
}

// Lock - how long a request waits for a busy game, and how long a Redis lock outlives a crashed holder.
type Lock struct {
	Wait  time.Duration `yaml:"wait" env:"BATTLESHIP_LOCK_WAIT" env-default:"2s"`
	TTL   time.Duration `yaml:"ttl" env:"BATTLESHIP_LOCK_TTL" env-default:"10s"`
	Retry time.Duration `yaml:"retry" env:"BATTLESHIP_LOCK_RETRY" env-default:"25ms"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (that *Config) validate() error {
	switch that.Storage.Backend {
	case BackendRedis, BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q", that.Storage.Backend)
	}

	if that.Lock.Wait < 0 || that.Lock.TTL <= 0 || that.Lock.Retry <= 0 {
		return fmt.Errorf("lock durations must be positive, got %+v", that.Lock)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
