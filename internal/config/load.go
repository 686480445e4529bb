package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load читает необязательные .env файлы, затем переменные окружения.
// Уже заданные переменные окружения имеют приоритет над .env.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("ошибка чтения %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}
	if cfg.MaxActiveWorkspaces < 1 {
		return nil, fmt.Errorf("MAX_ACTIVE_WORKSPACES должен быть положительным, получено %d", cfg.MaxActiveWorkspaces)
	}
	if cfg.ImageWorkers < 1 {
		return nil, fmt.Errorf("IMAGE_WORKERS должен быть положительным, получено %d", cfg.ImageWorkers)
	}

	return &cfg, nil
}
