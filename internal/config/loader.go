package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigFile = "config.yaml"

// Load monta a configuração do guest-sync.
//
// O .env do diretório de trabalho entra primeiro no ambiente, sem sobrescrever variáveis
// já exportadas. Em seguida vem o config.yaml (opcional) e, por cima dele, o ambiente.
// Um CONFIG_PATH definido precisa existir: apontar para um arquivo ausente é erro, não fallback.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("⚠️ .env ignorado: %v", err)
	}

	file, err := configFile()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if file == "" {
		err = cleanenv.ReadEnv(&cfg)
	} else {
		err = cleanenv.ReadConfig(file, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao ler configuração: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuração inválida: %w", err)
	}
	return &cfg, nil
}

// configFile resolve qual YAML ler. Vazio = só ambiente + defaults.
func configFile() (string, error) {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("CONFIG_PATH %s inacessível: %w", p, err)
		}
		return p, nil
	}

	if _, err := os.Stat(defaultConfigFile); err != nil {
		return "", nil
	}
	return defaultConfigFile, nil
}
