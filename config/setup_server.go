package config

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	DatabaseConfig DatabaseConfig `yaml:"databaseConfig"`
	RedisConfig    RedisConfig    `yaml:"redisConfig"`
	ServerAddr     string         `yaml:"serverAddr"`
	JWT            JWTConfig      `yaml:"jwt"`
	Cookie         CookieConfig   `yaml:"cookie"`
	CORS           CORSConfig     `yaml:"cors"`
	TTL            TTL            `yaml:"TTL"`
}

func LoadConfig(path string) (*AppConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	// секреты из окружения имеют приоритет над config.yaml
	if v := os.Getenv("ACCESS_TOKEN_SECRET"); v != "" {
		cfg.JWT.AccessSecretKey = v
	}
	if v := os.Getenv("REFRESH_TOKEN_SECRET"); v != "" {
		cfg.JWT.RefreshSecretKey = v
	}

	if err := cfg.JWT.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate проверяет секреты на старте: их отсутствие — фатальная ошибка
// конфигурации, а не ошибка обработки запроса
func (cfg *JWTConfig) validate() error {
	if cfg.AccessSecretKey == "" {
		return fmt.Errorf("не задан секрет access токена (ACCESS_TOKEN_SECRET)")
	}
	if cfg.RefreshSecretKey == "" {
		return fmt.Errorf("не задан секрет refresh токена (REFRESH_TOKEN_SECRET)")
	}
	if cfg.AccessSecretKey == cfg.RefreshSecretKey {
		return fmt.Errorf("секреты access и refresh токенов обязаны различаться")
	}
	return nil
}

func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:    serverAddress,
		Handler: router,
	}

	return server, router
}

func SetupDatabase(dsn string) (*Database, error) {
	return NewDatabaseConnection("postgres", dsn)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}
