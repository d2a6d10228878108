package app

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vitalog/vitalog-backend/internal/logger"
	"github.com/vitalog/vitalog-backend/internal/utils"
)

type Config struct {
	Addr            string
	AllowOrigins    []string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Environment     string
	Version         string
}

// configFile mirrors the Config fields that make sense in a checked-in file.
// Secrets stay in the environment.
type configFile struct {
	Addr                   string   `yaml:"addr"`
	AllowOrigins           []string `yaml:"allow_origins"`
	AccessTokenTTLSeconds  int      `yaml:"access_token_ttl_seconds"`
	RefreshTokenTTLSeconds int      `yaml:"refresh_token_ttl_seconds"`
	Environment            string   `yaml:"environment"`
}

// LoadConfig reads the environment, then lets an optional CONFIG_FILE yaml
// override the non-secret fields.
func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	cfg := Config{
		Addr:            utils.GetEnv("ADDR", ":8080", log),
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		Environment:     utils.GetEnv("ENVIRONMENT", "development", log),
		Version:         utils.GetEnv("SERVICE_VERSION", "dev", log),
	}
	if origins := strings.TrimSpace(os.Getenv("ALLOW_ORIGINS")); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
			}
		}
	}

	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	if path == "" {
		return cfg
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("config file unreadable, using environment only", "path", path, "error", err)
		return cfg
	}
	var file configFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		log.Warn("config file invalid, using environment only", "path", path, "error", err)
		return cfg
	}
	if file.Addr != "" {
		cfg.Addr = file.Addr
	}
	if len(file.AllowOrigins) > 0 {
		cfg.AllowOrigins = file.AllowOrigins
	}
	if file.AccessTokenTTLSeconds > 0 {
		cfg.AccessTokenTTL = time.Duration(file.AccessTokenTTLSeconds) * time.Second
	}
	if file.RefreshTokenTTLSeconds > 0 {
		cfg.RefreshTokenTTL = time.Duration(file.RefreshTokenTTLSeconds) * time.Second
	}
	if file.Environment != "" {
		cfg.Environment = file.Environment
	}
	return cfg
}
