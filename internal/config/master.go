package config

import (
	"fmt"
	"os"
)

type AppConfig struct {
	DebugMode      bool
	LogLevel       string
	HTTPPort       int
	SolvedStore    string
	ExecutorCfg    *ExecutorCfg
	LanguageCfg    *LanguageCfg
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	JwtConfig      *JwtConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPPort:       getEnvAsInt("HTTP_PORT", 8082),
		SolvedStore:    getEnv("SOLVED_STORE", "postgres"),
		ExecutorCfg:    NewExecutorCfg(),
		LanguageCfg:    NewLanguageCfg(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		JwtConfig:      NewJwtConfig(),
	}
}

// Validate rejects configurations the service cannot start with
func (c *AppConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port: %d", c.HTTPPort)
	}
	if c.SolvedStore != "postgres" && c.SolvedStore != "redis" {
		return fmt.Errorf("unknown solved store %q", c.SolvedStore)
	}
	if c.ExecutorCfg.parseErr != nil {
		return c.ExecutorCfg.parseErr
	}
	if c.ExecutorCfg.BaseURL == "" {
		return fmt.Errorf("JUDGE0_URL is required")
	}
	if c.ExecutorCfg.PollInterval <= 0 || c.ExecutorCfg.MaxWait < c.ExecutorCfg.PollInterval {
		return fmt.Errorf("poll max wait must be at least one poll interval")
	}
	if c.ExecutorCfg.AcceptedStatusID <= c.ExecutorCfg.PendingMaxStatusID {
		return fmt.Errorf("accepted status %d is inside the pending range", c.ExecutorCfg.AcceptedStatusID)
	}
	if c.JwtConfig.Secret == "" && !c.DebugMode {
		return fmt.Errorf("JWT_SECRET is required outside debug mode")
	}
	return nil
}
