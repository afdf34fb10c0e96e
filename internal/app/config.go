package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leaseledger/leaseledger-backend/internal/pkg/logger"
	"github.com/leaseledger/leaseledger-backend/internal/utils"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AllowedOrigins  []string
	MetricsEnabled  bool
}

// fileConfig is the optional YAML overlay, pointed at by CONFIG_FILE.
// Environment variables stay the primary source; the file covers settings
// that are awkward as env vars, like origin lists.
type fileConfig struct {
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Auth struct {
		AccessTokenTTLSeconds  int `yaml:"access_token_ttl"`
		RefreshTokenTTLSeconds int `yaml:"refresh_token_ttl"`
	} `yaml:"auth"`
	Metrics struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:            utils.GetEnv("PORT", "8080", log),
		JWTSecretKey:    utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL:  time.Duration(utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,
		RefreshTokenTTL: time.Duration(utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)) * time.Second,
		MetricsEnabled:  true,
	}
	metricsFromEnv := false
	if raw := strings.TrimSpace(os.Getenv("METRICS_ENABLED")); raw != "" {
		if enabled, err := strconv.ParseBool(raw); err == nil {
			cfg.MetricsEnabled = enabled
			metricsFromEnv = true
		} else {
			log.Warn("Could not parse METRICS_ENABLED, ignoring", "value", raw, "error", err)
		}
	}
	if origins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	if path == "" {
		return cfg
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("Could not read config file", "path", path, "error", err)
		return cfg
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		log.Warn("Could not parse config file", "path", path, "error", err)
		return cfg
	}

	if fc.Server.Port != "" && os.Getenv("PORT") == "" {
		cfg.Port = fc.Server.Port
	}
	if len(fc.Server.AllowedOrigins) > 0 && len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = fc.Server.AllowedOrigins
	}
	if fc.Auth.AccessTokenTTLSeconds > 0 && os.Getenv("ACCESS_TOKEN_TTL") == "" {
		cfg.AccessTokenTTL = time.Duration(fc.Auth.AccessTokenTTLSeconds) * time.Second
	}
	if fc.Auth.RefreshTokenTTLSeconds > 0 && os.Getenv("REFRESH_TOKEN_TTL") == "" {
		cfg.RefreshTokenTTL = time.Duration(fc.Auth.RefreshTokenTTLSeconds) * time.Second
	}
	if fc.Metrics.Enabled != nil && !metricsFromEnv {
		cfg.MetricsEnabled = *fc.Metrics.Enabled
	}
	return cfg
}
