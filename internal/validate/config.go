package validate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/5w1tchy/catalog-api/internal/config"
)

// Env validates startup configuration. Fail-fast on bad config.
func Env(cfg *config.Config) error {
	if len(cfg.Auth.JWTSecret) < 32 {
		return errors.New("AUTH_JWT_SECRET must be at least 32 characters")
	}
	if cfg.Auth.AccessTTL <= 0 {
		return fmt.Errorf("AUTH_ACCESS_TTL: invalid duration %s", cfg.Auth.AccessTTL)
	}
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if cfg.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL not set")
		}
	case config.DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER: unknown driver %q", cfg.Store.Driver)
	}
	if (cfg.HTTP.TLSCert == "") != (cfg.HTTP.TLSKey == "") {
		return errors.New("TLS_CERT and TLS_KEY must be set together")
	}
	return nil
}

// HardeningWarnings returns non-fatal warnings worth logging on startup.
func HardeningWarnings(cfg *config.Config) []string {
	var warns []string
	if cfg.Auth.AccessTTL > time.Hour {
		warns = append(warns, fmt.Sprintf("AUTH_ACCESS_TTL=%s is > 1h; consider shorter access tokens", cfg.Auth.AccessTTL))
	}
	if strings.EqualFold(cfg.AppEnv, "production") {
		if cfg.Store.Driver == config.DriverMemory {
			warns = append(warns, "STORE_DRIVER=memory in production; data is lost on restart")
		}
		if cfg.Redis.URL != "" && strings.HasPrefix(cfg.Redis.URL, "redis://") {
			warns = append(warns, "REDIS_URL uses redis:// (no TLS). Prefer rediss:// for TLS")
		}
		if cfg.HTTP.TLSCert == "" {
			warns = append(warns, "TLS_CERT not set; serving plain HTTP")
		}
	}
	return warns
}
