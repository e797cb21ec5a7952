package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type (
	Config struct {
		AppEnv string
		HTTP
		Store
		Redis
		Auth
		Cache
		RateLimit
		S3
		Snapshot
	}

	HTTP struct {
		Port            int
		TLSCert         string
		TLSKey          string
		MaxBodySize     int64
		AllowedOrigins  []string
		ShutdownTimeout time.Duration
		StrictSecurity  bool
		TrustProxy      bool // honor X-Forwarded-For / X-Real-IP
	}
	Store struct {
		Driver      string // "postgres" | "memory"
		DatabaseURL string
		AutoMigrate bool
	}
	Redis struct {
		URL      string // full URL, e.g. rediss://default:<token>@host:port
		Addr     string // host:port, used when URL is empty
		Username string
		Password string
		TLS      bool // for REDIS_ADDR; REDIS_URL uses the rediss:// scheme instead
	}
	Auth struct {
		JWTSecret         string
		AccessTTL         time.Duration
		ClockSkew         time.Duration
		BootstrapUser     string
		BootstrapPassword string
		LoginMaxAttempts  int
		LoginWindow       time.Duration
		Argon2            Argon2
	}
	// Argon2 tunes password hashing; memory is in KiB.
	Argon2 struct {
		Memory      uint32
		Iterations  uint32
		Parallelism uint8
	}
	Cache struct {
		ListTTL time.Duration
	}
	RateLimit struct {
		RPS   float64
		Burst int
	}
	S3 struct {
		Endpoint  string
		Region    string
		Bucket    string
		AccessKey string
		SecretKey string
		PathStyle bool // MinIO and other hosts without virtual-hosted buckets
	}
	// Snapshot schedules the daily catalog export; empty At disables it.
	Snapshot struct {
		At   string // "HH:MM"
		TZ   string
		Keep int
	}
)

// Load reads envFiles (missing files are ignored) and then the process
// environment. Environment variables win over .env values.
func Load(envFiles ...string) *Config {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("app_env", "development")
	v.SetDefault("port", 3000)
	v.SetDefault("max_body_size", 1<<20)
	v.SetDefault("cors_allowed_origins", "http://localhost:5173,http://127.0.0.1:5173")
	v.SetDefault("shutdown_timeout", "10s")

	v.SetDefault("store_driver", DriverPostgres)
	v.SetDefault("auto_migrate", true)

	v.SetDefault("auth_access_ttl", "15m")
	v.SetDefault("auth_clock_skew", "60s")
	v.SetDefault("login_max_attempts", 10)
	v.SetDefault("login_window", "5m")
	v.SetDefault("argon2_memory", 131072)
	v.SetDefault("argon2_iter", 3)
	v.SetDefault("argon2_par", 1)

	v.SetDefault("list_cache_ttl", "60s")
	v.SetDefault("rate_limit_rps", 5)
	v.SetDefault("rate_limit_burst", 20)

	v.SetDefault("s3_region", "auto")
	v.SetDefault("snapshot_tz", "UTC")
	v.SetDefault("snapshot_keep", 7)

	return &Config{
		AppEnv: v.GetString("APP_ENV"),
		HTTP: HTTP{
			Port:            v.GetInt("PORT"),
			TLSCert:         v.GetString("TLS_CERT"),
			TLSKey:          v.GetString("TLS_KEY"),
			MaxBodySize:     v.GetInt64("MAX_BODY_SIZE"),
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
			StrictSecurity:  v.GetBool("STRICT_SECURITY"),
			TrustProxy:      v.GetBool("TRUST_PROXY"),
		},
		Store: Store{
			Driver:      strings.ToLower(v.GetString("STORE_DRIVER")),
			DatabaseURL: v.GetString("DATABASE_URL"),
			AutoMigrate: v.GetBool("AUTO_MIGRATE"),
		},
		Redis: Redis{
			URL:      v.GetString("REDIS_URL"),
			Addr:     v.GetString("REDIS_ADDR"),
			Username: v.GetString("REDIS_USER"),
			Password: v.GetString("REDIS_PASSWORD"),
			TLS:      v.GetBool("REDIS_TLS"),
		},
		Auth: Auth{
			JWTSecret:         v.GetString("AUTH_JWT_SECRET"),
			AccessTTL:         v.GetDuration("AUTH_ACCESS_TTL"),
			ClockSkew:         v.GetDuration("AUTH_CLOCK_SKEW"),
			BootstrapUser:     v.GetString("AUTH_BOOTSTRAP_USER"),
			BootstrapPassword: v.GetString("AUTH_BOOTSTRAP_PASSWORD"),
			LoginMaxAttempts:  v.GetInt("LOGIN_MAX_ATTEMPTS"),
			LoginWindow:       v.GetDuration("LOGIN_WINDOW"),
			Argon2: Argon2{
				Memory:      v.GetUint32("ARGON2_MEMORY"),
				Iterations:  v.GetUint32("ARGON2_ITER"),
				Parallelism: uint8(v.GetUint("ARGON2_PAR")),
			},
		},
		Cache: Cache{
			ListTTL: v.GetDuration("LIST_CACHE_TTL"),
		},
		RateLimit: RateLimit{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		S3: S3{
			Endpoint:  v.GetString("S3_ENDPOINT"),
			Region:    v.GetString("S3_REGION"),
			Bucket:    v.GetString("S3_BUCKET"),
			AccessKey: v.GetString("S3_ACCESS_KEY_ID"),
			SecretKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			PathStyle: v.GetBool("S3_PATH_STYLE"),
		},
		Snapshot: Snapshot{
			At:   v.GetString("SNAPSHOT_AT"),
			TZ:   v.GetString("SNAPSHOT_TZ"),
			Keep: v.GetInt("SNAPSHOT_KEEP"),
		},
	}
}

// RedisEnabled reports whether any Redis connection settings are present.
func (c *Config) RedisEnabled() bool {
	return c.Redis.URL != "" || c.Redis.Addr != ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
