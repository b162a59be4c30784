package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// ErrMissingJWTSecret means no signing key was configured. There is no sane
// default for it, so startup fails instead of minting tokens with an empty key.
var ErrMissingJWTSecret = errors.New("security.jwtsecret is required (set ESLS_SECURITY_JWTSECRET)")

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SecurityConfig struct {
	JWTSecret     string
	SessionTTL    time.Duration
	VerifyCodeTTL time.Duration
	ActivationTTL time.Duration
	CodeLength    int
}

type SMSConfig struct {
	Endpoint   string
	AppID      string
	AppKey     string
	TemplateID string
	Timeout    time.Duration
}

type MailConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

type AuditConfig struct {
	Retention time.Duration
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Security         SecurityConfig
	SMS              SMSConfig
	Mail             MailConfig
	Audit            AuditConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("ESLS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Security.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	// no default on purpose; Load rejects an empty secret. Registered so
	// AutomaticEnv picks up ESLS_SECURITY_JWTSECRET during Unmarshal.
	v.SetDefault("security.jwtsecret", "")

	v.SetDefault("security.sessionttl", "30m")
	v.SetDefault("security.verifycodettl", "5m")
	v.SetDefault("security.activationttl", "24h")
	v.SetDefault("security.codelength", 6)

	v.SetDefault("sms.timeout", "5s")

	v.SetDefault("mail.port", 25)

	v.SetDefault("audit.retention", "2160h") // 90 days
}
