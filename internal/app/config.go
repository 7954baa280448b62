package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/yungbote/neurobridge-dashboard/internal/observability"
	"github.com/yungbote/neurobridge-dashboard/internal/realtime/bus"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

const EnvPrefix = "DASHBOARD"

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" yaml:"jwt_secret" validate:"required"`
}

type UpstreamConfig struct {
	CallTimeout       time.Duration     `mapstructure:"call_timeout" yaml:"call_timeout"`
	LookupConcurrency int               `mapstructure:"lookup_concurrency" yaml:"lookup_concurrency" validate:"gte=0"`
	Enrollment        upstream.Endpoint `mapstructure:"enrollment" yaml:"enrollment"`
	Course            upstream.Endpoint `mapstructure:"course" yaml:"course"`
	Payment           upstream.Endpoint `mapstructure:"payment" yaml:"payment"`
	Identity          upstream.Endpoint `mapstructure:"identity" yaml:"identity"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Addr serves /metrics on a separate listener; empty keeps it on the API router.
	Addr string `mapstructure:"addr" yaml:"addr"`
	// RedisInterval is how often the realtime bus redis is pinged for metrics.
	RedisInterval time.Duration `mapstructure:"redis_interval" yaml:"redis_interval"`
}

type ReorderConfig struct {
	PersistTimeout time.Duration `mapstructure:"persist_timeout" yaml:"persist_timeout"`
	IdleTTL        time.Duration `mapstructure:"idle_ttl" yaml:"idle_ttl"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval" yaml:"sweep_interval"`
}

type OtelConfig struct {
	Enabled     bool    `mapstructure:"enabled" yaml:"enabled"`
	ServiceName string  `mapstructure:"service_name" yaml:"service_name" validate:"required"`
	Version     string  `mapstructure:"version" yaml:"version"`
	Endpoint    string  `mapstructure:"endpoint" yaml:"endpoint"`
	Headers     string  `mapstructure:"headers" yaml:"headers"`
	Insecure    bool    `mapstructure:"insecure" yaml:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio" yaml:"sample_ratio" validate:"gte=0,lte=1"`
}

func (o OtelConfig) tracing(env string) observability.TracingConfig {
	return observability.TracingConfig{
		Enabled:     o.Enabled,
		ServiceName: o.ServiceName,
		Environment: env,
		Version:     o.Version,
		Endpoint:    o.Endpoint,
		Headers:     o.Headers,
		Insecure:    o.Insecure,
		SampleRatio: o.SampleRatio,
	}
}

type Config struct {
	Env      string          `mapstructure:"env" yaml:"env" validate:"oneof=development production"`
	HTTP     HTTPConfig      `mapstructure:"http" yaml:"http"`
	Auth     AuthConfig      `mapstructure:"auth" yaml:"auth"`
	Upstream UpstreamConfig  `mapstructure:"upstream" yaml:"upstream"`
	Metrics  MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
	Redis    bus.RedisConfig `mapstructure:"redis" yaml:"redis"`
	Reorder  ReorderConfig   `mapstructure:"reorder" yaml:"reorder"`
	Otel     OtelConfig      `mapstructure:"otel" yaml:"otel"`
}

// SetDefaults registers every key so env overrides resolve during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", "15s")
	v.SetDefault("http.cors_origins", []string{})
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("upstream.call_timeout", "3s")
	v.SetDefault("upstream.lookup_concurrency", 8)
	for _, d := range []string{"enrollment", "course", "payment", "identity"} {
		v.SetDefault("upstream."+d+".base_url", "")
		v.SetDefault("upstream."+d+".timeout", "10s")
	}
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.addr", "")
	v.SetDefault("metrics.redis_interval", "10s")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", bus.DefaultChannel)
	v.SetDefault("reorder.persist_timeout", "10s")
	v.SetDefault("reorder.idle_ttl", "30m")
	v.SetDefault("reorder.sweep_interval", "1m")
	v.SetDefault("otel.service_name", "neurobridge-dashboard")
	v.SetDefault("otel.version", "dev")
	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.headers", "")
	v.SetDefault("otel.insecure", false)
	v.SetDefault("otel.sample_ratio", 0.1)
}

// NewViper returns a viper with defaults, the DASHBOARD_ env overlay and, when path is
// set, the YAML file at path.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

// Load decodes v without validating it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Redacted is safe to print.
func (c Config) Redacted() Config {
	if c.Auth.JWTSecret != "" {
		c.Auth.JWTSecret = "[redacted]"
	}
	if c.Redis.Password != "" {
		c.Redis.Password = "[redacted]"
	}
	if c.Otel.Headers != "" {
		c.Otel.Headers = "[redacted]"
	}
	c.HTTP.CORSOrigins = append([]string(nil), c.HTTP.CORSOrigins...)
	return c
}
