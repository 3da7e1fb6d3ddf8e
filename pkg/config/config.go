package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the service configuration
type Config struct {
	Service  ServiceConfig  `mapstructure:"service"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	GRPC     GRPCConfig     `mapstructure:"grpc"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Store    StoreConfig    `mapstructure:"store"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

type HTTPConfig struct {
	Port            string        `mapstructure:"port"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	RateLimit       int           `mapstructure:"rate_limit"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window"`
}

type GRPCConfig struct {
	Port           string        `mapstructure:"port"`
	HealthInterval time.Duration `mapstructure:"health_interval"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	GroupID string `mapstructure:"group_id"`
}

// BrokerList splits the comma separated broker list, empty when kafka is disabled
func (k KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type TracingConfig struct {
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

type StoreConfig struct {
	TimeZone string `mapstructure:"timezone"`
}

// Location resolves the shop time zone used for "today" calculations
func (s StoreConfig) Location() (*time.Location, error) {
	if s.TimeZone == "" || s.TimeZone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(s.TimeZone)
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Service.Environment == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "pos-service")
	v.SetDefault("service.environment", "development")
	v.SetDefault("service.log_level", "info")

	v.SetDefault("http.port", "8080")
	v.SetDefault("http.request_timeout", 30*time.Second)
	v.SetDefault("http.rate_limit", 20)
	v.SetDefault("http.rate_limit_window", time.Minute)

	v.SetDefault("grpc.port", "9090")
	v.SetDefault("grpc.health_interval", 10*time.Second)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "posdb")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", 30*time.Second)

	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.group_id", "pos-service")

	v.SetDefault("auth.jwt_secret", "change-me")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("store.timezone", "Local")

	v.SetDefault("tracing.jaeger_endpoint", "")
}

// Load reads configuration from the environment and, when CONFIG_FILE is set, a YAML file.
// Environment keys are the upper-cased dotted keys with "_" separators, e.g. DB_HOST.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// OTEL_SERVICE_NAME and ENVIRONMENT are shared with the tracing setup
	_ = v.BindEnv("service.name", "OTEL_SERVICE_NAME", "SERVICE_NAME")
	_ = v.BindEnv("service.environment", "ENVIRONMENT")
	_ = v.BindEnv("service.log_level", "LOG_LEVEL")
	_ = v.BindEnv("store.timezone", "STORE_TIMEZONE", "TZ")
	_ = v.BindEnv("tracing.jaeger_endpoint", "JAEGER_ENDPOINT")
	_ = v.BindEnv("config_file", "CONFIG_FILE")

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret must not be empty")
	}

	return &cfg, nil
}
