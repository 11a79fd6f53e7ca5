package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces every setting, e.g. TN_MYSQL_DSN -> mysql.dsn.
const envPrefix = "TN_"

type Config struct {
	Addr string `koanf:"addr"`

	MySQL struct {
		DSN string `koanf:"dsn"`
	} `koanf:"mysql"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
		DB       int    `koanf:"db"`
	} `koanf:"redis"`

	Kafka struct {
		Enabled bool   `koanf:"enabled"`
		Brokers string `koanf:"brokers"` // comma separated
		Topic   string `koanf:"topic"`
	} `koanf:"kafka"`

	Webhook struct {
		Secret string `koanf:"secret"` // whsec_... from the provider dashboard
	} `koanf:"webhook"`

	Session struct {
		Secret string `koanf:"secret"`
	} `koanf:"session"`
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Addr = ":8080"
	cfg.MySQL.DSN = "user:password@tcp(127.0.0.1:3306)/threadnest?charset=utf8mb4&parseTime=True"
	cfg.Redis.Addr = "127.0.0.1:6379"
	cfg.Kafka.Topic = "community-events"
	return cfg
}

// Load layers environment variables over built-in defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Webhook.Secret == "" {
		return nil, fmt.Errorf("TN_WEBHOOK_SECRET is required")
	}
	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("TN_SESSION_SECRET is required")
	}
	return cfg, nil
}

// KafkaBrokers splits the comma-separated broker list.
func (c *Config) KafkaBrokers() []string {
	if c.Kafka.Brokers == "" {
		return nil
	}
	parts := strings.Split(c.Kafka.Brokers, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
