// Package config loads settings from .env, the environment and CLI flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment variables: PERFUMERIA_PORT, ...
const EnvPrefix = "PERFUMERIA"

// Viper keys. CLI flags use the same names.
const (
	KeyPort             = "port"
	KeyEnv              = "env"
	KeyStore            = "store"
	KeyStoreDSN         = "store-dsn"
	KeySeed             = "seed"
	KeyKafkaBrokers     = "kafka-brokers"
	KeyKafkaTopic       = "kafka-topic"
	KeyGeminiAPIKey     = "gemini-api-key"
	KeyGeminiModel      = "gemini-model"
	KeyAnalyticsTimeout = "analytics-timeout"
	KeyJaegerEndpoint   = "jaeger-endpoint"
)

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Kafka     KafkaConfig
	Analytics AnalyticsConfig
	Observ    ObservabilityConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type StoreConfig struct {
	Kind string // memory|file|sqlite|postgres|redis
	DSN  string
	Seed string // default|empty
}

// KafkaConfig is disabled when Brokers is empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// AnalyticsConfig is unconfigured when APIKey is empty.
type AnalyticsConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// ObservabilityConfig enables tracing when JaegerEndpoint is set.
type ObservabilityConfig struct {
	JaegerEndpoint string
	ServiceName    string
}

// Setup registers defaults and environment bindings on v. Unprefixed names
// used by common deployments (PORT, KAFKA_BROKERS, ...) are accepted too.
func Setup(v *viper.Viper) {
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyEnv, "development")
	v.SetDefault(KeyStore, "file")
	v.SetDefault(KeyStoreDSN, "data")
	v.SetDefault(KeySeed, "default")
	v.SetDefault(KeyKafkaTopic, "ledger-events")
	v.SetDefault(KeyGeminiModel, "gemini-2.5-flash")
	v.SetDefault(KeyAnalyticsTimeout, "30s")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.BindEnv(KeyPort, EnvPrefix+"_PORT", "PORT")
	v.BindEnv(KeyEnv, EnvPrefix+"_ENV", "ENV")
	v.BindEnv(KeyKafkaBrokers, EnvPrefix+"_KAFKA_BROKERS", "KAFKA_BROKERS")
	v.BindEnv(KeyGeminiAPIKey, EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY")
	v.BindEnv(KeyJaegerEndpoint, EnvPrefix+"_JAEGER_ENDPOINT", "JAEGER_ENDPOINT")
}

// Load reads .env into the process environment (missing file is fine) and
// resolves every setting through v.
func Load(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(v.GetString(KeyAnalyticsTimeout))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyAnalyticsTimeout, err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid %s: must be positive", KeyAnalyticsTimeout)
	}

	seed := strings.ToLower(v.GetString(KeySeed))
	if seed != "default" && seed != "empty" {
		return nil, fmt.Errorf("invalid %s %q: use default or empty", KeySeed, seed)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString(KeyPort),
			Env:  v.GetString(KeyEnv),
		},
		Store: StoreConfig{
			Kind: strings.ToLower(v.GetString(KeyStore)),
			DSN:  v.GetString(KeyStoreDSN),
			Seed: seed,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString(KeyKafkaBrokers)),
			Topic:   v.GetString(KeyKafkaTopic),
		},
		Analytics: AnalyticsConfig{
			APIKey:  v.GetString(KeyGeminiAPIKey),
			Model:   v.GetString(KeyGeminiModel),
			Timeout: timeout,
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: v.GetString(KeyJaegerEndpoint),
			ServiceName:    "perfume-ledger",
		},
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
