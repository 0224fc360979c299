package shared

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	DSN      string
}

type Config struct {
	// RawPort is PORT exactly as it appeared in the environment.
	RawPort string
	// Port is RawPort parsed as base 10. Zero when RawPort is empty or invalid.
	Port int
	// PortErr is set when RawPort is present but not a number.
	PortErr error

	AppEnv             string
	BodyLimit          int
	URLEncodedExtended bool
	ShutdownTimeout    time.Duration

	Database DatabaseConfig

	RedisHost string
	RedisPort string
	CacheTTL  time.Duration

	KafkaHost      string
	KafkaPort      string
	UserEventTopic string

	ESHost string
	ESPort string
}

// LoadConfig reads a .env file when one exists and then resolves every
// setting from the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "err", err)
	}

	return configFromViper(newEnvViper())
}

func newEnvViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("BODY_LIMIT", 100*1024)
	v.SetDefault("URLENCODED_EXTENDED", true)
	v.SetDefault("SHUTDOWN_TIMEOUT", "5s")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("USER_SERVICE_KAFKA_TOPIC", "user-service")

	return v
}

func configFromViper(v *viper.Viper) *Config {
	cfg := &Config{
		RawPort:            strings.TrimSpace(v.GetString("PORT")),
		AppEnv:             v.GetString("APP_ENV"),
		BodyLimit:          v.GetInt("BODY_LIMIT"),
		URLEncodedExtended: v.GetBool("URLENCODED_EXTENDED"),
		ShutdownTimeout:    v.GetDuration("SHUTDOWN_TIMEOUT"),
		Database: DatabaseConfig{
			Driver:   v.GetString("DB_DRIVER"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			DSN:      v.GetString("DB_DSN"),
		},
		RedisHost:      v.GetString("REDIS_HOST"),
		RedisPort:      v.GetString("REDIS_PORT"),
		CacheTTL:       v.GetDuration("CACHE_TTL"),
		KafkaHost:      v.GetString("KAFKA_HOST"),
		KafkaPort:      v.GetString("KAFKA_PORT"),
		UserEventTopic: v.GetString("USER_SERVICE_KAFKA_TOPIC"),
		ESHost:         v.GetString("ES_HOST"),
		ESPort:         v.GetString("ES_PORT"),
	}

	cfg.Port, cfg.PortErr = ParsePort(cfg.RawPort)

	return cfg
}

// ParsePort reads the leading base-10 integer of raw, with an optional sign,
// and ignores whatever follows it: "3000abc" and "3000.5" both yield 3000.
// An empty string yields 0 and no error.
func ParsePort(raw string) (int, error) {
	raw = strings.TrimLeft(raw, " \t\n\r\v\f")
	if raw == "" {
		return 0, nil
	}

	end := 0
	if raw[0] == '+' || raw[0] == '-' {
		end++
	}
	digitsStart := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, fmt.Errorf("invalid port %q: no leading digits", raw)
	}

	port, err := strconv.ParseInt(raw[:end], 10, 0)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", raw, err)
	}

	return int(port), nil
}

// ListenAddr returns the address handed to the listener. An unparsable PORT
// is passed through untouched so the listen call reports it.
func (c *Config) ListenAddr() string {
	if c.PortErr != nil {
		return ":" + c.RawPort
	}

	return ":" + strconv.Itoa(c.Port)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}
