package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const devSecret = "development-secret"

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		return err
	default:
		return errors.New("invalid duration")
	}
}

type JwtConfig struct {
	TokenLifetime Duration `json:"token_lifetime"`
	Secret        string   `json:"secret"`
}

type SessionsConfig struct {
	TTL           Duration `json:"ttl"`
	SweepInterval Duration `json:"sweep_interval"`
	MaxSessions   int      `json:"max_sessions"`
	// Largest board a client may request, in cells.
	MaxCells int `json:"max_cells"`
}

type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"max_size"` // megabytes
	MaxBackups int    `json:"max_backups"`
	MaxAge     int    `json:"max_age"` // days
}

type Config struct {
	Mode           string         `json:"mode"`
	Addr           string         `json:"addr"`
	AllowedOrigins []string       `json:"allowed_origins"`
	Jwt            JwtConfig      `json:"jwt"`
	Sessions       SessionsConfig `json:"sessions"`
	Log            LogConfig      `json:"log"`
}

func Default() *Config {
	return &Config{
		Mode: "development",
		Addr: ":8080",
		Jwt: JwtConfig{
			TokenLifetime: Duration{24 * time.Hour},
		},
		Sessions: SessionsConfig{
			TTL:           Duration{time.Hour},
			SweepInterval: Duration{time.Minute},
			MaxSessions:   10000,
			MaxCells:      10000,
		},
		Log: LogConfig{
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":                  c.Mode,
		"addr":                  c.Addr,
		"allowed_origins":       c.AllowedOrigins,
		"jwt_token_lifetime":    c.Jwt.TokenLifetime.String(),
		"sessions_ttl":          c.Sessions.TTL.String(),
		"sessions_sweep":        c.Sessions.SweepInterval.String(),
		"sessions_max":          c.Sessions.MaxSessions,
		"sessions_max_cells":    c.Sessions.MaxCells,
		"log_file":              c.Log.File,
		"log_file_max_size_mb":  c.Log.MaxSize,
		"log_file_max_backups":  c.Log.MaxBackups,
		"log_file_max_age_days": c.Log.MaxAge,
	}
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is empty")
	}
	if c.Production() && c.Jwt.Secret == "" {
		return errors.New("jwt secret is required in production")
	}
	if c.Jwt.TokenLifetime.Duration <= 0 {
		return errors.New("jwt token lifetime must be positive")
	}
	if c.Sessions.SweepInterval.Duration <= 0 {
		return errors.New("sessions sweep interval must be positive")
	}
	if c.Sessions.MaxCells <= 0 {
		return errors.New("sessions max cells must be positive")
	}
	return nil
}

func ReadConfig(path string, config *Config) error {
	if b, err := os.ReadFile(path); err != nil {
		return err
	} else {
		return json.Unmarshal(b, config)
	}
}

// Load builds the configuration from defaults, the optional JSON file at path,
// a .env file in the working directory and finally SWEEPER_* variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("unable to load .env: %w", err)
	}

	config := Default()
	if path != "" {
		if err := ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}
	if err := applyEnv(config); err != nil {
		return nil, err
	}
	if config.Jwt.Secret == "" && config.Development() {
		config.Jwt.Secret = devSecret
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func applyEnv(c *Config) error {
	if v, ok := os.LookupEnv("SWEEPER_MODE"); ok {
		c.Mode = v
	}
	if v, ok := os.LookupEnv("SWEEPER_ADDR"); ok {
		c.Addr = v
	}
	if v, ok := os.LookupEnv("SWEEPER_JWT_SECRET"); ok {
		c.Jwt.Secret = v
	}
	if v, ok := os.LookupEnv("SWEEPER_LOG_FILE"); ok {
		c.Log.File = v
	}
	if v, ok := os.LookupEnv("SWEEPER_MAX_SESSIONS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SWEEPER_MAX_SESSIONS: %w", err)
		}
		c.Sessions.MaxSessions = n
	}
	return nil
}
