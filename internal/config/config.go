package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SqliteConfig holds the sqlite backend settings.
type SqliteConfig struct {
	// DumpPath is where the in-memory database is periodically dumped.
	DumpPath string `json:"dumpPath" mapstructure:"dumpPath"`
	// DumpIntervalSeconds between dumps, 0 disables.
	DumpIntervalSeconds int `json:"dumpIntervalSeconds" mapstructure:"dumpIntervalSeconds"`
}

// PostgresConfig holds the postgres backend settings.
type PostgresConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Type     string         `json:"type" mapstructure:"type"`
	Memory   MemoryConfig   `json:"memory" mapstructure:"memory"`
	Sqlite   SqliteConfig   `json:"sqlite" mapstructure:"sqlite"`
	Postgres PostgresConfig `json:"postgres" mapstructure:"postgres"`
}

// EngineConfig holds the interaction-engine tunables.
type EngineConfig struct {
	MinZoom            float64 `json:"minZoom" mapstructure:"minZoom"`
	MaxZoom            float64 `json:"maxZoom" mapstructure:"maxZoom"`
	ZoomStep           float64 `json:"zoomStep" mapstructure:"zoomStep"`
	WheelFactor        float64 `json:"wheelFactor" mapstructure:"wheelFactor"`
	LowDetailThreshold float64 `json:"lowDetailThreshold" mapstructure:"lowDetailThreshold"`

	VirtualizeThreshold int     `json:"virtualizeThreshold" mapstructure:"virtualizeThreshold"`
	VisiblePadding      float64 `json:"visiblePadding" mapstructure:"visiblePadding"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. A missing file
// is not an error; defaults apply.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./seatplanlogs")
	viper.SetDefault("prettyLog", false)

	viper.SetDefault("engine.minZoom", 0.1)
	viper.SetDefault("engine.maxZoom", 5.0)
	viper.SetDefault("engine.zoomStep", 0.25)
	viper.SetDefault("engine.wheelFactor", 1.1)
	viper.SetDefault("engine.lowDetailThreshold", 0.4)
	viper.SetDefault("engine.virtualizeThreshold", 200)
	viper.SetDefault("engine.visiblePadding", 0.2)

	viper.SetDefault("storage.type", "sqlite")
	viper.SetDefault("storage.memory.outputDir", "./exports")
	viper.SetDefault("storage.memory.compressOutput", false)
	viper.SetDefault("storage.sqlite.dumpPath", "./seatplan.db")
	viper.SetDefault("storage.sqlite.dumpIntervalSeconds", 60)
	viper.SetDefault("storage.postgres.host", "localhost")
	viper.SetDefault("storage.postgres.port", "5432")
	viper.SetDefault("storage.postgres.username", "postgres")
	viper.SetDefault("storage.postgres.password", "postgres")
	viper.SetDefault("storage.postgres.database", "seatplan")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "seatplan-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("seatplan.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Engine returns the interaction-engine tunables.
func Engine() (EngineConfig, error) {
	var cfg EngineConfig
	if err := viper.UnmarshalKey("engine", &cfg); err != nil {
		return cfg, fmt.Errorf("engine config: %w", err)
	}
	return cfg, nil
}

// Storage returns the persistence settings.
func Storage() (StorageConfig, error) {
	var cfg StorageConfig
	if err := viper.UnmarshalKey("storage", &cfg); err != nil {
		return cfg, fmt.Errorf("storage config: %w", err)
	}
	return cfg, nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
