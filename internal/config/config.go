package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/chat-tracker/internal/domain"
	"github.com/bnema/chat-tracker/internal/logging"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".chattracker"
	envPrefix  = "CHATTRACKER"

	KeyBuckets      = "tracker.buckets"
	KeyLogLevel     = "log.level"
	KeyLogJSON      = "log.json"
	KeyReplayStrict = "replay.strict"
	KeyReportFormat = "report.format"

	DefaultBuckets = 20000
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

func (f Format) Valid() bool {
	switch f {
	case FormatText, FormatJSON, FormatTOML:
		return true
	default:
		return false
	}
}

type Config struct {
	Buckets  int
	LogLevel logging.Level
	LogJSON  bool
	Strict   bool
	Format   Format
	// File is the config file that was read, empty when none was found.
	File string
}

// Load reads ~/.chattracker/config.toml when present, then CHATTRACKER_*
// environment variables and any flags already bound to cfg.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	if homeDir, err := os.UserHomeDir(); err == nil {
		cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	}

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(KeyBuckets, DefaultBuckets)
	cfg.SetDefault(KeyLogLevel, "warn")
	cfg.SetDefault(KeyLogJSON, false)
	cfg.SetDefault(KeyReplayStrict, true)
	cfg.SetDefault(KeyReportFormat, string(FormatText))

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	level, err := logging.ParseLevel(cfg.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", KeyLogLevel, err)
	}

	loaded := Config{
		Buckets:  cfg.GetInt(KeyBuckets),
		LogLevel: level,
		LogJSON:  cfg.GetBool(KeyLogJSON),
		Strict:   cfg.GetBool(KeyReplayStrict),
		Format:   Format(strings.ToLower(strings.TrimSpace(cfg.GetString(KeyReportFormat)))),
		File:     cfg.ConfigFileUsed(),
	}

	if err := loaded.Validate(); err != nil {
		return Config{}, err
	}

	return loaded, nil
}

func (c Config) Validate() error {
	if c.Buckets < 1 {
		return fmt.Errorf("%s=%d: %w", KeyBuckets, c.Buckets, domain.ErrInvalidBucketSize)
	}
	if !c.Format.Valid() {
		return fmt.Errorf("unsupported report format %q", c.Format)
	}

	return nil
}
