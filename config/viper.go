package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/krau/SaveFolio/config/storage"
	"github.com/spf13/viper"
)

type Config struct {
	Proxy string `toml:"proxy" mapstructure:"proxy" json:"proxy"`

	Server     serverConfig     `toml:"server" mapstructure:"server" json:"server"`
	Extract    extractConfig    `toml:"extract" mapstructure:"extract" json:"extract"`
	Archive    archiveConfig    `toml:"archive" mapstructure:"archive" json:"archive"`
	Cache      cacheConfig      `toml:"cache" mapstructure:"cache" json:"cache"`
	Guard      guardConfig      `toml:"guard" mapstructure:"guard" json:"guard"`
	RateLimit  rateLimitConfig  `toml:"ratelimit" mapstructure:"ratelimit" json:"ratelimit"`
	Extractors extractorsConfig `toml:"extractors" mapstructure:"extractors" json:"extractors"`
	Log        logConfig        `toml:"log" mapstructure:"log" json:"log"`

	Storages []storage.StorageConfig `toml:"-" mapstructure:"-" json:"storages"`
}

type serverConfig struct {
	Host        string   `toml:"host" mapstructure:"host" json:"host"`
	Port        int      `toml:"port" mapstructure:"port" json:"port"`
	CORSOrigins []string `toml:"cors_origins" mapstructure:"cors_origins" json:"cors_origins"`
}

func (s serverConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type extractConfig struct {
	// Strict rejects urls no platform extractor claims instead of using the
	// generic one.
	Strict    bool   `toml:"strict" mapstructure:"strict" json:"strict"`
	YouTube   bool   `toml:"youtube" mapstructure:"youtube" json:"youtube"`
	UserAgent string `toml:"user_agent" mapstructure:"user_agent" json:"user_agent"`
}

type archiveConfig struct {
	Workers        int    `toml:"workers" mapstructure:"workers" json:"workers"`
	FetchTimeout   int    `toml:"fetch_timeout" mapstructure:"fetch_timeout" json:"fetch_timeout"`
	MaxRetries     uint64 `toml:"max_retries" mapstructure:"max_retries" json:"max_retries"`
	InitialBackoff int64  `toml:"initial_backoff" mapstructure:"initial_backoff" json:"initial_backoff"`
	Referer        string `toml:"referer" mapstructure:"referer" json:"referer"`
}

type cacheConfig struct {
	MaxEntries int64 `toml:"max_entries" mapstructure:"max_entries" json:"max_entries"`
	TTL        int64 `toml:"ttl" mapstructure:"ttl" json:"ttl"`
}

type guardConfig struct {
	ExtraDomains []string `toml:"extra_domains" mapstructure:"extra_domains" json:"extra_domains"`
}

type rateLimitConfig struct {
	Enable      bool  `toml:"enable" mapstructure:"enable" json:"enable"`
	MinInterval int64 `toml:"min_interval" mapstructure:"min_interval" json:"min_interval"`
	IdleTTL     int64 `toml:"idle_ttl" mapstructure:"idle_ttl" json:"idle_ttl"`
}

type logConfig struct {
	Level string `toml:"level" mapstructure:"level" json:"level"`
	File  string `toml:"file" mapstructure:"file" json:"file"`
}

// Durations. Config files hold seconds or milliseconds as plain integers.

func (a archiveConfig) FetchTimeoutDuration() time.Duration {
	return time.Duration(a.FetchTimeout) * time.Second
}

func (a archiveConfig) InitialBackoffDuration() time.Duration {
	return time.Duration(a.InitialBackoff) * time.Millisecond
}

func (c cacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

func (r rateLimitConfig) MinIntervalDuration() time.Duration {
	return time.Duration(r.MinInterval) * time.Millisecond
}

func (r rateLimitConfig) IdleTTLDuration() time.Duration {
	return time.Duration(r.IdleTTL) * time.Second
}

var cfg = &Config{}

func C() *Config {
	return cfg
}

func (c Config) GetStorageByName(name string) storage.StorageConfig {
	for _, st := range c.Storages {
		if st.GetName() == name {
			return st
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("extract.strict", false)
	v.SetDefault("extract.youtube", true)

	v.SetDefault("archive.workers", 6)
	v.SetDefault("archive.fetch_timeout", 60)
	v.SetDefault("archive.max_retries", 2)
	v.SetDefault("archive.initial_backoff", 350)
	v.SetDefault("archive.referer", "https://www.behance.net/")

	v.SetDefault("cache.max_entries", 500)
	v.SetDefault("cache.ttl", 600)

	v.SetDefault("ratelimit.enable", true)
	v.SetDefault("ratelimit.min_interval", 100)
	v.SetDefault("ratelimit.idle_ttl", 600)

	v.SetDefault("log.level", "INFO")
}

// Init loads configuration from configFile, or config.toml in . or
// /etc/savefolio/ when empty. A missing default file is not an error.
func Init(configFile string) error {
	v := viper.GetViper()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/savefolio/")
	}
	v.SetConfigType("toml")
	v.SetEnvPrefix("SAVEFOLIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return load(v)
}

func load(v *viper.Viper) error {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("error unmarshalling config: %w", err)
	}
	storages, err := storage.LoadStorageConfigs(v)
	if err != nil {
		return fmt.Errorf("error loading storage configs: %w", err)
	}
	c.Storages = storages
	if err := c.validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Archive.Workers < 1 {
		return fmt.Errorf("archive.workers must be greater than 0, got %d", c.Archive.Workers)
	}
	if c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache.max_entries must be greater than 0, got %d", c.Cache.MaxEntries)
	}
	return nil
}
