// Package config loads application configuration from TOML files with
// multi-path lookup. A local override file wins over the checked-in default.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// MainConfig holds application identity and listen address.
type MainConfig struct {
	AppName string `toml:"appName"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

// MysqlConfig holds MySQL connection settings.
type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"`
	Db       int    `toml:"db"`
}

// LogConfig configures zap output and lumberjack rotation.
type LogConfig struct {
	LogPath    string `toml:"logPath"`
	FileName   string `toml:"fileName"`
	MaxSize    int    `toml:"maxSize"`    // MB per file
	MaxBackups int    `toml:"maxBackups"` // rotated files kept
	MaxAge     int    `toml:"maxAge"`     // days kept
	Level      string `toml:"level"`      // debug, info, warn, error
}

// KafkaConfig configures the distributed event broker. eventMode selects
// between the in-process channel broker ("channel") and Kafka ("kafka").
// GroupID must differ per deployed node so every node's consumer receives
// every envelope; shared groups would split the topic across nodes.
type KafkaConfig struct {
	EventMode  string        `toml:"eventMode"`
	HostPort   string        `toml:"hostPort"`
	EventTopic string        `toml:"eventTopic"`
	GroupID    string        `toml:"groupId"`
	Timeout    time.Duration `toml:"timeout"`
}

// JWTConfig configures access token verification.
type JWTConfig struct {
	Secret            string `toml:"secret"`
	AccessTokenExpiry int    `toml:"accessTokenExpiry"` // minutes
}

// SnowflakeConfig configures the ID generator node.
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 0-1023, unique per deployed node
}

// RelationshipConfig tunes the friend request lifecycle.
type RelationshipConfig struct {
	RequestTTLHours  int `toml:"requestTTLHours"`  // pending requests expire after this
	SweepIntervalMin int `toml:"sweepIntervalMin"` // background expiry sweep cadence
}

// PresenceConfig tunes presence transitions.
type PresenceConfig struct {
	OfflineDebounceSec int `toml:"offlineDebounceSec"` // delay before last-close flips to offline
}

// Config aggregates every section.
type Config struct {
	MainConfig         `toml:"mainConfig"`
	MysqlConfig        `toml:"mysqlConfig"`
	RedisConfig        `toml:"redisConfig"`
	LogConfig          `toml:"logConfig"`
	KafkaConfig        `toml:"kafkaConfig"`
	JWTConfig          `toml:"jwtConfig"`
	SnowflakeConfig    `toml:"snowflakeConfig"`
	RelationshipConfig `toml:"relationshipConfig"`
	PresenceConfig     `toml:"presenceConfig"`
}

var config *Config

// LoadConfig tries each candidate path in order and stops at the first file
// that decodes.
func LoadConfig() error {
	paths := []string{
		"configs/config_local.toml",
		"configs/config.toml",
		"../../configs/config_local.toml",
		"../../configs/config.toml",
	}
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}
	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig returns the config singleton, loading it on first use.
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig()
	}
	return config
}

// RequestTTL returns the configured friend request TTL with a default.
func (c *Config) RequestTTL() time.Duration {
	if c.RelationshipConfig.RequestTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.RelationshipConfig.RequestTTLHours) * time.Hour
}

// SweepInterval returns the configured sweep cadence with a default.
func (c *Config) SweepInterval() time.Duration {
	if c.RelationshipConfig.SweepIntervalMin <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.RelationshipConfig.SweepIntervalMin) * time.Minute
}

// OfflineDebounce returns the configured offline debounce with a default.
func (c *Config) OfflineDebounce() time.Duration {
	if c.PresenceConfig.OfflineDebounceSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.PresenceConfig.OfflineDebounceSec) * time.Second
}
