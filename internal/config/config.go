package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode     string `mapstructure:"mode"`
	Port     int    `mapstructure:"port"`
	Platform string `mapstructure:"platform"`
	OwnerID  string `mapstructure:"owner_id"`

	BridgeAddr string `mapstructure:"bridge_addr"`

	// LocalPresence bypasses the platform social layer entirely; presence
	// is recorded locally and always succeeds. Meant for dev builds.
	LocalPresence bool `mapstructure:"local_presence"`

	PublishMaxAttempts uint64        `mapstructure:"publish_max_attempts"`
	PublishBackoff     time.Duration `mapstructure:"publish_backoff"`

	RoomPollAttempts int           `mapstructure:"room_poll_attempts"`
	RoomPollInterval time.Duration `mapstructure:"room_poll_interval"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8091)
	v.SetDefault("platform", "default")
	v.SetDefault("bridge_addr", "ws://127.0.0.1:8090/bridge")
	v.SetDefault("local_presence", false)
	v.SetDefault("publish_max_attempts", 8)
	v.SetDefault("publish_backoff", "1s")
	v.SetDefault("room_poll_attempts", 8)
	v.SetDefault("room_poll_interval", "1s")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("config file not found (%s), using defaults\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
