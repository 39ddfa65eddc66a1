// Package config provides YAML-based configuration loading for the
// shunting puzzle and its servers.
package config

import "time"

// ShuntingConfig contains all configuration for the game and its front ends.
type ShuntingConfig struct {
	Gameplay GameplayConfig `yaml:"gameplay"`
	Levels   LevelsConfig   `yaml:"levels"`
	Player   PlayerConfig   `yaml:"player"`
	Storage  StorageConfig  `yaml:"storage"`
	Server   ServerConfig   `yaml:"server"`
}

// GameplayConfig defines puzzle behavior that is not part of a level.
type GameplayConfig struct {
	MessageTicks    int `yaml:"message_ticks"`
	DefaultCapacity int `yaml:"default_capacity"`
	TickRate        int `yaml:"tick_rate"`
}

// LevelsConfig defines where level files come from.
type LevelsConfig struct {
	Dir string `yaml:"dir"`
}

// PlayerConfig defines the local player.
type PlayerConfig struct {
	Name string `yaml:"name"`
}

// StorageConfig defines the record database location.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// ServerConfig defines the remote front ends.
type ServerConfig struct {
	SSHAddr            string `yaml:"ssh_addr"`
	WSAddr             string `yaml:"ws_addr"`
	HostKeyPath        string `yaml:"host_key_path"`
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
}

// IdleTimeout returns the idle timeout as a duration.
func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMinutes) * time.Minute
}
