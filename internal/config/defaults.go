package config

import (
	_ "embed"
)

//go:embed defaults/shunting.yaml
var defaultShuntingYAML []byte

// DefaultShuntingConfig returns the default configuration.
func DefaultShuntingConfig() ShuntingConfig {
	return ShuntingConfig{
		Gameplay: GameplayConfig{
			MessageTicks:    120,
			DefaultCapacity: 8,
			TickRate:        60,
		},
		Storage: StorageConfig{
			DBPath: "~/.shunting/records.db",
		},
		Server: ServerConfig{
			SSHAddr:            "localhost:23234",
			WSAddr:             "localhost:8080",
			HostKeyPath:        ".ssh/shunting_ed25519",
			IdleTimeoutMinutes: 30,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultShuntingYAML
}

// fillDefaults replaces zero values left by a partial config file.
func fillDefaults(cfg *ShuntingConfig) {
	def := DefaultShuntingConfig()

	if cfg.Gameplay.MessageTicks <= 0 {
		cfg.Gameplay.MessageTicks = def.Gameplay.MessageTicks
	}
	if cfg.Gameplay.DefaultCapacity <= 0 {
		cfg.Gameplay.DefaultCapacity = def.Gameplay.DefaultCapacity
	}
	if cfg.Gameplay.TickRate <= 0 {
		cfg.Gameplay.TickRate = def.Gameplay.TickRate
	}
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = def.Storage.DBPath
	}
	if cfg.Server.SSHAddr == "" {
		cfg.Server.SSHAddr = def.Server.SSHAddr
	}
	if cfg.Server.WSAddr == "" {
		cfg.Server.WSAddr = def.Server.WSAddr
	}
	if cfg.Server.HostKeyPath == "" {
		cfg.Server.HostKeyPath = def.Server.HostKeyPath
	}
	if cfg.Server.IdleTimeoutMinutes <= 0 {
		cfg.Server.IdleTimeoutMinutes = def.Server.IdleTimeoutMinutes
	}
}
