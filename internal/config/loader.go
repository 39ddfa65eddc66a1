package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up on the search path.
const FileName = "shunting.yaml"

// LoadShunting reads the configuration. An explicit customPath must exist
// and parse. Otherwise the first readable, valid file on the search path
// wins (~/.shunting/configs, then ./configs), with the embedded default as
// the last resort. Fields a file leaves out take their default values.
func LoadShunting(customPath string) (ShuntingConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return ShuntingConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseShunting(data)
		if err != nil {
			return ShuntingConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range searchPath() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := parseShunting(data); err == nil {
			return cfg, nil
		}
	}

	if cfg, err := parseShunting(defaultShuntingYAML); err == nil {
		return cfg, nil
	}
	return DefaultShuntingConfig(), nil
}

func parseShunting(data []byte) (ShuntingConfig, error) {
	var cfg ShuntingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	fillDefaults(&cfg)
	return cfg, nil
}

func searchPath() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".shunting", "configs", FileName))
	}
	return append(paths, filepath.Join("configs", FileName))
}

// DataDir is where records, logs, screenshots and the SSH host key live:
// ~/.shunting, or the working directory when there is no home.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".shunting")
}
