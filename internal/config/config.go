// Package config loads the client's startup configuration: server and
// robot endpoints, dispatch mode, and pacing (spec.md §6).
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the read-only document loaded once at startup (spec.md §6).
type Config struct {
	ServerIP         string `mapstructure:"serverIP" yaml:"serverIP"`
	WebSocketPort    uint16 `mapstructure:"webSocketPort" yaml:"webSocketPort"`
	RobotIP          string `mapstructure:"robotIP" yaml:"robotIP"`
	RobotPort        uint16 `mapstructure:"robotPort" yaml:"robotPort"`
	PythonSimulation bool   `mapstructure:"pythonSimulation" yaml:"pythonSimulation"`
	CoalesceCommands bool   `mapstructure:"coalesceCommands" yaml:"coalesceCommands"`
	GameFPS          uint16 `mapstructure:"gameFPS" yaml:"gameFPS"`
}

// Load reads a yaml config document at path via viper, then re-marshals
// it through yaml.v3 into a typed Config. Two hops rather than one
// because this is how the rest of this codebase loads config.
func Load(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(filepath.Base(path))
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))

	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	raw := map[string]interface{}{}
	if err := vp.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("config: unmarshalling %s: %w", path, err)
	}

	spec, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("config: re-marshalling %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(spec, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return cfg, nil
}
