package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/modserve-project/modserve-go/pkg/logger"
)

const serverConfigFile = "modserve.yaml"

// ServerConfig is the host-wide configuration, as opposed to the per-site
// directive scopes. It is read once at startup from an optional
// modserve.yaml in the config directory; environment variables override
// file values.
type ServerConfig struct {
	Port        string `yaml:"port"`
	PluginDir   string `yaml:"pluginDir"`
	StoreDriver string `yaml:"storeDriver"`
}

// LoadServerConfig loads the host configuration for a config directory.
func LoadServerConfig(configDir string) (*ServerConfig, error) {
	cfg := &ServerConfig{}

	path := filepath.Join(configDir, serverConfigFile)
	if data, err := os.ReadFile(path); err == nil {
		logger.Infof("loading server config file: %s", path)
		data = []byte(substituteEnvVars(string(data)))
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if port := os.Getenv("MODSERVE_PORT"); port != "" {
		cfg.Port = port
	}
	if pluginDir := os.Getenv("MODSERVE_PLUGIN_DIR"); pluginDir != "" {
		cfg.PluginDir = pluginDir
	}
	if driver := os.Getenv("MODSERVE_STORE_DRIVER"); driver != "" {
		cfg.StoreDriver = driver
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
	}
	return cfg, nil
}
