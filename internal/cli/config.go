// Config loading for the planu CLI.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/planu/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend   = "backend"
	cfgKeyDataDir   = "data_dir"
	cfgKeyLogLevel  = "log_level"
	cfgKeyLogFormat = "log_format"

	envPrefix = "PLANU"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# planu configuration

# Snapshot backend: json (planu.json) or sqlite (planu.db)
backend: json

# Data directory (optional; overridable by --data-dir)
# data_dir:

# Logging: debug, info, warn, error; text or json
log_level: warn
log_format: text
`

// settings is the resolved content of config.yaml and its environment
// overrides.
type settings struct {
	Backend   string
	DataDir   string
	LogLevel  string
	LogFormat string
}

// loadConfig reads config.yaml from configDir with Viper. When
// createDefault is set the directory and a default file are created on first
// run; otherwise a missing file just yields the defaults. PLANU_BACKEND, PLANU_LOG_LEVEL
// and PLANU_LOG_FORMAT override the file. data_dir is not bound to the
// environment here; paths.ResolveDataDir gives it its own precedence.
func loadConfig(configDir string, createDefault bool) (settings, error) {
	if createDefault {
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return settings{}, fmt.Errorf("ensure config dir: %w", err)
		}
		if err := ensureDefaultConfigFile(configDir); err != nil {
			return settings{}, fmt.Errorf("ensure default config: %w", err)
		}
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendJSON)
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyLogFormat, "text")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyBackend, cfgKeyLogLevel, cfgKeyLogFormat} {
		if err := v.BindEnv(key); err != nil {
			return settings{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	return settings{
		Backend:   v.GetString(cfgKeyBackend),
		DataDir:   v.GetString(cfgKeyDataDir),
		LogLevel:  v.GetString(cfgKeyLogLevel),
		LogFormat: v.GetString(cfgKeyLogFormat),
	}, nil
}

// ensureDefaultConfigFile creates config.yaml in configDir if it is missing.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
