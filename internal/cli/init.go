package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configFile is the structure written to config.yaml by init and printed by
// config.
type configFile struct {
	Backend   string `yaml:"backend"`
	DataDir   string `yaml:"data_dir,omitempty"`
	LogLevel  string `yaml:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty"`
}

func newInitCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize planu configuration and storage",
		Long: "Write config.yaml if it is missing, then open the store once so that\n" +
			"the snapshot exists (seeded with the default dataset when new, unless\n" +
			"--empty is given). An existing snapshot is left as it is.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.storeConfig()
			if err != nil {
				return err
			}

			if err := os.MkdirAll(s.configDir, 0o755); err != nil {
				return systemError(fmt.Errorf("create config directory: %w", err))
			}
			configPath := filepath.Join(s.configDir, configFileExt)
			file := configFile{
				Backend:   cfg.Backend,
				DataDir:   cfg.DataDir,
				LogLevel:  s.settings.LogLevel,
				LogFormat: s.settings.LogFormat,
			}
			if err := writeConfigIfMissing(configPath, file); err != nil {
				return systemError(fmt.Errorf("write config: %w", err))
			}

			g, closeStore, err := s.openGarage(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()
			clients, err := g.Clients.List(cmd.Context())
			if err != nil {
				return err
			}

			if s.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"config":   configPath,
					"snapshot": cfg.SnapshotPath(),
					"clients":  len(clients),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "planu initialized\nconfig:   %s\nsnapshot: %s\n", configPath, cfg.SnapshotPath())
			return nil
		},
	}
	cmd.Flags().BoolVar(&s.emptySeed, "empty", false, "start a new snapshot without the default dataset")
	return cmd
}

// writeConfigIfMissing marshals file to path unless path already exists.
func writeConfigIfMissing(path string, file configFile) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func newConfigCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.storeConfig()
			if err != nil {
				return err
			}
			file := configFile{
				Backend:   cfg.Backend,
				DataDir:   cfg.DataDir,
				LogLevel:  s.settings.LogLevel,
				LogFormat: s.settings.LogFormat,
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(&file); err != nil {
				return systemError(fmt.Errorf("encode config: %w", err))
			}
			return enc.Close()
		},
	}
}
