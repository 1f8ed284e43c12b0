package apiserver

import (
	"fmt"
	"strings"

	"github.com/kart-io/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const appName = "petrel-apiserver"

const appDescription = `Petrel access-control API server.

The server is the policy point for the engineering platform:
  - Login, logout and concurrent-session management
  - Role and permission-pattern administration
  - Per-user access profiles (IP allowlists, access hours, domains)
  - Access decision auditing`

// NewApp creates the root cobra command.
func NewApp() *cobra.Command {
	cfg := NewConfig()
	var configFile string

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Petrel access-control API server",
		Long:          appDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			version.PrintAndExitIfRequested()

			if configFile != "" {
				if err := loadConfigFile(configFile, cfg); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return Run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	cfg.AddFlags(fs)
	fs.StringVarP(&configFile, "config", "c", "", "Path to the configuration file")
	version.AddFlags(fs)

	return cmd
}

// loadConfigFile merges a YAML/JSON/TOML config file into cfg. Flags set on
// the command line keep precedence because viper only fills fields the file
// defines and the flag defaults were already applied.
func loadConfigFile(path string, cfg *Config) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("PETREL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}
