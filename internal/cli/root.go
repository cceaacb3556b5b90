package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/ralt/rhinopackages/internal/config"
	"github.com/ralt/rhinopackages/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envFiles are loaded in order; values already in the environment win
var envFiles = []string{".env.local", ".env"}

// flagKeys maps command-line flags to configuration keys
var flagKeys = map[string]string{
	"registry-url":   "registry.url",
	"output-dir":     "output.dir",
	"compress":       "output.compress",
	"gpg-key":        "sign.key",
	"gpg-passphrase": "sign.passphrase",
	"log-level":      "log.level",
	"rebuild":        "rebuild",
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	v := config.NewViper()
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "rhinopackages",
		Short: "Synchronize the Rhino package catalog with the Yak registry",
		Long: `Rhinopackages reads every package published on the Yak registry and
maintains a static catalog that the package browser serves:

  <output-dir>/data.json                  the catalog
  <output-dir>/data/versions/<id>.json    the release history of each package

By default only packages whose version or download count changed are
rewritten. Use --rebuild to regenerate the catalog from scratch.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loadEnvFiles()
			if err := config.ReadFile(v, configPath); err != nil {
				return err
			}
			return setupLogging(cmd, v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			logrus.Debugf("Configuration: %+v", redacted(cfg))
			return runSync(cmd.Context(), &cfg)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (YAML, TOML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	// Registry and output flags
	rootCmd.Flags().String("registry-url", "", "Base URL of the Yak registry")
	rootCmd.Flags().StringP("output-dir", "o", "", "Directory the catalog is written to")
	rootCmd.Flags().Bool("rebuild", false, "Ignore the persisted catalog and rebuild it from scratch")
	rootCmd.Flags().Bool("compress", false, "Also write gzip and zstd copies of the catalog")

	// Signing flags
	rootCmd.Flags().StringP("gpg-key", "k", "", "Path to GPG private key used to sign the catalog")
	rootCmd.Flags().StringP("gpg-passphrase", "p", "", "GPG key passphrase")

	// Add subcommands
	rootCmd.AddCommand(NewInspectCmd())

	for name, key := range flagKeys {
		flag := rootCmd.Flags().Lookup(name)
		if flag == nil {
			flag = rootCmd.PersistentFlags().Lookup(name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}

	return rootCmd
}

func loadEnvFiles() {
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			logrus.Debugf("Loaded %s", envFile)
		}
	}
}

func setupLogging(cmd *cobra.Command, v *viper.Viper) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
		return nil
	}

	level, err := logrus.ParseLevel(v.GetString("log.level"))
	if err != nil {
		return &models.SyncError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("invalid log level: %w", err),
		}
	}
	logrus.SetLevel(level)
	return nil
}

func redacted(cfg models.SyncConfig) models.SyncConfig {
	if cfg.GPGPassphrase != "" {
		cfg.GPGPassphrase = "****"
	}
	return cfg
}
