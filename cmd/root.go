// Package cmd wires the lang_portal command line: configuration loading and
// the serve, generate and version commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lang_portal/config"
)

const defaultConfigName = "lang_portal"

var (
	configFile string

	// Version information set by main.
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "lang_portal",
	Short: "Japanese learning portal with an LLM vocabulary generator",
	Long: `lang_portal serves the learning portal pages and the vocabulary
generator, which asks a hosted language model for five Japanese words in a
category and returns them as JSON.`,
	SilenceUsage: true,
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	config.SetDefaults(viper.GetViper())
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./lang_portal.yaml)")
}

// loadConfig reads .env files, the optional config file and the environment
// into viper, then decodes the typed Config.
func loadConfig() (config.Config, error) {
	v := viper.GetViper()

	loadEnvFiles()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(defaultConfigName)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return config.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return config.Load(v)
}

// loadEnvFiles loads .env and then .env.local, which overrides it. Variables
// already set in the process environment win over .env.
func loadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")
}
