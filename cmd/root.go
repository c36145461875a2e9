// Package cmd defines and implements the CLI commands for the playmeta executable.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/appaudit/playmeta/internal/catalog"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playmeta",
		Short: "Enrich application name lists with Play store catalog metadata.",
		Long: `playmeta resolves human-supplied application names into canonical
store identifiers, fetches each detail page, and extracts structured catalog
metadata (name, description, category, content rating, rating, price) into a
tabular output file.`,
	}

	cobra.OnInitialize(initConfig)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./playmeta.yaml)")
	cmd.PersistentFlags().Bool("verbose", false, "enable development-style logging")

	// The flag overrides logging.development from the config file.
	_ = viper.BindPFlag("logging.development", cmd.PersistentFlags().Lookup("verbose"))

	cmd.AddCommand(newFetchCmd())
	cmd.AddCommand(newRunsCmd())

	return cmd
}

// initConfig wires Viper to env vars and the optional config file.
func initConfig() {
	v := viper.GetViper()
	v.SetEnvPrefix("PLAYMETA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	catalog.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("playmeta")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; env vars and defaults
		// cover it. An explicitly named file must exist.
		if cfgFile != "" {
			fmt.Fprintf(os.Stderr, "read config %s: %v\n", cfgFile, err)
			os.Exit(1)
		}
	}
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
