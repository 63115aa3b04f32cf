package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skaut/skautis-gate/internal/buildinfo"
	"github.com/skaut/skautis-gate/internal/logging"
)

// global flags
var (
	cfgFile  string
	gateAddr string
)

const GateAddrKey = "addr"

var rootCmd = &cobra.Command{
	Use:   "skautis-gate",
	Short: fmt.Sprintf("skautIS content gate (version: %s, commit: %s)", buildinfo.Version, buildinfo.CommitHash),
	Long: `skautis-gate evaluates authored rule trees against skautIS identity
	facts (roles, qualifications, memberships, functions) and gates
	content visibility and account registration with the result.`,
	Version: buildinfo.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(nil)
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal().Err(err).Msg("execution failed")
		os.Exit(1)
	}
}

func init() {
	// setup pre-flag logger
	logging.InitDefault()

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "f", "skautis-gate.yaml",
		"Path to the gate configuration file")

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag(logging.LevelKey, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("log-format", "console", "Log format (console, json)")
	_ = viper.BindPFlag(logging.FormatKey, rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	_ = viper.BindPFlag(logging.NoColorKey, rootCmd.PersistentFlags().Lookup("no-color"))

	rootCmd.PersistentFlags().StringVar(&gateAddr, "server", "", "Address of the remote gate server")
	_ = viper.BindPFlag(GateAddrKey, rootCmd.PersistentFlags().Lookup("server"))

	viper.SetEnvPrefix("SKAUTIS_GATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))

	viper.AutomaticEnv()

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

// requireConfig fails early when the config file does not exist, with a
// readable message instead of a parse error.
func requireConfig() error {
	if _, err := os.Stat(cfgFile); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config file %q not found (use --config)", cfgFile)
	}
	return nil
}
