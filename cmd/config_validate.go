package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/skaut/skautis-gate/internal/config"
	"github.com/skaut/skautis-gate/internal/rulestore"
)

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file and the rule set directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("configuration is invalid: %w", err)
		}

		store, err := rulestore.NewFileStore(cfg.RulesDir)
		if err != nil {
			return fmt.Errorf("rule sets are invalid: %w", err)
		}

		ruleSets, err := store.List(cmd.Context())
		if err != nil {
			return err
		}

		log.Info().
			Int("rule_sets", len(ruleSets)).
			Int("content_nodes", len(cfg.Content)).
			Msg("Configuration is valid.")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
