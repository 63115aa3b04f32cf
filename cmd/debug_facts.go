package cmd

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/skaut/skautis-gate/internal/config"
	"github.com/skaut/skautis-gate/internal/core"
	"github.com/skaut/skautis-gate/internal/facts"
)

var (
	debugFactsLogin  string
	debugFactsPerson int64
)

var debugFactsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Dump the identity facts the configured provider returns for an actor",
	Long: `Builds the facts provider from the local configuration, fetches every
	fact category for the given actor, and dumps the raw snapshot.
	Useful for checking what the rule engine would actually see.`,
	Example: `  skautis-gate debug facts --login abc123 --person 42`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		provider, err := facts.BuildProvider(cfg.Provider)
		if err != nil {
			return fmt.Errorf("building facts provider: %w", err)
		}

		actor := core.Actor{LoginID: debugFactsLogin, PersonID: debugFactsPerson}
		cache := facts.NewCache(provider, actor)

		if !cache.Authenticated(cmd.Context()) {
			log.Warn().Str("login_id", actor.LoginID).Msg("actor has no live session")
		}

		snapshot, err := cache.Snapshot(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching facts: %w", err)
		}

		spew.Dump(snapshot)
		return nil
	},
}

func init() {
	debugCmd.AddCommand(debugFactsCmd)

	debugFactsCmd.Flags().StringVarP(&debugFactsLogin, "login", "l", "", "skautIS login ID of the actor")
	debugFactsCmd.Flags().Int64VarP(&debugFactsPerson, "person", "p", 0, "skautIS person ID of the actor")

	_ = debugFactsCmd.MarkFlagRequired("login")
}
