package cmd

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skaut/skautis-gate/internal/core"
	"github.com/skaut/skautis-gate/internal/visibility"
)

var (
	visibilityLogin   string
	visibilityPerson  int64
	visibilityCanEdit bool
)

var visibilityCmd = &cobra.Command{
	Use:   "visibility <content-id>",
	Short: "Resolve the effective visibility of a content item for an actor",
	Args:  cobra.ExactArgs(1),
	Example: `  skautis-gate visibility 128 --login abc123 --person 42`,
	RunE: func(cmd *cobra.Command, args []string) error {
		contentID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("parsing content ID %q: %w", args[0], err)
		}

		cli, err := getClient()
		if err != nil {
			return err
		}

		actor := core.Actor{LoginID: visibilityLogin, PersonID: visibilityPerson}
		decision, _, err := cli.Visibility(cmd.Context(), actor, core.ContentID(contentID), visibilityCanEdit)
		if err != nil {
			return err
		}

		bold := color.New(color.Bold).SprintFunc()

		outcome := redCross + " " + string(decision.Outcome)
		if decision.Outcome == visibility.OutcomeVisible {
			outcome = greenCheck + " " + string(decision.Outcome)
		}

		fmt.Printf("Content %s for %s: %s\n", bold(args[0]), bold(actor.LoginID), outcome)
		if decision.Outcome != visibility.OutcomeVisible {
			fmt.Printf("  mode: %s\n", decision.Mode)
		}
		if len(decision.RuleSets) > 0 {
			fmt.Printf("  rule sets: %v", decision.RuleSets)
			if decision.Inherited {
				fmt.Printf(" (inherited from an ancestor)")
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(visibilityCmd)

	visibilityCmd.Flags().StringVarP(&visibilityLogin, "login", "l", "", "skautIS login ID of the actor")
	visibilityCmd.Flags().Int64VarP(&visibilityPerson, "person", "p", 0, "skautIS person ID of the actor")
	visibilityCmd.Flags().BoolVar(&visibilityCanEdit, "can-edit", false, "Treat the actor as an editor of the content")
}
