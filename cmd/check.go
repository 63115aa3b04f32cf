package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skaut/skautis-gate/internal/core"
)

var (
	checkLogin    string
	checkPerson   int64
	checkRuleSets []int64
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether an actor passes a list of rule sets",
	Long: `Asks the gate server whether the given actor passes at least one of
	the listed rule sets. Prints the decision and exits non-zero when
	access would be denied.`,
	Example: `  skautis-gate check --login abc123 --person 42 --rules 17,23`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		actor := core.Actor{LoginID: checkLogin, PersonID: checkPerson}
		ids := make([]core.ContentID, 0, len(checkRuleSets))
		for _, id := range checkRuleSets {
			ids = append(ids, core.ContentID(id))
		}

		passed, correlationID, err := cli.Check(cmd.Context(), actor, ids)
		if err != nil {
			return err
		}

		if passed {
			fmt.Printf("%s %s passes\n", greenCheck, color.New(color.Bold).Sprint(actor.LoginID))
			return nil
		}

		fmt.Printf("%s %s is denied (correlation: %s)\n", redCross,
			color.New(color.Bold).Sprint(actor.LoginID), correlationID)
		return fmt.Errorf("access denied")
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkLogin, "login", "l", "", "skautIS login ID of the actor")
	checkCmd.Flags().Int64VarP(&checkPerson, "person", "p", 0, "skautIS person ID of the actor")
	checkCmd.Flags().Int64SliceVarP(&checkRuleSets, "rules", "r", nil, "Rule set IDs to check")

	_ = checkCmd.MarkFlagRequired("login")
	_ = checkCmd.MarkFlagRequired("rules")
}
