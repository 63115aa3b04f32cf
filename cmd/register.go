package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skaut/skautis-gate/internal/core"
)

var (
	registerLogin  string
	registerPerson int64
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a local account for a skautIS user",
	Long: `Runs the registration gate for the given actor. When one of the
	configured registration rule sets matches, an account is created
	with the role linked to that rule set.`,
	Example: `  skautis-gate register --login abc123 --person 42`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		actor := core.Actor{LoginID: registerLogin, PersonID: registerPerson}
		role, correlationID, err := cli.Register(cmd.Context(), actor)
		if err != nil {
			return err
		}

		fmt.Printf("%s registered %s with role %s (correlation: %s)\n",
			greenCheck,
			color.New(color.Bold).Sprint(actor.LoginID),
			color.New(color.Bold).Sprint(role),
			correlationID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().StringVarP(&registerLogin, "login", "l", "", "skautIS login ID of the actor")
	registerCmd.Flags().Int64VarP(&registerPerson, "person", "p", 0, "skautIS person ID of the actor")

	_ = registerCmd.MarkFlagRequired("login")
}
