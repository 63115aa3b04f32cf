package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rulesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all rule sets stored on the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		log.Debug().Msg("Retrieving rule sets...")
		ruleSets, err := cli.RuleSets(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing rule sets: %w", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Name", "Description", "Tree", "Expr"})

		for _, rs := range ruleSets {
			tree := redCross
			if rs.Tree != nil {
				tree = greenCheck
			}

			expr := ""
			if rs.Expr != "" {
				expr = greenCheck
			}

			t.AppendRow(table.Row{
				rs.ID,
				color.New(color.Bold).Sprint(rs.Name),
				rs.Description,
				tree,
				expr,
			})
		}

		applyTableFormat(t)
		t.Render()
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
}
