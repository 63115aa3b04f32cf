package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var rulesVariantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "List the rule variants the server can evaluate",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		variants, err := cli.Variants(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing variants: %w", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Kind", "Label", "Shape", "Operators", "Values"})

		for _, v := range variants {
			t.AppendRow(table.Row{
				color.New(color.Bold).Sprint(v.Kind),
				v.Label,
				v.Shape,
				strings.Join(v.Operators, ", "),
				len(v.Values),
			})
		}

		applyTableFormat(t)
		t.Render()
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesVariantsCmd)
}
