package cmd

import (
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect stored rule sets and available rule variants",
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
