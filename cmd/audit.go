package cmd

import (
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Administrative audit commands",
	Long:  `View the decision audit trail of a running gate server.`,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
