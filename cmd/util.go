package cmd

import (
	"errors"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/viper"

	"github.com/skaut/skautis-gate/pkg/client"
)

var (
	greenCheck = color.GreenString("✔")
	redCross   = color.RedString("✖")

	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
)

// getClient builds an API client for the remote gate server from the
// --server flag / SKAUTIS_GATE_ADDR env.
func getClient() (*client.Client, error) {
	addr := viper.GetString(GateAddrKey)
	if addr == "" {
		return nil, errors.New("no server address configured (use --server or SKAUTIS_GATE_ADDR)")
	}
	return client.New(addr), nil
}

func applyTableFormat(t table.Writer) {
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
