package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skaut/skautis-gate/internal/core"
)

var (
	whyLogin        string
	whyPerson       int64
	whyRuleSets     []int64
	whyRuleSetLabel string
)

var whyCmd = &cobra.Command{
	Use:   "why",
	Short: "Explain why an actor matches (or does not match) rule sets",
	Long: `Simulates an access check against the server and returns a detailed
	trace of the rule evaluation. Useful for debugging why a specific
	member is locked out of content or matches the wrong rule set.

Note: This command requires a gate server to be running and reachable.`,
	Example: `  # Why can this member not see the gated post?
  skautis-gate why --login abc123 --person 42 --rules 17

  # Trace every stored rule set at once
  skautis-gate why --login abc123 --person 42`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		actor := core.Actor{LoginID: whyLogin, PersonID: whyPerson}
		ids := make([]core.ContentID, 0, len(whyRuleSets))
		for _, id := range whyRuleSets {
			ids = append(ids, core.ContentID(id))
		}

		trace, err := cli.ExplainTrace(cmd.Context(), actor, ids)
		if err != nil {
			return err
		}

		printTrace(trace)
		return nil
	},
}

func printTrace(trace *core.EvaluationTrace) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	session := red("no session")
	if trace.Authenticated {
		session = green("logged in")
	}

	fmt.Printf("\n%s for actor: %s (person %d, %s)\n",
		bold("Evaluation Trace"),
		bold(trace.Actor.LoginID),
		trace.Actor.PersonID,
		session)

	fmt.Println(faint("---------------------------------------------------"))

	for _, res := range trace.RuleSetResults {
		if whyRuleSetLabel != "" && res.Name != whyRuleSetLabel {
			continue
		}

		icon := red("✖")
		if res.Matched {
			icon = green("✔")
		}

		fmt.Printf("%s Rule set: %s\n", icon, bold(res.Name))
		if res.Description != "" {
			fmt.Printf("  %s\n", faint(res.Description))
		}

		for _, cond := range res.ConditionResults {
			// calculate depth based on leading spaces
			trimmed := strings.TrimLeft(cond.Expression, " ")
			indentLen := len(cond.Expression) - len(trimmed)
			indent := strings.Repeat(" ", indentLen)

			// detect if this is a logic gate label
			isLogicGate := strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")

			condIcon := red("✖")
			if cond.Matched {
				condIcon = green("✔")
			}

			if isLogicGate {
				fmt.Printf("    %s%s %s\n", indent, condIcon, cyan(trimmed))
			} else {
				fmt.Printf("    %s%s %s\n", indent, condIcon, trimmed)
			}

			if cond.Reason != "" {
				reasonIndent := indent + "      "
				reason := cond.Reason
				if cond.Matched {
					reason = faint(reason)
				} else {
					reason = yellow(reason)
				}
				fmt.Printf("%s↳ %s\n", reasonIndent, reason)
			}
		}

		fmt.Println()
	}

	fmt.Println("---------------------------------------------------")
	if trace.FinalDecision {
		fmt.Printf("Decision: %s via rule set '%s'\n", bold(green("allowed")), bold(trace.GrantedRuleSet))
	} else {
		fmt.Printf("Decision: %s\n", bold(red("denied")))
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(whyCmd)

	whyCmd.Flags().StringVarP(&whyLogin, "login", "l", "", "skautIS login ID of the actor")
	whyCmd.Flags().Int64VarP(&whyPerson, "person", "p", 0, "skautIS person ID of the actor")
	whyCmd.Flags().Int64SliceVarP(&whyRuleSets, "rules", "r", nil, "Rule set IDs to trace (default: all)")
	whyCmd.Flags().StringVar(&whyRuleSetLabel, "rule-set", "", "Filter output to a specific rule set name (optional)")

	_ = whyCmd.MarkFlagRequired("login")
}
