package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/logdup/logdup"
)

var explainCmd = &cobra.Command{
	Use:   "explain <RULE_ID>",
	Short: "Show detailed information about a classification rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	var opts []logdup.Option
	if flagRules != "" {
		opts = append(opts, logdup.WithCustomRules(flagRules))
	}

	detail, err := logdup.ExplainRule(args[0], opts...)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	if strings.ToLower(flagFormat) == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	color := func(code, text string) string {
		if flagNoColor {
			return text
		}
		return code + text + "\033[0m"
	}

	bold := "\033[1m"
	dim := "\033[2m"
	yellow := "\033[33m"
	cyan := "\033[36m"
	red := "\033[31m"
	green := "\033[32m"

	sevColor := cyan
	switch detail.Severity {
	case "critical":
		sevColor = red + bold
	case "high":
		sevColor = red
	case "medium":
		sevColor = yellow
	}

	fmt.Fprintf(w, "\n%s %s\n", color(dim, "Rule:"), color(bold, detail.ID))
	fmt.Fprintf(w, "%s %s\n", color(dim, "Name:"), detail.Name)
	fmt.Fprintf(w, "%s %s\n", color(dim, "Severity:"), color(sevColor, detail.Severity))
	fmt.Fprintf(w, "%s %s\n", color(dim, "Category:"), detail.Category)

	if detail.Description != "" {
		fmt.Fprintf(w, "\n%s\n%s\n", color(bold, "Description:"), detail.Description)
	}

	if len(detail.Patterns) > 0 {
		fmt.Fprintf(w, "\n%s\n", color(bold, "Patterns:"))
		for i, p := range detail.Patterns {
			fmt.Fprintf(w, "  %d. %s\n", i+1, color(dim, p))
		}
	}

	if len(detail.Matches) > 0 {
		fmt.Fprintf(w, "\n%s\n", color(bold, "Matches:"))
		for _, ex := range detail.Matches {
			fmt.Fprintf(w, "  %s %s\n", color(red, "✖"), ex)
		}
	}

	if len(detail.NonMatches) > 0 {
		fmt.Fprintf(w, "\n%s\n", color(bold, "Does not match:"))
		for _, ex := range detail.NonMatches {
			fmt.Fprintf(w, "  %s %s\n", color(green, "✔"), ex)
		}
	}

	fmt.Fprintln(w)
	return nil
}
