package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/logdup/logdup"
)

var flagCategory string

var listRulesCmd = &cobra.Command{
	Use:   "list-rules",
	Short: "List all available classification rules",
	RunE:  runListRules,
}

func init() {
	listRulesCmd.Flags().StringVar(&flagCategory, "category", "", "Filter by category (noise, loop)")
	rootCmd.AddCommand(listRulesCmd)
}

func runListRules(cmd *cobra.Command, args []string) error {
	var opts []logdup.Option
	if flagRules != "" {
		opts = append(opts, logdup.WithCustomRules(flagRules))
	}
	if len(flagDisableRules) > 0 {
		opts = append(opts, logdup.WithDisabledRules(flagDisableRules...))
	}
	if flagCategory != "" {
		opts = append(opts, logdup.WithCategory(flagCategory))
	}

	infos := logdup.ListRules(opts...)

	if flagFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSEVERITY\tCATEGORY")
	for _, r := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Severity, r.Category)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d rules\n", len(infos))
	return nil
}
