package commands

import (
	"github.com/spf13/cobra"
)

var (
	flagFormat       string
	flagOutput       string
	flagWorkers      int
	flagRules        string
	flagNoColor      bool
	flagDisableRules []string
)

var rootCmd = &cobra.Command{
	Use:   "logdup",
	Short: "Redundant-logging detector for extracted logging call-sites",
	Long:  `Logdup classifies a codebase's extracted logging statements into redundancy findings: exact duplicate messages, per-iteration loop spam, low-information noise, and near-duplicate wording.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "terminal", "Output format (terminal, json, markdown, sarif)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "Number of similarity worker goroutines (default: NumCPU)")
	rootCmd.PersistentFlags().StringVar(&flagRules, "rules", "", "Additional rules directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringSliceVar(&flagDisableRules, "disable-rule", nil, "Rule IDs to disable (comma-separated, repeatable)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
