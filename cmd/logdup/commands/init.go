package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var flagForce bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a Logdup configuration file",
	Long:  `Scaffolds a .logdup.yml with the default thresholds and a commented rule-override block.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing .logdup.yml")
	rootCmd.AddCommand(initCmd)
}

const configTemplate = `# Logdup configuration.
# Flags passed on the command line take precedence over this file.

# Repository root trimmed from file paths for display.
# repository_path: .

# Similarity ratio above which two messages cluster as near-duplicates.
similarity_threshold: 0.7

# Severity escalation thresholds.
volume_threshold: 10
file_span_threshold: 3

# Output format: terminal, json, markdown, sarif.
format: terminal

# Exit non-zero when findings reach this severity (critical, high, medium, low).
# fail_on: high

# Additional classification rules directory.
# rules: ./logdup-rules

# Per-rule overrides.
# rule_overrides:
#   NOISE_FILLER_003:
#     severity: medium
#   LOOP_ITERATOR_004:
#     disabled: true
`

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, ".logdup.yml")
	if _, err := os.Stat(path); err == nil && !flagForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Printf("Created %s\n", path)
	return nil
}
