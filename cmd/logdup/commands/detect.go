package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/logdup/logdup"
	"github.com/logdup/logdup/internal/config"
	"github.com/logdup/logdup/internal/output"
	"github.com/logdup/logdup/internal/types"
)

var (
	flagRepoPath  string
	flagThreshold float64
	flagFailOn    string
	flagCI        bool
	flagVerbose   bool
)

var detectCmd = &cobra.Command{
	Use:   "detect <statements.json>",
	Short: "Detect redundant logging in a collector export",
	Long: `Reads a JSON export of extracted logging statements and reports redundancy
findings. The export is either a plain array of statement records or an
object with "statements" and optional "entities" and "repository_path" keys.`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().StringVar(&flagRepoPath, "repo-path", "", "Repository root trimmed from file paths for display")
	detectCmd.Flags().Float64Var(&flagThreshold, "threshold", 0, "Similarity ratio for near-duplicate clustering (default 0.7)")
	detectCmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Exit with code 1 if findings at or above this severity (critical, high, medium, low)")
	detectCmd.Flags().BoolVar(&flagCI, "ci", false, "CI mode: equivalent to --fail-on high --no-color")
	detectCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Show recommendations for each finding")
	rootCmd.AddCommand(detectCmd)
}

// export is the collector file format accepted by detect.
type export struct {
	Statements     []types.Statement `json:"statements"`
	Entities       []types.Entity    `json:"entities,omitempty"`
	RepositoryPath string            `json:"repository_path,omitempty"`
}

func runDetect(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	cfg := loadDetectConfig(cmd, inputPath)
	applyCIDefaults()

	in, err := readExport(inputPath)
	if err != nil {
		return err
	}
	if flagRepoPath == "" {
		flagRepoPath = in.RepositoryPath
	}
	if flagRepoPath == "" {
		flagRepoPath = cfg.RepositoryPath
	}

	ctx, cancel := contextWithInterrupt()
	defer cancel()

	report := logdup.Detect(ctx, in.Statements, detectOptions(cfg, in.Entities)...)

	if err := writeOutput(report); err != nil {
		return err
	}
	if !report.Success {
		return fmt.Errorf("%s", report.Message)
	}
	return checkFailOnThreshold(report)
}

// readExport parses the collector file: a bare statement array or an export
// object.
func readExport(path string) (*export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var statements []types.Statement
		if err := json.Unmarshal(data, &statements); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return &export{Statements: statements}, nil
	}

	var in export
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &in, nil
}

func loadDetectConfig(cmd *cobra.Command, inputPath string) config.Config {
	cfg, err := config.Load(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if !cmd.Flags().Changed("format") && cfg.Format != "" {
		flagFormat = cfg.Format
	}
	if !cmd.Flags().Changed("fail-on") && cfg.FailOn != "" {
		flagFailOn = cfg.FailOn
	}
	if !cmd.Flags().Changed("rules") && cfg.Rules != "" {
		flagRules = cfg.Rules
	}
	if !cmd.Flags().Changed("threshold") && cfg.SimilarityThreshold > 0 {
		flagThreshold = cfg.SimilarityThreshold
	}
	if !cmd.Flags().Changed("workers") && cfg.Workers > 0 {
		flagWorkers = cfg.Workers
	}
	return cfg
}

func applyCIDefaults() {
	if flagCI {
		if flagFailOn == "" {
			flagFailOn = "high"
		}
		if flagFormat == "terminal" {
			flagNoColor = true
		}
	}
	if os.Getenv("NO_COLOR") != "" {
		flagNoColor = true
	}
}

func detectOptions(cfg config.Config, entities []types.Entity) []logdup.Option {
	opts := []logdup.Option{
		logdup.WithEntities(entities),
		logdup.WithRepositoryPath(flagRepoPath),
		logdup.WithSimilarityThreshold(flagThreshold),
		logdup.WithWorkers(flagWorkers),
	}
	if cfg.VolumeThreshold > 0 {
		opts = append(opts, logdup.WithVolumeThreshold(cfg.VolumeThreshold))
	}
	if cfg.FileSpanThreshold > 0 {
		opts = append(opts, logdup.WithFileSpanThreshold(cfg.FileSpanThreshold))
	}
	if flagRules != "" {
		opts = append(opts, logdup.WithCustomRules(flagRules))
	}
	if len(flagDisableRules) > 0 {
		opts = append(opts, logdup.WithDisabledRules(flagDisableRules...))
	}
	if len(cfg.DisableRules) > 0 {
		opts = append(opts, logdup.WithDisabledRules(cfg.DisableRules...))
	}
	if len(cfg.RuleOverrides) > 0 {
		overrides := make(map[string]logdup.RuleOverride, len(cfg.RuleOverrides))
		for id, ovr := range cfg.RuleOverrides {
			overrides[id] = logdup.RuleOverride{Severity: ovr.Severity, Disabled: ovr.Disabled}
		}
		opts = append(opts, logdup.WithRuleOverrides(overrides))
	}
	return opts
}

func contextWithInterrupt() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

func writeOutput(report *logdup.Report) error {
	var w io.Writer = os.Stdout
	if flagOutput != "" {
		file, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()
		w = file
	}

	var formatter output.Formatter
	switch flagFormat {
	case "json":
		formatter = &output.JSONFormatter{}
	case "markdown":
		formatter = &output.MarkdownFormatter{}
	case "sarif":
		formatter = &output.SARIFFormatter{}
	case "terminal":
		formatter = &output.TerminalFormatter{NoColor: flagNoColor, Verbose: flagVerbose}
	default:
		return fmt.Errorf("unknown format: %s", flagFormat)
	}

	return formatter.Format(w, report)
}

func checkFailOnThreshold(report *logdup.Report) error {
	if flagFailOn == "" {
		return nil
	}
	minSev, err := logdup.ParseSeverity(flagFailOn)
	if err != nil {
		return fmt.Errorf("invalid --fail-on: %w", err)
	}
	for _, f := range report.DuplicateLogs {
		if f.Severity >= minSev {
			return fmt.Errorf("findings at or above %s severity", minSev)
		}
	}
	return nil
}
