// Package cli implements the command-line interface for p4report.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/kilupskalvis/p4report/internal/app"
	"github.com/kilupskalvis/p4report/internal/config"
	"github.com/kilupskalvis/p4report/internal/ollama"
	"github.com/spf13/cobra"
)

const defaultTimeoutMinutes = 15

var opts = &app.Options{}

var (
	configPath string
	timeoutMin int
)

var rootCmd = &cobra.Command{
	Use:   "p4report",
	Short: "Generate a Perforce change report, optionally summarized by a local AI model",
	Long: `p4report queries a Perforce server for one user's pending and submitted
changes in a date range, writes them as a raw text report, and can feed that
report through a prompt template to a local Ollama model to produce a
narrative summary.

The raw report is always written before any AI generation starts, so a
failed or skipped AI run never loses the raw data.

Date format: YYYY-MM-DD (e.g. 2026-01-31). The end date defaults to now.

Examples:
  p4report -u alice -w ws-main -r perforce:1666 -s 2026-01-01 --raw-output jan.txt
  p4report -u alice -w ws-main -r perforce:1666 -s 2026-01-01 -e 2026-01-31 \
      --raw-output jan.txt --ollama-model qwen2.5:14b --ai-output jan-ai.txt`,
	Run: runReport,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&opts.User, "user", "u", "", "Perforce username")
	f.StringVarP(&opts.Workspace, "workspace", "w", "", "Perforce workspace")
	f.StringVarP(&opts.Port, "remote", "r", "", "Perforce server address (host:port)")
	f.StringVarP(&opts.StartDate, "start-date", "s", "", "Start date (YYYY-MM-DD)")
	f.StringVarP(&opts.EndDate, "end-date", "e", "", "End date (YYYY-MM-DD, defaults to now)")
	f.StringArrayVarP(&opts.Depots, "depot", "d", nil, "Depot path filter (repeatable, defaults to the workspace view)")
	f.StringVar(&opts.RawOutput, "raw-output", "", "File path for the raw report")
	f.BoolVar(&opts.RawReuse, "raw-reuse", false, "Reuse an existing raw report file instead of querying Perforce")
	f.BoolVar(&opts.ShowFiles, "show-files", false, "List affected files for each submitted change")
	f.StringVar(&opts.OllamaURL, "ollama-url", "", "Ollama API URL (default "+ollama.DefaultURL+")")
	f.StringVar(&opts.OllamaModel, "ollama-model", "", "Ollama model for the AI report (omit to skip AI generation)")
	f.StringVar(&opts.AIOutput, "ai-output", "", "File path for the AI report")
	f.StringVar(&opts.PromptFile, "prompt-file", "", "Prompt template file (defaults to the bundled template)")
	f.StringVar(&configPath, "config", "", "Config file (default ~/.config/p4report/config.toml)")
	f.IntVar(&timeoutMin, "timeout", 0, "Inference timeout in minutes")
}

func runReport(cmd *cobra.Command, args []string) {
	applyConfig()

	if err := opts.Validate(); err != nil {
		exitError("%v", err)
	}

	if err := app.Run(opts, statusf); err != nil {
		exitError("%v", err)
	}
}

// applyConfig fills unset options from the config file and environment.
// Precedence is flag, then config file, then environment.
func applyConfig() {
	path := configPath
	required := path != ""
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		exitError("%v", err)
	}

	if opts.User == "" {
		opts.User = cfg.User
	}
	if opts.Workspace == "" {
		opts.Workspace = cfg.Workspace
	}
	if opts.Port == "" {
		opts.Port = cfg.Port
	}
	if opts.OllamaURL == "" {
		opts.OllamaURL = cfg.OllamaURL
	}
	if opts.OllamaURL == "" {
		opts.OllamaURL = ollama.DefaultURL
	}
	if opts.OllamaModel == "" {
		opts.OllamaModel = cfg.OllamaModel
	}
	if opts.PromptFile == "" {
		opts.PromptFile = cfg.PromptFile
	}

	if timeoutMin == 0 {
		timeoutMin = cfg.TimeoutMinutes
	}
	if timeoutMin == 0 {
		timeoutMin = defaultTimeoutMinutes
	}
	opts.Timeout = time.Duration(timeoutMin) * time.Minute
}

// statusf prints a progress message to stderr, keeping stdout clean for
// anything piped. Warnings are highlighted.
func statusf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if strings.HasPrefix(msg, "warning:") {
		color.New(color.FgYellow).Fprintln(os.Stderr, msg)
		return
	}
	fmt.Fprintln(os.Stderr, msg)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	color.New(color.FgRed).Fprint(os.Stderr, "error: ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
