package app

import (
	"context"
	"fmt"
	"os"

	"github.com/kilupskalvis/p4report/internal/models"
	"github.com/kilupskalvis/p4report/internal/ollama"
	"github.com/kilupskalvis/p4report/internal/p4"
	"github.com/kilupskalvis/p4report/internal/prompt"
	"github.com/kilupskalvis/p4report/internal/report"
)

// Querier lists a user's changelists. Satisfied by *p4.Client and by the
// test fakes.
type Querier interface {
	Changes(ctx context.Context, req models.Request) (pending, submitted []models.Change, err error)
	ChangeFiles(ctx context.Context, number int) ([]string, error)
}

// App bundles the collaborators for one report run.
type App struct {
	Querier   Querier
	Generator ollama.Generator     // nil when AI generation is skipped
	Status    func(string, ...any) // progress messages to the user, may be nil
}

// Run builds the default collaborators from opts and executes the pipeline.
func Run(opts *Options, status func(string, ...any)) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	a := &App{
		Querier: p4.NewClient(opts.Request()),
		Status:  status,
	}
	if opts.AIRequested() {
		a.Generator = ollama.NewClient(opts.OllamaURL, opts.OllamaModel)
	}

	return a.Run(context.Background(), opts)
}

// Run executes the fixed pipeline: query, format, write the raw report, then
// optionally compose the prompt and write the AI report. The raw report is on
// disk before inference starts, so an inference failure never loses it.
func (a *App) Run(ctx context.Context, opts *Options) error {
	var tmpl prompt.Template
	if opts.AIRequested() {
		// Loaded up front so a bad prompt file fails before any query runs.
		var err error
		tmpl, err = prompt.Load(opts.PromptFile)
		if err != nil {
			return err
		}
	}

	raw, err := a.rawReport(ctx, opts)
	if err != nil {
		return err
	}

	if !opts.AIRequested() {
		return nil
	}

	composed, ok := tmpl.Compose(raw)
	if !ok {
		a.statusf("warning: prompt template has no %s placeholder, appending report", prompt.Placeholder)
	}

	a.statusf("Generating AI report using %s...", opts.OllamaModel)

	genCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	summary, err := a.Generator.Generate(genCtx, composed)
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.AIOutput, []byte(summary), 0o644); err != nil {
		return fmt.Errorf("write AI report: %w", err)
	}
	a.statusf("AI report saved to: %s", opts.AIOutput)

	return nil
}

// rawReport produces the raw report text and persists it, or reloads an
// existing file when raw reuse is requested.
func (a *App) rawReport(ctx context.Context, opts *Options) (string, error) {
	if opts.RawReuse {
		if data, err := os.ReadFile(opts.RawOutput); err == nil {
			a.statusf("Reusing raw report file: %s", opts.RawOutput)
			return string(data), nil
		}
	}

	a.statusf("Generating raw P4 report...")

	req := opts.Request()
	pending, submitted, err := a.Querier.Changes(ctx, req)
	if err != nil {
		return "", err
	}

	if opts.ShowFiles {
		for i := range submitted {
			files, err := a.Querier.ChangeFiles(ctx, submitted[i].Number)
			if err != nil {
				return "", err
			}
			submitted[i].Files = files
		}
	}

	raw := report.Build(req, pending, submitted)

	if err := os.WriteFile(opts.RawOutput, []byte(raw), 0o644); err != nil {
		return "", fmt.Errorf("write raw report: %w", err)
	}
	a.statusf("Raw report saved to: %s", opts.RawOutput)

	return raw, nil
}

func (a *App) statusf(format string, args ...any) {
	if a.Status != nil {
		a.Status(format, args...)
	}
}
