package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kilupskalvis/p4report/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQuerier returns canned changelists.
type fakeQuerier struct {
	Pending   []models.Change
	Submitted []models.Change
	Files     map[int][]string
	Err       error
	Calls     int
}

func (f *fakeQuerier) Changes(_ context.Context, _ models.Request) ([]models.Change, []models.Change, error) {
	f.Calls++
	if f.Err != nil {
		return nil, nil, f.Err
	}
	return f.Pending, f.Submitted, nil
}

func (f *fakeQuerier) ChangeFiles(_ context.Context, number int) ([]string, error) {
	return f.Files[number], nil
}

// fakeGenerator records the prompt it received.
type fakeGenerator struct {
	Response string
	Err      error
	Prompt   string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.Prompt = prompt
	if f.Err != nil {
		return "", f.Err
	}
	return f.Response, nil
}

func submittedFix() []models.Change {
	return []models.Change{{
		Number:      101,
		User:        "alice",
		Workspace:   "W",
		Date:        time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		Status:      models.StatusSubmitted,
		Description: []string{"Fix bug"},
	}}
}

func runOptions(t *testing.T) *Options {
	t.Helper()
	dir := t.TempDir()
	opts := &Options{
		User:      "alice",
		Workspace: "W",
		Port:      "perforce:1666",
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
		RawOutput: filepath.Join(dir, "raw.txt"),
		AIOutput:  filepath.Join(dir, "ai.txt"),
	}
	require.NoError(t, opts.Validate())
	return opts
}

func TestRun_RawOnly(t *testing.T) {
	opts := runOptions(t)
	opts.OllamaModel = "" // AI generation skipped
	require.NoError(t, opts.Validate())

	a := &App{Querier: &fakeQuerier{Submitted: submittedFix()}}
	require.NoError(t, a.Run(context.Background(), opts))

	raw, err := os.ReadFile(opts.RawOutput)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Change 101 on 2026/01/05 by alice@W")
	assert.Contains(t, string(raw), "User: alice | Workspace: W")
	assert.Contains(t, string(raw), "Date: 2026-01-01 to 2026-01-31")

	_, err = os.Stat(opts.AIOutput)
	assert.True(t, os.IsNotExist(err), "AI output must not be created when no model is set")
}

func TestRun_WithAIReport(t *testing.T) {
	opts := runOptions(t)
	opts.OllamaModel = "qwen2.5:14b"
	require.NoError(t, opts.Validate())

	gen := &fakeGenerator{Response: "A quiet month with one bug fix."}
	a := &App{
		Querier:   &fakeQuerier{Submitted: submittedFix()},
		Generator: gen,
	}
	require.NoError(t, a.Run(context.Background(), opts))

	assert.Contains(t, gen.Prompt, "Change 101", "raw report must be embedded in the prompt")

	ai, err := os.ReadFile(opts.AIOutput)
	require.NoError(t, err)
	assert.Equal(t, "A quiet month with one bug fix.", string(ai), "model response is written verbatim")
}

func TestRun_InferenceFailureKeepsRawReport(t *testing.T) {
	opts := runOptions(t)
	opts.OllamaModel = "qwen2.5:14b"
	require.NoError(t, opts.Validate())

	a := &App{
		Querier:   &fakeQuerier{Submitted: submittedFix()},
		Generator: &fakeGenerator{Err: errors.New("connection refused")},
	}
	err := a.Run(context.Background(), opts)
	require.Error(t, err)

	raw, readErr := os.ReadFile(opts.RawOutput)
	require.NoError(t, readErr, "raw report must already be on disk when inference fails")
	assert.Contains(t, string(raw), "Change 101")

	_, statErr := os.Stat(opts.AIOutput)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_QueryFailureWritesNothing(t *testing.T) {
	opts := runOptions(t)

	a := &App{Querier: &fakeQuerier{Err: errors.New("Connect to server failed")}}
	err := a.Run(context.Background(), opts)
	require.Error(t, err)

	_, statErr := os.Stat(opts.RawOutput)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_EmptyQueryStillWritesReport(t *testing.T) {
	opts := runOptions(t)

	a := &App{Querier: &fakeQuerier{}}
	require.NoError(t, a.Run(context.Background(), opts))

	raw, err := os.ReadFile(opts.RawOutput)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "No pending changes found for this period.")
	assert.Contains(t, string(raw), "No submitted changes found for this period.")
}

func TestRun_RawReuseSkipsQuery(t *testing.T) {
	opts := runOptions(t)
	opts.RawReuse = true
	opts.OllamaModel = "qwen2.5:14b"
	require.NoError(t, opts.Validate())
	require.NoError(t, os.WriteFile(opts.RawOutput, []byte("existing raw report"), 0o644))

	q := &fakeQuerier{}
	gen := &fakeGenerator{Response: "summary"}
	a := &App{Querier: q, Generator: gen}
	require.NoError(t, a.Run(context.Background(), opts))

	assert.Zero(t, q.Calls, "raw reuse must not query Perforce")
	assert.Contains(t, gen.Prompt, "existing raw report")
}

func TestRun_RawReuseFallsBackWhenFileMissing(t *testing.T) {
	opts := runOptions(t)
	opts.RawReuse = true

	q := &fakeQuerier{Submitted: submittedFix()}
	a := &App{Querier: q}
	require.NoError(t, a.Run(context.Background(), opts))

	assert.Equal(t, 1, q.Calls)
}

func TestRun_ShowFiles(t *testing.T) {
	opts := runOptions(t)
	opts.ShowFiles = true

	a := &App{Querier: &fakeQuerier{
		Submitted: submittedFix(),
		Files:     map[int][]string{101: {"//depot/a.c"}},
	}}
	require.NoError(t, a.Run(context.Background(), opts))

	raw, err := os.ReadFile(opts.RawOutput)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "//depot/a.c")
}

func TestRun_BadPromptFileFailsBeforeQuery(t *testing.T) {
	opts := runOptions(t)
	opts.OllamaModel = "qwen2.5:14b"
	opts.PromptFile = filepath.Join(t.TempDir(), "absent.txt")
	require.NoError(t, opts.Validate())

	q := &fakeQuerier{Submitted: submittedFix()}
	a := &App{Querier: q, Generator: &fakeGenerator{Response: "x"}}
	err := a.Run(context.Background(), opts)
	require.Error(t, err)
	assert.Zero(t, q.Calls, "a bad prompt file is a configuration error, caught before any work")
}

func TestRun_MissingPlaceholderWarnsAndAppends(t *testing.T) {
	opts := runOptions(t)
	opts.OllamaModel = "qwen2.5:14b"
	promptPath := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(promptPath, []byte("Summarize the following."), 0o644))
	opts.PromptFile = promptPath
	require.NoError(t, opts.Validate())

	var messages []string
	gen := &fakeGenerator{Response: "summary"}
	a := &App{
		Querier:   &fakeQuerier{Submitted: submittedFix()},
		Generator: gen,
		Status: func(format string, args ...any) {
			messages = append(messages, format)
		},
	}
	require.NoError(t, a.Run(context.Background(), opts))

	assert.True(t, len(gen.Prompt) > len("Summarize the following."))
	assert.Contains(t, gen.Prompt, "Change 101")

	warned := false
	for _, m := range messages {
		if strings.HasPrefix(m, "warning") {
			warned = true
		}
	}
	assert.True(t, warned, "missing placeholder must produce a warning")
}
