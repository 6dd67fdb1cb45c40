// Package app wires the query, formatting, prompt, and inference stages into
// the report pipeline.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilupskalvis/p4report/internal/models"
)

// Options carries the settings for one report run, after config and
// environment defaults have been applied.
type Options struct {
	User      string
	Workspace string
	Port      string
	StartDate string
	EndDate   string
	Depots    []string

	RawOutput string
	RawReuse  bool
	ShowFiles bool

	OllamaURL   string
	OllamaModel string
	AIOutput    string
	PromptFile  string
	Timeout     time.Duration

	start time.Time
	end   time.Time
}

// Validate checks required options and parses the date range.
func (o *Options) Validate() error {
	switch {
	case o.User == "":
		return errors.New("user is required (-u or P4USER)")
	case o.Workspace == "":
		return errors.New("workspace is required (-w or P4CLIENT)")
	case o.Port == "":
		return errors.New("remote is required (-r or P4PORT)")
	case o.StartDate == "":
		return errors.New("start date is required (-s)")
	case o.RawOutput == "":
		return errors.New("raw output path is required (--raw-output)")
	}

	var err error
	o.start, err = time.Parse(models.DateLayout, o.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q: use YYYY-MM-DD", o.StartDate)
	}

	if o.EndDate != "" {
		o.end, err = time.Parse(models.DateLayout, o.EndDate)
		if err != nil {
			return fmt.Errorf("invalid end date %q: use YYYY-MM-DD", o.EndDate)
		}
		if o.end.Before(o.start) {
			return fmt.Errorf("end date %s is before start date %s", o.EndDate, o.StartDate)
		}
	}

	if o.OllamaModel != "" && o.AIOutput == "" {
		return errors.New("--ai-output is required when --ollama-model is set")
	}

	return nil
}

// AIRequested reports whether an AI report should be generated. An unset
// model means the run stops after the raw report, successfully.
func (o *Options) AIRequested() bool {
	return o.OllamaModel != ""
}

// Request builds the change query request. Validate must have succeeded.
func (o *Options) Request() models.Request {
	return models.Request{
		User:       o.User,
		Workspace:  o.Workspace,
		Port:       o.Port,
		Start:      o.start,
		End:        o.end,
		DepotPaths: o.Depots,
	}
}
