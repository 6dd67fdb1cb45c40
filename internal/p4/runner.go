// Package p4 wraps the Perforce command-line client and parses its output.
package p4

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes a p4 command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// CommandError is returned when the p4 binary cannot be run or exits with a
// failure. Stderr carries the server's own message (connection refused,
// authentication failure, unknown workspace).
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("p4 %s: %v", strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf("p4 %s: %s", strings.Join(e.Args, " "), msg)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExecRunner runs the p4 binary as a subprocess with fixed user, workspace,
// and server flags prepended to every command.
type ExecRunner struct {
	User      string
	Workspace string
	Port      string
}

// Run invokes `p4 -u <user> -c <workspace> -p <port> <args...>`.
func (r ExecRunner) Run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-u", r.User, "-c", r.Workspace, "-p", r.Port}, args...)
	cmd := exec.CommandContext(ctx, "p4", full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &CommandError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}
