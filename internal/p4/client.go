package p4

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kilupskalvis/p4report/internal/models"
)

// Client queries a Perforce server for one user's changelists.
type Client struct {
	Runner Runner
}

// NewClient builds a Client that shells out to the p4 binary using the
// request's user, workspace, and server address.
func NewClient(req models.Request) *Client {
	return &Client{Runner: ExecRunner{
		User:      req.User,
		Workspace: req.Workspace,
		Port:      req.Port,
	}}
}

// Changes returns the user's pending and submitted changelists inside the
// request's inclusive date range, each slice in p4's native order (newest
// first). A query that matches nothing returns empty slices, not an error.
//
// When the request carries no depot path filters, the workspace view is used
// instead; a workspace with no resolvable view falls back to all depots.
func (c *Client) Changes(ctx context.Context, req models.Request) (pending, submitted []models.Change, err error) {
	paths := req.DepotPaths
	if len(paths) == 0 {
		paths, err = c.WorkspaceView(ctx, req.Workspace)
		if err != nil {
			return nil, nil, err
		}
	}

	pending, err = c.pendingChanges(ctx, req, paths)
	if err != nil {
		return nil, nil, err
	}

	submitted, err = c.submittedChanges(ctx, req, paths)
	if err != nil {
		return nil, nil, err
	}

	return pending, submitted, nil
}

func (c *Client) pendingChanges(ctx context.Context, req models.Request, paths []string) ([]models.Change, error) {
	args := []string{"changes", "-l", "-u", req.User, "-s", "pending"}
	args = append(args, paths...)

	out, err := c.Runner.Run(ctx, args...)
	if err != nil {
		return nil, err
	}

	// p4 cannot constrain pending changes by revision range, so the date
	// filter is applied here.
	return filterByDate(parseChanges(out), req.Start, req.End), nil
}

func (c *Client) submittedChanges(ctx context.Context, req models.Request, paths []string) ([]models.Change, error) {
	args := []string{"changes", "-l", "-u", req.User, "-s", "submitted"}
	args = append(args, revRanges(req, paths)...)

	out, err := c.Runner.Run(ctx, args...)
	if err != nil {
		return nil, err
	}

	return parseChanges(out), nil
}

// WorkspaceView returns the depot paths mapped by the workspace's view.
func (c *Client) WorkspaceView(ctx context.Context, workspace string) ([]string, error) {
	out, err := c.Runner.Run(ctx, "client", "-o", workspace)
	if err != nil {
		return nil, err
	}
	return parseView(out), nil
}

// ChangeFiles returns the depot files affected by a submitted changelist.
func (c *Client) ChangeFiles(ctx context.Context, number int) ([]string, error) {
	out, err := c.Runner.Run(ctx, "describe", "-s", strconv.Itoa(number))
	if err != nil {
		return nil, err
	}
	return parseDescribeFiles(out), nil
}

// revRanges renders "<path>@<start>,@<end>" revision range arguments for each
// depot path, or a single bare range when no paths are known.
func revRanges(req models.Request, paths []string) []string {
	end := "now"
	if !req.End.IsZero() {
		end = req.End.Format(dateLayout)
	}
	spec := fmt.Sprintf("@%s,@%s", req.Start.Format(dateLayout), end)

	if len(paths) == 0 {
		return []string{spec}
	}

	ranged := make([]string, 0, len(paths))
	for _, p := range paths {
		ranged = append(ranged, p+spec)
	}
	return ranged
}

// filterByDate keeps changes inside the inclusive range. A zero end means
// no upper bound.
func filterByDate(changes []models.Change, start, end time.Time) []models.Change {
	var kept []models.Change
	for _, c := range changes {
		if c.Date.Before(start) {
			continue
		}
		if !end.IsZero() && c.Date.After(end) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
