package models

import "time"

// DateLayout is the date format accepted on the command line.
const DateLayout = "2006-01-02"

// Request scopes a change query to one user, workspace, and inclusive date
// range on a Perforce server.
type Request struct {
	User       string
	Workspace  string
	Port       string // Perforce server address (host:port)
	Start      time.Time
	End        time.Time // zero value means "now"
	DepotPaths []string  // optional depot path filters; empty means the workspace view
}

// DateRange renders the inclusive range for display, using "now" for an
// unset end date.
func (r Request) DateRange() string {
	end := "now"
	if !r.End.IsZero() {
		end = r.End.Format(DateLayout)
	}
	return r.Start.Format(DateLayout) + " to " + end
}
