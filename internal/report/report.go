// Package report renders changelists into the raw text report.
package report

import (
	"fmt"
	"strings"

	"github.com/kilupskalvis/p4report/internal/models"
)

const (
	rule  = "============================================================"
	title = "P4 CHANGES REPORT"

	noPending   = "No pending changes found for this period."
	noSubmitted = "No submitted changes found for this period."
)

// Build renders the raw report for one query result. Output depends only on
// the request and the changelists, so identical inputs produce identical
// bytes, and changes appear in exactly the order they were received.
func Build(req models.Request, pending, submitted []models.Change) string {
	var b strings.Builder

	b.WriteString(rule + "\n")
	b.WriteString(title + "\n")
	fmt.Fprintf(&b, "Date: %s\n", req.DateRange())
	fmt.Fprintf(&b, "User: %s | Workspace: %s | Server: %s\n", req.User, req.Workspace, req.Port)
	fmt.Fprintf(&b, "Pending: %d | Submitted: %d\n", len(pending), len(submitted))
	b.WriteString(rule + "\n\n")

	writeSection(&b, "PENDING CHANGES", noPending, pending)
	b.WriteString("\n")
	writeSection(&b, "SUBMITTED CHANGES", noSubmitted, submitted)

	return b.String()
}

func writeSection(b *strings.Builder, heading, emptyMsg string, changes []models.Change) {
	fmt.Fprintf(b, "%s\n\n", heading)

	if len(changes) == 0 {
		b.WriteString(emptyMsg + "\n")
		return
	}

	for _, c := range changes {
		writeChange(b, c)
	}
}

func writeChange(b *strings.Builder, c models.Change) {
	fmt.Fprintf(b, "Change %d on %s by %s@%s", c.Number, c.Date.Format("2006/01/02"), c.User, c.Workspace)
	if c.Status == models.StatusPending {
		b.WriteString(" *pending*")
	}
	b.WriteString("\n")

	for _, line := range c.Description {
		b.WriteString("\t" + line + "\n")
	}

	if len(c.Files) > 0 {
		b.WriteString("\tAffected files:\n")
		for _, f := range c.Files {
			b.WriteString("\t\t" + f + "\n")
		}
	}

	b.WriteString("\n")
}
