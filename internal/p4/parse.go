package p4

import (
	"strconv"
	"strings"
	"time"

	"github.com/kilupskalvis/p4report/internal/models"
)

const dateLayout = "2006/01/02"

// parseChanges parses `p4 changes -l` output into ordered changelists.
// Each changelist starts with a header line:
//
//	Change 12345 on 2026/01/05 by alice@ws *pending*
//
// followed by a blank line and tab-indented description lines. Order is
// preserved exactly as p4 printed it (newest first).
func parseChanges(out string) []models.Change {
	var changes []models.Change

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Change ") {
			if c, ok := parseChangeHeader(line); ok {
				changes = append(changes, c)
			}
			continue
		}
		if len(changes) == 0 {
			continue
		}
		if strings.HasPrefix(line, "\t") {
			last := &changes[len(changes)-1]
			last.Description = append(last.Description, strings.TrimPrefix(line, "\t"))
		}
	}

	return changes
}

// parseChangeHeader parses a "Change <n> on <date> by <user>@<workspace>"
// line. Malformed lines are skipped rather than failing the whole query.
func parseChangeHeader(line string) (models.Change, bool) {
	fields := strings.Fields(line)
	if len(fields) < 6 || fields[2] != "on" || fields[4] != "by" {
		return models.Change{}, false
	}

	number, err := strconv.Atoi(fields[1])
	if err != nil {
		return models.Change{}, false
	}

	date, err := time.Parse(dateLayout, fields[3])
	if err != nil {
		return models.Change{}, false
	}

	user, workspace, _ := strings.Cut(fields[5], "@")

	c := models.Change{
		Number:    number,
		User:      user,
		Workspace: workspace,
		Date:      date,
		Status:    models.StatusSubmitted,
	}
	if len(fields) > 6 && fields[6] == "*pending*" {
		c.Status = models.StatusPending
	}
	return c, true
}

// parseView extracts depot paths from the View section of `p4 client -o`
// output. View lines are indented "<depot path> <client path>" pairs;
// exclusion mappings (leading "-") are skipped, and the section ends at the
// next unindented form field.
func parseView(out string) []string {
	var paths []string
	inView := false

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "View:") {
			inView = true
			continue
		}
		if !inView {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "\"-"):
			// exclusion mapping
		case strings.HasPrefix(trimmed, "//"):
			if fields := strings.Fields(trimmed); len(fields) > 0 {
				paths = append(paths, fields[0])
			}
		default:
			return paths
		}
	}

	return paths
}

// parseDescribeFiles extracts depot paths from the "Affected files" section
// of `p4 describe -s` output. File lines look like:
//
//	... //depot/main/src/io.c#3 edit
func parseDescribeFiles(out string) []string {
	var files []string
	inFiles := false

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Affected files") {
			inFiles = true
			continue
		}
		if !inFiles {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "... ") {
			continue
		}

		path := strings.TrimPrefix(trimmed, "... ")
		if i := strings.LastIndex(path, " "); i >= 0 {
			path = path[:i]
		}
		if i := strings.LastIndex(path, "#"); i >= 0 {
			path = path[:i]
		}
		if path != "" {
			files = append(files, path)
		}
	}

	return files
}
