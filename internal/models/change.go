// Package models contains the data types shared across p4report.
package models

import "time"

// ChangeStatus identifies whether a changelist is pending or submitted.
type ChangeStatus string

const (
	StatusPending   ChangeStatus = "pending"
	StatusSubmitted ChangeStatus = "submitted"
)

// Change is a single Perforce changelist as reported by `p4 changes -l`.
// It is immutable after parsing except for Files, which is filled in on
// demand from `p4 describe`.
type Change struct {
	Number      int
	User        string
	Workspace   string
	Date        time.Time
	Status      ChangeStatus
	Description []string // description lines with the tab indentation stripped
	Files       []string // affected depot files, populated only when requested
}
