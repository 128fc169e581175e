// Package domain defines the types and interfaces for the moderation service
package domain

// Counts is the per-reviewer moderation state
type Counts struct {
	Violations int64 `json:"violation_count"`
	Banned     bool  `json:"banned"`
}

// Outcome summarizes one moderated review
type Outcome struct {
	Flagged    bool
	Score      float64
	Violations int64
	Banned     bool
	// Container the record was routed to
	Container string
}
