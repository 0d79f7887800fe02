package models

import "time"

// PingResult describes one dependency probe.
type PingResult struct {
	Target     string        `json:"target"`
	Reachable  bool          `json:"reachable"`
	StatusCode int           `json:"status_code,omitempty"`
	Status     string        `json:"status,omitempty"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
	ObservedAt time.Time     `json:"observed_at"`
}

// Readiness aggregates every probe.
type Readiness struct {
	Ready  bool         `json:"ready"`
	Checks []PingResult `json:"checks"`
}
