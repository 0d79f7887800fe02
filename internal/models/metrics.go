package models

import "time"

// SystemMetrics is a point-in-time summary of gateway activity.
type SystemMetrics struct {
	SessionHitRatio           float64   `json:"session_hit_ratio"`
	RequestsTotal             uint64    `json:"requests_total"`
	AverageRequestDurationMs  float64   `json:"average_request_duration_ms"`
	UpstreamRequests          uint64    `json:"upstream_requests"`
	UpstreamErrors            uint64    `json:"upstream_errors"`
	AverageUpstreamDurationMs float64   `json:"average_upstream_duration_ms"`
	OpenLists                 int       `json:"open_lists"`
	Goroutines                int       `json:"goroutines"`
	GeneratedAt               time.Time `json:"generated_at"`
}
