package repository

import (
	"context"
	"fmt"
)

// BackendHealth is the body of GET /api/health.
type BackendHealth struct {
	Status string `json:"status"`
}

// HealthRepository pings the backend.
type HealthRepository struct {
	api apiClient
}

// NewHealthRepository instantiates a health repository.
func NewHealthRepository(api apiClient) *HealthRepository {
	return &HealthRepository{api: api}
}

// Ping returns the backend's self-reported status.
func (r *HealthRepository) Ping(ctx context.Context) (*BackendHealth, error) {
	var out BackendHealth
	if err := r.api.GetJSON(ctx, "/api/health", &out); err != nil {
		return nil, fmt.Errorf("backend health: %w", err)
	}
	return &out, nil
}
