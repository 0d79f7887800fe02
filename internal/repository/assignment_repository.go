package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zenops/zen-ops-console/internal/assignmentlist"
	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
)

const (
	assignmentsPath = "/api/assignments"
	activityPath    = "/api/activity/assignment"
)

// AssignmentRepository reads and writes single assignments on the backend.
type AssignmentRepository struct {
	api apiClient
}

// NewAssignmentRepository instantiates an assignment repository.
func NewAssignmentRepository(api apiClient) *AssignmentRepository {
	return &AssignmentRepository{api: api}
}

// Get loads one assignment.
func (r *AssignmentRepository) Get(ctx context.Context, id int) (*models.Assignment, error) {
	var out models.Assignment
	if err := r.api.GetJSON(ctx, itemPath(assignmentsPath, id), &out); err != nil {
		return nil, fmt.Errorf("get assignment %d: %w", id, err)
	}
	return &out, nil
}

// Detail loads an assignment together with its file metadata.
func (r *AssignmentRepository) Detail(ctx context.Context, id int) (*models.AssignmentDetail, error) {
	var out models.AssignmentDetail
	if err := r.api.GetJSON(ctx, itemPath(assignmentsPath, id)+"/detail", &out); err != nil {
		return nil, fmt.Errorf("get assignment detail %d: %w", id, err)
	}
	return &out, nil
}

// Activity loads the audit trail of an assignment, newest first.
func (r *AssignmentRepository) Activity(ctx context.Context, id int) ([]models.Activity, error) {
	var out []models.Activity
	if err := r.api.GetJSON(ctx, itemPath(activityPath, id), &out); err != nil {
		return nil, fmt.Errorf("assignment activity %d: %w", id, err)
	}
	if out == nil {
		out = []models.Activity{}
	}
	return out, nil
}

// List fetches one page of assignments with the same query encoding the list views use.
func (r *AssignmentRepository) List(ctx context.Context, scope assignmentlist.Scope, q assignmentlist.Query) ([]models.Assignment, error) {
	var out []models.Assignment
	if err := r.api.GetJSON(ctx, assignmentlist.ListPath(scope, q), &out); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return out, nil
}

// ScopedSummary returns the counts for one bank or branch over all dates.
func (r *AssignmentRepository) ScopedSummary(ctx context.Context, scope assignmentlist.Scope) (*models.AssignmentSummary, error) {
	var out models.AssignmentSummary
	if err := r.api.GetJSON(ctx, assignmentlist.SummaryPath(scope, assignmentlist.Query{}), &out); err != nil {
		return nil, fmt.Errorf("assignment summary: %w", err)
	}
	return &out, nil
}

// Create posts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, req dto.AssignmentRequest) (*models.Assignment, error) {
	var out models.Assignment
	if err := r.api.SendJSON(ctx, http.MethodPost, assignmentsPath+"/", req, &out); err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	return &out, nil
}

// Patch sends a JSON merge patch for an assignment.
func (r *AssignmentRepository) Patch(ctx context.Context, id int, patch json.RawMessage) (*models.Assignment, error) {
	var out models.Assignment
	if err := r.api.SendJSON(ctx, http.MethodPatch, itemPath(assignmentsPath, id), patch, &out); err != nil {
		return nil, fmt.Errorf("patch assignment %d: %w", id, err)
	}
	return &out, nil
}

// Summary returns the unscoped workload counts.
func (r *AssignmentRepository) Summary(ctx context.Context) (*models.AssignmentSummary, error) {
	var out models.AssignmentSummary
	if err := r.api.GetJSON(ctx, assignmentsPath+"/summary", &out); err != nil {
		return nil, fmt.Errorf("assignment summary: %w", err)
	}
	return &out, nil
}
