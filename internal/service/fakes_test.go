package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/internal/session"
)

func withStore(sess *models.Session) (context.Context, *session.KVStore) {
	store := session.NewKVStore(session.NewMemoryKV(), nil)
	if sess != nil {
		_ = store.Set(context.Background(), *sess)
	}
	return session.WithStore(context.Background(), store), store
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }
func int64Ptr(i int64) *int64 { return &i }

type fakeAssignmentRepo struct {
	mu       sync.Mutex
	current  *models.Assignment
	detail   *models.AssignmentDetail
	activity []models.Activity
	actErr   error
	created  []dto.AssignmentRequest
	patches  []json.RawMessage
	getErr   error
	patchErr error
}

func (f *fakeAssignmentRepo) Get(context.Context, int) (*models.Assignment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	cp := *f.current
	return &cp, nil
}

func (f *fakeAssignmentRepo) Detail(context.Context, int) (*models.AssignmentDetail, error) {
	return f.detail, nil
}

func (f *fakeAssignmentRepo) Activity(context.Context, int) ([]models.Activity, error) {
	if f.actErr != nil {
		return nil, f.actErr
	}
	return f.activity, nil
}

func (f *fakeAssignmentRepo) Create(_ context.Context, req dto.AssignmentRequest) (*models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	return &models.Assignment{ID: 100 + len(f.created), CaseType: models.CaseType(req.CaseType)}, nil
}

func (f *fakeAssignmentRepo) Patch(_ context.Context, id int, patch json.RawMessage) (*models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.patchErr != nil {
		return nil, f.patchErr
	}
	f.patches = append(f.patches, patch)
	cp := *f.current
	cp.ID = id
	return &cp, nil
}

type fakeAuthRepo struct {
	loginResp   *models.LoginResponse
	loginErr    error
	me          *models.User
	meErr       error
	caps        *models.Capabilities
	capsErr     error
	users       []models.User
	usersErr    error
	summary     *models.AssignmentSummary
	summaryErr  error
	changed     [][2]string
	created     []dto.CreateUserRequest
	updated     map[int]dto.UpdateUserRequest
	toggled     map[int]bool
	resets      map[int]string
	loginCalls  int
	changeErr   error
}

func (f *fakeAuthRepo) Login(context.Context, models.LoginRequest) (*models.LoginResponse, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResp, nil
}

func (f *fakeAuthRepo) ChangePassword(_ context.Context, current, next string) error {
	if f.changeErr != nil {
		return f.changeErr
	}
	f.changed = append(f.changed, [2]string{current, next})
	return nil
}

func (f *fakeAuthRepo) Me(context.Context) (*models.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.me, nil
}

func (f *fakeAuthRepo) Capabilities(context.Context) (*models.Capabilities, error) {
	if f.capsErr != nil {
		return nil, f.capsErr
	}
	return f.caps, nil
}

func (f *fakeAuthRepo) ListUsers(context.Context) ([]models.User, error) {
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return f.users, nil
}

func (f *fakeAuthRepo) CreateUser(_ context.Context, req dto.CreateUserRequest) (*models.User, error) {
	f.created = append(f.created, req)
	return &models.User{ID: 50, Email: req.Email, Role: models.UserRole(req.Role), IsActive: true}, nil
}

func (f *fakeAuthRepo) UpdateUser(_ context.Context, id int, req dto.UpdateUserRequest) (*models.User, error) {
	if f.updated == nil {
		f.updated = map[int]dto.UpdateUserRequest{}
	}
	f.updated[id] = req
	return &models.User{ID: id}, nil
}

func (f *fakeAuthRepo) SetActive(_ context.Context, id int, active bool) (*models.User, error) {
	if f.toggled == nil {
		f.toggled = map[int]bool{}
	}
	f.toggled[id] = active
	return &models.User{ID: id, IsActive: active}, nil
}

func (f *fakeAuthRepo) ResetPassword(_ context.Context, id int, password string) (*dto.ResetPasswordResponse, error) {
	if f.resets == nil {
		f.resets = map[int]string{}
	}
	f.resets[id] = password
	return &dto.ResetPasswordResponse{OK: true, UserID: id}, nil
}

func (f *fakeAuthRepo) Summary(context.Context) (*models.AssignmentSummary, error) {
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	return f.summary, nil
}
