package service

import (
	"context"
	"encoding/json"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
	"github.com/zenops/zen-ops-console/pkg/format"
)

type assignmentRepository interface {
	Get(ctx context.Context, id int) (*models.Assignment, error)
	Detail(ctx context.Context, id int) (*models.AssignmentDetail, error)
	Activity(ctx context.Context, id int) ([]models.Activity, error)
	Create(ctx context.Context, req dto.AssignmentRequest) (*models.Assignment, error)
	Patch(ctx context.Context, id int, patch json.RawMessage) (*models.Assignment, error)
}

// AssignmentService validates assignment forms and turns edits into merge patches.
type AssignmentService struct {
	repo      assignmentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(repo assignmentRepository, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssignmentService{repo: repo, validator: validate, logger: logger}
}

// Detail returns an assignment and its files.
func (s *AssignmentService) Detail(ctx context.Context, id int) (*models.AssignmentDetail, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid assignment id")
	}
	return s.repo.Detail(ctx, id)
}

// Activity returns the timeline of assignment id, newest first, with a title
// and a one-line detail per entry.
func (s *AssignmentService) Activity(ctx context.Context, id int) ([]dto.ActivityEntry, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid assignment id")
	}
	rows, err := s.repo.Activity(ctx, id)
	if err != nil {
		return nil, err
	}
	entries := make([]dto.ActivityEntry, 0, len(rows))
	for _, a := range rows {
		entries = append(entries, dto.ActivityEntry{
			Activity: a,
			Title:    format.ActivityTitle(a.Type),
			Detail:   describeActivity(a),
		})
	}
	return entries, nil
}

type activityPayload struct {
	From          string   `json:"from"`
	To            string   `json:"to"`
	Filename      string   `json:"filename"`
	SizeBytes     int64    `json:"size_bytes"`
	ChangedFields []string `json:"changed_fields"`
}

func describeActivity(a models.Activity) string {
	if len(a.Payload) == 0 {
		return ""
	}
	var p activityPayload
	if err := json.Unmarshal(a.Payload, &p); err != nil {
		return ""
	}
	switch strings.ToUpper(strings.TrimSpace(a.Type)) {
	case models.ActivityStatusChanged:
		return "From: " + format.Status(p.From) + " To: " + format.Status(p.To)
	case models.ActivityFileUploaded:
		file := p.Filename
		if file == "" {
			file = "-"
		}
		if p.SizeBytes > 0 {
			return "File: " + file + " (" + format.Bytes(p.SizeBytes) + ")"
		}
		return "File: " + file
	case models.ActivityAssignmentUpdated:
		if len(p.ChangedFields) == 0 {
			return "Changed: (details not available)"
		}
		return "Changed: " + strings.Join(p.ChangedFields, ", ")
	}
	return ""
}

// Create validates the new-assignment form for actor and posts it.
func (s *AssignmentService) Create(ctx context.Context, actor *models.Session, req dto.AssignmentRequest) (*models.Assignment, error) {
	req.CaseType = strings.ToUpper(strings.TrimSpace(req.CaseType))
	if req.Status == "" {
		req.Status = string(models.StatusSiteVisit)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	req.BankName = trimmed(req.BankName)
	req.BranchName = trimmed(req.BranchName)
	req.ValuerClientName = trimmed(req.ValuerClientName)

	if models.CaseType(req.CaseType) == models.CaseTypeBank {
		req.ClientID = nil
		req.ValuerClientName = nil
	} else {
		req.BankID, req.BranchID = nil, nil
		req.BankName, req.BranchName = nil, nil
		if req.ClientID != nil {
			req.ValuerClientName = nil
		}
	}
	if err := checkParty(models.CaseType(req.CaseType), req.BankID, req.BankName, req.BranchID, req.BranchName, req.ClientID, req.ValuerClientName); err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		req.Fees = nil
		req.IsPaid = nil
	}

	created, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("assignment created", zap.Int("id", created.ID), zap.String("case_type", req.CaseType))
	return created, nil
}

// Update applies edit to assignment id and sends only the fields that changed.
// An edit that changes nothing returns the current assignment without a backend write.
func (s *AssignmentService) Update(ctx context.Context, actor *models.Session, id int, edit dto.AssignmentEdit) (*models.Assignment, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid assignment id")
	}
	if err := s.validator.Struct(edit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if !actor.IsAdmin() {
		edit.Fees = nil
		edit.IsPaid = nil
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	original := DocumentOf(*current)
	edited := applyEdit(original, edit)
	if edit.CaseType != nil || edit.BankID != nil || edit.BranchID != nil || edit.ClientID != nil {
		if err := checkParty(models.CaseType(edited.CaseType), edited.BankID, edited.BankName, edited.BranchID, edited.BranchName, edited.ClientID, edited.ValuerClientName); err != nil {
			return nil, err
		}
	}

	patch, err := MergePatch(original, edited)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build assignment patch")
	}
	if string(patch) == "{}" {
		return current, nil
	}

	updated, err := s.repo.Patch(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info("assignment updated", zap.Int("id", id), zap.ByteString("patch", patch))
	return updated, nil
}

// DocumentOf projects the editable fields of an assignment.
func DocumentOf(a models.Assignment) dto.AssignmentDocument {
	return dto.AssignmentDocument{
		CaseType:         string(a.CaseType),
		BankID:           a.BankID,
		BranchID:         a.BranchID,
		ClientID:         a.ClientID,
		PropertyTypeID:   a.PropertyTypeID,
		BankName:         a.BankName,
		BranchName:       a.BranchName,
		ValuerClientName: a.ClientName,
		PropertyType:     a.PropertyType,
		BorrowerName:     a.BorrowerName,
		Phone:            a.Phone,
		Address:          a.Address,
		LandArea:         a.LandArea,
		BuiltupArea:      a.BuiltupArea,
		Status:           string(a.Status),
		AssignedTo:       a.AssignedTo,
		SiteVisitDate:    a.SiteVisitDate,
		ReportDueDate:    a.ReportDueDate,
		Fees:             a.Fees.IntPart(),
		IsPaid:           a.IsPaid,
		Notes:            a.Notes,
	}
}

// MergePatch returns the RFC 7386 merge patch that turns original into edited.
func MergePatch(original, edited dto.AssignmentDocument) (json.RawMessage, error) {
	before, err := json.Marshal(original)
	if err != nil {
		return nil, err
	}
	after, err := json.Marshal(edited)
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.CreateMergePatch(before, after)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(patch), nil
}

func applyEdit(doc dto.AssignmentDocument, edit dto.AssignmentEdit) dto.AssignmentDocument {
	if edit.CaseType != nil {
		next := strings.ToUpper(strings.TrimSpace(*edit.CaseType))
		if next != doc.CaseType {
			if models.CaseType(next) == models.CaseTypeBank {
				doc.ClientID, doc.ValuerClientName = nil, nil
			} else {
				doc.BankID, doc.BranchID = nil, nil
				doc.BankName, doc.BranchName = nil, nil
			}
		}
		doc.CaseType = next
	}
	setInt(&doc.BankID, edit.BankID)
	setInt(&doc.BranchID, edit.BranchID)
	setInt(&doc.ClientID, edit.ClientID)
	setInt(&doc.PropertyTypeID, edit.PropertyTypeID)
	setString(&doc.BankName, edit.BankName)
	setString(&doc.BranchName, edit.BranchName)
	setString(&doc.ValuerClientName, edit.ValuerClientName)
	setString(&doc.PropertyType, edit.PropertyType)
	setString(&doc.BorrowerName, edit.BorrowerName)
	setString(&doc.Phone, edit.Phone)
	setString(&doc.Address, edit.Address)
	setString(&doc.AssignedTo, edit.AssignedTo)
	setString(&doc.SiteVisitDate, edit.SiteVisitDate)
	setString(&doc.ReportDueDate, edit.ReportDueDate)
	setString(&doc.Notes, edit.Notes)
	if edit.LandArea != nil {
		doc.LandArea = edit.LandArea
	}
	if edit.BuiltupArea != nil {
		doc.BuiltupArea = edit.BuiltupArea
	}
	if edit.Status != nil {
		doc.Status = *edit.Status
	}
	if edit.Fees != nil {
		doc.Fees = *edit.Fees
	}
	if edit.IsPaid != nil {
		doc.IsPaid = *edit.IsPaid
	}
	return doc
}

// setString treats an empty (after trimming) edit as clearing the field.
func setString(dst **string, v *string) {
	if v == nil {
		return
	}
	*dst = trimmed(v)
}

func setInt(dst **int, v *int) {
	if v == nil {
		return
	}
	value := *v
	*dst = &value
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func checkParty(caseType models.CaseType, bankID *int, bankName *string, branchID *int, branchName *string, clientID *int, clientName *string) error {
	if caseType == models.CaseTypeBank {
		if bankID == nil && bankName == nil {
			return appErrors.Clone(appErrors.ErrValidation, "Please select a Bank.")
		}
		if branchID == nil && branchName == nil {
			return appErrors.Clone(appErrors.ErrValidation, "Please select a Branch (depends on Bank).")
		}
		return nil
	}
	if clientID == nil && clientName == nil {
		return appErrors.Clone(appErrors.ErrValidation, "Please select an existing Client OR type a new Client name.")
	}
	return nil
}
