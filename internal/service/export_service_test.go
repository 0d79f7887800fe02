package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenops/zen-ops-console/internal/assignmentlist"
	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/pkg/export"
)

func exportView(compact bool) assignmentlist.View {
	created := models.Timestamp{Time: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	return assignmentlist.View{
		ScopeLabel: "Bank #3",
		Scope:      assignmentlist.Scope{BankID: intPtr(3)},
		Compact:    compact,
		Page:       2,
		Rows: []assignmentlist.Row{
			{
				Assignment: models.Assignment{
					ID: 1, AssignmentCode: "ZO-0001", CaseType: models.CaseTypeBank,
					BankName: strPtr("HDFC"), BorrowerName: strPtr("R. Sharma"), CreatedAt: created,
				},
				StatusLabel: "Completed",
				FeesDisplay: "₹1,500",
			},
			{
				Assignment:  models.Assignment{ID: 2, CaseType: models.CaseTypeDirectClient, ClientName: strPtr("Acme Estates"), IsPaid: true},
				StatusLabel: "Site Visit",
				FeesDisplay: "₹800",
			},
		},
		Totals: assignmentlist.PageTotals{Rows: 2, FeesDisplay: "₹2,300", OutstandingDisplay: "₹1,500"},
	}
}

func TestExportCSVFullView(t *testing.T) {
	svc := NewExportService(nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 30, 9, 0, 0, 0, time.UTC) }

	file, err := svc.Export(exportView(false), "")
	require.NoError(t, err)
	assert.Equal(t, export.FormatCSV, file.Format)
	assert.Equal(t, "assignments-bank-3-20240630-p2.csv", file.Filename)

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Code,Created,Case,Bank / Client,Branch,Borrower,Status,Fees,Paid", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "ZO-0001,2024-05-01,Bank,HDFC")
	assert.Contains(t, lines[2], "#2")
	assert.Contains(t, lines[2], "Acme Estates")
	assert.Contains(t, lines[3], "2 rows")
}

func TestAssignmentDatasetCompact(t *testing.T) {
	ds := AssignmentDataset(exportView(true))
	assert.Equal(t, []string{"Code", "Borrower", "Status", "Fees"}, ds.Headers)
	assert.Equal(t, []string{"ZO-0001", "R. Sharma", "Completed", "₹1,500"}, ds.Rows[0])
	assert.Equal(t, "Bank #3, page 2", ds.Title)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(nil, nil, nil)
	_, err := svc.Export(exportView(false), "docx")
	require.Error(t, err)
}

func TestExportCountsFormats(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewExportService(nil, metrics, nil)

	file, err := svc.Export(exportView(true), "XLSX")
	require.NoError(t, err)
	assert.Equal(t, export.FormatXLSX, file.Format)
	assert.NotEmpty(t, file.Data)
	assert.True(t, strings.HasSuffix(file.Filename, ".xlsx"))
}
