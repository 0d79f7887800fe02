package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenops/zen-ops-console/internal/assignmentlist"
	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/middleware"
	"github.com/zenops/zen-ops-console/internal/service"
)

type fakeExporter struct {
	formats []string
	err     error
}

func (f *fakeExporter) Export(_ assignmentlist.View, format string) (*service.ExportFile, error) {
	f.formats = append(f.formats, format)
	if f.err != nil {
		return nil, f.err
	}
	return &service.ExportFile{Filename: "assignments-all-20240630-p1." + format, ContentType: "text/csv", Data: []byte("id\n1\n")}, nil
}

func TestSnapshotPassesScopeAndWait(t *testing.T) {
	reg := &fakeRegistry{view: assignmentlist.View{ListState: assignmentlist.StateLoading, Page: 1}}
	h := NewListHandler(reg, &fakeExporter{})

	c, rec := testContext(http.MethodGet, "/console/lists?scope=bank&id=3&wait_ms=50", "")
	c.Set(middleware.ContextSessionIDKey, "sid-9")
	h.Snapshot(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sid-9", reg.sid)
	assert.Equal(t, service.ListScope{Kind: service.ListScopeBank, ID: 3}, reg.scope)
	assert.Equal(t, 50*time.Millisecond, reg.wait)
	assert.Equal(t, true, decode(t, rec).Meta["loading"])
}

func TestSnapshotDefaultsToGlobalScope(t *testing.T) {
	reg := &fakeRegistry{}
	h := NewListHandler(reg, &fakeExporter{})
	c, rec := testContext(http.MethodGet, "/console/lists", "")
	h.Snapshot(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ListScopeAll, reg.scope.Kind)
	assert.Equal(t, defaultSnapshotWait, reg.wait)
}

func TestSnapshotRejectsBadScope(t *testing.T) {
	reg := &fakeRegistry{}
	h := NewListHandler(reg, &fakeExporter{})

	for _, target := range []string{"/console/lists?scope=region", "/console/lists?scope=branch&id=x", "/console/lists?wait_ms=-1"} {
		c, rec := testContext(http.MethodGet, target, "")
		h.Snapshot(c)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	assert.Zero(t, reg.snapshot)
}

func TestActionForwardsRequest(t *testing.T) {
	reg := &fakeRegistry{view: assignmentlist.View{ListState: assignmentlist.StateSuccess}}
	h := NewListHandler(reg, &fakeExporter{})

	c, rec := testContext(http.MethodPost, "/console/lists/actions?scope=branch&id=7", `{"action":"sort","sort_by":"fees"}`)
	h.Action(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, reg.actions, 1)
	assert.Equal(t, dto.ListAction("sort"), reg.actions[0].Action)
	assert.Equal(t, "fees", reg.actions[0].SortBy)
	assert.Equal(t, 7, reg.scope.ID)
	assert.Equal(t, false, decode(t, rec).Meta["loading"])
}

func TestExportRejectsUnknownFormatBeforeLoading(t *testing.T) {
	reg := &fakeRegistry{}
	exporter := &fakeExporter{}
	h := NewListHandler(reg, exporter)

	c, rec := testContext(http.MethodGet, "/console/lists/export?format=docx", "")
	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, reg.snapshot)
	assert.Empty(t, exporter.formats)
}

func TestExportStreamsAttachment(t *testing.T) {
	reg := &fakeRegistry{view: assignmentlist.View{ListState: assignmentlist.StateSuccess}}
	exporter := &fakeExporter{}
	h := NewListHandler(reg, exporter)

	c, rec := testContext(http.MethodGet, "/console/lists/export?format=CSV", "")
	h.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"csv"}, exporter.formats)
	assert.Equal(t, `attachment; filename="assignments-all-20240630-p1.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "id\n1\n", rec.Body.String())
}

func TestExportOfFailedListIsUpstreamError(t *testing.T) {
	reg := &fakeRegistry{view: assignmentlist.View{ListState: assignmentlist.StateFailed, Error: "HTTP 500"}}
	exporter := &fakeExporter{}
	h := NewListHandler(reg, exporter)

	c, rec := testContext(http.MethodGet, "/console/lists/export", "")
	h.Export(c)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "HTTP 500", decode(t, rec).Error.Message)
	assert.Empty(t, exporter.formats)
}

func TestExportRenderFailure(t *testing.T) {
	reg := &fakeRegistry{view: assignmentlist.View{ListState: assignmentlist.StateSuccess}}
	h := NewListHandler(reg, &fakeExporter{err: errors.New("boom")})

	c, rec := testContext(http.MethodGet, "/console/lists/export?format=pdf", "")
	h.Export(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
