package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"munifund/internal/cache"
	"munifund/internal/client"
	"munifund/internal/model"
)

type stubReader struct {
	listCalls int
	getCalls  int
	projects  []model.Project
	err       error
}

func (s *stubReader) ListProjects(_ context.Context, params map[string]string) ([]model.Project, error) {
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.projects, nil
}

func (s *stubReader) GetProject(_ context.Context, ref string, _ bool) (model.Project, error) {
	s.getCalls++
	if s.err != nil {
		return model.Project{}, s.err
	}
	for _, p := range s.projects {
		if p.ReferenceID == ref {
			return p, nil
		}
	}
	return model.Project{}, &client.APIError{Status: http.StatusNotFound, Message: "project not found"}
}

func newTestHandler(reader *stubReader) *Handler {
	return NewHandler(reader, cache.New(time.Minute), nil, "lender-1", zap.NewNop())
}

func TestListProjects_ServedThroughCache(t *testing.T) {
	reader := &stubReader{projects: []model.Project{{ReferenceID: "MUN-1", Title: "Ring Road"}}}
	srv := httptest.NewServer(newTestHandler(reader).Router())
	defer srv.Close()

	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/projects?search=ring&limit=10")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var payload struct {
			Data []model.Project `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		require.Len(t, payload.Data, 1)
		assert.Equal(t, "MUN-1", payload.Data[0].ReferenceID)
	}

	assert.Equal(t, 1, reader.listCalls, "identical queries must hit upstream once")
}

func TestListProjects_DistinctFiltersMissCache(t *testing.T) {
	reader := &stubReader{}
	srv := httptest.NewServer(newTestHandler(reader).Router())
	defer srv.Close()

	_, _ = http.Get(srv.URL + "/projects?search=ring")
	_, _ = http.Get(srv.URL + "/projects?search=water")

	assert.Equal(t, 2, reader.listCalls)
}

func TestGetProject_NotFoundPassesStatusThrough(t *testing.T) {
	reader := &stubReader{}
	srv := httptest.NewServer(newTestHandler(reader).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/projects/MISSING")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "project not found", payload["message"])
}

func TestPortfolio_Summary(t *testing.T) {
	reader := &stubReader{projects: []model.Project{
		{ReferenceID: "MUN-1", Status: model.StatusActive, CommittedAmount: 500, CommitmentGap: 1000},
		{ReferenceID: "MUN-2", Status: model.StatusLive, CommittedAmount: 1000, CommitmentGap: 1000},
	}}
	srv := httptest.NewServer(newTestHandler(reader).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/portfolio")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Data struct {
			Projects       int   `json:"projects"`
			TotalCommitted int64 `json:"total_committed"`
			AvgProgress    int   `json:"avg_progress"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, 2, payload.Data.Projects)
	assert.Equal(t, int64(1500), payload.Data.TotalCommitted)
	assert.Equal(t, 75, payload.Data.AvgProgress)
}

func TestRefresh_WithoutWatchService(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(&stubReader{}).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/refresh", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
