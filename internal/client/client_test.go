package client

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munifund/internal/model"
)

func TestListProjects_EnvelopedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects", r.URL.Path)
		assert.Equal(t, "ring", r.URL.Query().Get("search"))
		assert.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"reference_id":"MUN-1","title":"Ring Road"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sekrit")
	projects, err := c.ListProjects(context.Background(), map[string]string{"search": "ring"})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "MUN-1", projects[0].ReferenceID)
}

func TestListProjects_BareArrayResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"reference_id":"MUN-2","title":"Water Supply"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	projects, err := c.ListProjects(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Water Supply", projects[0].Title)
}

func TestListProjects_NullDataIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	projects, err := c.ListProjects(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestGetProject_IncludeDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/MUN-9", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("include_documents"))
		_, _ = w.Write([]byte(`{"data":{"reference_id":"MUN-9","total_committed_amount":50,"commitment_gap":100}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	project, err := c.GetProject(context.Background(), "MUN-9", true)
	require.NoError(t, err)
	assert.Equal(t, int64(50), project.CommittedAmount)
}

func TestCreateCommitment_ErrorShapes(t *testing.T) {
	cases := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMessage string
	}{
		{"detail string", 400, "application/json", `{"detail":"amount exceeds commitment gap"}`, "amount exceeds commitment gap"},
		{"detail list", 422, "application/json", `{"detail":[{"msg":"amount required"},{"msg":"invalid tenure"}]}`, "amount required; invalid tenure"},
		{"message field", 400, "application/json", `{"message":"project is not live"}`, "project is not live"},
		{"error field", 403, "application/json", `{"error":"forbidden for this role"}`, "forbidden for this role"},
		{"html error page", 502, "text/html", `<html><head><title>502 Bad Gateway</title></head><body><h1>Bad Gateway</h1></body></html>`, "Bad Gateway"},
		{"empty body", 500, "application/json", ``, "Internal Server Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tc.contentType)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := New(srv.URL, "")
			_, err := c.CreateCommitment(context.Background(), model.Commitment{ProjectRef: "MUN-1", Amount: 1000})
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.wantMessage, apiErr.Message)
		})
	}
}

func TestFavoriteRoundTrip(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		if r.Method == http.MethodDelete {
			assert.Equal(t, "lender-1", r.URL.Query().Get("user_id"))
			assert.Equal(t, "MUN-3", r.URL.Query().Get("project_reference_id"))
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	require.NoError(t, c.AddFavorite(context.Background(), "lender-1", "MUN-3"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/project-favorites/", gotPath)

	require.NoError(t, c.RemoveFavorite(context.Background(), "lender-1", "MUN-3"))
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestDownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/doc-7/download", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	var buf bytes.Buffer
	n, err := c.DownloadFile(context.Background(), "doc-7", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Contains(t, buf.String(), "%PDF")
}

func TestDownloadFile_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"file not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	var buf bytes.Buffer
	_, err := c.DownloadFile(context.Background(), "missing", &buf)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "file not found", apiErr.Message)
}

func TestValueRanges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/value-ranges", r.URL.Path)
		_, _ = w.Write([]byte(`{"fund_requirement":{"min":0,"max":10000000000},"commitment_gap":{"min":0,"max":5000000000},"project_cost":{"min":100000,"max":20000000000}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	ranges, err := c.ValueRanges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(10_000_000_000), ranges.FundingRequirement.Max)
	assert.Equal(t, float64(100_000), ranges.ProjectCost.Min)
}
