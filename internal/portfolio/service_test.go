package portfolio

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"munifund/internal/model"
	"munifund/internal/repositories"
)

type fakeLister struct {
	pages [][]model.Project
	calls int
}

func (f *fakeLister) ListProjects(_ context.Context, params map[string]string) ([]model.Project, error) {
	skip, _ := strconv.Atoi(params["skip"])
	f.calls++
	idx := skip / pageSize
	if idx >= len(f.pages) {
		return nil, nil
	}
	return f.pages[idx], nil
}

type memRepo struct {
	mu        sync.Mutex
	snapshots map[string]model.FundingSnapshot
}

func newMemRepo() *memRepo {
	return &memRepo{snapshots: map[string]model.FundingSnapshot{}}
}

func (m *memRepo) Upsert(_ context.Context, s model.FundingSnapshot) (model.FundingSnapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	previous, found := m.snapshots[s.ProjectRef]
	m.snapshots[s.ProjectRef] = s
	return previous, found, nil
}

func (m *memRepo) Get(_ context.Context, ref string) (model.FundingSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snapshots[ref]
	if !ok {
		return model.FundingSnapshot{}, repositories.ErrNotFound
	}
	return s, nil
}

func (m *memRepo) List(context.Context) ([]model.FundingSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.FundingSnapshot, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		out = append(out, s)
	}
	return out, nil
}

type captureNotifier struct {
	mu     sync.Mutex
	alerts []Alert
}

func (c *captureNotifier) FundingAlert(a Alert) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = append(c.alerts, a)
}

func TestRun_FirstPollIsSilent(t *testing.T) {
	lister := &fakeLister{pages: [][]model.Project{{
		{ReferenceID: "MUN-1", Title: "Ring Road", CommittedAmount: 100, CommitmentGap: 1000},
	}}}
	repo := newMemRepo()
	notifier := &captureNotifier{}
	svc := NewService(lister, repo, notifier, "lender-1", zap.NewNop())

	svc.Run(context.Background())

	assert.Empty(t, notifier.alerts, "first sighting must not alert")
	stored, err := repo.Get(context.Background(), "MUN-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), stored.CommittedAmount)
	assert.Equal(t, 10, stored.Progress)
}

func TestRun_AlertsOnMovement(t *testing.T) {
	repo := newMemRepo()
	notifier := &captureNotifier{}

	first := &fakeLister{pages: [][]model.Project{{
		{ReferenceID: "MUN-1", Title: "Ring Road", CommittedAmount: 100, CommitmentGap: 1000},
	}}}
	NewService(first, repo, notifier, "lender-1", zap.NewNop()).Run(context.Background())

	second := &fakeLister{pages: [][]model.Project{{
		{ReferenceID: "MUN-1", Title: "Ring Road", CommittedAmount: 400, CommitmentGap: 1000},
	}}}
	NewService(second, repo, notifier, "lender-1", zap.NewNop()).Run(context.Background())

	require.Len(t, notifier.alerts, 1)
	alert := notifier.alerts[0]
	assert.Equal(t, int64(100), alert.PrevCommitted)
	assert.Equal(t, int64(400), alert.NewCommitted)
	assert.Equal(t, 10, alert.PrevProgress)
	assert.Equal(t, 40, alert.NewProgress)
	assert.False(t, alert.FirstSeen)
}

func TestRun_UnchangedIsQuiet(t *testing.T) {
	repo := newMemRepo()
	notifier := &captureNotifier{}
	page := [][]model.Project{{
		{ReferenceID: "MUN-1", CommittedAmount: 100, CommitmentGap: 1000},
	}}

	NewService(&fakeLister{pages: page}, repo, notifier, "lender-1", zap.NewNop()).Run(context.Background())
	NewService(&fakeLister{pages: page}, repo, notifier, "lender-1", zap.NewNop()).Run(context.Background())

	assert.Empty(t, notifier.alerts)
}

func TestFetchFavorites_Paginates(t *testing.T) {
	fullPage := make([]model.Project, pageSize)
	for i := range fullPage {
		fullPage[i] = model.Project{ReferenceID: "MUN-" + strconv.Itoa(i), CommitmentGap: 1}
	}
	lister := &fakeLister{pages: [][]model.Project{
		fullPage,
		{{ReferenceID: "MUN-last", CommitmentGap: 1}},
	}}
	svc := NewService(lister, newMemRepo(), &captureNotifier{}, "lender-1", zap.NewNop())

	projects, err := svc.fetchFavorites(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects, pageSize+1)
	assert.Equal(t, 2, lister.calls)
}

func TestSummarize(t *testing.T) {
	projects := []model.Project{
		{Status: model.StatusActive, CommittedAmount: 500, CommitmentGap: 1000},
		{Status: model.StatusLive, CommittedAmount: 900, CommitmentGap: 1000},
		{Status: model.StatusActive, CommittedAmount: 10, CommitmentGap: 0},
	}

	summary := Summarize(projects)

	assert.Equal(t, 3, summary.Projects)
	assert.Equal(t, int64(1410), summary.TotalCommitted)
	assert.Equal(t, int64(2000), summary.TotalGap)
	assert.Equal(t, 70, summary.AvgProgress)
	assert.Equal(t, 2, summary.ByStatus[model.StatusActive])
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.Projects)
	assert.Equal(t, 0, summary.AvgProgress)
}
