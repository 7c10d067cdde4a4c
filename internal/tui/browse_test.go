package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munifund/internal/model"
)

type fakeAPI struct {
	mu         sync.Mutex
	listParams []map[string]string
	projects   []model.Project
	ranges     model.ValueRanges
	favAdds    []string
	favRemoves []string
	err        error
}

func (f *fakeAPI) ListProjects(_ context.Context, params map[string]string) ([]model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listParams = append(f.listParams, params)
	return f.projects, f.err
}

func (f *fakeAPI) ValueRanges(context.Context) (model.ValueRanges, error) {
	return f.ranges, f.err
}

func (f *fakeAPI) AddFavorite(_ context.Context, _, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favAdds = append(f.favAdds, ref)
	return nil
}

func (f *fakeAPI) RemoveFavorite(_ context.Context, _, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favRemoves = append(f.favRemoves, ref)
	return nil
}

func drive(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestRangesSeedFilterAndTriggerFetch(t *testing.T) {
	api := &fakeAPI{projects: []model.Project{{ReferenceID: "MUN-1"}}}
	m := NewModel(api, "lender-1")

	next, cmd := m.Update(rangesMsg{ranges: model.ValueRanges{
		FundingRequirement: model.MinMax{Min: 0, Max: 10_000_000_000},
	}})
	m = next.(Model)
	require.NotNil(t, cmd)

	msg := cmd()
	projects, ok := msg.(projectsMsg)
	require.True(t, ok)
	assert.Len(t, projects.projects, 1)

	// A fresh filter sends no range params upstream.
	require.Len(t, api.listParams, 1)
	_, hasMin := api.listParams[0]["min_funding_requirement"]
	assert.False(t, hasMin)
	assert.Equal(t, "lender-1", api.listParams[0]["user_id"])
}

func TestStaleDebounceIsDropped(t *testing.T) {
	api := &fakeAPI{}
	m := NewModel(api, "lender-1")
	m.searchSeq = 5

	_, cmd := m.Update(debounceMsg{seq: 3})
	assert.Nil(t, cmd, "old timer must not trigger a fetch")

	next, cmd := m.Update(debounceMsg{seq: 5})
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.True(t, m.loading)
}

func TestStatusCycling(t *testing.T) {
	api := &fakeAPI{}
	m := NewModel(api, "lender-1")
	m = drive(t, m, rangesMsg{}, projectsMsg{})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, []string{model.StatusActive}, m.filter.Statuses)

	for i := 0; i < len(statusCycle)-1; i++ {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
		m = next.(Model)
	}
	assert.Nil(t, m.filter.Statuses, "cycle wraps back to all")
}

func TestFavoriteToggle(t *testing.T) {
	api := &fakeAPI{}
	m := NewModel(api, "lender-1")
	m = drive(t, m, rangesMsg{}, projectsMsg{projects: []model.Project{
		{ReferenceID: "MUN-1", IsFavorite: false},
		{ReferenceID: "MUN-2", IsFavorite: true},
	}})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, favoriteMsg{}, msg)
	assert.Equal(t, []string{"MUN-1"}, api.favAdds)

	m = drive(t, m, msg)
	assert.True(t, m.projects[0].IsFavorite)

	// Move down and unfavorite.
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	require.NotNil(t, cmd)
	_ = cmd()
	assert.Equal(t, []string{"MUN-2"}, api.favRemoves)
}

func TestPagination(t *testing.T) {
	api := &fakeAPI{}
	m := NewModel(api, "lender-1")
	m = drive(t, m, rangesMsg{}, projectsMsg{})
	require.Equal(t, 100, m.filter.Limit)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, 100, m.filter.Skip)

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, 0, m.filter.Skip)

	// At the first page, paging left is a no-op.
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd)
}

func TestErrorRendering(t *testing.T) {
	api := &fakeAPI{}
	m := NewModel(api, "lender-1")
	m = drive(t, m, errMsg{errors.New("api error 502: Bad Gateway")})

	view := m.View()
	assert.Contains(t, view, "api error 502")
	assert.False(t, m.loading)
}

func TestViewRendersTable(t *testing.T) {
	api := &fakeAPI{}
	m := NewModel(api, "lender-1")
	m = drive(t, m, rangesMsg{}, projectsMsg{projects: []model.Project{
		{ReferenceID: "MUN-1", Title: "Ring Road", Status: "active", CommittedAmount: 25_000_000, CommitmentGap: 250_000_000},
	}})

	view := m.View()
	assert.Contains(t, view, "MUN-1")
	assert.Contains(t, view, "Ring Road")
	assert.Contains(t, view, "₹2.50Cr")
	assert.Contains(t, view, "10%")
}
