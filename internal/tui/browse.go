// Package tui is the interactive project-listing screen: a filterable,
// searchable table over the funding API with the same debounced-search
// behavior the web front-end had.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"munifund/internal/model"
	"munifund/internal/query"
)

// searchDebounce matches the web front-end: a request goes out only after
// half a second of keyboard silence.
const searchDebounce = 500 * time.Millisecond

// API is the slice of the client the browse screen talks to.
type API interface {
	ListProjects(ctx context.Context, params map[string]string) ([]model.Project, error)
	ValueRanges(ctx context.Context) (model.ValueRanges, error)
	AddFavorite(ctx context.Context, userID, ref string) error
	RemoveFavorite(ctx context.Context, userID, ref string) error
}

// statusCycle is the status filter ring; empty string means "all".
var statusCycle = []string{"", model.StatusActive, model.StatusLive, model.StatusCompleted, model.StatusDraft}

type (
	rangesMsg   struct{ ranges model.ValueRanges }
	projectsMsg struct{ projects []model.Project }
	debounceMsg struct{ seq int }
	favoriteMsg struct{ ref string }
	errMsg      struct{ err error }
)

type Model struct {
	api    API
	userID string
	st     styles

	search  textinput.Model
	spin    spinner.Model
	loading bool

	ranges    model.ValueRanges
	filter    model.FilterState
	statusIdx int

	projects []model.Project
	selected int

	searchSeq int
	err       error
	width     int
	height    int
}

func NewModel(api API, userID string) Model {
	search := textinput.New()
	search.Placeholder = "search by reference or title"
	search.CharLimit = 80
	search.Width = 40

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		api:     api,
		userID:  userID,
		st:      defaultStyles(),
		search:  search,
		spin:    spin,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchRanges(), m.spin.Tick)
}

func (m Model) fetchRanges() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ranges, err := api.ValueRanges(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return rangesMsg{ranges}
	}
}

func (m Model) fetchProjects() tea.Cmd {
	api := m.api
	filter := m.filter
	ranges := m.ranges
	return func() tea.Msg {
		params := query.Params(filter, ranges)
		projects, err := api.ListProjects(context.Background(), params)
		if err != nil {
			return errMsg{err}
		}
		return projectsMsg{projects}
	}
}

func (m Model) toggleFavorite() tea.Cmd {
	if m.selected >= len(m.projects) {
		return nil
	}
	p := m.projects[m.selected]
	api, userID := m.api, m.userID
	return func() tea.Msg {
		var err error
		if p.IsFavorite {
			err = api.RemoveFavorite(context.Background(), userID, p.ReferenceID)
		} else {
			err = api.AddFavorite(context.Background(), userID, p.ReferenceID)
		}
		if err != nil {
			return errMsg{err}
		}
		return favoriteMsg{p.ReferenceID}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case rangesMsg:
		m.ranges = msg.ranges
		m.filter = model.DefaultFilterState(msg.ranges)
		m.filter.UserID = m.userID
		return m, m.fetchProjects()

	case projectsMsg:
		m.loading = false
		m.projects = msg.projects
		if m.selected >= len(m.projects) {
			m.selected = 0
		}
		m.err = nil
		return m, nil

	case favoriteMsg:
		for i := range m.projects {
			if m.projects[i].ReferenceID == msg.ref {
				m.projects[i].IsFavorite = !m.projects[i].IsFavorite
			}
		}
		return m, nil

	case errMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case debounceMsg:
		// Stale timers fire with an old sequence number and are dropped.
		if msg.seq != m.searchSeq {
			return m, nil
		}
		m.filter.Search = m.search.Value()
		m.filter.Skip = 0
		m.loading = true
		return m, m.fetchProjects()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.search.Focused() {
		switch msg.String() {
		case "esc":
			m.search.Blur()
			return m, nil
		case "enter":
			m.search.Blur()
			m.searchSeq++
			seq := m.searchSeq
			return m, func() tea.Msg { return debounceMsg{seq} }
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.searchSeq++
			seq := m.searchSeq
			return m, tea.Batch(cmd, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
				return debounceMsg{seq}
			}))
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.search.Focus()
		return m, textinput.Blink
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.projects)-1 {
			m.selected++
		}
	case "s":
		m.statusIdx = (m.statusIdx + 1) % len(statusCycle)
		if status := statusCycle[m.statusIdx]; status == "" {
			m.filter.Statuses = nil
		} else {
			m.filter.Statuses = []string{status}
		}
		m.filter.Skip = 0
		m.loading = true
		return m, m.fetchProjects()
	case "f":
		return m, m.toggleFavorite()
	case "r":
		m.loading = true
		return m, m.fetchProjects()
	case "right", "l":
		m.filter.Skip += m.filter.Limit
		m.loading = true
		return m, m.fetchProjects()
	case "left", "h":
		if m.filter.Skip > 0 {
			m.filter.Skip -= m.filter.Limit
			if m.filter.Skip < 0 {
				m.filter.Skip = 0
			}
			m.loading = true
			return m, m.fetchProjects()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var out string
	out += m.st.Header.Render("munifund — project listings") + "\n\n"
	out += "search: " + m.search.View() + "\n"

	status := statusCycle[m.statusIdx]
	if status == "" {
		status = "all"
	}
	out += m.st.Muted.Render("status: "+status) + "\n\n"

	switch {
	case m.err != nil:
		out += m.st.Error.Render("error: "+m.err.Error()) + "\n"
	case m.loading:
		out += m.spin.View() + " loading…\n"
	case len(m.projects) == 0:
		out += m.st.Muted.Render("no projects match the current filters") + "\n"
	default:
		out += renderTable(m.projects, m.selected, m.st)
	}

	out += "\n" + m.st.Muted.Render("/: search  s: status  f: favorite  ←/→: page  r: refresh  q: quit")
	return out
}
