// Package dashboard implements the interactive terminal dashboard: per-tool
// profile lists with switch/save/delete, plus live usage bars.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aipdev/aip/internal/history"
	"github.com/aipdev/aip/internal/log"
	"github.com/aipdev/aip/internal/profile"
	"github.com/aipdev/aip/internal/tool"
	"github.com/aipdev/aip/internal/usage"
)

// refreshInterval is how often usage is re-fetched while the dashboard is
// open. The loop stops issuing fetches as soon as the program quits; an
// in-flight fetch is never force-aborted.
const refreshInterval = 60 * time.Second

type mode int

const (
	modeNormal mode = iota
	modeConfirmSwitch
	modeConfirmDelete
	modeSaveName
)

type panel struct {
	engine  *profile.Engine
	entries []profile.Entry
	cursor  int
}

func (p *panel) selected() (string, bool) {
	if p.cursor >= 0 && p.cursor < len(p.entries) {
		return p.entries[p.cursor].Name, true
	}
	return "", false
}

// Model is the dashboard's bubbletea model.
type Model struct {
	panels  []*panel
	active  int
	usages  map[tool.Tool]usage.Result
	fetched bool

	fetchers []usage.Fetcher
	hist     *history.Store

	mode          mode
	pendingTarget string
	pendingSync   profile.SyncState
	status        string

	input   textinput.Model
	spin    spinner.Model
	loading bool

	width int
}

// Options configures the dashboard.
type Options struct {
	Engines  []*profile.Engine
	Fetchers []usage.Fetcher
	// History receives fetched windows; nil disables recording.
	History *history.Store
}

// New creates the dashboard model.
func New(opts Options) *Model {
	panels := make([]*panel, 0, len(opts.Engines))
	for _, eng := range opts.Engines {
		panels = append(panels, &panel{engine: eng})
	}

	input := textinput.New()
	input.Placeholder = "profile name"
	input.CharLimit = 64

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &Model{
		panels:   panels,
		usages:   make(map[tool.Tool]usage.Result),
		fetchers: opts.Fetchers,
		hist:     opts.History,
		input:    input,
		spin:     spin,
	}
}

// Run opens the dashboard on the terminal until the user quits.
func Run(opts Options) error {
	_, err := tea.NewProgram(New(opts), tea.WithAltScreen()).Run()
	return err
}

type profilesMsg struct {
	idx     int
	entries []profile.Entry
	err     error
}

type usageMsg struct {
	results map[tool.Tool]usage.Result
}

type switchedMsg struct {
	outcome *profile.Outcome
	target  string
	err     error
}

type refreshTickMsg struct{}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.fetchUsage()}
	for i := range m.panels {
		cmds = append(cmds, m.loadProfiles(i))
	}
	return tea.Batch(cmds...)
}

func (m *Model) loadProfiles(idx int) tea.Cmd {
	eng := m.panels[idx].engine
	return func() tea.Msg {
		entries, err := eng.Store().List()
		return profilesMsg{idx: idx, entries: entries, err: err}
	}
}

func (m *Model) fetchUsage() tea.Cmd {
	fetchers := m.fetchers
	hist := m.hist
	m.loading = true
	return func() tea.Msg {
		results := usage.FetchAll(context.Background(), fetchers...)
		if hist != nil {
			for _, res := range results {
				if res.Err == nil {
					if err := hist.Record(res.Windows); err != nil {
						log.Debug("recording usage history", "error", err)
					}
				}
			}
		}
		return usageMsg{results: results}
	}
}

func (m *Model) switchTo(name string, confirm bool) tea.Cmd {
	eng := m.panels[m.active].engine
	return func() tea.Msg {
		outcome, err := eng.Switch(name, confirm)
		return switchedMsg{outcome: outcome, target: name, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case profilesMsg:
		if msg.err != nil {
			m.status = "loading profiles: " + msg.err.Error()
			return m, nil
		}
		p := m.panels[msg.idx]
		p.entries = msg.entries
		if p.cursor >= len(p.entries) {
			p.cursor = max(0, len(p.entries)-1)
		}
		return m, nil

	case usageMsg:
		m.usages = msg.results
		m.fetched = true
		m.loading = false
		return m, tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshTickMsg{} })

	case refreshTickMsg:
		return m, tea.Batch(m.spin.Tick, m.fetchUsage())

	case switchedMsg:
		return m.handleSwitched(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleSwitched(msg switchedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "switch failed: " + msg.err.Error()
		m.mode = modeNormal
		return m, nil
	}
	if msg.outcome.Blocked() {
		m.mode = modeConfirmSwitch
		m.pendingTarget = msg.target
		m.pendingSync = msg.outcome.Sync
		return m, nil
	}
	m.mode = modeNormal
	m.status = fmt.Sprintf("switched %s to '%s'", m.panels[m.active].engine.Tool(), msg.target)
	return m, m.loadProfiles(m.active)
}

// moveSelected shifts the selected profile by delta in the display order and
// persists the result, so the arrangement survives restarts.
func (m *Model) moveSelected(delta int) {
	p := m.panels[m.active]
	i, j := p.cursor, p.cursor+delta
	if i < 0 || i >= len(p.entries) || j < 0 || j >= len(p.entries) {
		return
	}
	p.entries[i], p.entries[j] = p.entries[j], p.entries[i]
	p.cursor = j

	names := make([]string, len(p.entries))
	for k, entry := range p.entries {
		names[k] = entry.Name
	}
	if err := p.engine.Store().SaveOrder(names); err != nil {
		m.status = "saving order: " + err.Error()
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.mode {
	case modeConfirmSwitch:
		switch key {
		case "y", "Y":
			m.mode = modeNormal
			return m, m.switchTo(m.pendingTarget, true)
		default:
			m.mode = modeNormal
			m.status = "switch cancelled"
			return m, nil
		}

	case modeConfirmDelete:
		if key == "y" || key == "Y" {
			m.mode = modeNormal
			p := m.panels[m.active]
			if err := p.engine.Delete(m.pendingTarget); err != nil {
				m.status = "delete failed: " + err.Error()
				return m, nil
			}
			m.status = fmt.Sprintf("deleted '%s'", m.pendingTarget)
			return m, m.loadProfiles(m.active)
		}
		m.mode = modeNormal
		m.status = "delete cancelled"
		return m, nil

	case modeSaveName:
		switch key {
		case "enter":
			name := m.input.Value()
			m.mode = modeNormal
			m.input.Blur()
			if err := m.panels[m.active].engine.SaveAndActivate(name); err != nil {
				m.status = "save failed: " + err.Error()
				return m, nil
			}
			m.status = fmt.Sprintf("saved '%s'", name)
			return m, m.loadProfiles(m.active)
		case "esc":
			m.mode = modeNormal
			m.input.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.active = (m.active + 1) % len(m.panels)
	case "up", "k":
		p := m.panels[m.active]
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		p := m.panels[m.active]
		if p.cursor < len(p.entries)-1 {
			p.cursor++
		}
	case "shift+up", "K":
		m.moveSelected(-1)
	case "shift+down", "J":
		m.moveSelected(1)
	case "enter":
		if name, ok := m.panels[m.active].selected(); ok {
			return m, m.switchTo(name, false)
		}
	case "s":
		m.mode = modeSaveName
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	case "d":
		if name, ok := m.panels[m.active].selected(); ok {
			m.mode = modeConfirmDelete
			m.pendingTarget = name
		}
	case "r":
		return m, tea.Batch(m.spin.Tick, m.fetchUsage())
	}

	return m, nil
}
