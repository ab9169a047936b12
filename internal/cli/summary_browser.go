package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/cli/formatter"
	"github.com/spf13/cobra"
)

// summaryPageMsg carries one loaded summary page.
type summaryPageMsg struct {
	page int
	res  *app.ProjectSummaryPage
	err  error
}

type browserKeyMap struct {
	Next  key.Binding
	Prev  key.Binding
	First key.Binding
	Last  key.Binding
	Quit  key.Binding
}

func defaultBrowserKeys() browserKeyMap {
	return browserKeyMap{
		Next:  key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→", "next")),
		Prev:  key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←", "prev")),
		First: key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		Last:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k browserKeyMap) help() string {
	bindings := []key.Binding{k.Prev, k.Next, k.First, k.Last, k.Quit}
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = h.Key + " " + h.Desc
	}
	return formatter.Dim(strings.Join(parts, " · "))
}

// summaryBrowser pages through project summaries one request per page.
type summaryBrowser struct {
	ctx     context.Context
	summary app.ProjectSummaryUseCase
	query   app.AggregationQuery
	perPage int
	keys    browserKeyMap

	page    int
	loading bool
	res     *app.ProjectSummaryPage
	err     error
}

func newSummaryBrowser(ctx context.Context, summary app.ProjectSummaryUseCase, q app.AggregationQuery, page, perPage int) *summaryBrowser {
	return &summaryBrowser{
		ctx:     ctx,
		summary: summary,
		query:   q,
		perPage: perPage,
		keys:    defaultBrowserKeys(),
		page:    page,
		loading: true,
	}
}

func (m *summaryBrowser) Init() tea.Cmd {
	return m.load(m.page)
}

func (m *summaryBrowser) load(page int) tea.Cmd {
	q := m.query
	q.Skip, q.Limit = page*m.perPage, m.perPage
	return func() tea.Msg {
		res, err := m.summary.Summarize(m.ctx, q)
		return summaryPageMsg{page: page, res: res, err: err}
	}
}

func (m *summaryBrowser) pages() int {
	if m.res == nil {
		return 0
	}
	return app.NewPageInfo(m.page, m.perPage, m.res.Total).Pages
}

func (m *summaryBrowser) goTo(page int) tea.Cmd {
	last := m.pages() - 1
	page = max(0, min(page, last))
	if page == m.page || m.loading || last < 0 {
		return nil
	}
	m.loading = true
	return m.load(page)
}

func (m *summaryBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryPageMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.page = msg.page
		m.res = msg.res
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			return m, m.goTo(m.page + 1)
		case key.Matches(msg, m.keys.Prev):
			return m, m.goTo(m.page - 1)
		case key.Matches(msg, m.keys.First):
			return m, m.goTo(0)
		case key.Matches(msg, m.keys.Last):
			return m, m.goTo(m.pages() - 1)
		}
	}
	return m, nil
}

func (m *summaryBrowser) View() string {
	var b strings.Builder
	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	case m.res == nil:
		b.WriteString(formatter.Dim("Loading..."))
		b.WriteString("\n")
	default:
		b.WriteString(formatter.FormatSummary(*m.res, app.NewPageInfo(m.page, m.perPage, m.res.Total)))
	}
	b.WriteString("\n")
	b.WriteString(m.keys.help())
	b.WriteString("\n")
	return b.String()
}

func runSummaryBrowser(cmd *cobra.Command, m *summaryBrowser) error {
	p := tea.NewProgram(m,
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err := p.Run()
	return err
}
