package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/orlic/leadtap/internal/tui/views"
)

// App routes between the tool's two flows: scraping (home → search form →
// progress → explorer) and browsing an existing database (home → file
// picker or recent list → explorer). Exactly one view is active; switching
// replaces it.
type App struct {
	active tea.Model
	width  int
	height int
}

func NewApp() App {
	return App{active: views.NewHomeModel()}
}

func (a App) Init() tea.Cmd {
	return a.active.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			// The progress view confirms before abandoning a live scrape.
			if _, scraping := a.active.(views.ProgressModel); !scraping {
				return a, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case views.NavigateToHome:
		return a.open(views.NewHomeModel())
	case views.NavigateToSearch:
		return a.open(views.NewSearchModel())
	case views.NavigateToLoad:
		return a.open(views.NewFilePickerModel())
	case views.NavigateToRecent:
		return a.open(views.NewRecentModel(recentViewEntries()))
	case views.StartScrapeMsg:
		return a.open(views.NewProgressModel(msg))
	case views.NavigateToExplorer:
		SaveRecent(msg.DBPath)
		return a.open(views.NewExplorerModel(msg.DBPath))
	}

	model, cmd := a.active.Update(msg)
	a.active = model
	return a, cmd
}

func (a App) open(v tea.Model) (tea.Model, tea.Cmd) {
	a.active = v
	return a, tea.Batch(v.Init(), a.sizeCmd())
}

func (a App) View() string {
	return lipgloss.Place(
		a.width, a.height,
		lipgloss.Center, lipgloss.Top,
		a.active.View(),
	)
}

func recentViewEntries() []views.RecentEntry {
	var entries []views.RecentEntry
	for _, e := range LoadRecent() {
		entries = append(entries, views.RecentEntry{
			Path:     e.Path,
			OpenedAt: e.OpenedAt,
		})
	}
	return entries
}

// sizeCmd replays the terminal size so a freshly opened view can lay
// itself out.
func (a App) sizeCmd() tea.Cmd {
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

// Run starts the TUI.
func Run() error {
	p := tea.NewProgram(NewApp(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
