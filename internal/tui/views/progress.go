package views

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/orlic/leadtap/internal/config"
	"github.com/orlic/leadtap/internal/model"
	"github.com/orlic/leadtap/internal/scrape"
	"github.com/orlic/leadtap/internal/storage"
	"github.com/orlic/leadtap/internal/tui/styles"
)

// platformReport is one finished tab's outcome, for display.
type platformReport struct {
	Platform  model.Platform
	Saved     int
	Extracted int
	Err       string
}

// sharedState holds data shared between the scrape goroutines and the TUI.
// Lives behind a pointer so it survives bubbletea's value copies.
type sharedState struct {
	mu      sync.Mutex
	stats   *scrape.Stats
	cancel  context.CancelFunc
	reports []platformReport
}

func (s *sharedState) getStats() *scrape.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *sharedState) getCancel() context.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel
}

func (s *sharedState) addReport(r platformReport) {
	s.mu.Lock()
	s.reports = append(s.reports, r)
	s.mu.Unlock()
}

func (s *sharedState) getReports() []platformReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]platformReport, len(s.reports))
	copy(out, s.reports)
	return out
}

// ProgressModel shows a live scrape run.
type ProgressModel struct {
	req         model.ScrapeRequest
	tabsTotal   int
	startTime   time.Time
	done        bool
	confirmQuit bool
	err         error
	dbPath      string
	logPath     string
	width       int
	height      int
	shared      *sharedState
}

// Messages
type progressTickMsg time.Time

type scrapeCompleteMsg struct {
	Err error
}

func NewProgressModel(msg StartScrapeMsg) ProgressModel {
	m := ProgressModel{
		startTime: time.Now(),
		shared:    &sharedState{},
		tabsTotal: len(msg.Platforms.Selected()),
	}

	m.req = model.ScrapeRequest{
		Keyword:       msg.Keyword,
		Location:      msg.Location,
		Platforms:     msg.Platforms,
		MaxResults:    msg.MaxResults,
		IncludeEmails: msg.IncludeEmails,
		IncludePhones: msg.IncludePhones,
		Enrich:        msg.Enrich,
	}
	if m.req.MaxResults <= 0 {
		m.req.MaxResults = model.DefaultSettings().MaxResults
	}

	ts := time.Now().Format("20060102_150405")
	baseName := fmt.Sprintf("leadtap_%s", ts)
	outDir := msg.Output
	os.MkdirAll(outDir, 0755)
	m.dbPath = filepath.Join(outDir, baseName+".db")
	m.logPath = filepath.Join(outDir, baseName+".log")
	m.req.DBPath = m.dbPath

	return m
}

func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(
		m.startScraping(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return progressTickMsg(t)
	})
}

func (m ProgressModel) startScraping() tea.Cmd {
	shared := m.shared
	req := m.req
	dbPath := m.dbPath
	logPath := m.logPath

	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())

		store, err := storage.Open(dbPath)
		if err != nil {
			cancel()
			return scrapeCompleteMsg{Err: err}
		}

		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			store.Close()
			cancel()
			return scrapeCompleteMsg{Err: err}
		}
		logger := log.New(logFile, "", log.LstdFlags)

		cfg := config.Load()
		ctrl := scrape.NewController(cfg, store, logger)

		shared.mu.Lock()
		shared.stats = ctrl.Stats()
		shared.cancel = cancel
		shared.mu.Unlock()

		_, err = ctrl.StartScraping(ctx, req, scrape.RunOptions{
			OnReport: func(platform model.Platform, saved, extracted int, errMsg string) {
				shared.addReport(platformReport{
					Platform:  platform,
					Saved:     saved,
					Extracted: extracted,
					Err:       errMsg,
				})
			},
		})
		if err == nil {
			ctrl.Wait()
		}

		ctrl.Close()
		logFile.Close()
		store.Close()
		cancel()

		return scrapeCompleteMsg{Err: err}
	}
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if cancel := m.shared.getCancel(); cancel != nil {
				cancel()
			}
			return m, tea.Quit
		case "esc":
			if m.done {
				return m, func() tea.Msg {
					return NavigateToExplorer{DBPath: m.dbPath}
				}
			}
			if m.confirmQuit {
				// Second esc: cancel and go home
				if cancel := m.shared.getCancel(); cancel != nil {
					cancel()
				}
				return m, func() tea.Msg { return NavigateToHome{} }
			}
			// First esc: show confirmation
			m.confirmQuit = true
			return m, nil
		case "enter":
			if m.done {
				return m, func() tea.Msg {
					return NavigateToExplorer{DBPath: m.dbPath}
				}
			}
			if m.confirmQuit {
				m.confirmQuit = false
				return m, nil
			}
		}
		// Any other key cancels the confirmation
		if m.confirmQuit {
			m.confirmQuit = false
		}
	case progressTickMsg:
		if m.done {
			return m, nil
		}
		return m, tickCmd()
	case scrapeCompleteMsg:
		m.done = true
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m ProgressModel) View() string {
	var b strings.Builder

	location := m.req.Location
	if location == "" {
		location = "anywhere"
	}
	b.WriteString(styles.Title.Render(fmt.Sprintf("Scraping: %q in %s", m.req.Keyword, location)))
	b.WriteString("\n\n")

	statsBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Muted).
		Padding(0, 1).
		Width(32).
		Render(m.renderStats())
	b.WriteString(statsBox)
	b.WriteString("\n\n")

	b.WriteString(m.renderReports())

	if m.done {
		if m.err != nil && m.err != context.Canceled {
			b.WriteString(styles.ErrorText.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			var total int64
			if stats := m.shared.getStats(); stats != nil {
				total = stats.Snapshot().Saved
			}
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Success).Bold(true).
				Render(fmt.Sprintf("Complete! %d businesses stored", total)))
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).
				Render(fmt.Sprintf("Database: %s", m.dbPath)))
		}
		b.WriteString("\n\n")
		b.WriteString(styles.StatusBar.Render("enter explore results • esc back"))
	} else if m.confirmQuit {
		b.WriteString(styles.ErrorText.Render("Press ESC again to stop the scrape and go back"))
		b.WriteString("\n")
		b.WriteString(styles.StatusBar.Render("esc confirm stop • any key continue"))
	} else {
		b.WriteString(styles.StatusBar.Render("esc cancel • ctrl+c quit"))
	}

	return b.String()
}

func (m ProgressModel) renderStats() string {
	var sb strings.Builder
	elapsed := time.Since(m.startTime).Truncate(time.Second)

	var snap scrape.StatsSnapshot
	if stats := m.shared.getStats(); stats != nil {
		snap = stats.Snapshot()
	}

	statLabel := lipgloss.NewStyle().Foreground(styles.Muted).Width(12)
	statVal := lipgloss.NewStyle().Foreground(styles.Text).Bold(true)

	row := func(label string, value string) {
		sb.WriteString(statLabel.Render(label))
		sb.WriteString(statVal.Render(value))
		sb.WriteString("\n")
	}

	row("Tabs:", fmt.Sprintf("%d/%d", snap.TabsDone, m.tabsTotal))
	row("Extracted:", fmt.Sprintf("%d", snap.Extracted))
	row("Stored:", fmt.Sprintf("%d", snap.Saved))
	row("Duplicates:", fmt.Sprintf("%d", snap.Duplicates))

	errStyle := statVal
	if snap.Errors > 0 {
		errStyle = lipgloss.NewStyle().Foreground(styles.Error).Bold(true)
	}
	sb.WriteString(statLabel.Render("Errors:"))
	sb.WriteString(errStyle.Render(fmt.Sprintf("%d", snap.Errors)))
	sb.WriteString("\n")

	row("Elapsed:", elapsed.String())

	return sb.String()
}

func (m ProgressModel) renderReports() string {
	reports := m.shared.getReports()
	if len(reports) == 0 {
		return ""
	}

	var sb strings.Builder
	okStyle := lipgloss.NewStyle().Foreground(styles.Success)
	errStyle := lipgloss.NewStyle().Foreground(styles.Error)
	muted := lipgloss.NewStyle().Foreground(styles.Muted)

	for _, r := range reports {
		if r.Err != "" {
			sb.WriteString(errStyle.Render(fmt.Sprintf("  ✗ %s", r.Platform)))
			sb.WriteString(muted.Render("  " + r.Err))
		} else {
			sb.WriteString(okStyle.Render(fmt.Sprintf("  ✓ %s", r.Platform)))
			sb.WriteString(muted.Render(fmt.Sprintf("  %d stored / %d extracted", r.Saved, r.Extracted)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

// NavigateToExplorer signals transition to explorer view.
type NavigateToExplorer struct {
	DBPath string
}
