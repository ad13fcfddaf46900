package views

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/orlic/leadtap/internal/export"
	"github.com/orlic/leadtap/internal/geo"
	"github.com/orlic/leadtap/internal/model"
	"github.com/orlic/leadtap/internal/storage"
	"github.com/orlic/leadtap/internal/tui/components"
	"github.com/orlic/leadtap/internal/tui/styles"
)

type focusArea int

const (
	focusTable focusArea = iota
	focusFilter
	focusCard
	focusJSON
	focusMap
)

// ExplorerModel displays scraped data with table + detail panels.
type ExplorerModel struct {
	dbPath     string
	businesses []model.BusinessRecord
	filtered   []model.BusinessRecord
	table      table.Model
	filter     textinput.Model
	focus      focusArea
	selected   int
	width      int
	height     int
	err        error
	total      int
	exportMsg  string
	osmEnabled bool
	showMap    bool
	mapView    components.MapView

	// Scroll state for detail panels
	cardScrollY int
	cardLines   []string // cached rendered card lines
	jsonScrollY int
	jsonScrollX int
	jsonLines   []string // cached raw JSON lines
	jsonRaw     string   // full JSON for clipboard copy
}

type dbLoadedMsg struct {
	Businesses []model.BusinessRecord
	Settings   model.Settings
	Err        error
}

func NewExplorerModel(dbPath string) ExplorerModel {
	filter := textinput.New()
	filter.Placeholder = "Type to filter..."
	filter.CharLimit = 50

	return ExplorerModel{
		dbPath:   dbPath,
		filter:   filter,
		selected: -1,
		mapView:  components.NewMapView(60, 12),
	}
}

func (m ExplorerModel) Init() tea.Cmd {
	return func() tea.Msg {
		businesses, settings, err := loadBusinesses(m.dbPath)
		return dbLoadedMsg{Businesses: businesses, Settings: settings, Err: err}
	}
}

func (m ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusTable:
			switch key {
			case "esc", "q":
				return m, func() tea.Msg { return NavigateToHome{} }
			case "/", "tab":
				m.focus = focusFilter
				m.filter.Focus()
				return m, textinput.Blink
			case "1":
				m.focus = focusCard
				m.table.SetStyles(m.unfocusedTableStyles())
				return m, nil
			case "2":
				m.focus = focusJSON
				m.table.SetStyles(m.unfocusedTableStyles())
				return m, nil
			case "m":
				if !m.osmEnabled {
					m.exportMsg = "Map view is off (enable OSM integration in settings)"
					return m, nil
				}
				m.showMap = !m.showMap
				if m.showMap {
					m.focus = focusMap
					m.refreshMap()
					m.table.SetStyles(m.unfocusedTableStyles())
				}
				return m, nil
			case "e":
				m.exportFile(export.FormatCSV)
				return m, nil
			case "x":
				m.exportFile(export.FormatXLSX)
				return m, nil
			case "J":
				m.exportFile(export.FormatJSON)
				return m, nil
			}

		case focusFilter:
			switch key {
			case "esc", "enter", "tab":
				m.focus = focusTable
				m.filter.Blur()
				return m, nil
			}

		case focusCard:
			ph := m.panelHeight()
			maxScroll := len(m.cardLines) - ph
			if maxScroll < 0 {
				maxScroll = 0
			}
			switch key {
			case "esc":
				m.focus = focusTable
				m.table.SetStyles(m.focusedTableStyles())
				return m, nil
			case "up", "k":
				if m.cardScrollY > 0 {
					m.cardScrollY--
				}
				return m, nil
			case "down", "j":
				if m.cardScrollY < maxScroll {
					m.cardScrollY++
				}
				return m, nil
			}

		case focusJSON:
			ph := m.panelHeight()
			maxScroll := len(m.jsonLines) - ph
			if maxScroll < 0 {
				maxScroll = 0
			}
			switch key {
			case "esc":
				m.focus = focusTable
				m.table.SetStyles(m.focusedTableStyles())
				return m, nil
			case "up", "k":
				if m.jsonScrollY > 0 {
					m.jsonScrollY--
				}
				return m, nil
			case "down", "j":
				if m.jsonScrollY < maxScroll {
					m.jsonScrollY++
				}
				return m, nil
			case "left", "h":
				if m.jsonScrollX > 0 {
					m.jsonScrollX -= 4
					if m.jsonScrollX < 0 {
						m.jsonScrollX = 0
					}
				}
				return m, nil
			case "right", "l":
				m.jsonScrollX += 4
				return m, nil
			case "c":
				m.copyToClipboard()
				return m, nil
			}

		case focusMap:
			switch key {
			case "esc", "m":
				m.showMap = false
				m.focus = focusTable
				m.table.SetStyles(m.focusedTableStyles())
				return m, nil
			case "+", "=":
				m.mapView.ZoomIn()
				return m, nil
			case "-":
				m.mapView.ZoomOut()
				return m, nil
			case "0":
				m.mapView.ZoomReset()
				return m, nil
			case "up", "k":
				m.mapView.Pan(1, 0)
				return m, nil
			case "down", "j":
				m.mapView.Pan(-1, 0)
				return m, nil
			case "left", "h":
				m.mapView.Pan(0, -1)
				return m, nil
			case "right", "l":
				m.mapView.Pan(0, 1)
				return m, nil
			}
		}

	case dbLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.businesses = msg.Businesses
		m.filtered = msg.Businesses
		m.osmEnabled = msg.Settings.OSMIntegration
		m.total = len(m.businesses)
		m.buildTable(m.businesses)
		m.updateLayout()
		if len(m.filtered) > 0 {
			m.selected = 0
			m.cacheDetailContent()
		}
		return m, nil
	}

	// Route input to focused area
	var cmd tea.Cmd
	switch m.focus {
	case focusTable:
		m.table, cmd = m.table.Update(msg)
		cursor := m.table.Cursor()
		if cursor != m.selected && cursor < len(m.filtered) {
			m.selected = cursor
			m.cardScrollY = 0
			m.jsonScrollY = 0
			m.jsonScrollX = 0
			m.cacheDetailContent()
		}
	case focusFilter:
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
	}

	return m, cmd
}

func (m *ExplorerModel) refreshMap() {
	var points []orb.Point
	for _, b := range m.filtered {
		if b.HasGeo() {
			points = append(points, geo.Point(b))
		}
	}
	m.mapView.SetMarkers(points)
	if bound, ok := geo.BoundOf(m.filtered); ok {
		m.mapView.Fit(bound)
	}
}

func (m *ExplorerModel) cacheDetailContent() {
	if m.selected < 0 || m.selected >= len(m.filtered) {
		m.cardLines = nil
		m.jsonLines = nil
		m.jsonRaw = ""
		return
	}

	biz := m.filtered[m.selected]
	m.cardLines = buildCardLines(biz)

	data, err := json.MarshalIndent(biz, "", "  ")
	if err != nil {
		m.jsonLines = []string{"JSON error"}
		m.jsonRaw = ""
		return
	}
	m.jsonRaw = string(data)
	m.jsonLines = strings.Split(m.jsonRaw, "\n")
}

func buildCardLines(biz model.BusinessRecord) []string {
	var lines []string

	lines = append(lines, biz.Name)

	if biz.Rating > 0 {
		r := fmt.Sprintf("%.1f", biz.Rating)
		if biz.ReviewCount > 0 {
			r += fmt.Sprintf(" (%d reviews)", biz.ReviewCount)
		}
		lines = append(lines, r)
	}

	if biz.Category != "" {
		lines = append(lines, biz.Category)
	}

	lines = append(lines, "")

	addRow := func(label, value string) {
		if value != "" {
			lines = append(lines, fmt.Sprintf("%-10s %s", label, value))
		}
	}

	addRow("Address:", biz.Address)
	addRow("Phone:", biz.Phone)
	addRow("Email:", biz.Email)
	addRow("Website:", biz.Website)
	addRow("Hours:", biz.Hours)
	addRow("Industry:", biz.Industry)
	addRow("Size:", biz.CompanySize)
	addRow("Source:", string(biz.Source))
	if biz.HasGeo() {
		addRow("Coords:", fmt.Sprintf("%.6f, %.6f", biz.Lat, biz.Lon))
	}
	if biz.DisplayName != "" {
		addRow("OSM:", biz.DisplayName)
	}

	if biz.Notes != "" {
		lines = append(lines, "")
		lines = append(lines, biz.Notes)
	}

	return lines
}

func (m *ExplorerModel) buildTable(businesses []model.BusinessRecord) {
	nameW := 26
	catW := 18
	addrW := 24
	ratingW := 6
	phoneW := 16
	if m.width > 110 {
		extra := m.width - 110
		nameW += extra * 3 / 10
		catW += extra * 2 / 10
		addrW += extra * 3 / 10
		phoneW += extra * 2 / 10
	}

	columns := []table.Column{
		{Title: "Name", Width: nameW},
		{Title: "Category", Width: catW},
		{Title: "Address", Width: addrW},
		{Title: "Rating", Width: ratingW},
		{Title: "Phone", Width: phoneW},
	}

	rows := make([]table.Row, len(businesses))
	for i, b := range businesses {
		rating := ""
		if b.Rating > 0 {
			rating = fmt.Sprintf("%.1f", b.Rating)
		}
		rows[i] = table.Row{
			truncate(b.Name, nameW),
			truncate(b.Category, catW),
			truncate(b.Address, addrW),
			rating,
			b.Phone,
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(m.focusedTableStyles())
	m.table = t
}

func (m ExplorerModel) focusedTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Secondary)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.Primary).
		Bold(true)
	return s
}

func (m ExplorerModel) unfocusedTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Muted)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(lipgloss.Color("#333333")).
		Bold(false)
	return s
}

func (m ExplorerModel) panelHeight() int {
	h := m.height/2 - 6
	if h < 6 {
		h = 6
	}
	return h
}

func (m *ExplorerModel) updateLayout() {
	if m.width <= 0 {
		return
	}
	tableH := m.height/2 - 4
	if tableH < 5 {
		tableH = 5
	}
	m.table.SetHeight(tableH)
	m.buildTable(m.filtered)

	mapW := m.width - 6
	if mapW < 40 {
		mapW = 40
	}
	m.mapView.SetSize(mapW, m.panelHeight())
}

// normalize removes accents/diacritics and lowercases text for fuzzy matching.
func normalize(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	result, _, _ := transform.String(t, strings.ToLower(s))
	return result
}

func (m *ExplorerModel) applyFilter() {
	raw := strings.TrimSpace(m.filter.Value())
	if raw == "" {
		m.filtered = m.businesses
		m.buildTable(m.filtered)
		if len(m.filtered) > 0 {
			m.selected = 0
			m.cacheDetailContent()
		}
		if m.showMap {
			m.refreshMap()
		}
		return
	}

	words := strings.Fields(normalize(raw))
	m.filtered = nil
	for _, b := range m.businesses {
		haystack := normalize(strings.Join([]string{
			b.Name, b.Category, b.Address, b.Email,
			b.Industry, b.Notes, string(b.Source),
		}, " "))
		match := true
		for _, w := range words {
			if !strings.Contains(haystack, w) {
				match = false
				break
			}
		}
		if match {
			m.filtered = append(m.filtered, b)
		}
	}
	m.buildTable(m.filtered)
	if len(m.filtered) > 0 {
		m.selected = 0
	} else {
		m.selected = -1
	}
	m.cacheDetailContent()
	if m.showMap {
		m.refreshMap()
	}
}

func (m ExplorerModel) View() string {
	if m.err != nil {
		return styles.ErrorText.Render(fmt.Sprintf("Error loading DB: %v", m.err))
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render(fmt.Sprintf("Explorer: %d businesses", m.total)))
	if len(m.filtered) != m.total {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).
			Render(fmt.Sprintf(" (showing %d)", len(m.filtered))))
	}
	b.WriteString("\n\n")

	// Filter
	filterStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	if m.focus == focusFilter {
		filterStyle = lipgloss.NewStyle().Foreground(styles.Primary)
	}
	b.WriteString(filterStyle.Render("Filter: "))
	b.WriteString(m.filter.View())
	b.WriteString("\n")

	// Table
	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	if m.showMap {
		b.WriteString(m.viewMapPanel())
	} else {
		b.WriteString(m.viewDetailPanels())
	}
	b.WriteString("\n\n")

	// Export message
	if m.exportMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Success).Render(m.exportMsg))
		b.WriteString("\n")
	}

	// Status bar changes by focus
	var statusText string
	switch m.focus {
	case focusTable:
		statusText = "↑↓ navigate • 1 details • 2 json • m map • / filter • e csv • x xlsx • J json • esc back"
	case focusFilter:
		statusText = "type to filter • esc back"
	case focusCard:
		statusText = "↑↓ scroll • esc back to table"
	case focusJSON:
		statusText = "↑↓ scroll • ←→ pan • c copy json • esc back to table"
	case focusMap:
		statusText = "+/- zoom • ↑↓←→ pan • 0 reset • m close"
	}
	b.WriteString(styles.StatusBar.Render(statusText))

	return b.String()
}

func (m ExplorerModel) viewMapPanel() string {
	geocoded := 0
	for _, b := range m.filtered {
		if b.HasGeo() {
			geocoded++
		}
	}
	inView := len(geo.InBound(m.filtered, m.mapView.Viewport()))

	content := m.mapView.View()
	if geocoded == 0 {
		content = lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("No geocoded records to plot")
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary).
		Padding(0, 1).
		Render(content)
	label := lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).
		Render(fmt.Sprintf("[m] Map (%d of %d geocoded in view)", inView, geocoded))
	return label + "\n" + box
}

func (m ExplorerModel) viewDetailPanels() string {
	detailW := m.width - 2
	if detailW < 40 {
		detailW = 40
	}

	panelH := m.panelHeight()
	cardOuterW := detailW * 2 / 5
	jsonOuterW := detailW - cardOuterW - 1

	// Card panel
	cardBorderColor := styles.Muted
	if m.focus == focusCard {
		cardBorderColor = styles.Primary
	}
	cardInnerW := cardOuterW - 4
	if cardInnerW < 20 {
		cardInnerW = 20
	}
	cardContent := m.viewCardPanel(cardInnerW, panelH)
	cardBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cardBorderColor).
		Padding(0, 1).
		Width(cardOuterW - 2).
		Height(panelH).
		Render(cardContent)
	cardLabel := lipgloss.NewStyle().Bold(true).Foreground(cardBorderColor).Render("[1] Details")
	cardBox = cardLabel + "\n" + cardBox

	// JSON panel
	jsonBorderColor := styles.Muted
	if m.focus == focusJSON {
		jsonBorderColor = styles.Primary
	}
	jsonInnerW := jsonOuterW - 4
	if jsonInnerW < 20 {
		jsonInnerW = 20
	}
	jsonContent := m.viewJSONPanel(jsonInnerW, panelH)
	jsonBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(jsonBorderColor).
		Padding(0, 1).
		Width(jsonOuterW - 2).
		Height(panelH).
		Render(jsonContent)
	jsonLabel := lipgloss.NewStyle().Bold(true).Foreground(jsonBorderColor).Render("[2] JSON")
	jsonBox = jsonLabel + "\n" + jsonBox

	return lipgloss.JoinHorizontal(lipgloss.Top, cardBox, " ", jsonBox)
}

func (m ExplorerModel) viewCardPanel(w, h int) string {
	if m.selected < 0 || m.selected >= len(m.filtered) || len(m.cardLines) == 0 {
		return lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("Select a business\nto view details")
	}

	lines := m.cardLines

	// Clamp scroll
	scrollY := m.cardScrollY
	if scrollY > len(lines)-h {
		scrollY = len(lines) - h
	}
	if scrollY < 0 {
		scrollY = 0
	}

	end := scrollY + h
	if end > len(lines) {
		end = len(lines)
	}
	visible := lines[scrollY:end]

	var sb strings.Builder
	label := lipgloss.NewStyle().Foreground(styles.Muted)
	valStyle := lipgloss.NewStyle().Foreground(styles.Text)

	for i, line := range visible {
		// First line (name) is bold
		if scrollY+i == 0 {
			sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(styles.Text).
				Render(truncate(line, w)))
		} else if scrollY+i == 1 && strings.Contains(line, "review") {
			// Rating line
			sb.WriteString(lipgloss.NewStyle().Foreground(styles.Warning).
				Render(truncate(line, w)))
		} else if strings.HasPrefix(line, "Website:") || strings.HasPrefix(line, "Email:") {
			parts := strings.SplitN(line, " ", 2)
			lbl := parts[0]
			val := ""
			if len(parts) > 1 {
				val = strings.TrimSpace(parts[1])
			}
			sb.WriteString(label.Render(fmt.Sprintf("%-10s ", lbl)))
			sb.WriteString(lipgloss.NewStyle().Foreground(styles.Primary).
				Render(truncate(val, w-11)))
		} else {
			sb.WriteString(valStyle.Render(truncate(line, w)))
		}
		if i < len(visible)-1 {
			sb.WriteString("\n")
		}
	}

	// Scroll indicators
	if scrollY > 0 {
		sb.WriteString("\n")
		sb.WriteString(label.Render("  ▲ more above"))
	}
	if end < len(lines) {
		sb.WriteString("\n")
		sb.WriteString(label.Render("  ▼ more below"))
	}

	return sb.String()
}

func (m ExplorerModel) viewJSONPanel(w, h int) string {
	if m.selected < 0 || m.selected >= len(m.filtered) || len(m.jsonLines) == 0 {
		return lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("Select a business\nto view JSON")
	}

	lines := m.jsonLines
	jsonStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Secondary)
	strStyle := lipgloss.NewStyle().Foreground(styles.Success)

	// Clamp scroll
	scrollY := m.jsonScrollY
	if scrollY > len(lines)-h {
		scrollY = len(lines) - h
	}
	if scrollY < 0 {
		scrollY = 0
	}

	end := scrollY + h
	if end > len(lines) {
		end = len(lines)
	}
	visible := lines[scrollY:end]

	var sb strings.Builder
	for i, line := range visible {
		// Apply horizontal scroll
		display := line
		if m.jsonScrollX > 0 {
			if m.jsonScrollX < len(display) {
				display = display[m.jsonScrollX:]
			} else {
				display = ""
			}
		}
		if len(display) > w {
			display = display[:w-1] + "…"
		}

		// Simple JSON syntax coloring
		trimmed := strings.TrimSpace(display)
		if strings.HasPrefix(trimmed, "\"") && strings.Contains(trimmed, "\":") {
			colonIdx := strings.Index(display, "\":")
			if colonIdx > 0 {
				keyPart := display[:colonIdx+1]
				valPart := display[colonIdx+1:]
				sb.WriteString(keyStyle.Render(keyPart))
				sb.WriteString(strStyle.Render(valPart))
			} else {
				sb.WriteString(jsonStyle.Render(display))
			}
		} else {
			sb.WriteString(jsonStyle.Render(display))
		}

		if i < len(visible)-1 {
			sb.WriteString("\n")
		}
	}

	// Scroll indicators
	if scrollY > 0 || end < len(lines) {
		sb.WriteString("\n")
		indicator := fmt.Sprintf("  [%d/%d]", scrollY+1, len(lines))
		if m.jsonScrollX > 0 {
			indicator += fmt.Sprintf(" ←%d", m.jsonScrollX)
		}
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render(indicator))
	}

	return sb.String()
}

func (m *ExplorerModel) copyToClipboard() {
	if m.jsonRaw == "" {
		return
	}
	cmd := exec.Command("pbcopy")
	cmd.Stdin = strings.NewReader(m.jsonRaw)
	if err := cmd.Run(); err != nil {
		m.exportMsg = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	m.exportMsg = "JSON copied to clipboard"
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func (m *ExplorerModel) exportFile(format export.Format) {
	data := m.filtered
	if len(data) == 0 {
		data = m.businesses
	}

	out, err := export.Render(format, data)
	if err != nil {
		m.exportMsg = fmt.Sprintf("Export error: %v", err)
		return
	}

	dir := filepath.Dir(m.dbPath)
	base := strings.TrimSuffix(filepath.Base(m.dbPath), ".db")
	outPath := filepath.Join(dir, base+"."+format.Ext())

	if err := os.WriteFile(outPath, out, 0644); err != nil {
		m.exportMsg = fmt.Sprintf("Export error: %v", err)
		return
	}
	m.exportMsg = fmt.Sprintf("Exported %d rows to %s", len(data), outPath)
}

func loadBusinesses(dbPath string) ([]model.BusinessRecord, model.Settings, error) {
	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, model.Settings{}, err
	}
	defer store.Close()
	records, err := store.Businesses()
	if err != nil {
		return nil, model.Settings{}, err
	}
	settings, err := store.Settings()
	return records, settings, err
}
