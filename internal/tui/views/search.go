package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/orlic/leadtap/internal/model"
	"github.com/orlic/leadtap/internal/tui/styles"
)

// Field indices. fieldPlatforms and the toggle fields are virtual
// (not textinputs).
const (
	fieldKeyword = iota
	fieldLocation
	fieldPlatforms
	fieldMaxResults
	fieldEmails
	fieldPhones
	fieldEnrich
	fieldOutput
	fieldCount
)

var platformLabels = []string{"Google Search", "Google Maps", "Facebook", "LinkedIn"}

type SearchModel struct {
	inputs      []textinput.Model
	platforms   [4]bool
	platformIdx int
	emails      bool
	phones      bool
	enrich      bool
	focused     int
	err         string
}

func NewSearchModel() SearchModel {
	inputs := make([]textinput.Model, fieldCount)

	inputs[fieldKeyword] = newInput("coffee shops, dentists...", 60)
	inputs[fieldLocation] = newInput("optional: city, region...", 40)
	inputs[fieldMaxResults] = newInput("50", 5)
	inputs[fieldOutput] = newInput("./leads", 50)

	m := SearchModel{
		inputs:  inputs,
		focused: fieldKeyword,
		emails:  true,
		phones:  true,
	}
	m.platforms[0] = true
	m.platforms[1] = true
	m.inputs[fieldKeyword].Focus()
	return m
}

func newInput(placeholder string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	if width > 0 {
		ti.Width = width
	}
	return ti
}

func isTextField(idx int) bool {
	switch idx {
	case fieldKeyword, fieldLocation, fieldMaxResults, fieldOutput:
		return true
	}
	return false
}

func (m SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()

		switch key {
		case "esc":
			return m, func() tea.Msg { return NavigateToHome{} }

		case "up", "shift+tab":
			m.err = ""
			return m, m.focusPrev()

		case "down", "tab":
			m.err = ""
			return m, m.focusNext()

		case "enter":
			if cmd := m.submit(); cmd != nil {
				return m, cmd
			}
			return m, nil

		case "left":
			if m.focused == fieldPlatforms && m.platformIdx > 0 {
				m.platformIdx--
				return m, nil
			}

		case "right":
			if m.focused == fieldPlatforms && m.platformIdx < len(m.platforms)-1 {
				m.platformIdx++
				return m, nil
			}

		case " ":
			switch m.focused {
			case fieldPlatforms:
				m.platforms[m.platformIdx] = !m.platforms[m.platformIdx]
				return m, nil
			case fieldEmails:
				m.emails = !m.emails
				return m, nil
			case fieldPhones:
				m.phones = !m.phones
				return m, nil
			case fieldEnrich:
				m.enrich = !m.enrich
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if isTextField(m.focused) {
		m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	}
	return m, cmd
}

func (m *SearchModel) focusNext() tea.Cmd {
	if isTextField(m.focused) {
		m.inputs[m.focused].Blur()
	}
	m.focused++
	if m.focused >= fieldCount {
		m.focused = fieldKeyword
	}
	if !isTextField(m.focused) {
		return nil
	}
	m.inputs[m.focused].Focus()
	return textinput.Blink
}

func (m *SearchModel) focusPrev() tea.Cmd {
	if isTextField(m.focused) {
		m.inputs[m.focused].Blur()
	}
	m.focused--
	if m.focused < 0 {
		m.focused = fieldCount - 1
	}
	if !isTextField(m.focused) {
		return nil
	}
	m.inputs[m.focused].Focus()
	return textinput.Blink
}

func (m *SearchModel) selection() model.PlatformSelection {
	return model.PlatformSelection{
		GoogleSearch: m.platforms[0],
		GoogleMaps:   m.platforms[1],
		Facebook:     m.platforms[2],
		LinkedIn:     m.platforms[3],
	}
}

func (m *SearchModel) submit() tea.Cmd {
	keyword := strings.TrimSpace(m.inputs[fieldKeyword].Value())
	if keyword == "" {
		m.err = "Keyword is required"
		return nil
	}
	sel := m.selection()
	if len(sel.Selected()) == 0 {
		m.err = "Select at least one platform"
		return nil
	}
	output := strings.TrimSpace(m.inputs[fieldOutput].Value())
	if output == "" {
		m.err = "Output directory is required"
		return nil
	}

	maxResults := 0
	maxStr := strings.TrimSpace(m.inputs[fieldMaxResults].Value())
	if maxStr != "" {
		n, err := strconv.Atoi(maxStr)
		if err != nil || n < 1 {
			m.err = "Max results must be a positive number"
			return nil
		}
		maxResults = n
	}

	location := strings.TrimSpace(m.inputs[fieldLocation].Value())
	emails, phones, enrich := m.emails, m.phones, m.enrich

	return func() tea.Msg {
		return StartScrapeMsg{
			Keyword:       keyword,
			Location:      location,
			Platforms:     sel,
			MaxResults:    maxResults,
			IncludeEmails: emails,
			IncludePhones: phones,
			Enrich:        enrich,
			Output:        output,
		}
	}
}

func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("New Scrape") + "\n\n")

	b.WriteString(m.renderField("Keyword:", fieldKeyword))
	b.WriteString(m.renderField("Location:", fieldLocation))

	b.WriteString("\n")
	b.WriteString(m.renderPlatforms())
	b.WriteString("\n")

	b.WriteString(m.renderField("Max results:", fieldMaxResults))
	b.WriteString(m.renderToggle("Emails:", m.emails, fieldEmails))
	b.WriteString(m.renderToggle("Phones:", m.phones, fieldPhones))
	b.WriteString(m.renderToggle("Enrich:", m.enrich, fieldEnrich))
	b.WriteString(m.renderField("Output:", fieldOutput))

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render("  " + m.err))
	}

	b.WriteString("\n\n")
	b.WriteString(styles.StatusBar.Render("enter start • tab next • space toggle • esc back"))

	return styles.Border.Render(b.String())
}

func (m SearchModel) renderPlatforms() string {
	label := styles.Label.Render("Platforms:")

	active := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	on := lipgloss.NewStyle().Foreground(styles.Success)
	off := lipgloss.NewStyle().Foreground(styles.Muted)

	parts := make([]string, len(platformLabels))
	for i, name := range platformLabels {
		mark := "[ ]"
		style := off
		if m.platforms[i] {
			mark = "[x]"
			style = on
		}
		cell := fmt.Sprintf("%s %s", mark, name)
		if m.focused == fieldPlatforms && i == m.platformIdx {
			parts[i] = active.Render("<" + cell + ">")
		} else {
			parts[i] = style.Render(" " + cell + " ")
		}
	}

	return fmt.Sprintf("%s %s\n", label, strings.Join(parts, " "))
}

func (m SearchModel) renderToggle(label string, val bool, idx int) string {
	l := styles.Label.Render(label)

	mark := "[ ] off"
	style := lipgloss.NewStyle().Foreground(styles.Muted)
	if val {
		mark = "[x] on"
		style = lipgloss.NewStyle().Foreground(styles.Success)
	}
	if m.focused == idx {
		style = style.Bold(true)
		mark = "> " + mark
	} else {
		mark = "  " + mark
	}
	return fmt.Sprintf("%s %s\n", l, style.Render(mark))
}

func (m SearchModel) renderField(label string, idx int) string {
	l := styles.Label.Render(label)
	v := m.inputs[idx].View()
	return fmt.Sprintf("%s %s\n", l, v)
}

// Messages
type NavigateToHome struct{}

type StartScrapeMsg struct {
	Keyword       string
	Location      string
	Platforms     model.PlatformSelection
	MaxResults    int
	IncludeEmails bool
	IncludePhones bool
	Enrich        bool
	Output        string
}
