package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type MenuTab int

const (
	UsersTab MenuTab = iota
	ModelsTab
	ActionsTab
)

// ActionKind identifies an entry on the Actions tab.
type ActionKind int

const (
	ActionUpload ActionKind = iota
	ActionIngest
	ActionDownloadModel
	ActionNewConversation
)

type QuickMenuModel struct {
	active    bool
	activeTab MenuTab
	cursorPos int
	width     int
	height    int

	currentUser  string
	currentModel string
	startDate    string
	endDate      string

	users   []UserItem
	models  []ModelItem
	actions []ActionItem

	baseStyle      lipgloss.Style
	focusedStyle   lipgloss.Style
	dimmedStyle    lipgloss.Style
	headerStyle    lipgloss.Style
	hintStyle      lipgloss.Style
	borderStyle    lipgloss.Style
	tabStyle       lipgloss.Style
	activeTabStyle lipgloss.Style
	accentColor    lipgloss.Color
	activeColor    lipgloss.Color
}

type UserItem struct {
	Name     string
	Title    string
	IsActive bool
}

type ModelItem struct {
	Name     string
	Label    string
	IsActive bool
}

type ActionItem struct {
	Action      ActionKind
	Name        string
	Description string
}

func NewQuickMenuModel() QuickMenuModel {
	m := QuickMenuModel{
		active:    false,
		activeTab: UsersTab,
		cursorPos: 0,
	}

	m.baseStyle = lipgloss.NewStyle()
	m.focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	m.dimmedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	m.headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	m.hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	m.borderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("86")).Padding(1, 2)
	// Tabs: pill style (active has background), no underline borders
	m.tabStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("245"))
	m.activeTabStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("86")).Bold(true)
	m.accentColor = lipgloss.Color("86")
	m.activeColor = lipgloss.Color("39")

	m.actions = []ActionItem{
		{Action: ActionUpload, Name: "Upload document", Description: "Pick a file and send it to the server"},
		{Action: ActionIngest, Name: "Create index", Description: "Rebuild the search index over uploaded documents"},
		{Action: ActionDownloadModel, Name: "Download model", Description: "Fetch the inference model server-side"},
		{Action: ActionNewConversation, Name: "New conversation", Description: "Clear history and start a fresh session"},
	}

	return m
}

func (m QuickMenuModel) Update(msg tea.Msg) (QuickMenuModel, tea.Cmd) {
	if !m.active {
		switch msg := msg.(type) {
		case tea.WindowSizeMsg:
			m.width = msg.Width
			m.height = msg.Height
		case SelectUserMsg:
			m.currentUser = msg.Name
			for i := range m.users {
				m.users[i].IsActive = (m.users[i].Name == msg.Name)
			}
		case SelectModelMsg:
			m.currentModel = msg.Name
			for i := range m.models {
				m.models[i].IsActive = (m.models[i].Name == msg.Name)
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case SelectUserMsg:
		m.currentUser = msg.Name
		for i := range m.users {
			m.users[i].IsActive = (m.users[i].Name == msg.Name)
		}
		return m, nil
	case SelectModelMsg:
		m.currentModel = msg.Name
		for i := range m.models {
			m.models[i].IsActive = (m.models[i].Name == msg.Name)
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.active = false
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % 3
			m.cursorPos = 0
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + 3) % 3
			m.cursorPos = 0
			return m, nil
		case "up", "k":
			// Wrap-around navigation
			maxPos := m.getMaxCursorPos()
			if m.cursorPos > 0 {
				m.cursorPos--
			} else {
				m.cursorPos = maxPos
			}
			return m, nil
		case "down", "j":
			// Wrap-around navigation
			maxPos := m.getMaxCursorPos()
			if m.cursorPos < maxPos {
				m.cursorPos++
			} else {
				m.cursorPos = 0
			}
			return m, nil
		case "enter":
			return m, m.handleSelection()
		}
	}
	return m, nil
}

func (m QuickMenuModel) getMaxCursorPos() int {
	switch m.activeTab {
	case UsersTab:
		return len(m.users) - 1
	case ModelsTab:
		return len(m.models) - 1
	case ActionsTab:
		return len(m.actions) - 1
	default:
		return 0
	}
}

func (m QuickMenuModel) handleSelection() tea.Cmd {
	switch m.activeTab {
	case UsersTab:
		if len(m.users) > 0 && m.cursorPos < len(m.users) {
			return selectUserCmd(m.users[m.cursorPos].Name)
		}
	case ModelsTab:
		if len(m.models) > 0 && m.cursorPos < len(m.models) {
			return selectModelCmd(m.models[m.cursorPos].Name)
		}
	case ActionsTab:
		if len(m.actions) > 0 && m.cursorPos < len(m.actions) {
			return runActionCmd(m.actions[m.cursorPos].Action)
		}
	}
	return nil
}

func (m QuickMenuModel) View() string {
	if !m.active {
		return ""
	}
	menuWidth := 60
	var content strings.Builder
	header := m.headerStyle.Render("🏔 Alpine Search Menu")
	closeHint := m.hintStyle.Render("[ESC to close]")
	pad := menuWidth - lipgloss.Width(header) - lipgloss.Width(closeHint) - 4
	if pad < 1 {
		pad = 1
	}
	headerLine := lipgloss.JoinHorizontal(lipgloss.Left, header, strings.Repeat(" ", pad), closeHint)
	content.WriteString(headerLine + "\n")
	content.WriteString(strings.Repeat("─", menuWidth-4) + "\n\n")
	content.WriteString(m.renderTabBar() + "\n\n")
	switch m.activeTab {
	case UsersTab:
		content.WriteString(m.renderUsersTab())
	case ModelsTab:
		content.WriteString(m.renderModelsTab())
	case ActionsTab:
		content.WriteString(m.renderActionsTab())
	}
	content.WriteString("\n" + strings.Repeat("─", menuWidth-4) + "\n")
	content.WriteString(m.renderFooter())
	box := m.borderStyle.Width(menuWidth).Render(content.String())
	return m.positionMenu(box)
}

func (m QuickMenuModel) renderTabBar() string {
	tabs := []string{"Users", "Models", "Actions"}
	var pieces []string
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render("|")
	for i, tab := range tabs {
		if i > 0 {
			pieces = append(pieces, sep)
		}
		if MenuTab(i) == m.activeTab {
			pieces = append(pieces, m.activeTabStyle.Render(tab))
		} else {
			pieces = append(pieces, m.tabStyle.Render(tab))
		}
	}
	// Left-align to avoid wrapping when the active pill is wider
	return strings.Join(pieces, " ")
}

func (m QuickMenuModel) renderUsersTab() string {
	var s strings.Builder
	s.WriteString("Select User:\n")
	if len(m.users) == 0 {
		s.WriteString("  (no users configured)\n")
	}
	for i, u := range m.users {
		cursor := "  "
		if i == m.cursorPos {
			cursor = "→ "
		}
		active := " "
		if u.IsActive {
			active = "✓"
		}
		name := u.Name
		if u.Title != "" {
			name = fmt.Sprintf("%s (%s)", u.Name, u.Title)
		}
		line := fmt.Sprintf("%s%s %s", cursor, active, name)
		if u.IsActive && i != m.cursorPos {
			line = lipgloss.NewStyle().Foreground(m.activeColor).Bold(true).Render(line)
		}
		if i == m.cursorPos {
			line = m.focusedStyle.Render(line)
		}
		s.WriteString(line + "\n")
	}
	return s.String()
}

func (m QuickMenuModel) renderModelsTab() string {
	var s strings.Builder
	s.WriteString("Select Model:\n")
	if len(m.models) == 0 {
		s.WriteString("  (no models configured)\n")
	}
	for i, model := range m.models {
		cursor := "  "
		if i == m.cursorPos {
			cursor = "→ "
		}
		active := " "
		if model.IsActive {
			active = "✓"
		}
		label := model.Name
		if model.Label != "" {
			label = fmt.Sprintf("%s - %s", model.Name, model.Label)
		}
		line := fmt.Sprintf("%s%s %s", cursor, active, label)
		if model.IsActive && i != m.cursorPos {
			line = lipgloss.NewStyle().Foreground(m.activeColor).Bold(true).Render(line)
		}
		if i == m.cursorPos {
			line = m.focusedStyle.Render(line)
		}
		s.WriteString(line + "\n")
	}
	return s.String()
}

func (m QuickMenuModel) renderActionsTab() string {
	var s strings.Builder
	for i, action := range m.actions {
		cursor := "  "
		if i == m.cursorPos {
			cursor = "→ "
		}
		name := action.Name
		if i == m.cursorPos {
			name = m.focusedStyle.Render(name)
		} else {
			name = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Render(name)
		}
		s.WriteString(fmt.Sprintf("%s%-18s %s\n", cursor, name, m.hintStyle.Render(action.Description)))
	}
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Date range: %s → %s\n", orNone(m.startDate), orNone(m.endDate)))
	s.WriteString(m.hintStyle.Render("Change with /dates <start> <end> in the chat input"))
	return s.String()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func (m QuickMenuModel) renderFooter() string {
	shortcuts := []string{"↑↓: navigate", "Enter: select", "Tab: sections", "ESC: close"}
	return m.hintStyle.Render(strings.Join(shortcuts, "  "))
}

func (m QuickMenuModel) positionMenu(content string) string {
	contentLines := strings.Split(content, "\n")
	contentHeight := len(contentLines)
	contentWidth := 0
	for _, line := range contentLines {
		w := lipgloss.Width(line)
		if w > contentWidth {
			contentWidth = w
		}
	}
	// When height is zero, render without vertical padding (above input)
	topPadding := 0
	if m.height > 0 {
		topPadding = (m.height - contentHeight) / 2
		if topPadding < 0 {
			topPadding = 0
		}
	}
	leftPadding := (m.width - contentWidth) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}
	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}
	for _, line := range contentLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}
	return result.String()
}

type SelectUserMsg struct{ Name string }

func selectUserCmd(name string) tea.Cmd { return func() tea.Msg { return SelectUserMsg{Name: name} } }

type SelectModelMsg struct{ Name string }

func selectModelCmd(name string) tea.Cmd { return func() tea.Msg { return SelectModelMsg{Name: name} } }

type RunActionMsg struct{ Action ActionKind }

func runActionCmd(action ActionKind) tea.Cmd {
	return func() tea.Msg { return RunActionMsg{Action: action} }
}

type ShowToastMsg struct{ Message string }

func (m *QuickMenuModel) Toggle() {
	m.active = !m.active
	if m.active {
		m.activeTab = UsersTab
		m.cursorPos = 0
	}
}

func (m *QuickMenuModel) Open() {
	m.active = true
	m.activeTab = UsersTab
	m.cursorPos = 0
}

func (m *QuickMenuModel) Close() { m.active = false }

func (m QuickMenuModel) IsActive() bool { return m.active }

// SetData replaces the menu's rosters and current selections.
func (m *QuickMenuModel) SetData(users []UserItem, models []ModelItem, currentUser, currentModel string) {
	m.users = users
	m.models = models
	m.currentUser = currentUser
	m.currentModel = currentModel
	for i := range m.users {
		m.users[i].IsActive = (m.users[i].Name == currentUser)
	}
	for i := range m.models {
		m.models[i].IsActive = (m.models[i].Name == currentModel)
	}
}

// SetDateRange updates the date range shown on the Actions tab.
func (m *QuickMenuModel) SetDateRange(start, end string) {
	m.startDate = start
	m.endDate = end
}
