package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"alpinesearch-cli/cmd/config"
	uitk "alpinesearch-cli/internal/tui"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

var (
	botPrompt  = "🏔 Alpine AI:"
	emptyTitle = "Enterprise Level Document Search"
	emptySub   = "Made and Hosted in Switzerland"
)

const gap = "\n\n"

// runChatTUI starts the Bubble Tea TUI for chat.
func runChatTUI(cfg *config.Config) {
	m := newChatModel(cfg)
	p := tea.NewProgram(m)

	// Enable TUI mode for output routing
	SetTUIMode(p)
	defer ClearTUIMode()

	// Live-reload rosters when the config file changes
	stopWatcher, err := StartConfigWatcher(getEffectiveCWD(), func(next *config.Config) {
		p.Send(configReloadedMsg{cfg: next})
	})
	if err != nil {
		logDebug(fmt.Sprintf("config watcher unavailable: %v", err))
	} else {
		defer stopWatcher()
	}

	if _, err := p.Run(); err != nil {
		OutputError("Error running TUI: %v\n", err)
	}
}

type chatModel struct {
	cfg    *config.Config
	client *Client

	selection *SelectionStore
	session   *SessionController
	upload    *UploadController
	indexer   *IngestController

	spin       spinner.Model
	textarea   textarea.Model
	viewport   viewport.Model
	filepicker filepicker.Model
	quickMenu  uitk.QuickMenuModel
	toast      uitk.ToastModel

	pickingFile bool
	menuActive  bool
	showHelp    bool
	thinkFrame  int

	history   []string
	histIndex int

	width      int
	termHeight int
	status     string
}

type (
	answerMsg       struct{ ans *Answer }
	askErrMsg       struct{ err error }
	uploadDoneMsg   struct{ err error }
	ingestDoneMsg   struct {
		report string
		err    error
	}
	downloadDoneMsg struct {
		report string
		err    error
	}
	configReloadedMsg struct{ cfg *config.Config }
	tickMsg           struct{}
)

func newChatModel(cfg *config.Config) chatModel {
	ta := textarea.New()
	ta.Placeholder = "Ask about your documents..."
	ta.Focus()

	ta.Prompt = "> "

	ta.SetWidth(30)
	ta.SetHeight(1)

	// Remove cursor line styling
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()

	ta.ShowLineNumbers = false

	vp := viewport.New(30, 5)

	ta.KeyMap.InsertNewline.SetEnabled(false)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	fp := filepicker.New()
	fp.CurrentDirectory = getEffectiveCWD()
	fp.AllowedTypes = []string{".pdf", ".txt", ".md", ".csv", ".doc", ".docx"}

	selection := NewSelectionStore()
	session := NewSessionController()
	selection.Subscribe(session)

	if start, err := config.ParseDate(cfg.StartDate); err == nil && !start.IsZero() {
		selection.SetStartDate(start)
	}
	if end, err := config.ParseDate(cfg.EndDate); err == nil && !end.IsZero() {
		selection.SetEndDate(end)
	}

	qm := uitk.NewQuickMenuModel()
	qm.SetData(menuUsers(cfg), menuModels(cfg), NoneSelected, NoneSelected)
	qm.SetDateRange(cfg.StartDate, cfg.EndDate)

	width, _, _ := term.GetSize(uintptr(os.Stdout.Fd()))

	m := chatModel{
		cfg:        cfg,
		client:     NewClient(effectiveServerURL(cfg.ServerURL)),
		selection:  selection,
		session:    session,
		upload:     NewUploadController(),
		indexer:    NewIngestController(),
		spin:       s,
		textarea:   ta,
		viewport:   vp,
		filepicker: fp,
		quickMenu:  qm,
		toast:      uitk.NewToastModel(),
		histIndex:  0,
		width:      width,
	}
	m.setViewportContent()
	return m
}

func menuUsers(cfg *config.Config) []uitk.UserItem {
	items := make([]uitk.UserItem, 0, len(cfg.Users))
	for _, u := range cfg.Users {
		items = append(items, uitk.UserItem{Name: u.Name, Title: u.Title})
	}
	return items
}

func menuModels(cfg *config.Config) []uitk.ModelItem {
	items := make([]uitk.ModelItem, 0, len(cfg.Models))
	for _, mo := range cfg.Models {
		items = append(items, uitk.ModelItem{Name: mo.Name, Label: mo.Label})
	}
	return items
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.filepicker.Init())
}

// askCmd performs one question/answer transport cycle off the UI loop. The
// returned message resolves exactly once.
func askCmd(client *Client, req AskRequest) tea.Cmd {
	return func() tea.Msg {
		ans, err := client.AskQuestion(context.Background(), req)
		if err != nil {
			return askErrMsg{err: err}
		}
		return answerMsg{ans: ans}
	}
}

func uploadCmdTUI(client *Client, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadDoneMsg{err: err}
		}
		defer f.Close()
		_, err = client.UploadDocument(context.Background(), baseName(path), f)
		return uploadDoneMsg{err: err}
	}
}

func ingestCmdTUI(client *Client) tea.Cmd {
	return func() tea.Msg {
		slow := *client
		slow.HTTP = getHTTPClientWithTimeout(10 * time.Minute)
		report, err := slow.Ingest(context.Background())
		return ingestDoneMsg{report: report, err: err}
	}
}

func downloadCmdTUI(client *Client) tea.Cmd {
	return func() tea.Msg {
		slow := *client
		slow.HTTP = getHTTPClientWithTimeout(30 * time.Minute)
		report, err := slow.DownloadModel(context.Background())
		return downloadDoneMsg{report: report, err: err}
	}
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

func thinkingCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func errorToast(text string) tea.Cmd {
	return func() tea.Msg { return uitk.ShowErrorToastMsg{Message: text} }
}

func successToast(text string) tea.Cmd {
	return func() tea.Msg { return uitk.ShowToastMsg{Message: text} }
}

func outcomeToast(text string, ok bool) tea.Cmd {
	if ok {
		return successToast(text)
	}
	return errorToast(text)
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		cmd   tea.Cmd
		cmds  []tea.Cmd
	)

	// File picker gets exclusive input while open
	if m.pickingFile {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.pickingFile = false
			m.textarea.Focus()
			return m, nil
		}
		m.filepicker, cmd = m.filepicker.Update(msg)
		cmds = append(cmds, cmd)
		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.pickingFile = false
			m.textarea.Focus()
			return m, tea.Batch(append(cmds, m.startUpload(path))...)
		}
		return m, tea.Batch(cmds...)
	}

	// Route messages to quick menu (it ignores most when inactive)
	m.quickMenu, cmd = m.quickMenu.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	// Toggle textarea focus based on overlay activity and lock input when active
	if m.quickMenu.IsActive() && !m.menuActive {
		m.textarea.Blur()
		m.menuActive = true
	}
	if !m.quickMenu.IsActive() && m.menuActive {
		m.textarea.Focus()
		m.menuActive = false
	}

	// Only update textarea when menu is not active
	if !m.quickMenu.IsActive() {
		m.textarea, tiCmd = m.textarea.Update(msg)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	// Route all messages to toast
	m.toast, cmd = m.toast.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	// Forward all messages to the spinner so it processes its own TickMsgs
	m.spin, cmd = m.spin.Update(msg)

	cmds = append(cmds, vpCmd, tiCmd, cmd)

	headerHeight := lipgloss.Height(m.renderInfoBar())
	footerHeight := lipgloss.Height(m.renderChatInput())

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Prevent negative viewport height that causes slice bounds panic
		newHeight := msg.Height - footerHeight - headerHeight
		if newHeight < 1 {
			newHeight = 1
		}

		m.viewport.Width = msg.Width
		m.viewport.Height = newHeight

		newWidth := msg.Width - 2
		if newWidth < 10 {
			newWidth = 10
		}
		m.textarea.SetWidth(newWidth)
		m.width = msg.Width
		m.termHeight = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.status = "👋 Auf Wiedersehen!"
			return m, tea.Quit

		case "tab":
			// If overlay already active, it handled Tab for tab switching
			if m.quickMenu.IsActive() {
				return m, tea.Batch(cmds...)
			}
			m.quickMenu.Open()
			return m, nil

		case "esc":
			// Overlay handles its own ESC
			return m, tea.Batch(cmds...)

		case "ctrl+k":
			// Cycle models
			if m.quickMenu.IsActive() {
				return m, tea.Batch(cmds...)
			}
			if next := nextInRoster(m.cfg.ModelNames(), m.selection.Current().ModelName); next != "" {
				old := m.selection.Current().ModelName
				m.selection.SetModel(next)
				m.refreshViewportBottom()
				cmds = append(cmds, successToast(fmt.Sprintf("Model: %s → %s", old, next)))
				cmds = append(cmds, func() tea.Msg { return uitk.SelectModelMsg{Name: next} })
			}
			return m, tea.Batch(cmds...)

		case "ctrl+u":
			// Cycle users
			if m.quickMenu.IsActive() {
				return m, tea.Batch(cmds...)
			}
			if next := nextInRoster(m.cfg.UserNames(), m.selection.Current().UserID); next != "" {
				old := m.selection.Current().UserID
				m.selection.SetUser(next)
				m.refreshViewportBottom()
				cmds = append(cmds, successToast(fmt.Sprintf("User: %s → %s", old, next)))
				cmds = append(cmds, func() tea.Msg { return uitk.SelectUserMsg{Name: next} })
			}
			return m, tea.Batch(cmds...)

		case "up":
			if m.quickMenu.IsActive() {
				return m, tea.Batch(cmds...)
			}
			if m.histIndex > 0 {
				m.histIndex--
				m.textarea.SetValue(m.history[m.histIndex])
				m.textarea.CursorEnd()
			}

		case "down":
			if m.quickMenu.IsActive() {
				return m, tea.Batch(cmds...)
			}
			if m.histIndex < len(m.history)-1 {
				m.histIndex++
				m.textarea.SetValue(m.history[m.histIndex])
				m.textarea.CursorEnd()
			} else {
				m.histIndex = len(m.history)
				m.textarea.SetValue("")
			}

		case "enter":
			if m.quickMenu.IsActive() {
				return m, tea.Batch(cmds...)
			}
			text := strings.TrimSpace(m.textarea.Value())

			if strings.HasPrefix(text, "/") {
				model, cmd := m.handleSlashCommand(text)
				return model, cmd
			}

			req, err := m.session.BeginAsk(text, m.selection.Current())
			if err != nil {
				var conflict *StateConflictError
				if errors.As(err, &conflict) {
					// One question in flight at a time; drop the keypress
					break
				}
				var verr *ValidationError
				if errors.As(err, &verr) {
					cmds = append(cmds, errorToast(verr.Message))
					return m, tea.Batch(cmds...)
				}
				cmds = append(cmds, errorToast(err.Error()))
				return m, tea.Batch(cmds...)
			}

			m.history = append(m.history, text)
			m.histIndex = len(m.history)
			m.textarea.SetValue("")
			m.showHelp = false
			cmds = append(cmds, askCmd(m.client, req), thinkingCmd())
		}

	case answerMsg:
		m.session.CompleteAsk(msg.ans)
		m.setViewportContent()

	case askErrMsg:
		m.session.FailAsk()
		cmds = append(cmds, errorToast(askFailureText(msg.err)))

	case tickMsg:
		if m.session.Pending() {
			m.thinkFrame = (m.thinkFrame + 1) % 3
			cmds = append(cmds, thinkingCmd())
		}

	case uploadDoneMsg:
		m.upload.FinishUpload()
		m.filepicker = filepicker.New()
		m.filepicker.CurrentDirectory = getEffectiveCWD()
		m.filepicker.AllowedTypes = []string{".pdf", ".txt", ".md", ".csv", ".doc", ".docx"}
		text, ok := UploadOutcome(msg.err)
		cmds = append(cmds, outcomeToast(text, ok), m.filepicker.Init())

	case ingestDoneMsg:
		m.indexer.FinishIngest()
		text, ok := IngestOutcome(msg.report, msg.err)
		cmds = append(cmds, outcomeToast(text, ok))

	case downloadDoneMsg:
		text, ok := DownloadOutcome(msg.report, msg.err)
		cmds = append(cmds, outcomeToast(text, ok))

	case configReloadedMsg:
		m.cfg = msg.cfg
		m.client = NewClient(effectiveServerURL(msg.cfg.ServerURL))
		sel := m.selection.Current()
		m.quickMenu.SetData(menuUsers(msg.cfg), menuModels(msg.cfg), sel.UserID, sel.ModelName)
		m.quickMenu.SetDateRange(msg.cfg.StartDate, msg.cfg.EndDate)
		cmds = append(cmds, successToast("Configuration reloaded"))

	case uitk.SelectUserMsg:
		m.selection.SetUser(msg.Name)
		m.refreshViewportBottom()

	case uitk.SelectModelMsg:
		m.selection.SetModel(msg.Name)
		m.refreshViewportBottom()

	case uitk.RunActionMsg:
		m.quickMenu.Close()
		switch msg.Action {
		case uitk.ActionUpload:
			m.pickingFile = true
			m.textarea.Blur()
			cmds = append(cmds, m.filepicker.Init())
		case uitk.ActionIngest:
			cmds = append(cmds, m.startIngest())
		case uitk.ActionDownloadModel:
			cmds = append(cmds, successToast("Requesting model download..."), downloadCmdTUI(m.client))
		case uitk.ActionNewConversation:
			m.session.Reset()
			m.textarea.SetValue("")
			m.setViewportContent()
		}

	case TUIMessageMsg:
		// Notifications routed through the output manager surface as toasts
		if msg.Message.Type == ErrorMessage || msg.Message.Type == WarningMessage {
			cmds = append(cmds, errorToast(msg.Message.Content))
		} else {
			cmds = append(cmds, successToast(msg.Message.Content))
		}
	}

	m.refreshViewportBottom()

	return m, tea.Batch(cmds...)
}

// handleSlashCommand interprets transcript-level commands typed at the
// prompt.
func (m chatModel) handleSlashCommand(text string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(text)
	command := strings.ToLower(fields[0])
	m.textarea.SetValue("")

	switch command {
	case "/help":
		m.showHelp = !m.showHelp
		m.refreshViewportBottom()
		return m, nil

	case "/user":
		if len(fields) < 2 {
			return m, successToast("Current user: " + m.selection.Current().UserID)
		}
		name := fields[1]
		if !m.cfg.HasUser(name) {
			return m, errorToast(fmt.Sprintf("Unknown user '%s'. Press Tab to see the roster.", name))
		}
		m.selection.SetUser(name)
		m.refreshViewportBottom()
		return m, tea.Batch(
			successToast("User changed to "+name),
			func() tea.Msg { return uitk.SelectUserMsg{Name: name} },
		)

	case "/model":
		if len(fields) < 2 {
			return m, successToast("Current model: " + m.selection.Current().ModelName)
		}
		name := fields[1]
		if !m.cfg.HasModel(name) {
			return m, errorToast(fmt.Sprintf("Unknown model '%s'. Press Tab to see the roster.", name))
		}
		m.selection.SetModel(name)
		m.refreshViewportBottom()
		return m, tea.Batch(
			successToast("Model changed to "+name),
			func() tea.Msg { return uitk.SelectModelMsg{Name: name} },
		)

	case "/dates":
		if len(fields) < 3 {
			return m, errorToast("Usage: /dates <start> <end> (YYYY-MM-DD)")
		}
		start, err := config.ParseDate(fields[1])
		if err != nil {
			return m, errorToast("Invalid start date: " + fields[1])
		}
		end, err := config.ParseDate(fields[2])
		if err != nil {
			return m, errorToast("Invalid end date: " + fields[2])
		}
		m.selection.SetStartDate(start)
		m.selection.SetEndDate(end)
		m.quickMenu.SetDateRange(fields[1], fields[2])
		return m, successToast(fmt.Sprintf("Date range: %s → %s", fields[1], fields[2]))

	case "/upload":
		if len(fields) >= 2 {
			return m, m.startUpload(fields[1])
		}
		m.pickingFile = true
		m.textarea.Blur()
		return m, m.filepicker.Init()

	case "/ingest":
		return m, m.startIngest()

	case "/download-model":
		return m, tea.Batch(successToast("Requesting model download..."), downloadCmdTUI(m.client))

	case "/copy":
		answer := lastBotAnswer(m.session.Turns())
		if answer == "" {
			return m, errorToast("Nothing to copy yet")
		}
		if err := clipboard.WriteAll(answer); err != nil {
			return m, errorToast("Copy failed: " + err.Error())
		}
		return m, successToast("Copied last answer")

	case "/clear":
		m.session.Reset()
		m.setViewportContent()
		return m, successToast("New conversation started")

	case "/menu":
		m.quickMenu.Open()
		return m, nil

	case "/exit", "/quit":
		m.status = "👋 Auf Wiedersehen!"
		return m, tea.Quit

	default:
		return m, errorToast(fmt.Sprintf("Unknown command '%s'. Type /help for available commands.", command))
	}
}

// startUpload stages the file and kicks off the transfer. Rejections from
// the upload track surface as error toasts.
func (m *chatModel) startUpload(path string) tea.Cmd {
	if err := m.upload.SelectFile(path); err != nil {
		return errorToast(err.Error())
	}
	staged, err := m.upload.BeginUpload()
	if err != nil {
		var conflict *StateConflictError
		if errors.As(err, &conflict) {
			return errorToast("Upload already in progress")
		}
		return errorToast(err.Error())
	}
	return tea.Batch(
		successToast("Uploading "+baseName(staged)+"..."),
		uploadCmdTUI(m.client, staged),
	)
}

func (m *chatModel) startIngest() tea.Cmd {
	if err := m.indexer.BeginIngest(); err != nil {
		return errorToast("Indexing already in progress")
	}
	return tea.Batch(successToast("Indexing documents..."), ingestCmdTUI(m.client))
}

// askFailureText picks the user-facing failure message: backend detail when
// the server answered with an error status, a generic retry hint otherwise.
func askFailureText(err error) string {
	var terr *TransportError
	if errors.As(err, &terr) && terr.Status != 0 {
		return "Error getting data." + terr.Detail()
	}
	return "Error Fetching Answer. Please try again."
}

func lastBotAnswer(turns []ChatTurn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].IsBot {
			return turns[i].Text
		}
	}
	return ""
}

// nextInRoster cycles through roster names; from the sentinel it starts at
// the first entry.
func nextInRoster(names []string, current string) string {
	if len(names) == 0 {
		return ""
	}
	for i, name := range names {
		if name == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

func (m chatModel) renderChatContent() string {
	var b strings.Builder

	turns := m.session.Turns()
	if len(turns) == 0 && !m.session.Pending() && !m.showHelp {
		title := lipgloss.NewStyle().Bold(true).Render(emptyTitle)
		sub := lipgloss.NewStyle().Faint(true).Render(emptySub)
		b.WriteString("\n" + title + "\n" + sub + "\n")
		return b.String()
	}

	for _, turn := range turns {
		b.WriteString(renderTurn(turn, m.width) + "\n")
	}

	if m.session.Pending() {
		b.WriteString(renderTurn(ChatTurn{IsBot: false, Text: m.session.Provisional()}, m.width) + "\n")
		dots := m.thinkFrame + 1
		thinkingText := botPrompt + " " + m.spin.View() + "Thinking" + strings.Repeat(".", dots)
		wrapped := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Width(max(m.width-2, 10)).Render(thinkingText)
		b.WriteString(wrapped + gap)
	}

	if m.showHelp {
		b.WriteString("\n" + renderHelp())
	}

	return b.String()
}

// renderTurn renders one history entry. Bot turns carry the assistant label
// and, when present, a single source citation line.
func renderTurn(turn ChatTurn, width int) string {
	baseStyle := lipgloss.NewStyle()
	if turn.IsBot {
		labelStyle := baseStyle.Foreground(lipgloss.Color("11"))
		line := labelStyle.Render(botPrompt) + " " + turn.Text
		if src := FirstSource(turn); src != "" {
			line += "\n" + baseStyle.Faint(true).Render(src)
		}
		return line + "\n"
	}
	style := baseStyle.Foreground(lipgloss.Color("#ccc"))
	return style.Bold(true).Render("> ") + style.Render(turn.Text)
}

func renderHelp() string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Render(
		"Commands:\n" +
			"  /help - Toggle this help\n" +
			"  /user [name] - Switch user\n" +
			"  /model [name] - Switch model\n" +
			"  /dates <start> <end> - Set date range filter\n" +
			"  /upload [path] - Upload a document\n" +
			"  /ingest - Rebuild the search index\n" +
			"  /download-model - Fetch the inference model server-side\n" +
			"  /copy - Copy the last answer\n" +
			"  /clear - New conversation\n" +
			"  /menu - Open the menu\n" +
			"  /exit - Exit\n\n" +
			"Hotkeys:\n" +
			"  Tab - Open menu\n" +
			"  Ctrl+U - Cycle users\n" +
			"  Ctrl+K - Cycle models")
}

// setViewportContent updates the viewport with the current chat rendering.
func (m *chatModel) setViewportContent() {
	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(m.renderChatContent()))
}

// refreshViewportBottom updates the viewport and scrolls to the bottom.
func (m *chatModel) refreshViewportBottom() {
	m.setViewportContent()
	m.viewport.GotoBottom()
}

func (m chatModel) renderChatInput() string {
	var b strings.Builder

	b.WriteString(gap)

	cbStyle := lipgloss.NewStyle().
		MarginBottom(1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63"))

	b.WriteString(cbStyle.Render(m.textarea.View()))

	helpText := "/help for commands | Up/Down: history | Tab: menu | Ctrl+U/Ctrl+K: cycle user/model"

	b.WriteString("\n")
	wrappedHelp := lipgloss.NewStyle().Faint(true).Width(max(m.width-2, 10)).Render(helpText)
	b.WriteString(wrappedHelp)
	b.WriteString("\n")

	return b.String()
}

func (m chatModel) renderInfoBar() string {
	sel := m.selection.Current()

	var busy []string
	if m.upload.Uploading() {
		busy = append(busy, "uploading")
	}
	if m.indexer.Ingesting() {
		busy = append(busy, "indexing")
	}
	busyInfo := ""
	if len(busy) > 0 {
		busyInfo = " | " + strings.Join(busy, ", ")
	}

	session := "new"
	if token := m.session.MemoryToken(); token != "" {
		if len(token) > 8 {
			token = token[:8]
		}
		session = token
	}

	serverHost := m.client.BaseURL
	serverHost = strings.TrimPrefix(serverHost, "http://")
	serverHost = strings.TrimPrefix(serverHost, "https://")

	statusLine := fmt.Sprintf("🏔 ALPINE SEARCH: %s @ %s | Session: %s | %s%s",
		sel.UserID, sel.ModelName, session, serverHost, busyInfo)

	style := lipgloss.NewStyle().
		Width(m.width).
		Background(lipgloss.Color("#027ffd")).
		Foreground(lipgloss.Color("#ffffff")).
		PaddingLeft(1).
		PaddingRight(1)

	// Truncate if too long for terminal width
	if lipgloss.Width(statusLine) > m.width-2 {
		maxLen := m.width - 5
		if maxLen > 0 && maxLen < len(statusLine) {
			statusLine = statusLine[:maxLen] + "..."
		}
	}

	return style.Render(statusLine)
}

func (m chatModel) View() string {
	var b strings.Builder

	if m.pickingFile {
		b.WriteString(lipgloss.NewStyle().Bold(true).Render("Select a document to upload") + "\n")
		b.WriteString(lipgloss.NewStyle().Faint(true).Render("(Esc to cancel)") + "\n\n")
		b.WriteString(m.filepicker.View())
		b.WriteString("\n")
		b.WriteString(m.renderInfoBar())
		return b.String()
	}

	// Dim the background when the menu is active
	if m.quickMenu.IsActive() {
		dim := lipgloss.NewStyle().Faint(true)
		b.WriteString(dim.Render(m.viewport.View()))
	} else {
		b.WriteString(m.viewport.View())
	}

	// When menu is active, draw overlay sized to terminal
	if m.quickMenu.IsActive() {
		m.quickMenu, _ = m.quickMenu.Update(tea.WindowSizeMsg{Width: m.width, Height: m.termHeight})
		b.WriteString("\n")
		b.WriteString(m.quickMenu.View())
	}

	if m.quickMenu.IsActive() {
		// Dim the input area and prevent cursor from showing
		dim := lipgloss.NewStyle().Faint(true)
		shadow := m
		shadow.textarea.Blur()
		b.WriteString(dim.Render(shadow.renderChatInput()))
	} else {
		b.WriteString(m.renderChatInput())
	}
	// Always draw the status bar at the very bottom (no dimming)
	b.WriteString(m.renderInfoBar())

	// Toast on top-right
	if v := m.toast.View(); v != "" {
		b.WriteString("\n")
		b.WriteString(v)
	}

	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
