package tui

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ytget/vrca-downloader/internal/config"
	"github.com/ytget/vrca-downloader/internal/controller"
	"github.com/ytget/vrca-downloader/internal/model"
	"github.com/ytget/vrca-downloader/internal/platform"
	"github.com/ytget/vrca-downloader/internal/ui"
)

type focus int

const (
	focusCookie focus = iota
	focusPort
	focusList
)

// reserved lines around the list: inputs, header, status and help
const chromeHeight = 9

const helpText = "tab focus · enter fetch/download · ctrl+r refresh · ctrl+u auto unpack · / search · q quit"

// eventMsg wraps a controller event for the Bubble Tea loop
type eventMsg controller.Event

type rootModel struct {
	ctrl         *controller.Controller
	settings     *config.Settings
	localization *ui.Localization
	logger       *slog.Logger

	width  int
	height int

	focus      focus
	cookie     textinput.Model
	port       textinput.Model
	list       list.Model
	bar        progress.Model
	autoUnpack bool

	snap       controller.Snapshot
	lastStatus string
	notice     string
	noticeErr  bool
}

// NewRootModel builds the terminal frontend around ctrl
func NewRootModel(ctrl *controller.Controller, settings *config.Settings, logger *slog.Logger) tea.Model {
	if logger == nil {
		logger = slog.Default()
	}

	loc := ui.NewLocalization()
	loc.SetLanguage(settings.GetLanguage())

	cookie := textinput.New()
	cookie.Prompt = ""
	cookie.Placeholder = loc.GetText(ui.KeyCookiePlaceholder)
	cookie.EchoMode = textinput.EchoPassword
	cookie.EchoCharacter = '•'
	cookie.Width = 40
	cookie.Focus()

	port := textinput.New()
	port.Prompt = ""
	port.CharLimit = config.MaxPortLength
	port.Width = config.MaxPortLength + 1
	port.SetValue(settings.GetUnpackPort())

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = loc.GetText(ui.KeyAppTitle)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	m := &rootModel{
		ctrl:         ctrl,
		settings:     settings,
		localization: loc,
		logger:       logger,
		focus:        focusCookie,
		cookie:       cookie,
		port:         port,
		list:         l,
		bar:          progress.New(progress.WithDefaultGradient()),
		autoUnpack:   settings.GetAutoUnpack(),
		snap:         ctrl.Snapshot(),
		lastStatus:   loc.GetText(ui.KeyReady),
	}

	ctrl.Subscribe(m.onSnapshot)
	ctrl.OnNotice(m.onNotice)
	return m
}

// waitForEvent turns the next controller event into a message
func waitForEvent(events <-chan controller.Event) tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-events)
	}
}

func (m *rootModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEvent(m.ctrl.Events()))
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-chromeHeight, 3))
		m.bar.Width = max(msg.Width-4, 10)
		return m, nil
	case eventMsg:
		m.ctrl.Apply(controller.Event(msg))
		return m, waitForEvent(m.ctrl.Events())
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	return m, m.updateFocused(msg)
}

// handleKey processes keys that work regardless of the focused widget
func (m *rootModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	filtering := m.focus == focusList && m.list.FilterState() == list.Filtering

	switch msg.String() {
	case "ctrl+c":
		return tea.Quit, true
	case "q":
		if m.focus == focusList && !filtering {
			return tea.Quit, true
		}
	case "tab":
		if !filtering {
			m.setFocus((m.focus + 1) % 3)
			return nil, true
		}
	case "shift+tab":
		if !filtering {
			m.setFocus((m.focus + 2) % 3)
			return nil, true
		}
	case "ctrl+r":
		m.refresh()
		return nil, true
	case "ctrl+u":
		m.autoUnpack = !m.autoUnpack
		m.settings.SetAutoUnpack(m.autoUnpack)
		return nil, true
	case "enter":
		switch m.focus {
		case focusCookie:
			m.refresh()
			return nil, true
		case focusPort:
			m.setFocus(focusList)
			return nil, true
		case focusList:
			if !filtering {
				m.download()
				return nil, true
			}
		}
	}
	return nil, false
}

func (m *rootModel) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case focusCookie:
		m.cookie, cmd = m.cookie.Update(msg)
	case focusPort:
		prev := m.port.Value()
		m.port, cmd = m.port.Update(msg)
		if value := m.port.Value(); !config.AcceptPortInput(value) {
			m.port.SetValue(prev)
		} else if value != prev {
			m.settings.SetUnpackPort(value)
		}
	case focusList:
		m.list, cmd = m.list.Update(msg)
	}
	return cmd
}

func (m *rootModel) setFocus(f focus) {
	m.focus = f
	m.cookie.Blur()
	m.port.Blur()
	switch f {
	case focusCookie:
		m.cookie.Focus()
	case focusPort:
		m.port.Focus()
	}
}

func (m *rootModel) refresh() {
	if err := m.ctrl.Refresh(m.cookie.Value()); err != nil {
		m.showError(err)
		return
	}
	m.notice = ""
}

// download saves the selected entry into the last save directory
func (m *rootModel) download() {
	item, ok := m.list.SelectedItem().(avatarItem)
	if !ok {
		return
	}

	port := strings.TrimSpace(m.port.Value())
	if m.autoUnpack && port != "" && !config.ValidatePort(port) {
		m.notice = m.localization.GetText(ui.KeyErrInvalidPort)
		m.noticeErr = true
		return
	}

	dir := m.settings.GetLastSaveDir()
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		m.showError(model.NewError(model.KindDownload, "prepare save directory", err))
		return
	}
	path := filepath.Join(dir, item.entry.DefaultFileName())

	err := m.ctrl.StartDownload(controller.DownloadRequest{
		Entry:      item.entry,
		Path:       path,
		RawCookie:  m.cookie.Value(),
		AutoUnpack: m.autoUnpack,
		UnpackPort: port,
	})
	if err != nil {
		m.showError(err)
		return
	}
	m.notice = m.localization.Format(ui.KeySavingTo, path)
	m.noticeErr = false
	m.logger.Info("download requested", "name", item.entry.Name, "path", path)
}

func (m *rootModel) showError(err error) {
	m.notice = m.localization.ErrorMessage(err)
	m.noticeErr = true
}

func (m *rootModel) onSnapshot(snap controller.Snapshot) {
	listed := snap.Generation != m.snap.Generation
	m.snap = snap
	if listed {
		m.list.SetItems(toItems(snap.Entries))
	}
}

func (m *rootModel) onNotice(n controller.Notice) {
	title, body := m.localization.NoticeMessage(n)
	if n.Kind == controller.NoticeListed {
		m.lastStatus = body
		m.notice = ""
		return
	}
	m.lastStatus = m.localization.GetText(ui.KeyReady)
	m.notice = title + ": " + strings.ReplaceAll(body, "\n\n", " · ")
	m.noticeErr = n.IsError()
	if m.noticeErr {
		m.logger.Warn("operation failed", "notice", n.Kind, "error", n.Err)
	}
}

func (m *rootModel) label(f focus, key string) string {
	text := m.localization.GetText(key)
	if m.focus == f {
		return focusStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (m *rootModel) View() string {
	check := "[ ]"
	if m.autoUnpack {
		check = "[x]"
	}

	inputs := lipgloss.JoinHorizontal(lipgloss.Top,
		m.label(focusCookie, ui.KeyCookie), " ", m.cookie.View(), "  ",
		m.label(focusPort, ui.KeyPort), " ", m.port.View(), "  ",
		check, " ", m.localization.GetText(ui.KeyAutoUnpack),
	)

	status, ok := m.localization.StatusTitle(m.snap)
	if !ok {
		status = m.lastStatus
	}

	percent := 0.0
	if m.snap.State == model.FlowDownloading && m.snap.Job.HasKnownSize() {
		percent = m.snap.Job.Fraction()
	}

	var b strings.Builder
	b.WriteString(headerBorder.Render(inputs))
	b.WriteString("\n")
	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(percent))
	b.WriteString("\n")
	if m.notice != "" {
		style := noticeStyle
		if m.noticeErr {
			style = errStyle
		}
		b.WriteString(style.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpText))
	return b.String()
}
