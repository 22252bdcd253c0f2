package ui

import (
	"context"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/vrca-downloader/internal/config"
	"github.com/ytget/vrca-downloader/internal/controller"
	"github.com/ytget/vrca-downloader/internal/model"
	"github.com/ytget/vrca-downloader/internal/platform"
)

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	ctrl         *controller.Controller
	settings     *config.Settings
	localization *Localization
	logger       *slog.Logger

	cookieEntry     *widget.Entry
	refreshBtn      *widget.Button
	searchEntry     *widget.Entry
	autoUnpackCheck *widget.Check
	portEntry       *widget.Entry
	nameSortBtn     *widget.Button
	revealBtn       *widget.Button
	avatarList      *widget.List
	statusTitle     *widget.Label
	progress        *widget.ProgressBar
	statusPath      *widget.Label

	// view state, interactive thread only
	snap       controller.Snapshot
	visible    []model.AvatarEntry
	query      string
	sortMode   SortMode
	portText   string
	lastStatus string
	savePath   string
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, ctrl *controller.Controller, logger *slog.Logger) *RootUI {
	if logger == nil {
		logger = slog.Default()
	}

	settings := config.NewSettings(app)

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		ctrl:         ctrl,
		settings:     settings,
		localization: localization,
		logger:       logger,
		snap:         ctrl.Snapshot(),
		portText:     settings.GetUnpackPort(),
	}
	ui.lastStatus = localization.GetText(KeyReady)

	ctrl.Subscribe(ui.render)
	ctrl.OnNotice(ui.onNotice)

	ui.setupUI()
	return ui
}

// Start pumps controller events onto the Fyne thread until ctx ends
func (ui *RootUI) Start(ctx context.Context) {
	go ui.ctrl.Run(ctx, fyne.Do)
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	l := ui.localization
	ui.window.SetTitle(l.GetText(KeyAppTitle))
	ui.createMenu()

	cookieText := ""
	if ui.cookieEntry != nil {
		cookieText = ui.cookieEntry.Text
	}
	ui.cookieEntry = widget.NewPasswordEntry()
	ui.cookieEntry.SetPlaceHolder(l.GetText(KeyCookiePlaceholder))
	ui.cookieEntry.SetText(cookieText)
	ui.cookieEntry.OnSubmitted = func(string) { ui.onRefreshClick() }

	ui.refreshBtn = widget.NewButton(l.GetText(KeyFetch), ui.onRefreshClick)
	ui.refreshBtn.Importance = widget.HighImportance

	ui.searchEntry = widget.NewEntry()
	ui.searchEntry.SetText(ui.query)
	ui.searchEntry.OnChanged = func(text string) {
		ui.query = text
		ui.refreshList()
	}

	ui.autoUnpackCheck = widget.NewCheck(l.GetText(KeyAutoUnpack), ui.settings.SetAutoUnpack)
	ui.autoUnpackCheck.SetChecked(ui.settings.GetAutoUnpack())

	ui.portEntry = widget.NewEntry()
	ui.portEntry.SetText(ui.portText)
	ui.portEntry.OnChanged = ui.onPortChanged

	aboutBtn := widget.NewButton(l.GetText(KeyAbout), ui.onShowAbout)
	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	topPanel := container.NewHBox(
		widget.NewLabel(l.GetText(KeyCookie)),
		fixedWidth(CookieEntryWidth, ui.cookieEntry),
		ui.refreshBtn,
		widget.NewSeparator(),
		widget.NewLabel(l.GetText(KeySearch)),
		fixedWidth(SearchEntryWidth, ui.searchEntry),
		widget.NewSeparator(),
		ui.autoUnpackCheck,
		widget.NewLabel(l.GetText(KeyPort)),
		fixedWidth(PortEntryWidth, ui.portEntry),
		aboutBtn,
		settingsBtn,
	)

	ui.nameSortBtn = widget.NewButton("", ui.onNameSort)
	ui.nameSortBtn.Importance = widget.LowImportance
	dateSortBtn := widget.NewButton(IconSortClock+" "+l.GetText(KeySortByDate), ui.onDateSort)
	dateSortBtn.Importance = widget.LowImportance
	header := container.NewBorder(nil, nil, nil, dateSortBtn, newListHeader(ui.nameSortBtn, l))

	ui.avatarList = widget.NewList(
		func() int {
			return len(ui.visible)
		},
		func() fyne.CanvasObject {
			return NewAvatarRow(l.GetText(KeyActionDownload))
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id >= len(ui.visible) {
				return
			}
			if row, ok := item.(*AvatarRow); ok {
				row.SetEntry(ui.visible[id], l.GetText(KeyActionDownload))
			}
		},
	)
	ui.avatarList.OnSelected = ui.onEntrySelected

	ui.statusTitle = widget.NewLabelWithStyle(ui.lastStatus, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	ui.progress = widget.NewProgressBar()
	ui.progress.Max = 100
	ui.statusPath = widget.NewLabel(l.GetText(KeyHint))
	ui.statusPath.Importance = widget.LowImportance
	if ui.savePath != "" {
		ui.statusPath.SetText(l.Format(KeySavingTo, ui.savePath))
	}
	ui.revealBtn = widget.NewButton(IconFolder+" "+l.GetText(KeyRevealFile), ui.onRevealFile)
	credit := widget.NewLabel(AuthorCredit)
	credit.Importance = widget.LowImportance

	statusBar := container.NewVBox(
		ui.statusTitle,
		ui.progress,
		container.NewBorder(nil, nil, nil, container.NewHBox(ui.revealBtn, credit), ui.statusPath),
	)

	content := container.NewBorder(
		container.NewVBox(topPanel, widget.NewSeparator(), header),
		statusBar,
		nil, nil,
		ui.avatarList,
	)
	ui.window.SetContent(container.NewPadded(content))

	ui.render(ui.snap)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)
	aboutItem := fyne.NewMenuItem(ui.localization.GetText(KeyAbout), ui.onShowAbout)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyAppTitle), settingsItem, aboutItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.settings.SetLanguage(langCode)
	ui.applyLanguage()
}

// applyLanguage rebuilds every widget with the stored language
func (ui *RootUI) applyLanguage() {
	ui.localization.SetLanguage(ui.settings.GetLanguage())
	ui.lastStatus = ui.localization.GetText(KeyReady)
	ui.setupUI()
}

// render reflects a controller snapshot in the widgets
func (ui *RootUI) render(snap controller.Snapshot) {
	changed := EntriesChanged(ui.snap, snap)
	ui.snap = snap
	if changed {
		ui.refreshList()
	}

	if snap.Refreshing {
		ui.refreshBtn.Disable()
	} else {
		ui.refreshBtn.Enable()
	}

	switch {
	case snap.State == model.FlowDownloading && snap.Job.HasKnownSize():
		ui.progress.SetValue(snap.Job.Percent)
	case !snap.Busy():
		ui.progress.SetValue(0)
	}

	if title, ok := ui.localization.StatusTitle(snap); ok {
		ui.statusTitle.SetText(title)
	} else {
		ui.statusTitle.SetText(ui.lastStatus)
	}

	if snap.Job.Path != "" && snap.State.IsFinished() && snap.State != model.FlowDownloadFailed {
		ui.revealBtn.Enable()
	} else {
		ui.revealBtn.Disable()
	}
}

// refreshList recomputes the visible entries
func (ui *RootUI) refreshList() {
	ui.visible = VisibleEntries(ui.snap.Entries, ui.query, ui.sortMode)

	arrow := ""
	switch ui.sortMode {
	case SortByNameAsc:
		arrow = " " + IconSortAsc
	case SortByNameDesc:
		arrow = " " + IconSortDesc
	}
	ui.nameSortBtn.SetText(ui.localization.GetText(KeyColumnName) + arrow)
	ui.avatarList.Refresh()
}

// onNotice shows the outcome of a background operation
func (ui *RootUI) onNotice(n controller.Notice) {
	title, body := ui.localization.NoticeMessage(n)
	if n.Kind == controller.NoticeListed {
		ui.lastStatus = body
		ui.statusTitle.SetText(body)
		return
	}

	ui.lastStatus = ui.localization.GetText(KeyReady)
	ui.statusTitle.SetText(ui.lastStatus)
	if n.IsError() {
		ui.logger.Warn("operation failed", "notice", n.Kind, "error", n.Err)
	}
	dialog.ShowInformation(title, body, ui.window)
}

// showError reports a refused command
func (ui *RootUI) showError(err error) {
	dialog.ShowInformation(ui.localization.ErrorTitle(err), ui.localization.ErrorMessage(err), ui.window)
}

// onRefreshClick handles the fetch button
func (ui *RootUI) onRefreshClick() {
	if err := ui.ctrl.Refresh(ui.cookieEntry.Text); err != nil {
		ui.showError(err)
	}
}

// onPortChanged keeps the port field numeric and at most five digits
func (ui *RootUI) onPortChanged(text string) {
	if !config.AcceptPortInput(text) {
		ui.portEntry.SetText(ui.portText)
		return
	}
	ui.portText = text
	ui.settings.SetUnpackPort(text)
}

func (ui *RootUI) onNameSort() {
	ui.sortMode = ui.sortMode.NextNameSort()
	ui.refreshList()
}

func (ui *RootUI) onDateSort() {
	ui.sortMode = SortByDate
	ui.refreshList()
}

// onEntrySelected asks where to save the chosen avatar
func (ui *RootUI) onEntrySelected(id widget.ListItemID) {
	ui.avatarList.UnselectAll()
	if id < 0 || id >= len(ui.visible) {
		return
	}
	entry := ui.visible[id]

	if ui.snap.Busy() {
		ui.showError(model.ErrBusy)
		return
	}

	port := strings.TrimSpace(ui.portEntry.Text)
	if ui.autoUnpackCheck.Checked && port != "" && !config.ValidatePort(port) {
		dialog.ShowInformation(ui.localization.GetText(KeyAppTitle), ui.localization.GetText(KeyErrInvalidPort), ui.window)
		return
	}

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			ui.showError(err)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		_ = writer.Close()
		ui.startDownload(entry, path, port)
	}, ui.window)
	save.SetFileName(entry.DefaultFileName())
	save.SetFilter(storage.NewExtensionFileFilter([]string{model.AvatarExtension}))
	if dir, err := storage.ListerForURI(storage.NewFileURI(ui.settings.GetLastSaveDir())); err == nil {
		save.SetLocation(dir)
	}
	save.Show()
}

// startDownload submits the download to the controller
func (ui *RootUI) startDownload(entry model.AvatarEntry, path, port string) {
	ui.settings.RememberSavePath(path)
	ui.savePath = path
	ui.statusPath.SetText(ui.localization.Format(KeySavingTo, path))

	err := ui.ctrl.StartDownload(controller.DownloadRequest{
		Entry:      entry,
		Path:       path,
		RawCookie:  ui.cookieEntry.Text,
		AutoUnpack: ui.autoUnpackCheck.Checked,
		UnpackPort: port,
	})
	if err != nil {
		ui.showError(err)
		return
	}
	ui.logger.Info("download requested", "name", entry.Name, "version", entry.Version, "path", path)
}

// onRevealFile shows the last downloaded file in the system file manager
func (ui *RootUI) onRevealFile() {
	path := ui.snap.Job.Path
	if path == "" {
		return
	}
	if err := platform.OpenFileInManager(path); err != nil {
		ui.logger.Error("reveal failed", "path", path, "error", err)
		dialog.ShowInformation(ui.localization.GetText(KeyErrOpeningFile), err.Error(), ui.window)
	}
}

func (ui *RootUI) onShowAbout() {
	text := widget.NewLabel(ui.localization.GetText(KeyAboutText))
	text.Wrapping = fyne.TextWrapWord
	d := dialog.NewCustom(ui.localization.GetText(KeyAbout), "OK", container.NewVScroll(text), ui.window)
	d.Resize(fyne.NewSize(AboutDialogWidth, AboutDialogHeight))
	d.Show()
}

func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, ui.applyLanguage).Show()
}
