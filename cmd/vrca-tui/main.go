package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ytget/vrca-downloader/internal/config"
	"github.com/ytget/vrca-downloader/internal/controller"
	"github.com/ytget/vrca-downloader/internal/download"
	"github.com/ytget/vrca-downloader/internal/logging"
	"github.com/ytget/vrca-downloader/internal/tui"
	"github.com/ytget/vrca-downloader/internal/unpack"
	"github.com/ytget/vrca-downloader/internal/vrchat"
)

// AppID shares preferences with the desktop build
const AppID = "com.ytget.vrca-downloader"

func main() {
	logger, closeLog := logging.NewFile("info")
	defer func() { _ = closeLog() }()

	// preferences only, no window is ever opened
	prefsApp := app.NewWithID(AppID)
	settings := config.NewSettings(prefsApp)

	httpClient := vrchat.NewHTTPClient()
	lister := vrchat.NewClient(vrchat.WithHTTPClient(httpClient), vrchat.WithLogger(logger))
	ctrl := controller.New(lister, download.NewService(httpClient, logger), unpack.NewService(httpClient, logger), logger)

	p := tea.NewProgram(tui.NewRootModel(ctrl, settings, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
