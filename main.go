package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/vrca-downloader/internal/controller"
	"github.com/ytget/vrca-downloader/internal/download"
	"github.com/ytget/vrca-downloader/internal/logging"
	"github.com/ytget/vrca-downloader/internal/ui"
	"github.com/ytget/vrca-downloader/internal/unpack"
	"github.com/ytget/vrca-downloader/internal/vrchat"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

// logLevel can be raised at build time via -ldflags "-X main.logLevel=debug"
var logLevel = "info"

const (
	AppID   = "com.ytget.vrca-downloader"
	AppName = "VRChat VRCA Downloader"

	WindowWidth  = 1040
	WindowHeight = 700
)

func main() {
	logger := logging.New(os.Stderr, logLevel)
	logger.Info("starting", "app", AppName, "version", version)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// Initialize services
	httpClient := vrchat.NewHTTPClient()
	lister := vrchat.NewClient(vrchat.WithHTTPClient(httpClient), vrchat.WithLogger(logger))
	downloadSvc := download.NewService(httpClient, logger)
	unpackSvc := unpack.NewService(httpClient, logger)
	ctrl := controller.New(lister, downloadSvc, unpackSvc, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rootUI := ui.NewRootUI(myWindow, myApp, ctrl, logger)
	rootUI.Start(ctx)

	myWindow.ShowAndRun()
}
