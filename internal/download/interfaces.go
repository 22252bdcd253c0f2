package download

import (
	"github.com/ytget/vrca-downloader/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	// SetUpdateCallback receives job snapshots in the order they happen
	SetUpdateCallback(func(model.DownloadJob))

	// Start begins a background download, or fails with a KindBusy error
	// when another job is still running
	Start(req Request) (model.DownloadJob, error)

	// Active reports whether a job is in flight
	Active() bool
}
