package controller

import (
	"github.com/ytget/vrca-downloader/internal/model"
)

// EventKind identifies what a background task is reporting
type EventKind int

const (
	// EventListProgress carries the offset of the page being requested
	EventListProgress EventKind = iota
	// EventListDone carries the selected entries or the listing error
	EventListDone
	// EventDownload carries a download job snapshot
	EventDownload
	// EventUnpackDone carries the outcome of the unpack step
	EventUnpackDone
)

// String returns the string representation of EventKind
func (k EventKind) String() string {
	switch k {
	case EventListProgress:
		return "list_progress"
	case EventListDone:
		return "list_done"
	case EventDownload:
		return "download"
	case EventUnpackDone:
		return "unpack_done"
	default:
		return "unknown"
	}
}

// Event is the only way background work talks to the controller
type Event struct {
	Kind    EventKind
	Offset  int
	Entries []model.AvatarEntry
	Job     model.DownloadJob
	Unpack  model.UnpackResult
	Err     error
}

// NoticeKind identifies a user-facing notification
type NoticeKind int

const (
	// NoticeListed means the listing finished; Count holds the entry count
	NoticeListed NoticeKind = iota
	// NoticeListFailed means the listing failed; Err holds the typed error
	NoticeListFailed
	// NoticeDownloadFailed means the download failed; Err holds the typed error
	NoticeDownloadFailed
	// NoticeDownloaded means the flow ended after the download
	NoticeDownloaded
	// NoticeNoPort means auto unpack was requested without a port
	NoticeNoPort
	// NoticeUnpacked means the export request was accepted
	NoticeUnpacked
	// NoticeUnpackSkipped means the unpack service was not running
	NoticeUnpackSkipped
	// NoticeUnpackWarning means the export answered with an unexpected Status
	NoticeUnpackWarning
	// NoticeUnpackError means the unpack step failed
	NoticeUnpackError
)

// Notice is delivered once per finished background operation. Message text
// is left to the frontend.
type Notice struct {
	Kind      NoticeKind
	Name      string
	Path      string
	OutputDir string
	Count     int
	Status    int
	Err       error
}

// IsError reports whether the notice should be shown as an error
func (n Notice) IsError() bool {
	switch n.Kind {
	case NoticeListFailed, NoticeDownloadFailed, NoticeUnpackError:
		return true
	}
	return false
}

// Snapshot is a read-only copy of the controller state
type Snapshot struct {
	Entries    []model.AvatarEntry
	Generation uint64 // bumped whenever a listing replaces Entries
	Refreshing bool
	ListOffset int
	Job        model.DownloadJob
	State      model.FlowState
}

// Busy reports whether a download or unpack step is running
func (s Snapshot) Busy() bool {
	return s.State.IsActive()
}
