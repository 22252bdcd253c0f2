package controller

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ytget/vrca-downloader/internal/avatar"
	"github.com/ytget/vrca-downloader/internal/download"
	"github.com/ytget/vrca-downloader/internal/logging"
	"github.com/ytget/vrca-downloader/internal/model"
	"github.com/ytget/vrca-downloader/internal/unpack"
	"github.com/ytget/vrca-downloader/internal/vrchat"
)

// DefaultEventBuffer is the capacity of the events channel
const DefaultEventBuffer = 256

// Lister fetches the raw file records of the signed-in user
type Lister interface {
	ListFiles(ctx context.Context, cookie string, progress func(offset int)) ([]model.RawFileRecord, error)
}

// DownloadRequest is what a frontend submits to start a download
type DownloadRequest struct {
	Entry      model.AvatarEntry
	Path       string
	RawCookie  string
	AutoUnpack bool
	UnpackPort string
}

// Controller owns the application state
type Controller struct {
	lister     Lister
	downloader download.Downloader
	unpacker   unpack.Unpacker
	logger     *slog.Logger
	ctx        context.Context
	events     chan Event

	// interactive thread only
	entries     []model.AvatarEntry
	generation  uint64
	refreshing  bool
	listOffset  int
	job         model.DownloadJob
	state       model.FlowState
	subscribers []func(Snapshot)
	noticeFuncs []func(Notice)
}

// New creates a controller and registers itself for download updates
func New(lister Lister, downloader download.Downloader, unpacker unpack.Unpacker, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		lister:     lister,
		downloader: downloader,
		unpacker:   unpacker,
		logger:     logger,
		ctx:        context.Background(),
		events:     make(chan Event, DefaultEventBuffer),
		state:      model.FlowIdle,
	}
	downloader.SetUpdateCallback(func(job model.DownloadJob) {
		c.send(Event{Kind: EventDownload, Job: job})
	})
	return c
}

// Events returns the channel background work reports on
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Run hands every event to post until ctx ends. post must execute its
// argument on the interactive thread, in order.
func (c *Controller) Run(ctx context.Context, post func(func())) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.events:
			post(func() { c.Apply(ev) })
		}
	}
}

// Subscribe registers fn to be called with a fresh snapshot after every
// state change
func (c *Controller) Subscribe(fn func(Snapshot)) {
	c.subscribers = append(c.subscribers, fn)
}

// OnNotice registers fn to receive user-facing notifications
func (c *Controller) OnNotice(fn func(Notice)) {
	c.noticeFuncs = append(c.noticeFuncs, fn)
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	entries := make([]model.AvatarEntry, len(c.entries))
	copy(entries, c.entries)
	return Snapshot{
		Entries:    entries,
		Generation: c.generation,
		Refreshing: c.refreshing,
		ListOffset: c.listOffset,
		Job:        c.job,
		State:      c.state,
	}
}

// Refresh starts listing the user's files with rawCookie
func (c *Controller) Refresh(rawCookie string) error {
	cookie := vrchat.FormatCookie(rawCookie)
	if cookie == "" {
		return model.NewError(model.KindNotAuthenticated, "refresh", errors.New("no session cookie entered"))
	}
	if c.refreshing {
		return model.NewError(model.KindBusy, "refresh", errors.New("listing already in progress"))
	}

	c.refreshing = true
	c.listOffset = 0
	c.notify()

	c.logger.Info("listing started", "cookie", logging.MaskToken(cookie))
	go func() {
		records, err := c.lister.ListFiles(c.ctx, cookie, func(offset int) {
			c.send(Event{Kind: EventListProgress, Offset: offset})
		})
		if err != nil {
			c.send(Event{Kind: EventListDone, Err: err})
			return
		}
		c.send(Event{Kind: EventListDone, Entries: avatar.Select(records)})
	}()
	return nil
}

// StartDownload begins downloading req.Entry to req.Path. It is refused
// while another download or unpack step is running, and when the cookie
// normalizes to nothing.
func (c *Controller) StartDownload(req DownloadRequest) error {
	if c.state.IsActive() {
		return model.NewError(model.KindBusy, "start download", errors.New("a download is already in progress"))
	}
	cookie := vrchat.FormatCookie(req.RawCookie)
	if cookie == "" {
		return model.NewError(model.KindNotAuthenticated, "start download", errors.New("no session cookie entered"))
	}

	job, err := c.downloader.Start(download.Request{
		Name:       req.Entry.Name,
		URL:        req.Entry.URL,
		Cookie:     cookie,
		Path:       req.Path,
		AutoUnpack: req.AutoUnpack,
		UnpackPort: req.UnpackPort,
	})
	if err != nil {
		return err
	}

	c.job = job
	c.state = job.Status
	c.notify()
	return nil
}

// Apply folds one event into the state. Interactive thread only.
func (c *Controller) Apply(ev Event) {
	switch ev.Kind {
	case EventListProgress:
		c.listOffset = ev.Offset
	case EventListDone:
		c.applyListDone(ev)
	case EventDownload:
		if ev.Job.ID != c.job.ID {
			c.logger.Debug("stale download event dropped", "job", ev.Job.ID)
			return
		}
		c.applyDownload(ev.Job)
	case EventUnpackDone:
		if ev.Job.ID != c.job.ID {
			return
		}
		c.applyUnpack(ev.Unpack)
	}
	c.notify()
}

func (c *Controller) applyListDone(ev Event) {
	c.refreshing = false
	if ev.Err != nil {
		c.logger.Error("listing failed", "error", ev.Err)
		c.emit(Notice{Kind: NoticeListFailed, Err: ev.Err})
		return
	}
	c.entries = ev.Entries
	c.generation++
	c.logger.Info("listing applied", "entries", len(ev.Entries))
	c.emit(Notice{Kind: NoticeListed, Count: len(ev.Entries)})
}

func (c *Controller) applyDownload(job model.DownloadJob) {
	c.job = job
	c.state = job.Status

	switch job.Status {
	case model.FlowDownloadFailed:
		c.emit(Notice{Kind: NoticeDownloadFailed, Name: job.Name, Path: job.Path, Err: job.Err})
	case model.FlowDownloaded:
		c.afterDownload()
	}
}

// afterDownload decides whether the unpack step runs
func (c *Controller) afterDownload() {
	job := c.job
	switch {
	case !job.AutoUnpack:
		c.finish(model.FlowDone)
		c.emit(Notice{Kind: NoticeDownloaded, Name: job.Name, Path: job.Path})
	case job.UnpackPort == "":
		c.finish(model.FlowDone)
		c.emit(Notice{Kind: NoticeNoPort, Name: job.Name, Path: job.Path})
	default:
		c.finish(model.FlowUnpacking)
		go func() {
			result := c.unpacker.Run(c.ctx, job.Path, job.UnpackPort)
			c.send(Event{Kind: EventUnpackDone, Job: job, Unpack: result})
		}()
	}
}

func (c *Controller) applyUnpack(result model.UnpackResult) {
	c.finish(result.State)

	notice := Notice{
		Name:      c.job.Name,
		Path:      c.job.Path,
		OutputDir: result.OutputDir,
		Status:    result.StatusCode,
		Err:       result.Err,
	}
	switch result.State {
	case model.FlowUnpackOk:
		notice.Kind = NoticeUnpacked
	case model.FlowUnpackSkipped:
		notice.Kind = NoticeUnpackSkipped
	case model.FlowUnpackWarning:
		notice.Kind = NoticeUnpackWarning
	default:
		notice.Kind = NoticeUnpackError
	}
	c.emit(notice)
}

func (c *Controller) finish(state model.FlowState) {
	c.state = state
	c.job.Status = state
}

// send queues an event; safe from any goroutine
func (c *Controller) send(ev Event) {
	c.events <- ev
}

func (c *Controller) notify() {
	if len(c.subscribers) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, fn := range c.subscribers {
		fn(snap)
	}
}

func (c *Controller) emit(n Notice) {
	for _, fn := range c.noticeFuncs {
		fn(n)
	}
}
