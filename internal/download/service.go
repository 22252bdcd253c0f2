package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/vrca-downloader/internal/model"
	"github.com/ytget/vrca-downloader/internal/platform"
	"github.com/ytget/vrca-downloader/internal/vrchat"
)

// Download constants
const (
	ChunkSize                = 16 * 1024
	DefaultInactivityTimeout = 60 * time.Second
	TaskIDPrefix             = "job-"
	MaxPercent               = 100.0
)

// ProgressFunc receives bytes written, the declared total and the percentage
// after every chunk. It is only called when the total is known.
type ProgressFunc func(done, total int64, percent float64)

// Request describes one download to start
type Request struct {
	Name       string
	URL        string
	Cookie     string // already normalized
	Path       string
	AutoUnpack bool
	UnpackPort string
}

// Service handles download operations
type Service struct {
	httpClient *http.Client
	inactivity time.Duration
	logger     *slog.Logger
	freeSpace  func(dir string) (uint64, error)

	mu       sync.Mutex
	active   bool
	onUpdate func(model.DownloadJob) // callback for UI updates
}

// NewService creates a new download service
func NewService(httpClient *http.Client, logger *slog.Logger) *Service {
	if httpClient == nil {
		httpClient = vrchat.NewHTTPClient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		httpClient: httpClient,
		inactivity: DefaultInactivityTimeout,
		logger:     logger,
		freeSpace:  platform.FreeSpace,
	}
}

// SetInactivityTimeout changes how long the response headers or body may
// stall before the download is aborted
func (s *Service) SetInactivityTimeout(d time.Duration) {
	s.inactivity = d
}

// SetUpdateCallback sets the callback function for job updates
func (s *Service) SetUpdateCallback(callback func(model.DownloadJob)) {
	s.onUpdate = callback
}

// Active reports whether a job is in flight
func (s *Service) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Start launches a download in the background. Only one job may run at a
// time; a second call while one is active fails with a KindBusy error and
// leaves the running job untouched.
func (s *Service) Start(req Request) (model.DownloadJob, error) {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return model.DownloadJob{}, &model.Error{Kind: model.KindBusy, Op: "start download",
			Err: errors.New("a download is already in progress")}
	}
	s.active = true
	s.mu.Unlock()

	job := model.DownloadJob{
		ID:         generateTaskID(),
		Name:       req.Name,
		URL:        req.URL,
		Path:       req.Path,
		Status:     model.FlowDownloading,
		AutoUnpack: req.AutoUnpack,
		UnpackPort: req.UnpackPort,
		StartedAt:  time.Now(),
	}

	go s.run(job, req.Cookie)

	return job, nil
}

// run performs the job and publishes its snapshots
func (s *Service) run(job model.DownloadJob, cookie string) {
	s.notifyUpdate(job)

	s.logger.Info("download started", "job", job.ID, "name", job.Name, "path", job.Path)

	n, err := s.Fetch(context.Background(), job.URL, cookie, job.Path, func(done, total int64, percent float64) {
		job.Downloaded = done
		job.Total = total
		job.Percent = percent
		s.notifyUpdate(job)
	})

	job.Downloaded = n
	job.FinishedAt = time.Now()
	if err != nil {
		job.Status = model.FlowDownloadFailed
		job.Err = err
		s.logger.Error("download failed", "job", job.ID, "bytes", n, "error", err)
	} else {
		job.Status = model.FlowDownloaded
		if job.Total > 0 {
			job.Percent = MaxPercent
		}
		s.logger.Info("download finished", "job", job.ID, "bytes", n, "elapsed", job.FinishedAt.Sub(job.StartedAt))
	}

	s.mu.Lock()
	s.active = false
	s.mu.Unlock()

	s.notifyUpdate(job)
}

// Fetch streams url into dest. The destination is created or truncated;
// on failure whatever was written stays on disk. Returns bytes written.
func (s *Service) Fetch(ctx context.Context, url, cookie, dest string, progress ProgressFunc) (int64, error) {
	if err := platform.CheckWritableFile(dest); err != nil {
		return 0, model.NewError(model.KindDownload, "prepare destination", err)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	stall := s.armStallTimer(cancel)
	defer stall.stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, model.NewError(model.KindNetwork, "build request", err)
	}
	vrchat.SetHeaders(req, cookie)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, model.NewError(model.KindNetwork, "request file", s.withCause(ctx, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, ChunkSize))
		return 0, &model.Error{Kind: model.KindDownload, Op: "request file", Status: resp.StatusCode,
			Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}
	if total > 0 {
		if err := s.checkFreeSpace(dest, total); err != nil {
			return 0, err
		}
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, platform.DefaultFilePermissions)
	if err != nil {
		return 0, model.NewError(model.KindDownload, "open destination", err)
	}

	n, copyErr := copyChunks(out, resp.Body, total, stall.reset, progress)
	closeErr := out.Close()

	if copyErr != nil {
		var typed *model.Error
		if errors.As(copyErr, &typed) && typed.Kind == model.KindNetwork {
			typed.Err = s.withCause(ctx, typed.Err)
		}
		return n, copyErr
	}
	if closeErr != nil {
		return n, model.NewError(model.KindDownload, "close destination", closeErr)
	}
	return n, nil
}

// copyChunks reads src in ChunkSize pieces, writing each non-empty chunk to
// dst and reporting progress after it when total is known
func copyChunks(dst io.Writer, src io.Reader, total int64, kick func(), progress ProgressFunc) (int64, error) {
	buf := make([]byte, ChunkSize)
	var done int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if kick != nil {
				kick()
			}
			if _, err := dst.Write(buf[:n]); err != nil {
				return done, model.NewError(model.KindDownload, "write chunk", err)
			}
			done += int64(n)
			if total > 0 && progress != nil {
				percent := float64(done) / float64(total) * MaxPercent
				if percent > MaxPercent {
					percent = MaxPercent
				}
				progress(done, total, percent)
			}
		}
		if readErr == io.EOF {
			return done, nil
		}
		if readErr != nil {
			return done, model.NewError(model.KindNetwork, "read body", readErr)
		}
	}
}

// checkFreeSpace refuses downloads that cannot fit. A failing probe is
// logged and ignored.
func (s *Service) checkFreeSpace(dest string, total int64) error {
	if s.freeSpace == nil {
		return nil
	}
	free, err := s.freeSpace(filepath.Dir(dest))
	if err != nil {
		s.logger.Warn("free space probe failed", "path", dest, "error", err)
		return nil
	}
	if free < uint64(total) {
		return model.NewError(model.KindDownload, "check free space",
			fmt.Errorf("need %d bytes, %d available", total, free))
	}
	return nil
}

// stallTimer cancels a download once no data arrived for the inactivity
// window. A zero window disables it.
type stallTimer struct {
	timer  *time.Timer
	window time.Duration
}

func (s *Service) armStallTimer(cancel context.CancelCauseFunc) stallTimer {
	if s.inactivity <= 0 {
		return stallTimer{}
	}
	return stallTimer{
		timer:  time.AfterFunc(s.inactivity, func() { cancel(os.ErrDeadlineExceeded) }),
		window: s.inactivity,
	}
}

func (t stallTimer) reset() {
	if t.timer != nil {
		t.timer.Reset(t.window)
	}
}

func (t stallTimer) stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}

// withCause replaces a bare context error by the stall reason
func (s *Service) withCause(ctx context.Context, err error) error {
	if cause := context.Cause(ctx); cause != nil && errors.Is(cause, os.ErrDeadlineExceeded) {
		return fmt.Errorf("no data received for %s: %w", s.inactivity, cause)
	}
	return err
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(job model.DownloadJob) {
	if s.onUpdate != nil {
		s.onUpdate(job)
	}
}

// generateTaskID generates a unique job ID using UUID v7 for time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
