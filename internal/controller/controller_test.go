package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/vrca-downloader/internal/download"
	"github.com/ytget/vrca-downloader/internal/logging"
	"github.com/ytget/vrca-downloader/internal/model"
)

type fakeLister struct {
	pages   []int
	records []model.RawFileRecord
	err     error
	cookie  string
}

func (f *fakeLister) ListFiles(_ context.Context, cookie string, progress func(offset int)) ([]model.RawFileRecord, error) {
	f.cookie = cookie
	for _, offset := range f.pages {
		progress(offset)
	}
	return f.records, f.err
}

type fakeDownloader struct {
	callback func(model.DownloadJob)
	requests []download.Request
	active   bool
	next     int
}

func (f *fakeDownloader) SetUpdateCallback(cb func(model.DownloadJob)) { f.callback = cb }

func (f *fakeDownloader) Active() bool { return f.active }

func (f *fakeDownloader) Start(req download.Request) (model.DownloadJob, error) {
	if f.active {
		return model.DownloadJob{}, model.ErrBusy
	}
	f.active = true
	f.requests = append(f.requests, req)
	f.next++
	return model.DownloadJob{
		ID:         "job-" + string(rune('0'+f.next)),
		Name:       req.Name,
		URL:        req.URL,
		Path:       req.Path,
		Status:     model.FlowDownloading,
		AutoUnpack: req.AutoUnpack,
		UnpackPort: req.UnpackPort,
	}, nil
}

// report publishes a job snapshot the way the real service does
func (f *fakeDownloader) report(job model.DownloadJob) {
	if job.Status != model.FlowDownloading {
		f.active = false
	}
	f.callback(job)
}

type fakeUnpacker struct {
	result model.UnpackResult
	calls  chan string
}

func (f *fakeUnpacker) Run(_ context.Context, filePath, port string) model.UnpackResult {
	f.calls <- filePath + "@" + port
	return f.result
}

type harness struct {
	ctrl     *Controller
	lister   *fakeLister
	dl       *fakeDownloader
	unpacker *fakeUnpacker
	notices  []Notice
	snaps    []Snapshot
}

func newHarness() *harness {
	h := &harness{
		lister:   &fakeLister{},
		dl:       &fakeDownloader{},
		unpacker: &fakeUnpacker{calls: make(chan string, 1), result: model.UnpackResult{State: model.FlowUnpackOk, OutputDir: "/tmp/Robot_v5", StatusCode: 200}},
	}
	h.ctrl = New(h.lister, h.dl, h.unpacker, logging.Discard())
	h.ctrl.OnNotice(func(n Notice) { h.notices = append(h.notices, n) })
	h.ctrl.Subscribe(func(s Snapshot) { h.snaps = append(h.snaps, s) })
	return h
}

// pumpUntil applies events on the test goroutine until one of kind arrives
func (h *harness) pumpUntil(t *testing.T, kind EventKind) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-h.ctrl.Events():
			h.ctrl.Apply(ev)
			if ev.Kind == kind {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", kind)
		}
	}
}

func (h *harness) lastNotice(t *testing.T) Notice {
	t.Helper()
	require.NotEmpty(t, h.notices)
	return h.notices[len(h.notices)-1]
}

func avatarRecord(name, created, url string) model.RawFileRecord {
	return model.RawFileRecord{
		Name:      name,
		Extension: model.AvatarExtension,
		Versions: []model.VersionRecord{
			{Version: 1, CreatedAt: created, File: &model.FileRef{URL: url}},
		},
	}
}

func TestRefresh_RequiresCookie(t *testing.T) {
	h := newHarness()

	err := h.ctrl.Refresh("   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotAuthenticated))
	assert.False(t, h.ctrl.Snapshot().Refreshing)
}

func TestRefresh_ReplacesEntries(t *testing.T) {
	h := newHarness()
	h.lister.pages = []int{0, 100}
	h.lister.records = []model.RawFileRecord{
		avatarRecord("Old", "2023-01-01T00:00:00Z", "https://files/old"),
		avatarRecord("New", "2024-06-01T00:00:00Z", "https://files/new"),
		{Name: "notes", Extension: ".txt"},
	}

	require.NoError(t, h.ctrl.Refresh("abc"))
	assert.True(t, h.ctrl.Snapshot().Refreshing)
	assert.Error(t, h.ctrl.Refresh("abc"), "second refresh while listing is refused")

	h.pumpUntil(t, EventListDone)

	assert.Equal(t, "auth=abc;", h.lister.cookie)
	snap := h.ctrl.Snapshot()
	assert.False(t, snap.Refreshing)
	assert.Equal(t, 100, snap.ListOffset)
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, "New", snap.Entries[0].Name)
	assert.Equal(t, "Old", snap.Entries[1].Name)

	n := h.lastNotice(t)
	assert.Equal(t, NoticeListed, n.Kind)
	assert.Equal(t, 2, n.Count)

	// a second listing replaces the list wholesale
	h.lister.pages = []int{0}
	h.lister.records = []model.RawFileRecord{avatarRecord("Only", "2024-01-01T00:00:00Z", "https://files/only")}
	require.NoError(t, h.ctrl.Refresh("auth=abc;"))
	h.pumpUntil(t, EventListDone)

	snap = h.ctrl.Snapshot()
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "Only", snap.Entries[0].Name)
}

func TestRefresh_FailureKeepsEntries(t *testing.T) {
	h := newHarness()
	h.lister.records = []model.RawFileRecord{avatarRecord("Keep", "2024-01-01T00:00:00Z", "https://files/keep")}
	require.NoError(t, h.ctrl.Refresh("abc"))
	h.pumpUntil(t, EventListDone)

	h.lister.records = nil
	h.lister.err = &model.Error{Kind: model.KindAuth, Op: "list files", Status: 401}
	require.NoError(t, h.ctrl.Refresh("abc"))
	h.pumpUntil(t, EventListDone)

	n := h.lastNotice(t)
	assert.Equal(t, NoticeListFailed, n.Kind)
	assert.True(t, n.IsError())
	assert.Equal(t, model.KindAuth, model.KindOf(n.Err))
	assert.Len(t, h.ctrl.Snapshot().Entries, 1)
	assert.False(t, h.ctrl.Snapshot().Refreshing)
}

func TestSnapshot_GenerationTracksListings(t *testing.T) {
	h := newHarness()
	h.lister.records = []model.RawFileRecord{avatarRecord("Robot", "2024-01-01T00:00:00Z", "https://files/robot")}
	assert.Zero(t, h.ctrl.Snapshot().Generation)

	require.NoError(t, h.ctrl.Refresh("abc"))
	h.pumpUntil(t, EventListDone)
	assert.Equal(t, uint64(1), h.ctrl.Snapshot().Generation)

	job := startDownload(t, h, false, "")
	job.Percent = 50
	h.dl.report(job)
	h.pumpUntil(t, EventDownload)
	assert.Equal(t, uint64(1), h.ctrl.Snapshot().Generation)

	h.lister.err = errors.New("offline")
	require.NoError(t, h.ctrl.Refresh("abc"))
	h.pumpUntil(t, EventListDone)
	assert.Equal(t, uint64(1), h.ctrl.Snapshot().Generation, "failed listing keeps entries")

	h.lister.err = nil
	require.NoError(t, h.ctrl.Refresh("abc"))
	h.pumpUntil(t, EventListDone)
	assert.Equal(t, uint64(2), h.ctrl.Snapshot().Generation)
}

func TestSnapshot_IsACopy(t *testing.T) {
	h := newHarness()
	h.lister.records = []model.RawFileRecord{avatarRecord("Robot", "2024-01-01T00:00:00Z", "https://files/robot")}
	require.NoError(t, h.ctrl.Refresh("abc"))
	h.pumpUntil(t, EventListDone)

	snap := h.ctrl.Snapshot()
	snap.Entries[0].Name = "changed"
	assert.Equal(t, "Robot", h.ctrl.Snapshot().Entries[0].Name)
}

func startDownload(t *testing.T, h *harness, autoUnpack bool, port string) model.DownloadJob {
	t.Helper()
	require.NoError(t, h.ctrl.StartDownload(DownloadRequest{
		Entry:      model.AvatarEntry{Name: "Robot", Version: 5, URL: "https://files/robot"},
		Path:       "/tmp/Robot_v5.vrca",
		RawCookie:  "abc",
		AutoUnpack: autoUnpack,
		UnpackPort: port,
	}))
	job := h.ctrl.Snapshot().Job
	assert.Equal(t, model.FlowDownloading, h.ctrl.Snapshot().State)
	return job
}

func TestStartDownload_WithoutUnpack(t *testing.T) {
	h := newHarness()
	job := startDownload(t, h, false, "")

	require.Len(t, h.dl.requests, 1)
	assert.Equal(t, "auth=abc;", h.dl.requests[0].Cookie)

	for _, pct := range []float64{48.5, 97.0} {
		job.Percent = pct
		h.dl.report(job)
		h.pumpUntil(t, EventDownload)
		assert.Equal(t, pct, h.ctrl.Snapshot().Job.Percent)
	}

	job.Status = model.FlowDownloaded
	job.Percent = 100
	h.dl.report(job)
	h.pumpUntil(t, EventDownload)

	snap := h.ctrl.Snapshot()
	assert.Equal(t, model.FlowDone, snap.State)
	assert.Equal(t, model.FlowDone, snap.Job.Status)
	assert.Equal(t, NoticeDownloaded, h.lastNotice(t).Kind)
	assert.Empty(t, h.unpacker.calls)
}

func TestStartDownload_RefusedWhileActive(t *testing.T) {
	h := newHarness()
	job := startDownload(t, h, false, "")

	err := h.ctrl.StartDownload(DownloadRequest{Entry: model.AvatarEntry{Name: "Other"}, Path: "/tmp/other.vrca"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrBusy))
	assert.Len(t, h.dl.requests, 1)
	assert.Equal(t, job.ID, h.ctrl.Snapshot().Job.ID)
	assert.True(t, h.ctrl.Snapshot().Busy())
}

func TestStartDownload_RequiresCookie(t *testing.T) {
	h := newHarness()

	for _, raw := range []string{"", "   ", "\t\n"} {
		err := h.ctrl.StartDownload(DownloadRequest{
			Entry:     model.AvatarEntry{Name: "Robot", Version: 5, URL: "https://files/robot"},
			Path:      "/tmp/Robot_v5.vrca",
			RawCookie: raw,
		})
		require.Error(t, err, "cookie %q", raw)
		assert.True(t, errors.Is(err, model.ErrNotAuthenticated), "cookie %q", raw)
	}
	assert.Empty(t, h.dl.requests)
	assert.Equal(t, model.FlowIdle, h.ctrl.Snapshot().State)
}

func TestStartDownload_NoPortNotice(t *testing.T) {
	h := newHarness()
	job := startDownload(t, h, true, "")

	job.Status = model.FlowDownloaded
	h.dl.report(job)
	h.pumpUntil(t, EventDownload)

	assert.Equal(t, model.FlowDone, h.ctrl.Snapshot().State)
	assert.Equal(t, NoticeNoPort, h.lastNotice(t).Kind)
	assert.Empty(t, h.unpacker.calls)
}

func TestStartDownload_UnpackOutcomes(t *testing.T) {
	tests := []struct {
		result model.UnpackResult
		state  model.FlowState
		notice NoticeKind
	}{
		{model.UnpackResult{State: model.FlowUnpackOk, StatusCode: 200}, model.FlowUnpackOk, NoticeUnpacked},
		{model.UnpackResult{State: model.FlowUnpackSkipped}, model.FlowUnpackSkipped, NoticeUnpackSkipped},
		{model.UnpackResult{State: model.FlowUnpackWarning, StatusCode: 500}, model.FlowUnpackWarning, NoticeUnpackWarning},
		{model.UnpackResult{State: model.FlowUnpackError, Err: errors.New("boom")}, model.FlowUnpackError, NoticeUnpackError},
	}

	for _, test := range tests {
		t.Run(test.state.String(), func(t *testing.T) {
			h := newHarness()
			h.unpacker.result = test.result
			job := startDownload(t, h, true, "56789")

			job.Status = model.FlowDownloaded
			h.dl.report(job)
			h.pumpUntil(t, EventDownload)

			assert.Equal(t, model.FlowUnpacking, h.ctrl.Snapshot().State)
			assert.True(t, h.ctrl.Snapshot().Busy())
			assert.Error(t, h.ctrl.StartDownload(DownloadRequest{Path: "/tmp/x.vrca"}), "refused while unpacking")

			h.pumpUntil(t, EventUnpackDone)
			assert.Equal(t, "/tmp/Robot_v5.vrca@56789", <-h.unpacker.calls)

			snap := h.ctrl.Snapshot()
			assert.Equal(t, test.state, snap.State)
			assert.False(t, snap.Busy())
			n := h.lastNotice(t)
			assert.Equal(t, test.notice, n.Kind)
			assert.Equal(t, test.result.StatusCode, n.Status)
		})
	}
}

func TestStartDownload_Failure(t *testing.T) {
	h := newHarness()
	job := startDownload(t, h, true, "56789")

	job.Status = model.FlowDownloadFailed
	job.Err = &model.Error{Kind: model.KindDownload, Status: 404}
	h.dl.report(job)
	h.pumpUntil(t, EventDownload)

	assert.Equal(t, model.FlowDownloadFailed, h.ctrl.Snapshot().State)
	n := h.lastNotice(t)
	assert.Equal(t, NoticeDownloadFailed, n.Kind)
	assert.Equal(t, model.KindDownload, model.KindOf(n.Err))
	assert.Empty(t, h.unpacker.calls)

	// a new job may start after a failure
	startDownload(t, h, false, "")
	assert.Len(t, h.dl.requests, 2)
}

func TestApply_DropsStaleJobEvents(t *testing.T) {
	h := newHarness()
	job := startDownload(t, h, false, "")

	h.ctrl.Apply(Event{Kind: EventDownload, Job: model.DownloadJob{ID: "job-stale", Status: model.FlowDownloadFailed}})

	assert.Equal(t, job.ID, h.ctrl.Snapshot().Job.ID)
	assert.Equal(t, model.FlowDownloading, h.ctrl.Snapshot().State)
	assert.Empty(t, h.notices)
}

func TestRun_PostsEventsInOrder(t *testing.T) {
	h := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	posted := make(chan func(), DefaultEventBuffer)
	go h.ctrl.Run(ctx, func(fn func()) { posted <- fn })

	h.ctrl.send(Event{Kind: EventListProgress, Offset: 0})
	h.ctrl.send(Event{Kind: EventListProgress, Offset: 100})
	h.ctrl.send(Event{Kind: EventListProgress, Offset: 200})

	for _, want := range []int{0, 100, 200} {
		select {
		case fn := <-posted:
			fn()
			assert.Equal(t, want, h.ctrl.Snapshot().ListOffset)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for posted event")
		}
	}
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "list_progress", EventListProgress.String())
	assert.Equal(t, "unpack_done", EventUnpackDone.String())
	assert.Equal(t, "unknown", EventKind(42).String())
}
