package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/vrca-downloader/internal/config"
	"github.com/ytget/vrca-downloader/internal/controller"
	"github.com/ytget/vrca-downloader/internal/download"
	"github.com/ytget/vrca-downloader/internal/logging"
	"github.com/ytget/vrca-downloader/internal/model"
)

type stubLister struct {
	records []model.RawFileRecord
}

func (s *stubLister) ListFiles(_ context.Context, _ string, progress func(int)) ([]model.RawFileRecord, error) {
	progress(0)
	return s.records, nil
}

type stubDownloader struct {
	requests []download.Request
}

func (s *stubDownloader) SetUpdateCallback(func(model.DownloadJob)) {}
func (s *stubDownloader) Active() bool                              { return false }
func (s *stubDownloader) Start(req download.Request) (model.DownloadJob, error) {
	s.requests = append(s.requests, req)
	return model.DownloadJob{ID: "job-1", Name: req.Name, Path: req.Path, Status: model.FlowDownloading}, nil
}

type stubUnpacker struct{}

func (stubUnpacker) Run(context.Context, string, string) model.UnpackResult {
	return model.UnpackResult{State: model.FlowUnpackOk}
}

func newTestModel(t *testing.T) (*rootModel, *stubDownloader, *config.Settings) {
	t.Helper()
	settings := config.NewSettings(test.NewApp())
	settings.SetLastSaveDir(t.TempDir())
	settings.SetLanguage("en")

	lister := &stubLister{records: []model.RawFileRecord{{
		Name:      "Robot",
		Extension: model.AvatarExtension,
		Versions:  []model.VersionRecord{{Version: 5, CreatedAt: "2024-06-01T00:00:00Z", File: &model.FileRef{URL: "https://files/robot"}}},
	}}}
	dl := &stubDownloader{}
	ctrl := controller.New(lister, dl, stubUnpacker{}, logging.Discard())

	m, ok := NewRootModel(ctrl, settings, logging.Discard()).(*rootModel)
	require.True(t, ok)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, dl, settings
}

func typeText(m *rootModel, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// pump applies controller events until the listing is done
func pump(t *testing.T, m *rootModel) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-m.ctrl.Events():
			m.Update(eventMsg(ev))
			if ev.Kind == controller.EventListDone {
				return
			}
		case <-timeout:
			t.Fatal("timed out waiting for the listing")
		}
	}
}

func TestRefreshWithoutCookieShowsError(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.noticeErr)
	assert.Contains(t, m.notice, "cookie")
	assert.False(t, m.snap.Refreshing)
}

func TestRefreshFillsListAndDownloadUsesSaveDir(t *testing.T) {
	m, dl, settings := newTestModel(t)

	typeText(m, "abc")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.snap.Refreshing)
	pump(t, m)

	require.Len(t, m.list.Items(), 1)
	assert.Contains(t, m.lastStatus, "1 avatars")

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusList, m.focus)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, dl.requests, 1)
	req := dl.requests[0]
	assert.Equal(t, "auth=abc;", req.Cookie)
	assert.Equal(t, filepath.Join(settings.GetLastSaveDir(), "Robot_v5.vrca"), req.Path)
	assert.Equal(t, model.FlowDownloading, m.snap.State)
	assert.True(t, strings.Contains(m.View(), "Downloading: Robot"))
}

func TestPortInputRejectsNonDigits(t *testing.T) {
	m, _, settings := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusPort, m.focus)

	typeText(m, "56a789")
	assert.Equal(t, "56789", m.port.Value())
	assert.Equal(t, "56789", settings.GetUnpackPort())
}

func TestToggleAutoUnpack(t *testing.T) {
	m, _, settings := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	assert.True(t, m.autoUnpack)
	assert.True(t, settings.GetAutoUnpack())
	assert.Contains(t, m.View(), "[x]")
}

func TestQuitKeys(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
