package vrchat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/vrca-downloader/internal/logging"
	"github.com/ytget/vrca-downloader/internal/model"
)

// pagedServer serves pages of the given sizes in order and records offsets
type pagedServer struct {
	mu      sync.Mutex
	sizes   []int
	status  map[int]int // request index -> forced status
	offsets []int
	cookies []string
	agents  []string
}

func (ps *pagedServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ps.mu.Lock()
	idx := len(ps.offsets)
	offset, _ := strconv.Atoi(r.URL.Query().Get(OffsetParam))
	ps.offsets = append(ps.offsets, offset)
	ps.cookies = append(ps.cookies, r.Header.Get("Cookie"))
	ps.agents = append(ps.agents, r.Header.Get("User-Agent"))
	status, forced := ps.status[idx]
	ps.mu.Unlock()

	if forced {
		w.WriteHeader(status)
		return
	}

	size := 0
	if idx < len(ps.sizes) {
		size = ps.sizes[idx]
	}
	page := make([]model.RawFileRecord, size)
	for i := range page {
		page[i] = model.RawFileRecord{
			ID:        fmt.Sprintf("file_%d", offset+i),
			Name:      fmt.Sprintf("Avatar %d", offset+i),
			Extension: model.AvatarExtension,
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(page)
}

func newTestClient(url string) *Client {
	return NewClient(
		WithBaseURL(url),
		WithHTTPClient(http.DefaultClient),
		WithPageInterval(time.Millisecond),
		WithLogger(logging.Discard()),
	)
}

func TestListFiles_AccumulatesUntilEmptyPage(t *testing.T) {
	ps := &pagedServer{sizes: []int{100, 100, 37, 0}}
	srv := httptest.NewServer(ps)
	defer srv.Close()

	var reported []int
	records, err := newTestClient(srv.URL).ListFiles(context.Background(), "auth=abc;", func(offset int) {
		reported = append(reported, offset)
	})
	require.NoError(t, err)

	assert.Len(t, records, 237)
	assert.Equal(t, []int{0, 100, 200, 300}, ps.offsets)
	assert.Equal(t, []int{0, 100, 200, 300}, reported)
	assert.Equal(t, "file_236", records[236].ID)

	for i := range ps.cookies {
		assert.Equal(t, "auth=abc;", ps.cookies[i])
		assert.Equal(t, UserAgent, ps.agents[i])
	}
}

func TestListFiles_SendsPageSize(t *testing.T) {
	var gotN string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotN = r.URL.Query().Get(PageSizeParam)
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	records, err := newTestClient(srv.URL).ListFiles(context.Background(), "auth=abc;", nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, "100", gotN)
}

func TestListFiles_UnauthorizedAbortsImmediately(t *testing.T) {
	ps := &pagedServer{
		sizes:  []int{100, 100, 100, 0},
		status: map[int]int{1: http.StatusUnauthorized},
	}
	srv := httptest.NewServer(ps)
	defer srv.Close()

	records, err := newTestClient(srv.URL).ListFiles(context.Background(), "auth=expired;", nil)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, errors.Is(err, model.ErrAuth), "expected auth error, got %v", err)
	assert.Equal(t, []int{0, 100}, ps.offsets, "no requests after the 401")
}

func TestListFiles_ServerErrorIsNetworkError(t *testing.T) {
	ps := &pagedServer{status: map[int]int{0: http.StatusInternalServerError}}
	srv := httptest.NewServer(ps)
	defer srv.Close()

	_, err := newTestClient(srv.URL).ListFiles(context.Background(), "auth=abc;", nil)
	require.Error(t, err)
	assert.Equal(t, model.KindNetwork, model.KindOf(err))
	assert.Len(t, ps.offsets, 1)

	var typed *model.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, http.StatusInternalServerError, typed.Status)
}

func TestListFiles_TransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).ListFiles(context.Background(), "auth=abc;", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNetwork))
}

func TestListFiles_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).ListFiles(context.Background(), "auth=abc;", nil)
	require.Error(t, err)
	assert.Equal(t, model.KindNetwork, model.KindOf(err))
}

func TestListFiles_RequestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(
		WithBaseURL(srv.URL),
		WithHTTPClient(http.DefaultClient),
		WithRequestTimeout(50*time.Millisecond),
		WithLogger(logging.Discard()),
	)
	_, err := client.ListFiles(context.Background(), "auth=abc;", nil)
	require.Error(t, err)
	assert.Equal(t, model.KindNetwork, model.KindOf(err))
}

func TestListFiles_EmptyCookie(t *testing.T) {
	_, err := NewClient(WithLogger(logging.Discard())).ListFiles(context.Background(), "", nil)
	assert.True(t, errors.Is(err, model.ErrNotAuthenticated))
}
