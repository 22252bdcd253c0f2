package model

import (
	"strings"
	"time"
)

// DownloadJob represents the single download (and optional unpack) in flight
type DownloadJob struct {
	ID         string
	Name       string    // avatar name
	URL        string    // version file URL
	Path       string    // local destination
	Status     FlowState
	Percent    float64   // 0 to 100, only meaningful when Total > 0
	Downloaded int64     // bytes written so far
	Total      int64     // content length, 0 if unknown
	AutoUnpack bool      // unpack opt-in captured at job start
	UnpackPort string    // unpack service port captured at job start
	Err        error     // last error if any
	StartedAt  time.Time // when download started
	FinishedAt time.Time // when download finished
}

// HasKnownSize reports whether progress can be computed
func (dj DownloadJob) HasKnownSize() bool {
	return dj.Total > 0
}

// Fraction returns progress as 0.0 to 1.0
func (dj DownloadJob) Fraction() float64 {
	if !dj.HasKnownSize() {
		return 0
	}
	return dj.Percent / 100
}

// GetDisplayTitle returns the avatar name, file name, or URL in order of preference
func (dj DownloadJob) GetDisplayTitle() string {
	if dj.Name != "" {
		return dj.Name
	}

	if dj.Path != "" {
		parts := strings.FieldsFunc(dj.Path, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return dj.URL
}

// UnpackResult is the outcome of handing a file to the unpack service
type UnpackResult struct {
	State      FlowState // one of the Unpack* terminal states
	OutputDir  string
	StatusCode int   // export response status, 0 if no response
	Err        error // cause for skipped and error outcomes
}
