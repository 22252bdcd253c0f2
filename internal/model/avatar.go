package model

import (
	"strconv"
	"strings"
	"time"
)

// AvatarExtension is the file extension of avatar bundles on the remote service
const AvatarExtension = ".vrca"

// UnknownName is shown for records without a name
const UnknownName = "Unknown"

// Display formats
const (
	DisplayDateLayout = "2006-01-02 15:04"
	VersionPrefix     = "v"
)

// RawFileRecord is one file record as returned by the listing endpoint
type RawFileRecord struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Extension string          `json:"extension"`
	Versions  []VersionRecord `json:"versions"`
}

// VersionRecord is one uploaded version of a remote file
type VersionRecord struct {
	Version   int      `json:"version"`
	CreatedAt string   `json:"created_at"`
	File      *FileRef `json:"file,omitempty"`
}

// FileRef points at the downloadable body of a version
type FileRef struct {
	URL string `json:"url"`
}

// FileURL returns the version's file URL or "" when absent
func (v VersionRecord) FileURL() string {
	if v.File == nil {
		return ""
	}
	return v.File.URL
}

// AvatarEntry is the display-ready latest version of one remote avatar
type AvatarEntry struct {
	Name      string `json:"name"`
	Version   int    `json:"version"`
	CreatedAt string `json:"created_at"`
	URL       string `json:"url"`
}

// CreatedTime parses CreatedAt as RFC 3339 (or a bare date)
func (a AvatarEntry) CreatedTime() (time.Time, bool) {
	return ParseTimestamp(a.CreatedAt)
}

// VersionLabel returns the version formatted as "v5"
func (a AvatarEntry) VersionLabel() string {
	return VersionPrefix + strconv.Itoa(a.Version)
}

// DisplayDate returns the creation time in local time, or the raw value if it
// cannot be parsed
func (a AvatarEntry) DisplayDate() string {
	ts, ok := a.CreatedTime()
	if !ok {
		return a.CreatedAt
	}
	return ts.Local().Format(DisplayDateLayout)
}

// DefaultFileName suggests a local file name like "Name_v5.vrca"
func (a AvatarEntry) DefaultFileName() string {
	name := strings.TrimSpace(fileNameReplacer.Replace(a.Name))
	if name == "" {
		name = UnknownName
	}
	return name + "_" + a.VersionLabel() + AvatarExtension
}

// Matches reports whether the entry name contains query, ignoring case
func (a AvatarEntry) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Name), query)
}

var fileNameReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_",
)

// ParseTimestamp accepts RFC 3339 timestamps (with or without fractional
// seconds) and plain dates
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
