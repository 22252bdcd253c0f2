package avatar

import (
	"sort"
	"strings"

	"github.com/ytget/vrca-downloader/internal/model"
)

// Select turns raw listing records into display entries: one per avatar
// file that has at least one version and whose latest version carries a
// download URL. The result is sorted newest first and never aliases the
// input.
func Select(records []model.RawFileRecord) []model.AvatarEntry {
	entries := make([]model.AvatarEntry, 0, len(records))
	for _, rec := range records {
		if rec.Extension != model.AvatarExtension || len(rec.Versions) == 0 {
			continue
		}

		latest := Latest(rec.Versions)
		url := latest.FileURL()
		if url == "" {
			continue
		}

		name := rec.Name
		if name == "" {
			name = model.UnknownName
		}
		entries = append(entries, model.AvatarEntry{
			Name:      name,
			Version:   latest.Version,
			CreatedAt: latest.CreatedAt,
			URL:       url,
		})
	}

	SortByCreated(entries)
	return entries
}

// Latest returns the version with the highest number. When several versions
// share the maximum, the last one in incoming order wins.
// versions must not be empty.
func Latest(versions []model.VersionRecord) model.VersionRecord {
	best := versions[0]
	for _, v := range versions[1:] {
		if v.Version >= best.Version {
			best = v
		}
	}
	return best
}

// SortByCreated orders entries by creation time, most recent first. Entries
// whose timestamp cannot be parsed go last, ordered among themselves by the
// raw value descending. Equal timestamps keep their relative order.
func SortByCreated(entries []model.AvatarEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return createdAfter(entries[i].CreatedAt, entries[j].CreatedAt)
	})
}

func createdAfter(a, b string) bool {
	ta, okA := model.ParseTimestamp(a)
	tb, okB := model.ParseTimestamp(b)
	switch {
	case okA && okB:
		return ta.After(tb)
	case okA != okB:
		return okA
	default:
		return a > b
	}
}

// SortByName returns a copy of entries ordered by name, case-insensitively
func SortByName(entries []model.AvatarEntry, descending bool) []model.AvatarEntry {
	out := make([]model.AvatarEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if descending {
			return a > b
		}
		return a < b
	})
	return out
}

// Filter returns the entries whose name matches query
func Filter(entries []model.AvatarEntry, query string) []model.AvatarEntry {
	out := make([]model.AvatarEntry, 0, len(entries))
	for _, e := range entries {
		if e.Matches(query) {
			out = append(out, e)
		}
	}
	return out
}
