package ui

import (
	"errors"

	"github.com/ytget/vrca-downloader/internal/avatar"
	"github.com/ytget/vrca-downloader/internal/controller"
	"github.com/ytget/vrca-downloader/internal/model"
)

// SortMode selects the order of the visible list
type SortMode int

const (
	SortByDate SortMode = iota
	SortByNameAsc
	SortByNameDesc
)

// NextNameSort flips the name order, starting ascending
func (m SortMode) NextNameSort() SortMode {
	if m == SortByNameAsc {
		return SortByNameDesc
	}
	return SortByNameAsc
}

// VisibleEntries applies the search query and sort mode to entries
func VisibleEntries(entries []model.AvatarEntry, query string, mode SortMode) []model.AvatarEntry {
	out := avatar.Filter(entries, query)
	switch mode {
	case SortByNameAsc:
		return avatar.SortByName(out, false)
	case SortByNameDesc:
		return avatar.SortByName(out, true)
	}
	return out
}

// EntriesChanged reports whether next carries a different listing than prev
func EntriesChanged(prev, next controller.Snapshot) bool {
	return prev.Generation != next.Generation
}

// StatusTitle returns the status line for a running operation. ok is false
// when nothing is running and the last message should stay.
func (l *Localization) StatusTitle(snap controller.Snapshot) (string, bool) {
	switch {
	case snap.State == model.FlowDownloading:
		return l.Format(KeyDownloading, snap.Job.GetDisplayTitle()), true
	case snap.State == model.FlowUnpacking:
		return l.GetText(KeyUnpacking), true
	case snap.Refreshing && snap.ListOffset == 0:
		return l.GetText(KeyConnecting), true
	case snap.Refreshing:
		return l.Format(KeyFetchingAt, snap.ListOffset), true
	}
	return "", false
}

// ErrorMessage renders a typed error for the user
func (l *Localization) ErrorMessage(err error) string {
	var typed *model.Error
	if !errors.As(err, &typed) {
		if err == nil {
			return ""
		}
		return err.Error()
	}

	detail := typed.Error()
	if typed.Err != nil {
		detail = typed.Err.Error()
	}
	switch typed.Kind {
	case model.KindNotAuthenticated:
		return l.GetText(KeyErrNotAuthenticated)
	case model.KindAuth:
		return l.GetText(KeyErrAuth)
	case model.KindNetwork:
		return l.Format(KeyErrNetwork, detail)
	case model.KindDownload:
		return l.Format(KeyErrDownload, detail)
	case model.KindBusy:
		return l.GetText(KeyErrBusy)
	case model.KindUnpackError, model.KindUnpackSkipped, model.KindUnpackWarning:
		return l.Format(KeyErrUnpack, detail)
	}
	return detail
}

// ErrorTitle picks the dialog title for a command error
func (l *Localization) ErrorTitle(err error) string {
	switch model.KindOf(err) {
	case model.KindBusy:
		return l.GetText(KeyTitleBusy)
	case model.KindDownload:
		return l.GetText(KeyTitleDownloadFailed)
	}
	return l.GetText(KeyTitleFetchFailed)
}

// NoticeMessage renders a notice as a dialog title and body
func (l *Localization) NoticeMessage(n controller.Notice) (title, body string) {
	switch n.Kind {
	case controller.NoticeListed:
		return l.GetText(KeyAppTitle), l.Format(KeySyncDone, n.Count)
	case controller.NoticeListFailed:
		return l.GetText(KeyTitleFetchFailed), l.ErrorMessage(n.Err)
	case controller.NoticeDownloadFailed:
		return l.GetText(KeyTitleDownloadFailed), l.ErrorMessage(n.Err)
	case controller.NoticeDownloaded:
		return l.GetText(KeyTitleDownloaded), l.Format(KeyMsgDownloaded, n.Name)
	case controller.NoticeNoPort:
		return l.GetText(KeyTitleDownloaded), l.Format(KeyMsgNoPort, n.Name)
	case controller.NoticeUnpacked:
		return l.GetText(KeyTitleDownloaded), l.Format(KeyMsgUnpacked, n.Name, n.OutputDir)
	case controller.NoticeUnpackSkipped:
		return l.GetText(KeyTitleDownloaded), l.Format(KeyMsgUnpackSkipped, n.Name)
	case controller.NoticeUnpackWarning:
		return l.GetText(KeyTitleDownloaded), l.Format(KeyMsgUnpackWarning, n.Name, n.Status)
	}
	return l.GetText(KeyTitleUnpackError), l.ErrorMessage(n.Err)
}
