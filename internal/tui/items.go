package tui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/ytget/vrca-downloader/internal/model"
)

type avatarItem struct {
	entry model.AvatarEntry
}

func (i avatarItem) Title() string { return i.entry.Name }
func (i avatarItem) Description() string {
	return i.entry.VersionLabel() + " · " + i.entry.DisplayDate()
}
func (i avatarItem) FilterValue() string { return i.entry.Name }

func toItems(entries []model.AvatarEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = avatarItem{entry: e}
	}
	return items
}
