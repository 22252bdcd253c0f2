package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/vrca-downloader/internal/model"
)

// fixedWidth keeps a column at w regardless of its content
func fixedWidth(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
	return container.New(layout.NewGridWrapLayout(fyne.NewSize(w, obj.MinSize().Height)), obj)
}

// AvatarRow renders one entry: name, version, date and the action hint
type AvatarRow struct {
	widget.BaseWidget

	name    *widget.Label
	version *widget.Label
	date    *widget.Label
	action  *widget.Label
}

// NewAvatarRow creates an empty row for the list template
func NewAvatarRow(actionText string) *AvatarRow {
	row := &AvatarRow{
		name:    widget.NewLabel(""),
		version: widget.NewLabel(DashPlaceholder),
		date:    widget.NewLabel(DashPlaceholder),
		action:  widget.NewLabel(actionText),
	}
	row.name.Truncation = fyne.TextTruncateEllipsis
	row.version.Alignment = fyne.TextAlignCenter
	row.date.Alignment = fyne.TextAlignCenter
	row.action.Alignment = fyne.TextAlignCenter
	row.action.Importance = widget.LowImportance
	row.ExtendBaseWidget(row)
	return row
}

// SetEntry updates the row with entry
func (r *AvatarRow) SetEntry(entry model.AvatarEntry, actionText string) {
	r.name.SetText(entry.Name)
	r.version.SetText(entry.VersionLabel())
	r.date.SetText(entry.DisplayDate())
	r.action.SetText(actionText)
}

// CreateRenderer implements fyne.Widget
func (r *AvatarRow) CreateRenderer() fyne.WidgetRenderer {
	right := container.NewHBox(
		fixedWidth(VersionColumnW, r.version),
		fixedWidth(DateColumnW, r.date),
		fixedWidth(ActionColumnW, r.action),
	)
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, nil, right, r.name))
}

// newListHeader builds the column header; the name column toggles sorting
func newListHeader(nameBtn *widget.Button, l *Localization) fyne.CanvasObject {
	version := widget.NewLabelWithStyle(l.GetText(KeyColumnVersion), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	date := widget.NewLabelWithStyle(l.GetText(KeyColumnDate), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	action := widget.NewLabelWithStyle(l.GetText(KeyColumnAction), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	right := container.NewHBox(
		fixedWidth(VersionColumnW, version),
		fixedWidth(DateColumnW, date),
		fixedWidth(ActionColumnW, action),
	)
	return container.NewBorder(nil, nil, nil, right, container.NewHBox(nameBtn))
}
