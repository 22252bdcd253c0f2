package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings  = "⚙"
	IconFolder    = "📁"
	IconSortAsc   = "▲"
	IconSortDesc  = "▼"
	IconSortClock = "🕒"
)

// Text fragments
const (
	DashPlaceholder = "—"
	AuthorCredit    = "By: PuddingKC"
)

// Layout sizing (avatar list)
const (
	CookieEntryWidth  float32 = 320
	SearchEntryWidth  float32 = 200
	PortEntryWidth    float32 = 72
	VersionColumnW    float32 = 80
	DateColumnW       float32 = 150
	ActionColumnW     float32 = 120
	SettingsDialogW   float32 = 480
	SettingsDialogH   float32 = 260
	AboutDialogWidth  float32 = 520
	AboutDialogHeight float32 = 380
)
