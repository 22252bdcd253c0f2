package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"

	"github.com/ytget/vrca-downloader/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyUnpackPort  = "unpack_port"
	KeyAutoUnpack  = "auto_unpack"
	KeyLastSaveDir = "last_save_dir"
	KeyLanguage    = "app_language"
)

// Default values
const (
	DefaultUnpackPort = ""
	DefaultAutoUnpack = false
	DefaultLanguage   = "system"
	MaxPortLength     = 5
	MinPort           = 1
	MaxPort           = 65535
)

// Settings manages application configuration. The session cookie is
// deliberately absent: it lives only in memory.
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetUnpackPort returns the AssetRipper port, empty when unset
func (s *Settings) GetUnpackPort() string {
	return s.app.Preferences().StringWithFallback(KeyUnpackPort, DefaultUnpackPort)
}

// SetUnpackPort stores the port when it passes AcceptPortInput
func (s *Settings) SetUnpackPort(port string) bool {
	port = strings.TrimSpace(port)
	if !AcceptPortInput(port) {
		return false
	}
	s.app.Preferences().SetString(KeyUnpackPort, port)
	return true
}

// GetAutoUnpack returns whether downloads are forwarded to AssetRipper
func (s *Settings) GetAutoUnpack() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoUnpack, DefaultAutoUnpack)
}

// SetAutoUnpack sets whether downloads are forwarded to AssetRipper
func (s *Settings) SetAutoUnpack(enabled bool) {
	s.app.Preferences().SetBool(KeyAutoUnpack, enabled)
}

// GetLastSaveDir returns the directory of the last saved file
func (s *Settings) GetLastSaveDir() string {
	dir := s.app.Preferences().String(KeyLastSaveDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = filepath.Join(os.TempDir(), "vrca-downloads")
		}
		s.SetLastSaveDir(defaultDir)
		return defaultDir
	}
	return dir
}

// SetLastSaveDir sets the directory offered by the next save dialog
func (s *Settings) SetLastSaveDir(dir string) {
	s.app.Preferences().SetString(KeyLastSaveDir, dir)
}

// RememberSavePath stores the parent directory of path
func (s *Settings) RememberSavePath(path string) {
	if path == "" {
		return
	}
	s.SetLastSaveDir(filepath.Dir(path))
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"zh":     "简体中文",
	}
}

// AcceptPortInput reports whether text may stand in the port field while
// typing: empty, or up to five digits
func AcceptPortInput(text string) bool {
	if text == "" {
		return true
	}
	if len(text) > MaxPortLength {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidatePort reports whether port names a usable TCP port
func ValidatePort(port string) bool {
	port = strings.TrimSpace(port)
	if port == "" || !AcceptPortInput(port) {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= MinPort && n <= MaxPort
}
