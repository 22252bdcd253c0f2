package ui

import (
	"fmt"
	"os"
	"strings"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyCookie            = "cookie"
	KeyCookiePlaceholder = "cookie_placeholder"
	KeyFetch             = "fetch"
	KeySearch            = "search"
	KeyAutoUnpack        = "auto_unpack"
	KeyPort              = "port"
	KeyAbout             = "about"
	KeySettings          = "settings"
	KeyLanguage          = "language"
	KeySaveDirectory     = "save_directory"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeySettingsSaved     = "settings_saved"
	KeyColumnName        = "column_name"
	KeyColumnVersion     = "column_version"
	KeyColumnDate        = "column_date"
	KeyColumnAction      = "column_action"
	KeyActionDownload    = "action_download"
	KeySortByDate        = "sort_by_date"
	KeyRevealFile        = "reveal_file"
	KeyHint              = "hint"
	KeySavingTo          = "saving_to"
	KeyAboutText         = "about_text"

	KeyReady       = "ready"
	KeyConnecting  = "connecting"
	KeyFetchingAt  = "fetching_at"
	KeySyncDone    = "sync_done"
	KeyDownloading = "downloading"
	KeyUnpacking   = "unpacking"

	KeyTitleFetchFailed    = "title_fetch_failed"
	KeyTitleDownloadFailed = "title_download_failed"
	KeyTitleDownloaded     = "title_downloaded"
	KeyTitleUnpackError    = "title_unpack_error"
	KeyTitleBusy           = "title_busy"

	KeyErrNotAuthenticated = "err_not_authenticated"
	KeyErrAuth             = "err_auth"
	KeyErrNetwork          = "err_network"
	KeyErrDownload         = "err_download"
	KeyErrBusy             = "err_busy"
	KeyErrUnpack           = "err_unpack"
	KeyErrInvalidPort      = "err_invalid_port"
	KeyErrOpeningFile      = "err_opening_file"

	KeyMsgDownloaded    = "msg_downloaded"
	KeyMsgNoPort        = "msg_no_port"
	KeyMsgUnpacked      = "msg_unpacked"
	KeyMsgUnpackSkipped = "msg_unpack_skipped"
	KeyMsgUnpackWarning = "msg_unpack_warning"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = systemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// systemLanguage picks zh for Chinese locales and en otherwise
func systemLanguage() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(env); v != "" {
			if strings.HasPrefix(strings.ToLower(v), "zh") {
				return "zh"
			}
			return "en"
		}
	}
	return "en"
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// Format returns the localized text for key with args substituted
func (l *Localization) Format(key string, args ...any) string {
	return fmt.Sprintf(l.GetText(key), args...)
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"zh": "简体中文",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "VRChat VRCA Downloader",
		KeyCookie:            "Cookie:",
		KeyCookiePlaceholder: "auth_...",
		KeyFetch:             "Fetch avatars",
		KeySearch:            "Search:",
		KeyAutoUnpack:        "Unpack after download",
		KeyPort:              "Port:",
		KeyAbout:             "About",
		KeySettings:          "Settings",
		KeyLanguage:          "Language",
		KeySaveDirectory:     "Default save folder",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeySettingsSaved:     "Settings saved",
		KeyColumnName:        "Avatar",
		KeyColumnVersion:     "Version",
		KeyColumnDate:        "Updated",
		KeyColumnAction:      "Action",
		KeyActionDownload:    "[ Download ]",
		KeySortByDate:        "Newest first",
		KeyRevealFile:        "Show in folder",
		KeyHint:              "Select an avatar to download its .vrca file",
		KeySavingTo:          "Saving to: %s",
		KeyAboutText: "VRChat VRCA Downloader v1.2\n\n" +
			"Downloads the .vrca files of avatars you uploaded yourself.\n" +
			"All requests go through the public VRChat API; no server data is modified.\n\n" +
			"This tool does not bypass permissions, does not inject into or modify\n" +
			"the VRChat client, and never stores, uploads or shares your cookie.\n\n" +
			"AssetRipper: github.com/AssetRipper/AssetRipper",

		KeyReady:       "Ready",
		KeyConnecting:  "Connecting to VRChat...",
		KeyFetchingAt:  "Fetching files from offset %d...",
		KeySyncDone:    "Sync complete: %d avatars found",
		KeyDownloading: "Downloading: %s",
		KeyUnpacking:   "Sending unpack request to AssetRipper...",

		KeyTitleFetchFailed:    "Fetch failed",
		KeyTitleDownloadFailed: "Download failed",
		KeyTitleDownloaded:     "Download complete",
		KeyTitleUnpackError:    "Unpack error",
		KeyTitleBusy:           "Please wait",

		KeyErrNotAuthenticated: "Please enter a valid cookie (auth_...)",
		KeyErrAuth:             "The session was rejected. Paste a fresh cookie and try again.",
		KeyErrNetwork:          "Network error: %s",
		KeyErrDownload:         "Download error: %s",
		KeyErrBusy:             "A download is already in progress",
		KeyErrUnpack:           "AssetRipper request failed: %s",
		KeyErrInvalidPort:      "The port must be a number between 1 and 65535",
		KeyErrOpeningFile:      "Error opening folder",

		KeyMsgDownloaded:    "%s downloaded",
		KeyMsgNoPort:        "%s downloaded\n\nAssetRipper port is empty, automatic unpack skipped",
		KeyMsgUnpacked:      "%s downloaded\n\nUnpack request sent, output folder: %s",
		KeyMsgUnpackSkipped: "%s downloaded\n\nAssetRipper is not running, automatic unpack skipped",
		KeyMsgUnpackWarning: "%s downloaded\n\nUnpack request sent but AssetRipper answered %d, check its console",
	}

	// Simplified Chinese texts
	l.texts["zh"] = map[string]string{
		KeyAppTitle:          "VRChat VRCA Downloader",
		KeyCookie:            "Cookie:",
		KeyCookiePlaceholder: "auth_...",
		KeyFetch:             "获取模型",
		KeySearch:            "搜索:",
		KeyAutoUnpack:        "下载后自动解包",
		KeyPort:              "端口:",
		KeyAbout:             "关于软件",
		KeySettings:          "设置",
		KeyLanguage:          "语言",
		KeySaveDirectory:     "默认保存目录",
		KeySave:              "保存",
		KeyCancel:            "取消",
		KeyBrowse:            "浏览",
		KeySettingsSaved:     "设置已保存",
		KeyColumnName:        "模型名称",
		KeyColumnVersion:     "迭代版本",
		KeyColumnDate:        "最后更新",
		KeyColumnAction:      "操作",
		KeyActionDownload:    "[ 点击下载 ]",
		KeySortByDate:        "按时间排序",
		KeyRevealFile:        "打开所在文件夹",
		KeyHint:              "点击列表项即可下载对应模型 vrca 文件",
		KeySavingTo:          "保存至: %s",
		KeyAboutText: "VRChat VRCA Downloader v1.2\n\n" +
			"本工具为第三方辅助工具，仅用于个人账号模型资产的下载。\n" +
			"所有数据请求均通过 VRChat 官方公开 API 接口完成，不会修改服务器数据。\n\n" +
			"不提供任何形式的破解或绕过权限行为，不对 VRChat 客户端进行注入或篡改，\n" +
			"不存储、不上传、不分享用户的账号信息或 Cookie。\n\n" +
			"AssetRipper: github.com/AssetRipper/AssetRipper",

		KeyReady:       "准备就绪",
		KeyConnecting:  "正在连接 VRChat 服务器...",
		KeyFetchingAt:  "正在获取文件 (偏移 %d)...",
		KeySyncDone:    "同步完成: 找到 %d 个资源",
		KeyDownloading: "正在下载: %s",
		KeyUnpacking:   "正在向 AssetRipper 发送解包请求...",

		KeyTitleFetchFailed:    "获取失败",
		KeyTitleDownloadFailed: "下载失败",
		KeyTitleDownloaded:     "下载成功",
		KeyTitleUnpackError:    "解包错误",
		KeyTitleBusy:           "请稍候",

		KeyErrNotAuthenticated: "请输入有效的 Cookie (auth_...)",
		KeyErrAuth:             "Cookie 已失效, 请重新获取后再试",
		KeyErrNetwork:          "网络错误: %s",
		KeyErrDownload:         "下载错误: %s",
		KeyErrBusy:             "当前已有下载任务正在进行",
		KeyErrUnpack:           "AssetRipper 请求失败: %s",
		KeyErrInvalidPort:      "端口必须是 1-65535 之间的数字",
		KeyErrOpeningFile:      "无法打开文件夹",

		KeyMsgDownloaded:    "%s 下载完成",
		KeyMsgNoPort:        "%s 下载完成\n\nAssetRipper 软件端口未填写, 跳过自动解包",
		KeyMsgUnpacked:      "%s 下载完成\n\n自动解包请求已发送, 目录: %s",
		KeyMsgUnpackSkipped: "%s 下载完成\n\nAssetRipper 未运行, 跳过自动解包",
		KeyMsgUnpackWarning: "%s 下载完成\n\n解包指令已发送但响应异常(%d), 请检查 AssetRipper 控制台",
	}
}
