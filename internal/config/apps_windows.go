//go:build windows

package config

// DefaultApps is the built-in catalog for this platform.
func DefaultApps() map[string][]string {
	return map[string][]string{
		"notepad":    {"notepad.exe"},
		"calculator": {"calc.exe"},
		"chrome": {
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			`${LOCALAPPDATA}\Google\Chrome\Application\chrome.exe`,
			"chrome.exe",
		},
		"edge": {
			`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
			`C:\Program Files\Microsoft\Edge\Application\msedge.exe`,
			"msedge.exe",
		},
		"vlc": {
			`C:\Program Files\VideoLAN\VLC\vlc.exe`,
			`C:\Program Files (x86)\VideoLAN\VLC\vlc.exe`,
			"vlc.exe",
		},
		"code": {
			`${LOCALAPPDATA}\Programs\Microsoft VS Code\Code.exe`,
			"code",
		},
	}
}
