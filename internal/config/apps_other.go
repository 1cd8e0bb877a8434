//go:build !windows && !darwin

package config

// DefaultApps is the built-in catalog for this platform.
func DefaultApps() map[string][]string {
	return map[string][]string{
		"notepad":    {"gnome-text-editor", "gedit", "kate", "mousepad"},
		"calculator": {"gnome-calculator", "kcalc", "galculator"},
		"chrome":     {"/opt/google/chrome/chrome", "google-chrome", "chromium", "chromium-browser"},
		"edge":       {"/opt/microsoft/msedge/msedge", "microsoft-edge"},
		"vlc":        {"/usr/bin/vlc", "vlc"},
		"code":       {"/usr/share/code/code", "code"},
	}
}
