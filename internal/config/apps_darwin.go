//go:build darwin

package config

// DefaultApps is the built-in catalog for this platform.
func DefaultApps() map[string][]string {
	return map[string][]string{
		"notepad":    {"/System/Applications/TextEdit.app", "TextEdit"},
		"calculator": {"/System/Applications/Calculator.app", "Calculator"},
		"chrome":     {"/Applications/Google Chrome.app", "Google Chrome"},
		"edge":       {"/Applications/Microsoft Edge.app", "Microsoft Edge"},
		"vlc":        {"/Applications/VLC.app", "VLC"},
		"code":       {"/Applications/Visual Studio Code.app", "code"},
	}
}
