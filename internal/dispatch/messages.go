package dispatch

import "fmt"

const (
	Greeting        = "Voice assistant started. Say a command..."
	Farewell        = "Voice assistant stopped."
	ListeningPrompt = "Listening..."
	TimeoutPrompt   = "Listening timed out. Please speak again."
	NoInputPrompt   = "I didn't catch that. Please speak again."
	ThinkingPrompt  = "Let me think..."
)

func microphoneError(err error) string { return fmt.Sprintf("Microphone error: %v", err) }
func speechError(err error) string     { return fmt.Sprintf("Speech error: %v", err) }
func opening(name string) string       { return "Opening " + name }
func opened(app string) string         { return app + " opened." }
func openFailed(app string) string     { return "Failed to open " + app + "." }
