package dispatch

import "fmt"

// Kind tags the result of one listening cycle.
type Kind int

const (
	NoInput Kind = iota
	Navigated
	Launched
	Delegated
	RecognitionFailed
	MicrophoneFailed
)

var kindNames = map[Kind]string{
	NoInput:           "no_input",
	Navigated:         "navigated",
	Launched:          "launched",
	Delegated:         "delegated",
	RecognitionFailed: "recognition_failed",
	MicrophoneFailed:  "microphone_failed",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Outcome describes what a cycle did and the last thing it said.
type Outcome struct {
	Kind      Kind   `json:"kind"`
	Utterance string `json:"utterance,omitempty"`

	URL string `json:"url,omitempty"` // Navigated

	App     string `json:"app,omitempty"` // Launched
	Target  string `json:"target,omitempty"`
	Success bool   `json:"success,omitempty"`

	Answer string `json:"answer,omitempty"` // Delegated

	Reason string `json:"reason,omitempty"` // failures
	Reply  string `json:"reply"`
}
