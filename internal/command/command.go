// Package command turns a transcript into exactly one local action.
//
// Rules are evaluated in a fixed order and the first match wins:
// navigation phrases (substring match) before application names (whole
// utterance match). Anything else is Unmatched and goes to the assistant.
package command

import (
	"strings"
	"unicode"
)

// Utterance is a normalized transcript.
type Utterance string

// Normalize lower-cases the transcript and trims surrounding whitespace
// and terminal punctuation added by the recogniser. An app key that starts
// or ends with one of ".,!?" can therefore never match.
func Normalize(raw string) Utterance {
	trimmed := strings.TrimFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(".,!?", r)
	})
	return Utterance(strings.ToLower(trimmed))
}

func (u Utterance) Empty() bool { return u == "" }

type Action int

const (
	Unmatched Action = iota
	Navigate
	AppLaunch
)

func (a Action) String() string {
	switch a {
	case Navigate:
		return "navigate"
	case AppLaunch:
		return "app_launch"
	default:
		return "unmatched"
	}
}

type Command struct {
	Action Action
	Site   string // Navigate: display name, e.g. "Google"
	URL    string // Navigate
	App    string // AppLaunch: catalog key
}

// Site is a navigation rule: if the utterance contains Phrase, open URL.
type Site struct {
	Phrase string
	Name   string
	URL    string
}

// Sites are checked in order, before any application name.
var Sites = []Site{
	{Phrase: "open google", Name: "Google", URL: "https://www.google.com"},
	{Phrase: "open youtube", Name: "YouTube", URL: "https://www.youtube.com"},
}

// Apps is the part of the application catalog the classifier needs.
type Apps interface {
	Has(key string) bool
}

type Classifier struct {
	apps Apps
}

func NewClassifier(apps Apps) *Classifier {
	return &Classifier{apps: apps}
}

func (c *Classifier) Classify(u Utterance) Command {
	text := string(u)

	for _, s := range Sites {
		if strings.Contains(text, s.Phrase) {
			return Command{Action: Navigate, Site: s.Name, URL: s.URL}
		}
	}

	if text != "" && c.apps != nil && c.apps.Has(text) {
		return Command{Action: AppLaunch, App: text}
	}

	return Command{Action: Unmatched}
}
