package launcher

import (
	"io"
	log "log/slog"

	"github.com/pkg/browser"
)

func init() {
	// xdg-open and friends chatter on stdout; keep the console for the assistant.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Browser opens URLs in the user's default web browser.
type Browser struct {
	open func(string) error
}

func NewBrowser() *Browser {
	return &Browser{open: browser.OpenURL}
}

func (b *Browser) Navigate(url string) error {
	log.Info("Navigating", "url", url)
	return b.open(url)
}
