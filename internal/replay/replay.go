// Package replay feeds recorded audio files to the dispatch loop in place of
// a live microphone, one file per listening cycle.
package replay

import (
	"fmt"
	log "log/slog"
	"time"

	"voxassist/internal/speech"
	"voxassist/pkg/audioconv"
)

type Source struct {
	files []string
	next  int
}

func New(files []string) *Source {
	return &Source{files: append([]string(nil), files...)}
}

// Open returns speech.ErrExhausted once every file has been played.
func (s *Source) Open() (speech.Capture, error) {
	if s.next >= len(s.files) {
		return nil, speech.ErrExhausted
	}

	path := s.files[s.next]
	s.next++

	log.Debug("Replaying", "file", path)
	return &capture{path: path}, nil
}

type capture struct {
	path string
}

func (c *capture) Calibrate(time.Duration) error { return nil }

// Record decodes the whole file. An empty recording counts as silence and
// yields speech.ErrWaitTimeout, like a live microphone would.
func (c *capture) Record(_, phraseLimit time.Duration) ([]float32, error) {
	pcm, err := audioconv.DecodeFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", speech.ErrMicrophone, err)
	}
	if len(pcm) == 0 {
		return nil, speech.ErrWaitTimeout
	}

	if max := int(phraseLimit.Seconds() * audioconv.TargetRate); phraseLimit > 0 && len(pcm) > max {
		pcm = pcm[:max]
	}
	return pcm, nil
}

func (c *capture) Close() error { return nil }
