package notify

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// Cue plays a short mp3 earcon. The speaker is initialised on first use
// with the sample rate of that file.
type Cue struct {
	path string
	once sync.Once
	err  error
}

func NewCue(path string) *Cue { return &Cue{path: path} }

// Play blocks until the earcon finished.
func (c *Cue) Play() error {
	f, err := os.Open(c.path)
	if err != nil {
		return fmt.Errorf("open cue: %w", err)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode cue: %w", err)
	}
	defer streamer.Close()

	c.once.Do(func() {
		c.err = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	})
	if c.err != nil {
		return fmt.Errorf("init speaker: %w", c.err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))
	<-done

	return nil
}
