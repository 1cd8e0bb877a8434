package audio

import (
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"

	"voxassist/internal/audio/vad"
	"voxassist/internal/speech"
)

// Recorder opens the default input device through PortAudio.
type Recorder struct {
	cfg vad.Config
}

func NewRecorder() *Recorder { return &Recorder{cfg: vad.DefaultConfig()} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

func (r *Recorder) Open() (speech.Capture, error) {
	buf := make([]float32, r.cfg.FrameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(r.cfg.SampleRate), len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("%w: open stream: %w", speech.ErrMicrophone, err)
	}

	return newCapture(stream, buf, r.cfg), nil
}

// inputStream is the part of *portaudio.Stream a capture reads from.
type inputStream interface {
	Start() error
	Read() error
	Stop() error
	Close() error
}

// capture starts its stream on the first read. Prompts spoken between Open
// and Calibrate would otherwise overflow the input buffer.
type capture struct {
	stream  inputStream
	started bool
	buf     []float32
	det     *vad.Detector
	frame   time.Duration
}

func newCapture(stream inputStream, buf []float32, cfg vad.Config) *capture {
	return &capture{
		stream: stream,
		buf:    buf,
		det:    vad.New(cfg),
		frame:  time.Duration(cfg.FrameSize) * time.Second / time.Duration(cfg.SampleRate),
	}
}

func (c *capture) read() error {
	if !c.started {
		if err := c.stream.Start(); err != nil {
			return fmt.Errorf("%w: start stream: %w", speech.ErrMicrophone, err)
		}
		c.started = true
	}

	if err := c.stream.Read(); err != nil {
		return fmt.Errorf("%w: %w", speech.ErrMicrophone, err)
	}
	return nil
}

func (c *capture) Calibrate(d time.Duration) error {
	n := int(d / c.frame)
	frames := make([][]float32, 0, n)

	for i := 0; i < n; i++ {
		if err := c.read(); err != nil {
			return err
		}
		frames = append(frames, append([]float32(nil), c.buf...))
	}

	c.det.Calibrate(frames)
	return nil
}

func (c *capture) Record(wait, phraseLimit time.Duration) ([]float32, error) {
	c.det.Begin(wait, phraseLimit)

	for {
		if err := c.read(); err != nil {
			return nil, err
		}

		switch c.det.Feed(c.buf) {
		case vad.TimedOut:
			return nil, speech.ErrWaitTimeout
		case vad.Done:
			return c.det.Phrase(), nil
		}
	}
}

func (c *capture) Close() error {
	if c.started {
		c.stream.Stop()
	}
	return c.stream.Close()
}
