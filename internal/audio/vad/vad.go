// Package vad finds one spoken phrase in a stream of fixed-size PCM frames
// using an RMS energy threshold calibrated against ambient noise.
package vad

import (
	"math"
	"time"
)

type Config struct {
	SampleRate   int
	FrameSize    int           // samples per frame
	Pause        time.Duration // trailing silence that ends a phrase
	PreRoll      time.Duration // audio kept from before speech onset
	MinThreshold float64       // floor for the energy threshold
	Ratio        float64       // threshold = ambient RMS * Ratio
}

func DefaultConfig() Config {
	return Config{
		SampleRate:   16000,
		FrameSize:    320, // 20ms
		Pause:        800 * time.Millisecond,
		PreRoll:      300 * time.Millisecond,
		MinThreshold: 0.015,
		Ratio:        1.5,
	}
}

type State int

const (
	Waiting State = iota
	Speaking
	Done
	TimedOut
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Speaking:
		return "speaking"
	case Done:
		return "done"
	case TimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

type Detector struct {
	cfg       Config
	threshold float64

	waitFrames  int // 0 = wait forever
	limitFrames int // 0 = unbounded phrase

	state   State
	seen    int
	spoken  int
	silent  int
	preroll [][]float32
	phrase  []float32
}

func New(cfg Config) *Detector {
	return &Detector{cfg: cfg, threshold: cfg.MinThreshold}
}

func (d *Detector) Threshold() float64 { return d.threshold }

// Calibrate sets the speech threshold from frames of ambient noise.
func (d *Detector) Calibrate(frames [][]float32) {
	if len(frames) == 0 {
		return
	}

	var sum float64
	for _, f := range frames {
		sum += RMS(f)
	}

	d.threshold = math.Max(d.cfg.MinThreshold, sum/float64(len(frames))*d.cfg.Ratio)
}

// Begin resets the detector for a new phrase.
func (d *Detector) Begin(wait, limit time.Duration) {
	d.waitFrames = d.framesFor(wait)
	d.limitFrames = d.framesFor(limit)
	d.state = Waiting
	d.seen = 0
	d.spoken = 0
	d.silent = 0
	d.preroll = d.preroll[:0]
	d.phrase = nil
}

// Feed consumes one frame. The frame is copied, callers may reuse it.
func (d *Detector) Feed(frame []float32) State {
	if d.state == Done || d.state == TimedOut {
		return d.state
	}

	d.seen++
	loud := RMS(frame) > d.threshold

	switch d.state {
	case Waiting:
		if loud {
			for _, p := range d.preroll {
				d.phrase = append(d.phrase, p...)
			}
			d.preroll = d.preroll[:0]
			d.phrase = append(d.phrase, frame...)
			d.spoken = 1
			d.state = Speaking
			break
		}

		d.pushPreroll(frame)
		if d.waitFrames > 0 && d.seen >= d.waitFrames {
			d.state = TimedOut
		}

	case Speaking:
		d.phrase = append(d.phrase, frame...)
		d.spoken++
		if loud {
			d.silent = 0
		} else {
			d.silent++
		}

		if d.silent >= d.framesFor(d.cfg.Pause) {
			d.state = Done
		}
		if d.limitFrames > 0 && d.spoken >= d.limitFrames {
			d.state = Done
		}
	}

	return d.state
}

// Phrase returns the samples collected since speech onset.
func (d *Detector) Phrase() []float32 { return d.phrase }

func (d *Detector) pushPreroll(frame []float32) {
	max := d.framesFor(d.cfg.PreRoll)
	if max == 0 {
		return
	}

	if len(d.preroll) == max {
		copy(d.preroll, d.preroll[1:])
		d.preroll = d.preroll[:max-1]
	}
	d.preroll = append(d.preroll, append([]float32(nil), frame...))
}

func (d *Detector) framesFor(dur time.Duration) int {
	if dur <= 0 || d.cfg.FrameSize <= 0 || d.cfg.SampleRate <= 0 {
		return 0
	}

	frame := time.Duration(d.cfg.FrameSize) * time.Second / time.Duration(d.cfg.SampleRate)
	return int((dur + frame - 1) / frame)
}

func RMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}

	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
