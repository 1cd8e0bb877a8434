package audio

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxassist/internal/audio/vad"
	"voxassist/internal/speech"
)

// fakeStream fills buf with level on every Read and records call order.
type fakeStream struct {
	buf      []float32
	levels   []float32
	calls    []string
	startErr error
}

func (s *fakeStream) Start() error {
	s.calls = append(s.calls, "start")
	return s.startErr
}

func (s *fakeStream) Read() error {
	s.calls = append(s.calls, "read")
	level := float32(0)
	if len(s.levels) > 0 {
		level, s.levels = s.levels[0], s.levels[1:]
	}
	for i := range s.buf {
		s.buf[i] = level
	}
	return nil
}

func (s *fakeStream) Stop() error {
	s.calls = append(s.calls, "stop")
	return nil
}

func (s *fakeStream) Close() error {
	s.calls = append(s.calls, "close")
	return nil
}

func newFake(levels ...float32) (*fakeStream, *capture) {
	cfg := vad.DefaultConfig()
	buf := make([]float32, cfg.FrameSize)
	s := &fakeStream{buf: buf, levels: levels}
	return s, newCapture(s, buf, cfg)
}

func TestCapture_StartsOnFirstRead(t *testing.T) {
	s, c := newFake()

	assert.Empty(t, s.calls, "nothing runs before the first read")

	require.NoError(t, c.Calibrate(40*time.Millisecond))
	assert.Equal(t, []string{"start", "read", "read"}, s.calls)

	require.NoError(t, c.Close())
	assert.Equal(t, []string{"start", "read", "read", "stop", "close"}, s.calls)
}

func TestCapture_CloseWithoutRead(t *testing.T) {
	s, c := newFake()

	require.NoError(t, c.Close())
	assert.Equal(t, []string{"close"}, s.calls)
}

func TestCapture_Record(t *testing.T) {
	s, c := newFake(0.5, 0.5, 0.5, 0.5, 0.5)

	pcm, err := c.Record(time.Second, 15*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "start", s.calls[0])
	assert.Len(t, pcm, (5+40)*vad.DefaultConfig().FrameSize)
}

func TestCapture_RecordTimeout(t *testing.T) {
	_, c := newFake()

	_, err := c.Record(100*time.Millisecond, time.Second)
	assert.ErrorIs(t, err, speech.ErrWaitTimeout)
}

func TestCapture_StartFailure(t *testing.T) {
	s, c := newFake()
	s.startErr = errors.New("device busy")

	err := c.Calibrate(time.Second)
	assert.ErrorIs(t, err, speech.ErrMicrophone)
	assert.ErrorContains(t, err, "device busy")
	assert.Equal(t, []string{"start"}, s.calls)
}
