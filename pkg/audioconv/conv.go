// Package audioconv decodes audio files into the mono 16 kHz float32 PCM
// the transcriber expects.
package audioconv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

const TargetRate = 16000

// ErrUnsupported is returned for containers no decoder recognises.
var ErrUnsupported = errors.New("unsupported audio format")

// pcm is interleaved float32 audio with its layout.
type pcm struct {
	samples  []float32
	rate     int
	channels int
}

type decoder func(io.ReadSeeker) (pcm, error)

var byExt = map[string]decoder{
	".wav": decodeWAV,
	".mp3": decodeMP3,
	".ogg": decodeOgg,
	".oga": decodeOgg,
}

var byMagic = map[string]decoder{
	"RIFF":    decodeWAV,
	"OggS":    decodeOgg,
	"ID3\x03": decodeMP3,
	"ID3\x04": decodeMP3,
}

// DecodeFile reads path and returns mono 16 kHz samples.
func DecodeFile(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := pick(f, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	p, err := dec(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return Resample(Downmix(p.samples, p.channels), p.rate, TargetRate), nil
}

func pick(r io.ReadSeeker, ext string) (decoder, error) {
	if dec, ok := byExt[ext]; ok {
		return dec, nil
	}

	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, ErrUnsupported
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	if dec, ok := byMagic[string(magic)]; ok {
		return dec, nil
	}
	return nil, ErrUnsupported
}

func decodeWAV(r io.ReadSeeker) (pcm, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return pcm{}, errors.New("invalid wav")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return pcm{}, err
	}
	if buf == nil || len(buf.Data) == 0 {
		return pcm{}, errors.New("empty wav")
	}

	depth := int(dec.BitDepth)
	if depth == 0 {
		depth = 16
	}
	scale := 1.0 / float64(int64(1)<<(depth-1))

	out := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		out[i] = float32(clamp(float64(v)*scale, -1, 1))
	}

	return pcm{samples: out, rate: int(dec.SampleRate), channels: int(dec.NumChans)}, nil
}

func decodeMP3(r io.ReadSeeker) (pcm, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return pcm{}, err
	}

	var raw bytes.Buffer
	if _, err := io.Copy(&raw, dec); err != nil {
		return pcm{}, err
	}

	ints := make([]int16, raw.Len()/2)
	if err := binary.Read(&raw, binary.LittleEndian, ints); err != nil {
		return pcm{}, err
	}

	// go-mp3 always emits 16-bit stereo.
	return pcm{samples: fromInt16(ints), rate: dec.SampleRate(), channels: 2}, nil
}

// decodeOgg tries Vorbis first and falls back to Opus.
func decodeOgg(r io.ReadSeeker) (pcm, error) {
	samples, format, verr := oggvorbis.ReadAll(r)
	if verr == nil && format != nil && format.Channels > 0 {
		return pcm{samples: samples, rate: format.SampleRate, channels: format.Channels}, nil
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return pcm{}, err
	}

	p, oerr := decodeOpus(r)
	if oerr != nil {
		return pcm{}, fmt.Errorf("not vorbis (%v) nor opus (%w)", verr, oerr)
	}
	return p, nil
}

func fromInt16(in []int16) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v) / 32768
	}
	return out
}

// Downmix averages interleaved channels into mono.
func Downmix(in []float32, channels int) []float32 {
	if channels <= 1 {
		return in
	}

	out := make([]float32, len(in)/channels)
	for i := range out {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += in[i*channels+c]
		}
		out[i] = sum / float32(channels)
	}
	return out
}

// Resample converts between rates by linear interpolation.
func Resample(in []float32, from, to int) []float32 {
	if from <= 0 || from == to || len(in) == 0 {
		return in
	}

	ratio := float64(from) / float64(to)
	n := int(float64(len(in)) / ratio)
	out := make([]float32, n)

	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j+1 >= len(in) {
			out[i] = in[len(in)-1]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = in[j]*(1-frac) + in[j+1]*frac
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
