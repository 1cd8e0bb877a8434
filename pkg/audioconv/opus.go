//go:build opus

package audioconv

import (
	"io"

	popus "github.com/pekim/opus"
)

func decodeOpus(r io.ReadSeeker) (pcm, error) {
	dec, err := popus.NewDecoder(r)
	if err != nil {
		return pcm{}, err
	}
	defer dec.Destroy()

	ch := dec.ChannelCount()
	if ch <= 0 {
		ch = 1
	}

	var (
		out []float32
		buf = make([]int16, 24000*ch)
	)
	for {
		n, err := dec.Read(buf) // n is per channel
		if n > 0 {
			out = append(out, fromInt16(buf[:n*ch])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return pcm{}, err
		}
	}

	// libopusfile always decodes at 48 kHz.
	return pcm{samples: out, rate: 48000, channels: ch}, nil
}
