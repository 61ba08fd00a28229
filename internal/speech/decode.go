package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-audio/wav"
)

// Clip is decoded audio in a recognizer-ready form.
type Clip struct {
	Samples     []int
	SampleRate  int
	NumChannels int
	BitDepth    int
}

// Decoder is one strategy for turning raw upload bytes into a Clip.
// Decoders are tried in order; the first success wins.
type Decoder interface {
	Name() string
	Decode(data []byte) (*Clip, error)
}

// WAVDecoder decodes a RIFF/WAVE container.
type WAVDecoder struct{}

func (WAVDecoder) Name() string { return "wav" }

func (WAVDecoder) Decode(data []byte) (*Clip, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, errors.New("not a valid wav file")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read pcm: %w", err)
	}
	if len(buf.Data) == 0 {
		return nil, errors.New("wav file contains no samples")
	}

	return &Clip{
		Samples:     buf.Data,
		SampleRate:  buf.Format.SampleRate,
		NumChannels: buf.Format.NumChannels,
		BitDepth:    int(d.BitDepth),
	}, nil
}

// RawPCMDecoder interprets the bytes as a headerless stream of signed
// 16-bit little-endian mono samples. It is the fallback for recorders
// that ship bare sample data.
type RawPCMDecoder struct {
	SampleRate int
}

func (RawPCMDecoder) Name() string { return "raw-pcm" }

func (d RawPCMDecoder) Decode(data []byte) (*Clip, error) {
	if len(data) == 0 {
		return nil, errors.New("empty audio payload")
	}
	if len(data)%2 != 0 {
		return nil, errors.New("odd byte count for 16-bit samples")
	}

	samples := make([]int, len(data)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(data[2*i:])))
	}

	rate := d.SampleRate
	if rate <= 0 {
		rate = 16000
	}
	return &Clip{
		Samples:     samples,
		SampleRate:  rate,
		NumChannels: 1,
		BitDepth:    16,
	}, nil
}
