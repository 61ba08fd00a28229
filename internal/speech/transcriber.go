package speech

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrTranscription reports that no decoder strategy produced a usable
// transcript. It wraps every attempt's failure.
var ErrTranscription = errors.New("transcription failed")

// Recognizer turns decoded audio into text.
type Recognizer interface {
	Recognize(ctx context.Context, clip *Clip) (string, error)
}

// Transcriber runs an ordered list of decoder strategies over an audio
// upload: structured container first, raw sample stream as fallback.
type Transcriber struct {
	decoders   []Decoder
	recognizer Recognizer
	logger     *zap.Logger
}

func NewTranscriber(recognizer Recognizer, logger *zap.Logger) *Transcriber {
	return &Transcriber{
		decoders:   []Decoder{WAVDecoder{}, RawPCMDecoder{SampleRate: 16000}},
		recognizer: recognizer,
		logger:     logger,
	}
}

// Transcribe tries each decoder in order and recognizes the first clip
// that decodes. All failures are collected and reported as one
// ErrTranscription carrying the underlying causes.
func (t *Transcriber) Transcribe(ctx context.Context, data []byte) (string, error) {
	var attempts error
	for _, d := range t.decoders {
		clip, err := d.Decode(data)
		if err != nil {
			attempts = multierr.Append(attempts, fmt.Errorf("%s decode: %w", d.Name(), err))
			continue
		}

		text, err := t.recognizer.Recognize(ctx, clip)
		if err != nil {
			// The fallback chain is for decode failures only. Once a
			// decoder has produced a clip, re-decoding the same bytes
			// under a laxer strategy would send garbage samples for a
			// second recognition, so a recognizer error ends the loop.
			t.logger.Warn("recognition failed",
				zap.String("decoder", d.Name()),
				zap.Error(err))
			attempts = multierr.Append(attempts, fmt.Errorf("%s recognize: %w", d.Name(), err))
			return "", fmt.Errorf("%w: %w", ErrTranscription, attempts)
		}
		return text, nil
	}
	return "", fmt.Errorf("%w: %w", ErrTranscription, attempts)
}
