package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// HTTPRecognizer speaks the OpenAI-compatible /v1/audio/transcriptions
// protocol, which local whisper servers also expose. The clip is
// re-encoded as WAV so the server never sees the caller's original
// container guesswork.
type HTTPRecognizer struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

func NewHTTPRecognizer(endpoint, apiKey, model string, timeout time.Duration) *HTTPRecognizer {
	return &HTTPRecognizer{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

func (r *HTTPRecognizer) Recognize(ctx context.Context, clip *Clip) (string, error) {
	wavBytes, err := encodeWAV(clip)
	if err != nil {
		return "", fmt.Errorf("encode wav: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(wavBytes); err != nil {
		return "", err
	}
	if err := mw.WriteField("model", r.model); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call transcription endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("transcription endpoint returned %d: %s", resp.StatusCode, msg)
	}

	var out transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}
	return out.Text, nil
}

// encodeWAV writes the clip into an in-memory WAV container. The wav
// encoder needs a WriteSeeker to backfill the header, hence the small
// seekable buffer instead of bytes.Buffer.
func encodeWAV(clip *Clip) ([]byte, error) {
	buf := &seekBuffer{}
	enc := wav.NewEncoder(buf, clip.SampleRate, clip.BitDepth, clip.NumChannels, 1)

	if err := enc.Write(&audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: clip.NumChannels,
			SampleRate:  clip.SampleRate,
		},
		Data:           clip.Samples,
		SourceBitDepth: clip.BitDepth,
	}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.data, nil
}

type seekBuffer struct {
	data []byte
	pos  int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if need := b.pos + len(p); need > len(b.data) {
		b.data = append(b.data, make([]byte, need-len(b.data))...)
	}
	copy(b.data[b.pos:], p)
	b.pos += len(p)
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int
	switch whence {
	case io.SeekStart:
		abs = int(offset)
	case io.SeekCurrent:
		abs = b.pos + int(offset)
	case io.SeekEnd:
		abs = len(b.data) + int(offset)
	default:
		return 0, errors.New("invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("negative seek position")
	}
	b.pos = abs
	return int64(abs), nil
}
