package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/solenne-ai/cadenza/companion/config"
	"github.com/solenne-ai/cadenza/logging"
)

// transcribeResponse is the transcription collaborator's reply
type transcribeResponse struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// TranscribeClient posts finished utterances to the transcription
// collaborator as WAV payloads.
type TranscribeClient struct {
	url    string
	tokens *TokenIssuer
	client *http.Client
	logger logging.Logger
}

// NewTranscribeClient creates a client for the configured collaborator
func NewTranscribeClient(cfg config.CollabConfig, logger logging.Logger) *TranscribeClient {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &TranscribeClient{
		url:    cfg.TranscriptionURL,
		tokens: NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL()),
		client: &http.Client{Timeout: 60 * time.Second},
		logger: logger,
	}
}

// Transcribe sends one utterance and returns the recognized text with
// the collaborator's confidence.
func (tc *TranscribeClient) Transcribe(ctx context.Context, samples []float64, sampleRate int) (string, float64, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fw, err := w.CreateFormFile("file", "segment.wav")
	if err != nil {
		return "", 0, fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(EncodeWAV(samples, sampleRate)); err != nil {
		return "", 0, fmt.Errorf("write wav payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", 0, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tc.url, &body)
	if err != nil {
		return "", 0, fmt.Errorf("build transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := tc.tokens.Authorize(req.Header); err != nil {
		return "", 0, fmt.Errorf("authorize transcribe request: %w", err)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("post segment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return "", 0, fmt.Errorf("transcribe %s: %s", resp.Status, string(detail))
	}

	var out transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", 0, fmt.Errorf("decode transcription: %w", err)
	}

	tc.logger.Debug("segment transcribed", logging.Fields{
		"samples":    len(samples),
		"confidence": out.Confidence,
	})
	return out.Transcript, out.Confidence, nil
}
