// Package voicevox talks to a VOICEVOX-compatible speech synthesis engine.
// Synthesis is a two-step exchange: text in, audio query descriptor out;
// descriptor in, WAV bytes out.
package voicevox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/norangai/Minimal-Pair-Test/internal/logger"
)

// Client calls the synthesis engine over HTTP. Each request is bounded by
// the client timeout; there is no retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a Client for the engine at baseURL with a per-request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Default().WithPrefix("voicevox"),
	}
}

// AudioQuery submits text and a speaker id and returns the engine's opaque
// query descriptor.
func (c *Client) AudioQuery(ctx context.Context, text string, speaker int) (json.RawMessage, error) {
	log := logger.FromContext(ctx).WithPrefix("voicevox").WithField("speaker", speaker)

	endpoint := fmt.Sprintf("%s/audio_query?%s", c.baseURL, url.Values{
		"text":    {text},
		"speaker": {strconv.Itoa(speaker)},
	}.Encode())

	log.Debug("requesting audio query for %q", text)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("audio query failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("audio query response in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("audio_query status %d: %s", resp.StatusCode, string(body))
	}

	query, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio query: %w", err)
	}
	if !json.Valid(query) {
		return nil, fmt.Errorf("audio_query returned invalid JSON")
	}
	return query, nil
}

// Synthesize submits a query descriptor and speaker id and returns the raw
// WAV bytes.
func (c *Client) Synthesize(ctx context.Context, query json.RawMessage, speaker int) ([]byte, error) {
	log := logger.FromContext(ctx).WithPrefix("voicevox").WithField("speaker", speaker)

	endpoint := fmt.Sprintf("%s/synthesis?%s", c.baseURL, url.Values{
		"speaker": {strconv.Itoa(speaker)},
	}.Encode())

	log.Debug("requesting synthesis")
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(query))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("synthesis failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("synthesis response in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("synthesis status %d: %s", resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read synthesis audio: %w", err)
	}
	return audio, nil
}
