// Package translate provides machine translation of card rules text.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrTimeout means the translation call exceeded its deadline.
var ErrTimeout = errors.New("translation timed out")

// Translator defines the interface for machine translation backends.
// Language codes are ISO 639-1 (e.g. "en", "pt").
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

const defaultEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleClient translates via the public Google Translate web endpoint.
// The response is a nested array structure; the first element's items each
// carry a translated segment in their first field, concatenated in order.
type GoogleClient struct {
	Endpoint   string
	Timeout    time.Duration
	httpClient *http.Client
}

// NewGoogleClient creates a translator with a 10 second per-call deadline.
func NewGoogleClient() *GoogleClient {
	return &GoogleClient{
		Endpoint: defaultEndpoint,
		Timeout:  10 * time.Second,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Translate translates text from sourceLang to targetLang.
func (g *GoogleClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", sourceLang)
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read translation response: %w", err)
	}

	return parseSegments(body)
}

// parseSegments extracts and concatenates the translated segments from the
// service's nested-array response.
func parseSegments(body []byte) (string, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		return "", fmt.Errorf("malformed translation response: %w", err)
	}
	if len(outer) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(outer[0], &segments); err != nil {
		return "", fmt.Errorf("malformed translation segments: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(seg[0], &piece); err != nil {
			continue
		}
		sb.WriteString(piece)
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("translation response contained no segments")
	}
	return sb.String(), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
