package narration

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TTSClient synthesizes narration clips through the Google Cloud TTS API and
// caches the resulting MP3s on disk, keyed by text and locale.
type TTSClient struct {
	cacheDir   string
	apiKey     string
	mu         sync.Mutex
	httpClient *http.Client
	log        zerolog.Logger
}

func NewTTSClient(cacheDir, apiKey string, log zerolog.Logger) *TTSClient {
	os.MkdirAll(cacheDir, 0o755)
	return &TTSClient{
		cacheDir: cacheDir,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

func (c *TTSClient) clipKey(text, locale string) string {
	h := sha256.Sum256([]byte(locale + ":" + text))
	return hex.EncodeToString(h[:16])
}

// Synthesize returns the cache key of an MP3 clip for text, producing it via
// the API on a cache miss. ErrUnavailable is returned when no API key is
// configured or the API call fails; failures are never cached.
func (c *TTSClient) Synthesize(ctx context.Context, text, locale string) (string, error) {
	key := c.clipKey(text, locale)
	cachePath := filepath.Join(c.cacheDir, key+".mp3")
	if _, err := os.Stat(cachePath); err == nil {
		return key, nil
	}

	if c.apiKey == "" {
		return "", ErrUnavailable
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the lock
	if _, err := os.Stat(cachePath); err == nil {
		return key, nil
	}

	data, err := c.callGoogleTTS(ctx, text, locale)
	if err != nil {
		c.log.Warn().Err(err).Str("text", text).Msg("tts synthesis failed")
		return "", ErrUnavailable
	}
	if err := os.WriteFile(cachePath, data, 0o644); err != nil {
		return "", err
	}
	return key, nil
}

// Clip reads a previously synthesized MP3 by its cache key.
func (c *TTSClient) Clip(key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(c.cacheDir, key+".mp3"))
}

func languageCode(locale string) string {
	switch locale {
	case "hi":
		return "hi-IN"
	default:
		return "en-IN"
	}
}

func (c *TTSClient) callGoogleTTS(ctx context.Context, text, locale string) ([]byte, error) {
	url := "https://texttospeech.googleapis.com/v1/text:synthesize?key=" + c.apiKey

	reqBody := map[string]interface{}{
		"input": map[string]string{
			"text": text,
		},
		"voice": map[string]interface{}{
			"languageCode": languageCode(locale),
			"ssmlGender":   "FEMALE",
		},
		"audioConfig": map[string]interface{}{
			"audioEncoding": "MP3",
			// Slightly slower and brighter for young listeners
			"speakingRate": 0.8,
			"pitch":        1.1,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts api error %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return base64.StdEncoding.DecodeString(result.AudioContent)
}
