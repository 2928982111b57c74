package narration

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Playback pacing for the completion estimate. Clients fetch the clip over
// the audio endpoint and play it themselves; the server signals completion
// after the estimated speech duration so the state machine can pace the
// reveal without a round trip.
const (
	perRuneDuration = 65 * time.Millisecond
	minimumDuration = 800 * time.Millisecond
)

// Engine is the process-wide Speaker. It synthesizes through the TTS client
// and enforces narration exclusivity: a new utterance cancels the previous
// one first.
type Engine struct {
	tts *TTSClient
	mu  sync.Mutex
	cur *Utterance
	log zerolog.Logger
}

func NewEngine(tts *TTSClient, log zerolog.Logger) *Engine {
	return &Engine{tts: tts, log: log}
}

// Speak synthesizes and "plays" text. It returns ErrUnavailable when no clip
// can be produced, which callers treat as the degraded no-audio path rather
// than a failure.
func (e *Engine) Speak(ctx context.Context, text, locale string) (*Utterance, error) {
	e.CancelAll()

	key, err := e.tts.Synthesize(ctx, text, locale)
	if err != nil {
		return nil, ErrUnavailable
	}

	u := NewUtterance(text, "/v1/audio/"+key, estimateDuration(text))
	e.mu.Lock()
	e.cur = u
	e.mu.Unlock()
	e.log.Debug().Str("text", text).Dur("duration", u.Duration).Msg("narration started")
	return u, nil
}

// CancelAll stops the utterance in progress, if any.
func (e *Engine) CancelAll() {
	e.mu.Lock()
	cur := e.cur
	e.cur = nil
	e.mu.Unlock()
	if cur != nil {
		cur.cancel()
	}
}

func estimateDuration(text string) time.Duration {
	d := time.Duration(utf8.RuneCountInString(text)) * perRuneDuration
	if d < minimumDuration {
		return minimumDuration
	}
	return d
}
