// Package narration wraps the text-to-speech capability behind a completion
// signal the question state machine can wait on.
package narration

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrUnavailable means speech could not be produced. It is not a failure:
// the state machine degrades to its fallback timer and progress continues.
var ErrUnavailable = errors.New("narration: speech unavailable")

// Speaker starts utterances. Starting a new utterance cancels any utterance
// in progress; only one narration stream may be audible at a time.
type Speaker interface {
	Speak(ctx context.Context, text, locale string) (*Utterance, error)
	CancelAll()
}

// Utterance is one narration in progress. Done is closed when the utterance
// finishes or is cancelled; listeners must pair the signal with a generation
// token to tell the two apart.
type Utterance struct {
	Text     string
	AudioURL string
	Duration time.Duration

	done  chan struct{}
	timer *time.Timer
	once  sync.Once
}

// NewUtterance starts the completion clock for one narration. Speaker
// implementations call this once playback (or its estimate) begins.
func NewUtterance(text, audioURL string, duration time.Duration) *Utterance {
	u := &Utterance{
		Text:     text,
		AudioURL: audioURL,
		Duration: duration,
		done:     make(chan struct{}),
	}
	u.timer = time.AfterFunc(duration, u.finish)
	return u
}

// Done is closed once the utterance has ended.
func (u *Utterance) Done() <-chan struct{} { return u.done }

func (u *Utterance) finish() {
	u.once.Do(func() { close(u.done) })
}

func (u *Utterance) cancel() {
	if u.timer != nil {
		u.timer.Stop()
	}
	u.finish()
}
