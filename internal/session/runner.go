package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"kidassess/internal/i18n"
	"kidassess/internal/model"
	"kidassess/internal/narration"
)

// AnswerFunc receives each emitted canonical answer for recording.
type AnswerFunc func(answer EmitAnswer)

// EventFunc receives lifecycle events with the session view after each
// transition.
type EventFunc func(event string, view View)

// RunnerConfig wires a runner to its collaborators.
type RunnerConfig struct {
	SessionID string
	Locale    string
	Questions []model.Question
	Table     *i18n.Table
	Speaker   narration.Speaker
	OnAnswer  AnswerFunc
	OnEvent   EventFunc
	Log       zerolog.Logger
}

// Runner hosts one live assessment session: a navigator plus a question
// state machine, with all events serialized under one mutex. Timer and
// narration callbacks re-enter through Dispatch carrying their generation
// token, so callbacks from a superseded question are discarded by the
// machine.
type Runner struct {
	mu       sync.Mutex
	id       string
	locale   string
	table    *i18n.Table
	speaker  narration.Speaker
	machine  *Machine
	nav      *Navigator
	onAnswer AnswerFunc
	onEvent  EventFunc
	audioURL string
	log      zerolog.Logger
}

func NewRunner(cfg RunnerConfig) *Runner {
	locale := cfg.Locale
	if locale == "" {
		locale = i18n.LocaleEnglish
	}
	return &Runner{
		id:       cfg.SessionID,
		locale:   locale,
		table:    cfg.Table,
		speaker:  cfg.Speaker,
		machine:  NewMachine(),
		nav:      NewNavigator(cfg.Questions),
		onAnswer: cfg.OnAnswer,
		onEvent:  cfg.OnEvent,
		log:      cfg.Log.With().Str("session", cfg.SessionID).Logger(),
	}
}

// Start activates the first visible question.
func (r *Runner) Start() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activateLocked()
	return r.viewLocked()
}

// Next advances to the following question, wrapping at the end.
func (r *Runner) Next() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nav.Next()
	r.activateLocked()
	return r.viewLocked()
}

// Previous steps back, wrapping at the start.
func (r *Runner) Previous() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nav.Previous()
	r.activateLocked()
	return r.viewLocked()
}

// SetFilter switches the category filter and restarts from position 0.
func (r *Runner) SetFilter(category string) View {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nav.SetFilter(category)
	r.activateLocked()
	return r.viewLocked()
}

// Select applies the respondent's option choice.
func (r *Runner) Select(optionID string) View {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applyLocked(OptionSelected{OptionID: optionID})
	return r.viewLocked()
}

// Repeat re-narrates the active question and re-enables all options.
func (r *Runner) Repeat() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applyLocked(RepeatRequested{})
	return r.viewLocked()
}

// NarrationDone is the client-side playback acknowledgement. Duplicate or
// stale acks are harmless: the machine checks phase and generation.
func (r *Runner) NarrationDone() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applyLocked(NarrationFinished{Generation: r.machine.Snapshot().Generation})
	return r.viewLocked()
}

// View returns the current session view.
func (r *Runner) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewLocked()
}

// Dispatch feeds an asynchronous event (timer, narration completion) into
// the session.
func (r *Runner) Dispatch(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applyLocked(ev)
}

// activateLocked loads the navigator's current question into the machine.
// With an empty filtered view there is nothing to drive, so the machine is
// reset and pending narration cancelled.
func (r *Runner) activateLocked() {
	q, ok := r.nav.Current()
	if !ok {
		r.machine = NewMachine()
		r.audioURL = ""
		r.speaker.CancelAll()
		r.publishLocked("filter_empty")
		return
	}
	options, err := ResolveOptions(q, r.table, r.locale)
	if err != nil {
		// Validation guarantees this never happens for persisted questions.
		r.log.Error().Err(err).Str("question", q.ID).Msg("unresolvable answer type")
		return
	}
	effects := r.machine.Load(q, options)
	if len(effects) > 0 {
		r.publishLocked("question_loaded")
	}
	r.runEffectsLocked(effects)
}

func (r *Runner) applyLocked(ev Event) {
	before := r.machine.Snapshot().Phase
	effects := r.machine.Apply(ev)
	r.runEffectsLocked(effects)
	if after := r.machine.Snapshot().Phase; after != before {
		r.publishLocked(string(after))
	}
}

func (r *Runner) runEffectsLocked(effects []Effect) {
	for _, effect := range effects {
		switch effect := effect.(type) {
		case CancelNarration:
			r.speaker.CancelAll()
		case Speak:
			r.speakLocked(effect)
		case Schedule:
			kind, generation := effect.Kind, effect.Generation
			time.AfterFunc(effect.After, func() {
				r.Dispatch(TimerFired{Kind: kind, Generation: generation})
			})
		case EmitAnswer:
			if r.onAnswer != nil {
				r.onAnswer(effect)
			}
			r.publishLocked("answer_recorded")
		}
	}
}

func (r *Runner) speakLocked(effect Speak) {
	utterance, err := r.speaker.Speak(context.Background(), effect.Text, r.locale)
	if err != nil {
		// Degraded no-audio path: the fallback timer keeps things moving.
		r.applyLocked(NarrationUnavailable{Generation: effect.Generation})
		return
	}
	r.audioURL = utterance.AudioURL
	r.publishLocked("narration")
	generation := effect.Generation
	go func() {
		<-utterance.Done()
		r.Dispatch(NarrationFinished{Generation: generation})
	}()
}

func (r *Runner) publishLocked(event string) {
	if r.onEvent != nil {
		r.onEvent(event, r.viewLocked())
	}
}

func (r *Runner) viewLocked() View {
	view := View{
		SessionID:  r.id,
		Locale:     r.locale,
		Empty:      r.nav.Empty(),
		Filter:     r.nav.Filter(),
		Categories: r.nav.Categories(),
		Index:      r.nav.Index(),
		Total:      r.nav.Len(),
		Phase:      PhaseLoading,
		AudioURL:   r.audioURL,
	}
	if _, ok := r.nav.Current(); ok {
		state := r.machine.Snapshot()
		question := state.Question
		view.Phase = state.Phase
		view.Question = &question
		view.Options = state.Options
		view.GridColumns = GridColumns(len(state.Options))
		view.Revealed = state.Revealed
		view.SelectedOption = state.Selected
	}
	return view
}
