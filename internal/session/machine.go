// Package session holds the question interaction core: the per-question
// state machine, the answer-type resolver, and the category-filtered
// navigator.
package session

import (
	"time"

	"kidassess/internal/model"
)

// Phase is the lifecycle stage of the active question.
type Phase string

const (
	PhaseLoading   Phase = "loading"
	PhaseNarrating Phase = "narrating"
	PhaseRevealing Phase = "revealing"
	PhaseAwaiting  Phase = "awaiting_selection"
	PhaseLocked    Phase = "locked"
)

// TimerKind tags the scheduled timers the machine asks its driver to run.
type TimerKind string

const (
	// TimerNarrationFallback substitutes for narration completion when the
	// speech capability is unavailable, so the reveal always happens.
	TimerNarrationFallback TimerKind = "narration_fallback"
	// TimerReveal paces the transition that makes options interactive.
	TimerReveal TimerKind = "reveal"
)

const (
	NarrationFallbackDelay = 1500 * time.Millisecond
	RevealDelay            = 700 * time.Millisecond
)

// Effect is a side-effect intent returned by a transition. The machine never
// performs I/O itself; its driver executes effects and feeds resulting
// events back in.
type Effect interface{ effect() }

// CancelNarration stops any utterance in progress. Narration is exclusive:
// only one stream may be audible at a time.
type CancelNarration struct{}

// Speak narrates text. Generation ties the eventual completion event to the
// question that requested it.
type Speak struct {
	Text       string
	Generation uint64
}

// Schedule arms a one-shot timer. The driver must pass Generation back with
// the fired event so stale timers are discarded.
type Schedule struct {
	Kind       TimerKind
	After      time.Duration
	Generation uint64
}

// EmitAnswer delivers the canonical answer value to the external recorder.
type EmitAnswer struct {
	QuestionID string
	OptionID   string
	AnswerText string
}

func (CancelNarration) effect() {}
func (Speak) effect()           {}
func (Schedule) effect()        {}
func (EmitAnswer) effect()      {}

// Event is an external stimulus applied to the machine.
type Event interface{ event() }

// NarrationFinished signals that an utterance completed.
type NarrationFinished struct{ Generation uint64 }

// NarrationUnavailable signals that speech could not start; the machine
// degrades to the fallback timer so progress is never blocked.
type NarrationUnavailable struct{ Generation uint64 }

// TimerFired signals a previously scheduled timer elapsed.
type TimerFired struct {
	Kind       TimerKind
	Generation uint64
}

// OptionSelected is the respondent's gesture picking one option.
type OptionSelected struct{ OptionID string }

// RepeatRequested is the manual "listen again" action.
type RepeatRequested struct{}

func (NarrationFinished) event()    {}
func (NarrationUnavailable) event() {}
func (TimerFired) event()           {}
func (OptionSelected) event()       {}
func (RepeatRequested) event()      {}

// State is an immutable snapshot of the machine.
type State struct {
	Question   model.Question
	Options    []Option
	Phase      Phase
	Generation uint64
	Selected   string
	Revealed   bool
}

// Machine drives one question's lifecycle:
// Loading → Narrating → Revealing → AwaitingSelection → Locked.
// All transitions are synchronous; asynchronous waits are expressed as
// effects carrying the current generation, and events from a superseded
// generation are ignored.
type Machine struct {
	question   model.Question
	options    []Option
	phase      Phase
	generation uint64
	selected   string
	revealed   bool
}

func NewMachine() *Machine {
	return &Machine{phase: PhaseLoading}
}

// Load makes q the active question. It is a no-op when the question identity
// (id plus text) is unchanged. Otherwise it resets the selection state,
// bumps the generation so in-flight callbacks go stale, and starts
// narration.
func (m *Machine) Load(q model.Question, options []Option) []Effect {
	if m.phase != PhaseLoading && m.question.SameIdentity(q) {
		return nil
	}
	m.question = q
	m.options = options
	m.generation++
	m.selected = ""
	m.revealed = false
	m.phase = PhaseNarrating
	return []Effect{
		CancelNarration{},
		Speak{Text: q.Text, Generation: m.generation},
	}
}

// Apply runs one transition. Unknown, stale, and out-of-phase events produce
// no state change and no effects.
func (m *Machine) Apply(ev Event) []Effect {
	switch ev := ev.(type) {
	case NarrationFinished:
		return m.narrationEnded(ev.Generation)
	case NarrationUnavailable:
		if ev.Generation != m.generation || m.phase != PhaseNarrating {
			return nil
		}
		return []Effect{Schedule{
			Kind:       TimerNarrationFallback,
			After:      NarrationFallbackDelay,
			Generation: m.generation,
		}}
	case TimerFired:
		if ev.Generation != m.generation {
			return nil
		}
		switch ev.Kind {
		case TimerNarrationFallback:
			return m.narrationEnded(ev.Generation)
		case TimerReveal:
			if m.phase == PhaseRevealing {
				m.revealed = true
				m.phase = PhaseAwaiting
			}
		}
		return nil
	case OptionSelected:
		return m.selectOption(ev.OptionID)
	case RepeatRequested:
		return m.repeat()
	default:
		return nil
	}
}

func (m *Machine) narrationEnded(generation uint64) []Effect {
	if generation != m.generation || m.phase != PhaseNarrating {
		return nil
	}
	m.phase = PhaseRevealing
	return []Effect{Schedule{
		Kind:       TimerReveal,
		After:      RevealDelay,
		Generation: m.generation,
	}}
}

func (m *Machine) selectOption(optionID string) []Effect {
	if m.phase == PhaseLocked {
		// Re-selecting the chosen option is a no-op; picking a different
		// one while locked is rejected.
		return nil
	}
	if m.phase != PhaseAwaiting {
		return nil
	}
	option, ok := m.findOption(optionID)
	if !ok {
		return nil
	}
	m.selected = option.ID
	m.phase = PhaseLocked
	return []Effect{
		CancelNarration{},
		Speak{Text: option.Text, Generation: m.generation},
		EmitAnswer{
			QuestionID: m.question.ID,
			OptionID:   option.ID,
			AnswerText: option.Text,
		},
	}
}

// repeat re-narrates the question and clears the selection so every option
// becomes enabled again. The reveal flag is left alone. This is the only
// path out of Locked short of loading a new question.
func (m *Machine) repeat() []Effect {
	if m.phase == PhaseLoading {
		return nil
	}
	m.selected = ""
	if m.phase == PhaseLocked {
		m.phase = PhaseAwaiting
	}
	return []Effect{
		CancelNarration{},
		Speak{Text: m.question.Text, Generation: m.generation},
	}
}

func (m *Machine) findOption(id string) (Option, bool) {
	for _, option := range m.options {
		if option.ID == id {
			return option, true
		}
	}
	return Option{}, false
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() State {
	options := make([]Option, len(m.options))
	copy(options, m.options)
	return State{
		Question:   m.question,
		Options:    options,
		Phase:      m.phase,
		Generation: m.generation,
		Selected:   m.selected,
		Revealed:   m.revealed,
	}
}
