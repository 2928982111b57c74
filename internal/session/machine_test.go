package session

import (
	"testing"

	"kidassess/internal/i18n"
	"kidassess/internal/model"
)

func yesNoQuestion(id, text string) (model.Question, []Option) {
	q := model.Question{ID: id, Text: text, AnswerType: model.AnswerYesNo, Category: "M"}
	options, err := ResolveOptions(q, i18n.NewTable(), i18n.LocaleEnglish)
	if err != nil {
		panic(err)
	}
	return q, options
}

// reveal walks a freshly loaded machine to AwaitingSelection.
func reveal(t *testing.T, m *Machine) {
	t.Helper()
	gen := m.Snapshot().Generation
	effects := m.Apply(NarrationFinished{Generation: gen})
	schedule, ok := findSchedule(effects, TimerReveal)
	if !ok {
		t.Fatalf("expected reveal timer after narration, got %+v", effects)
	}
	m.Apply(TimerFired{Kind: schedule.Kind, Generation: schedule.Generation})
	if got := m.Snapshot().Phase; got != PhaseAwaiting {
		t.Fatalf("expected awaiting phase, got %s", got)
	}
}

func findSchedule(effects []Effect, kind TimerKind) (Schedule, bool) {
	for _, effect := range effects {
		if s, ok := effect.(Schedule); ok && s.Kind == kind {
			return s, true
		}
	}
	return Schedule{}, false
}

func findSpeak(effects []Effect) (Speak, bool) {
	for _, effect := range effects {
		if s, ok := effect.(Speak); ok {
			return s, true
		}
	}
	return Speak{}, false
}

func findEmit(effects []Effect) (EmitAnswer, bool) {
	for _, effect := range effects {
		if e, ok := effect.(EmitAnswer); ok {
			return e, true
		}
	}
	return EmitAnswer{}, false
}

func TestLoadStartsNarration(t *testing.T) {
	m := NewMachine()
	q, options := yesNoQuestion("q1", "Is it raining?")

	effects := m.Load(q, options)
	speak, ok := findSpeak(effects)
	if !ok {
		t.Fatalf("expected speak effect, got %+v", effects)
	}
	if speak.Text != "Is it raining?" {
		t.Fatalf("expected question narration, got %q", speak.Text)
	}
	state := m.Snapshot()
	if state.Phase != PhaseNarrating {
		t.Fatalf("expected narrating phase, got %s", state.Phase)
	}
	if state.Revealed || state.Selected != "" {
		t.Fatalf("expected clean selection state, got %+v", state)
	}
}

func TestLoadResetsSelectionRegardlessOfPriorState(t *testing.T) {
	m := NewMachine()
	q1, options1 := yesNoQuestion("q1", "First?")
	m.Load(q1, options1)
	reveal(t, m)
	m.Apply(OptionSelected{OptionID: OptionYes})

	state := m.Snapshot()
	if state.Phase != PhaseLocked || state.Selected != OptionYes {
		t.Fatalf("setup failed, state %+v", state)
	}

	q2, options2 := yesNoQuestion("q2", "Second?")
	m.Load(q2, options2)

	state = m.Snapshot()
	if state.Selected != "" {
		t.Fatalf("expected selection reset, got %q", state.Selected)
	}
	if state.Revealed {
		t.Fatal("expected revealed reset")
	}
}

func TestLoadSameIdentityIsNoOp(t *testing.T) {
	m := NewMachine()
	q, options := yesNoQuestion("q1", "Same?")
	m.Load(q, options)
	reveal(t, m)
	before := m.Snapshot()

	if effects := m.Load(q, options); effects != nil {
		t.Fatalf("expected no effects for unchanged identity, got %+v", effects)
	}
	after := m.Snapshot()
	if after.Generation != before.Generation || after.Phase != before.Phase {
		t.Fatalf("state changed on identity no-op: %+v vs %+v", before, after)
	}
}

func TestEditedTextCountsAsNewQuestion(t *testing.T) {
	m := NewMachine()
	q, options := yesNoQuestion("q1", "Original?")
	m.Load(q, options)
	before := m.Snapshot().Generation

	q.Text = "Edited?"
	if effects := m.Load(q, options); len(effects) == 0 {
		t.Fatal("expected reload for edited text")
	}
	if got := m.Snapshot().Generation; got != before+1 {
		t.Fatalf("expected generation bump, got %d after %d", got, before)
	}
}

func TestStaleNarrationCompletionIgnored(t *testing.T) {
	m := NewMachine()
	q1, options1 := yesNoQuestion("q1", "First?")
	m.Load(q1, options1)
	staleGen := m.Snapshot().Generation

	q2, options2 := yesNoQuestion("q2", "Second?")
	m.Load(q2, options2)

	if effects := m.Apply(NarrationFinished{Generation: staleGen}); effects != nil {
		t.Fatalf("stale completion produced effects: %+v", effects)
	}
	if got := m.Snapshot().Phase; got != PhaseNarrating {
		t.Fatalf("stale completion advanced phase to %s", got)
	}
}

func TestStaleTimerIgnored(t *testing.T) {
	m := NewMachine()
	q1, options1 := yesNoQuestion("q1", "First?")
	m.Load(q1, options1)
	staleGen := m.Snapshot().Generation
	m.Apply(NarrationFinished{Generation: staleGen})

	q2, options2 := yesNoQuestion("q2", "Second?")
	m.Load(q2, options2)

	if effects := m.Apply(TimerFired{Kind: TimerReveal, Generation: staleGen}); effects != nil {
		t.Fatalf("stale timer produced effects: %+v", effects)
	}
	if state := m.Snapshot(); state.Revealed {
		t.Fatal("stale reveal timer flipped revealed")
	}
}

func TestNarrationUnavailableFallsBackToTimer(t *testing.T) {
	m := NewMachine()
	q, options := yesNoQuestion("q1", "Quiet?")
	m.Load(q, options)
	gen := m.Snapshot().Generation

	effects := m.Apply(NarrationUnavailable{Generation: gen})
	schedule, ok := findSchedule(effects, TimerNarrationFallback)
	if !ok {
		t.Fatalf("expected fallback timer, got %+v", effects)
	}
	if schedule.After != NarrationFallbackDelay {
		t.Fatalf("expected %s fallback delay, got %s", NarrationFallbackDelay, schedule.After)
	}

	// The fallback fires and the reveal proceeds with no audio at all.
	effects = m.Apply(TimerFired{Kind: TimerNarrationFallback, Generation: gen})
	if _, ok := findSchedule(effects, TimerReveal); !ok {
		t.Fatalf("expected reveal timer after fallback, got %+v", effects)
	}
	m.Apply(TimerFired{Kind: TimerReveal, Generation: gen})
	if state := m.Snapshot(); state.Phase != PhaseAwaiting || !state.Revealed {
		t.Fatalf("expected revealed awaiting state, got %+v", state)
	}
}

func TestSelectBeforeRevealIsIgnored(t *testing.T) {
	m := NewMachine()
	q, options := yesNoQuestion("q1", "Early?")
	m.Load(q, options)

	if effects := m.Apply(OptionSelected{OptionID: OptionYes}); effects != nil {
		t.Fatalf("selection during narration produced effects: %+v", effects)
	}
	if got := m.Snapshot().Selected; got != "" {
		t.Fatalf("selection recorded before reveal: %q", got)
	}
}

func TestSelectLocksAndEmitsAnswer(t *testing.T) {
	m := NewMachine()
	q, options := yesNoQuestion("q1", "Lock?")
	m.Load(q, options)
	reveal(t, m)

	effects := m.Apply(OptionSelected{OptionID: OptionYes})
	speak, ok := findSpeak(effects)
	if !ok || speak.Text != "Yes" {
		t.Fatalf("expected answer narration, got %+v", effects)
	}
	emit, ok := findEmit(effects)
	if !ok {
		t.Fatalf("expected answer emission, got %+v", effects)
	}
	if emit.QuestionID != "q1" || emit.OptionID != OptionYes || emit.AnswerText != "Yes" {
		t.Fatalf("unexpected emitted answer: %+v", emit)
	}
	state := m.Snapshot()
	if state.Phase != PhaseLocked || state.Selected != OptionYes {
		t.Fatalf("expected locked yes, got %+v", state)
	}
}

func TestReselectWhileLockedIsNoOp(t *testing.T) {
	m := NewMachine()
	q, options := yesNoQuestion("q1", "Again?")
	m.Load(q, options)
	reveal(t, m)
	m.Apply(OptionSelected{OptionID: OptionYes})

	if effects := m.Apply(OptionSelected{OptionID: OptionYes}); effects != nil {
		t.Fatalf("re-selection produced effects: %+v", effects)
	}
}

func TestDifferentSelectionWhileLockedIsRejected(t *testing.T) {
	m := NewMachine()
	q, options := yesNoQuestion("q1", "Sticky?")
	m.Load(q, options)
	reveal(t, m)
	m.Apply(OptionSelected{OptionID: OptionYes})

	if effects := m.Apply(OptionSelected{OptionID: OptionNo}); effects != nil {
		t.Fatalf("locked re-selection produced effects: %+v", effects)
	}
	if got := m.Snapshot().Selected; got != OptionYes {
		t.Fatalf("selection changed while locked: %q", got)
	}
}

func TestUnknownOptionIgnored(t *testing.T) {
	m := NewMachine()
	q, options := yesNoQuestion("q1", "Unknown?")
	m.Load(q, options)
	reveal(t, m)

	if effects := m.Apply(OptionSelected{OptionID: "bogus"}); effects != nil {
		t.Fatalf("unknown option produced effects: %+v", effects)
	}
	if got := m.Snapshot().Phase; got != PhaseAwaiting {
		t.Fatalf("unknown option changed phase to %s", got)
	}
}

func TestRepeatUnlocksWithoutHidingOptions(t *testing.T) {
	m := NewMachine()
	q, options := yesNoQuestion("q1", "Repeat?")
	m.Load(q, options)
	reveal(t, m)
	m.Apply(OptionSelected{OptionID: OptionNo})

	effects := m.Apply(RepeatRequested{})
	speak, ok := findSpeak(effects)
	if !ok || speak.Text != "Repeat?" {
		t.Fatalf("expected question re-narration, got %+v", effects)
	}
	state := m.Snapshot()
	if state.Selected != "" {
		t.Fatalf("expected cleared selection, got %q", state.Selected)
	}
	if state.Phase != PhaseAwaiting {
		t.Fatalf("expected awaiting after repeat, got %s", state.Phase)
	}
	if !state.Revealed {
		t.Fatal("repeat must not hide revealed options")
	}
}

func TestRepeatBeforeLoadIsIgnored(t *testing.T) {
	m := NewMachine()
	if effects := m.Apply(RepeatRequested{}); effects != nil {
		t.Fatalf("repeat before load produced effects: %+v", effects)
	}
}

func TestRepeatDuringNarrationKeepsPhase(t *testing.T) {
	m := NewMachine()
	q, options := yesNoQuestion("q1", "Mid?")
	m.Load(q, options)

	effects := m.Apply(RepeatRequested{})
	if _, ok := findSpeak(effects); !ok {
		t.Fatalf("expected re-narration, got %+v", effects)
	}
	if got := m.Snapshot().Phase; got != PhaseNarrating {
		t.Fatalf("repeat changed narrating phase to %s", got)
	}

	// Completion of the re-issued narration still drives the reveal.
	gen := m.Snapshot().Generation
	if effects := m.Apply(NarrationFinished{Generation: gen}); len(effects) == 0 {
		t.Fatal("expected reveal schedule after re-narration completes")
	}
}
