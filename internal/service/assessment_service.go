package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"kidassess/internal/cache"
	"kidassess/internal/i18n"
	"kidassess/internal/model"
	"kidassess/internal/narration"
	"kidassess/internal/repository"
	"kidassess/internal/session"
)

var ErrSessionNotFound = errors.New("session not found")

// Broadcaster pushes session lifecycle events to observers. The WebSocket
// hub implements it.
type Broadcaster interface {
	Publish(sessionID, event string, view session.View)
}

// AssessmentService owns live respondent sessions. Each session is a
// navigator plus a question state machine runner; answers emitted by the
// machine are recorded here without any correctness judgment.
type AssessmentService struct {
	mu       sync.Mutex
	sessions map[string]*session.Runner

	questionSvc   *QuestionService
	answerRepo    repository.AnswerRepo
	views         cache.SessionCache
	table         *i18n.Table
	speaker       narration.Speaker
	defaultLocale string
	broadcaster   Broadcaster
	log           zerolog.Logger
}

func NewAssessmentService(questionSvc *QuestionService, answerRepo repository.AnswerRepo, views cache.SessionCache, table *i18n.Table, speaker narration.Speaker, defaultLocale string, log zerolog.Logger) *AssessmentService {
	return &AssessmentService{
		sessions:      make(map[string]*session.Runner),
		questionSvc:   questionSvc,
		answerRepo:    answerRepo,
		views:         views,
		table:         table,
		speaker:       speaker,
		defaultLocale: defaultLocale,
		log:           log,
	}
}

// SetBroadcaster injects the observer hub.
func (s *AssessmentService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start creates a session over the current question list and activates the
// first question.
func (s *AssessmentService) Start(ctx context.Context, locale, filter string) (session.View, error) {
	questions, err := s.questionSvc.List(ctx)
	if err != nil {
		return session.View{}, err
	}

	if locale == "" {
		locale = s.defaultLocale
	}
	sessionID := uuid.New().String()
	runner := session.NewRunner(session.RunnerConfig{
		SessionID: sessionID,
		Locale:    locale,
		Questions: questions,
		Table:     s.table,
		Speaker:   s.speaker,
		OnAnswer:  s.recordAnswer(sessionID),
		OnEvent:   s.publish(sessionID),
		Log:       s.log,
	})

	s.mu.Lock()
	s.sessions[sessionID] = runner
	s.mu.Unlock()

	if filter != "" {
		runner.Start()
		return runner.SetFilter(filter), nil
	}
	return runner.Start(), nil
}

// View returns the live view, falling back to the cached snapshot when the
// runner is gone (for example after a restart).
func (s *AssessmentService) View(ctx context.Context, sessionID string) (session.View, error) {
	if runner, ok := s.runner(sessionID); ok {
		return runner.View(), nil
	}
	if cached, err := s.views.Get(ctx, sessionID); err == nil && cached != nil {
		return *cached, nil
	}
	return session.View{}, ErrSessionNotFound
}

func (s *AssessmentService) Next(sessionID string) (session.View, error) {
	return s.withRunner(sessionID, (*session.Runner).Next)
}

func (s *AssessmentService) Previous(sessionID string) (session.View, error) {
	return s.withRunner(sessionID, (*session.Runner).Previous)
}

func (s *AssessmentService) Repeat(sessionID string) (session.View, error) {
	return s.withRunner(sessionID, (*session.Runner).Repeat)
}

func (s *AssessmentService) NarrationDone(sessionID string) (session.View, error) {
	return s.withRunner(sessionID, (*session.Runner).NarrationDone)
}

func (s *AssessmentService) SetFilter(sessionID, category string) (session.View, error) {
	runner, ok := s.runner(sessionID)
	if !ok {
		return session.View{}, ErrSessionNotFound
	}
	return runner.SetFilter(category), nil
}

func (s *AssessmentService) Select(sessionID, optionID string) (session.View, error) {
	runner, ok := s.runner(sessionID)
	if !ok {
		return session.View{}, ErrSessionNotFound
	}
	return runner.Select(optionID), nil
}

// Answers lists everything recorded for a session, in answer order.
func (s *AssessmentService) Answers(ctx context.Context, sessionID string) ([]model.Answer, error) {
	return s.answerRepo.ListBySession(ctx, sessionID)
}

// End drops a session and its cached view.
func (s *AssessmentService) End(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	runner, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	_ = runner // timers go stale by generation; nothing to tear down
	return s.views.Delete(ctx, sessionID)
}

func (s *AssessmentService) runner(sessionID string) (*session.Runner, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	runner, ok := s.sessions[sessionID]
	return runner, ok
}

func (s *AssessmentService) withRunner(sessionID string, op func(*session.Runner) session.View) (session.View, error) {
	runner, ok := s.runner(sessionID)
	if !ok {
		return session.View{}, ErrSessionNotFound
	}
	return op(runner), nil
}

func (s *AssessmentService) recordAnswer(sessionID string) session.AnswerFunc {
	return func(emitted session.EmitAnswer) {
		answer := &model.Answer{
			SessionID:  sessionID,
			QuestionID: emitted.QuestionID,
			OptionID:   emitted.OptionID,
			AnswerText: emitted.AnswerText,
			AnsweredAt: time.Now().UTC(),
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.answerRepo.Record(ctx, answer); err != nil {
			s.log.Error().Err(err).Str("session", sessionID).Str("question", emitted.QuestionID).Msg("answer record failed")
			return
		}
		s.log.Info().Str("session", sessionID).Str("question", emitted.QuestionID).Str("option", emitted.OptionID).Msg("answer recorded")
	}
}

func (s *AssessmentService) publish(sessionID string) session.EventFunc {
	return func(event string, view session.View) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.views.Set(ctx, view); err != nil {
			s.log.Warn().Err(err).Str("session", sessionID).Msg("session view cache failed")
		}
		if s.broadcaster != nil {
			s.broadcaster.Publish(sessionID, event, view)
		}
	}
}
