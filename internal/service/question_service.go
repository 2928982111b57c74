package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"kidassess/internal/cache"
	"kidassess/internal/imaging"
	"kidassess/internal/model"
	"kidassess/internal/repository"
)

var ErrQuestionNotFound = errors.New("question not found")

// QuestionService is the authoring gate: every question passes validation
// and image hosting before it reaches the store. Store failures surface
// unchanged; the in-memory state is untouched so the author can retry.
type QuestionService struct {
	questionRepo repository.QuestionRepo
	imageRepo    repository.ImageRepo
	questions    cache.QuestionCache
	log          zerolog.Logger
}

func NewQuestionService(questionRepo repository.QuestionRepo, imageRepo repository.ImageRepo, questions cache.QuestionCache, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		imageRepo:    imageRepo,
		questions:    questions,
		log:          log,
	}
}

// List returns all questions newest first, served from cache when warm.
func (s *QuestionService) List(ctx context.Context) ([]model.Question, error) {
	if cached, err := s.questions.Get(ctx); err == nil {
		return cached, nil
	}
	questions, err := s.questionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.questions.Set(ctx, questions); err != nil {
		s.log.Warn().Err(err).Msg("question cache set failed")
	}
	return questions, nil
}

// Get retrieves one question by id.
func (s *QuestionService) Get(ctx context.Context, id string) (*model.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	return question, nil
}

// Create validates, hosts inline images, and persists a new question.
func (s *QuestionService) Create(ctx context.Context, question model.Question) (*model.Question, error) {
	normalized, err := model.Normalize(question)
	if err != nil {
		return nil, err
	}
	if err := s.hostImages(ctx, &normalized); err != nil {
		return nil, err
	}
	if err := s.questionRepo.Create(ctx, &normalized); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &normalized, nil
}

// Update validates, hosts inline images, and replaces an existing question.
// The original creation timestamp is preserved so the newest-first ordering
// stays stable across edits.
func (s *QuestionService) Update(ctx context.Context, id string, question model.Question) (*model.Question, error) {
	existing, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrQuestionNotFound
	}

	question.ID = id
	normalized, err := model.Normalize(question)
	if err != nil {
		return nil, err
	}
	if err := s.hostImages(ctx, &normalized); err != nil {
		return nil, err
	}
	normalized.CreatedAt = existing.CreatedAt
	if err := s.questionRepo.Update(ctx, &normalized); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &normalized, nil
}

// Delete removes a question.
func (s *QuestionService) Delete(ctx context.Context, id string) error {
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *QuestionService) invalidate(ctx context.Context) {
	if err := s.questions.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("question cache invalidation failed")
	}
}

// hostImages uploads every inline data-URI image and swaps in its hosted
// URL. References already in hosted form pass through unchanged.
func (s *QuestionService) hostImages(ctx context.Context, q *model.Question) error {
	var err error
	if q.Image, err = s.hostOne(ctx, q.Image); err != nil {
		return err
	}
	for i := range q.ImageAnswers {
		if q.ImageAnswers[i].Image, err = s.hostOne(ctx, q.ImageAnswers[i].Image); err != nil {
			return err
		}
	}
	if q.RightWrong != nil {
		rw := q.RightWrong
		if rw.Image1, err = s.hostOne(ctx, rw.Image1); err != nil {
			return err
		}
		if rw.Image2, err = s.hostOne(ctx, rw.Image2); err != nil {
			return err
		}
		if rw.RightIcon, err = s.hostOne(ctx, rw.RightIcon); err != nil {
			return err
		}
		if rw.WrongIcon, err = s.hostOne(ctx, rw.WrongIcon); err != nil {
			return err
		}
	}
	return nil
}

func (s *QuestionService) hostOne(ctx context.Context, ref string) (string, error) {
	if ref == "" || !imaging.IsDataURI(ref) {
		return ref, nil
	}
	data, contentType, err := imaging.ParseDataURI(ref)
	if err != nil {
		return "", fmt.Errorf("parse inline image: %w", err)
	}
	id, err := s.imageRepo.Store(ctx, data, contentType)
	if err != nil {
		return "", err
	}
	return "/v1/images/" + id, nil
}
