package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"kidassess/internal/model"
)

type fakeQuestionRepo struct {
	questions []model.Question
	createErr error
	listCalls int
}

func (r *fakeQuestionRepo) List(ctx context.Context) ([]model.Question, error) {
	r.listCalls++
	out := make([]model.Question, len(r.questions))
	copy(out, r.questions)
	return out, nil
}

func (r *fakeQuestionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	for i := range r.questions {
		if r.questions[i].ID == id {
			q := r.questions[i]
			return &q, nil
		}
	}
	return nil, nil
}

func (r *fakeQuestionRepo) Create(ctx context.Context, question *model.Question) error {
	if r.createErr != nil {
		return r.createErr
	}
	if question.ID == "" {
		question.ID = fmt.Sprintf("q%d", len(r.questions)+1)
	}
	r.questions = append(r.questions, *question)
	return nil
}

func (r *fakeQuestionRepo) Update(ctx context.Context, question *model.Question) error {
	for i := range r.questions {
		if r.questions[i].ID == question.ID {
			r.questions[i] = *question
			return nil
		}
	}
	return errors.New("missing")
}

func (r *fakeQuestionRepo) Delete(ctx context.Context, id string) error {
	for i := range r.questions {
		if r.questions[i].ID == id {
			r.questions = append(r.questions[:i], r.questions[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeImageRepo struct {
	stored   map[string][]byte
	storeErr error
	next     int
}

func (r *fakeImageRepo) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	if r.storeErr != nil {
		return "", r.storeErr
	}
	if r.stored == nil {
		r.stored = make(map[string][]byte)
	}
	r.next++
	id := fmt.Sprintf("img%d", r.next)
	r.stored[id] = data
	return id, nil
}

func (r *fakeImageRepo) Get(ctx context.Context, id string) (*model.HostedImage, error) {
	data, ok := r.stored[id]
	if !ok {
		return nil, nil
	}
	return &model.HostedImage{ID: id, Data: data, ContentType: "image/png"}, nil
}

func (r *fakeImageRepo) Delete(ctx context.Context, id string) error {
	delete(r.stored, id)
	return nil
}

type fakeQuestionCache struct {
	questions   []model.Question
	warm        bool
	invalidated int
}

func (c *fakeQuestionCache) Get(ctx context.Context) ([]model.Question, error) {
	if !c.warm {
		return nil, errors.New("cache miss")
	}
	return c.questions, nil
}

func (c *fakeQuestionCache) Set(ctx context.Context, questions []model.Question) error {
	c.questions = questions
	c.warm = true
	return nil
}

func (c *fakeQuestionCache) Invalidate(ctx context.Context) error {
	c.warm = false
	c.invalidated++
	return nil
}

func newTestQuestionService() (*QuestionService, *fakeQuestionRepo, *fakeImageRepo, *fakeQuestionCache) {
	repo := &fakeQuestionRepo{}
	images := &fakeImageRepo{}
	questions := &fakeQuestionCache{}
	svc := NewQuestionService(repo, images, questions, zerolog.Nop())
	return svc, repo, images, questions
}

func TestCreateValidQuestion(t *testing.T) {
	svc, repo, _, questions := newTestQuestionService()

	created, err := svc.Create(context.Background(), model.Question{
		Text:       "Did you eat breakfast?",
		AnswerType: model.AnswerYesNo,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("no id assigned")
	}
	if len(repo.questions) != 1 {
		t.Fatalf("repo has %d questions", len(repo.questions))
	}
	if questions.invalidated != 1 {
		t.Fatalf("cache invalidated %d times, want 1", questions.invalidated)
	}
}

func TestCreateInvalidQuestionNeverPersists(t *testing.T) {
	svc, repo, images, _ := newTestQuestionService()

	_, err := svc.Create(context.Background(), model.Question{
		Text:       "Which is right?",
		AnswerType: model.AnswerRightWrong,
		RightWrong: &model.RightWrongImages{Image1: "a.png", RightIcon: "r.svg", WrongIcon: "w.svg"},
	})
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.questions) != 0 {
		t.Fatal("invalid question reached the store")
	}
	if len(images.stored) != 0 {
		t.Fatal("images hosted for an invalid question")
	}
}

func TestCreateHostsInlineImages(t *testing.T) {
	svc, repo, images, _ := newTestQuestionService()

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("pixels"))
	created, err := svc.Create(context.Background(), model.Question{
		Text:       "Pick one",
		AnswerType: model.AnswerImages,
		ImageAnswers: []model.ImageAnswer{
			{ID: "a", Image: uri},
			{ID: "b", Image: "https://cdn.example/b.png"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := created.ImageAnswers[0].Image; !strings.HasPrefix(got, "/v1/images/") {
		t.Fatalf("inline image not rewritten: %q", got)
	}
	if got := created.ImageAnswers[1].Image; got != "https://cdn.example/b.png" {
		t.Fatalf("hosted reference changed: %q", got)
	}
	if len(images.stored) != 1 {
		t.Fatalf("stored %d images, want 1", len(images.stored))
	}
	if repo.questions[0].ImageAnswers[0].Image != created.ImageAnswers[0].Image {
		t.Fatal("persisted copy differs from returned copy")
	}
}

func TestCreateSurfacesImageStoreError(t *testing.T) {
	svc, repo, images, _ := newTestQuestionService()
	images.storeErr = errors.New("store unavailable")

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("pixels"))
	_, err := svc.Create(context.Background(), model.Question{
		Text:         "Pick one",
		AnswerType:   model.AnswerImages,
		ImageAnswers: []model.ImageAnswer{{ID: "a", Image: uri}},
	})
	if !errors.Is(err, images.storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(repo.questions) != 0 {
		t.Fatal("question persisted despite hosting failure")
	}
}

func TestCreateSurfacesRepoError(t *testing.T) {
	svc, repo, _, questions := newTestQuestionService()
	repo.createErr = errors.New("write timeout")

	_, err := svc.Create(context.Background(), model.Question{
		Text:       "Sleep well?",
		AnswerType: model.AnswerYesNo,
	})
	if !errors.Is(err, repo.createErr) {
		t.Fatalf("expected repo error, got %v", err)
	}
	if questions.invalidated != 0 {
		t.Fatal("cache invalidated on failed create")
	}
}

func TestListServesFromCacheWhenWarm(t *testing.T) {
	svc, repo, _, _ := newTestQuestionService()
	repo.questions = []model.Question{{ID: "q1", Text: "a"}}

	first, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	second, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("lists: %d, %d", len(first), len(second))
	}
	if repo.listCalls != 1 {
		t.Fatalf("repo hit %d times, want 1", repo.listCalls)
	}
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	svc, repo, _, _ := newTestQuestionService()

	created, err := svc.Create(context.Background(), model.Question{
		Text:       "Original",
		AnswerType: model.AnswerYesNo,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Give the stored copy a distinguishable timestamp.
	repo.questions[0].CreatedAt = repo.questions[0].CreatedAt.AddDate(0, 0, -1)
	want := repo.questions[0].CreatedAt

	updated, err := svc.Update(context.Background(), created.ID, model.Question{
		Text:       "Edited",
		AnswerType: model.AnswerYesNo,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.CreatedAt.Equal(want) {
		t.Fatalf("createdAt changed: %v, want %v", updated.CreatedAt, want)
	}
	if updated.Text != "Edited" {
		t.Fatalf("text = %q", updated.Text)
	}
}

func TestUpdateMissingQuestion(t *testing.T) {
	svc, _, _, _ := newTestQuestionService()

	_, err := svc.Update(context.Background(), "ghost", model.Question{
		Text:       "Edited",
		AnswerType: model.AnswerYesNo,
	})
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestGetMissingQuestion(t *testing.T) {
	svc, _, _, _ := newTestQuestionService()

	_, err := svc.Get(context.Background(), "ghost")
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestDeleteInvalidatesCache(t *testing.T) {
	svc, repo, _, questions := newTestQuestionService()
	repo.questions = []model.Question{{ID: "q1", Text: "a"}}
	questions.warm = true

	if err := svc.Delete(context.Background(), "q1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if questions.warm {
		t.Fatal("cache still warm after delete")
	}
	if len(repo.questions) != 0 {
		t.Fatal("question still in store")
	}
}
