package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"kidassess/internal/model"
)

const (
	questionListKey = "questions:all"
	questionListTTL = 5 * time.Minute
)

// QuestionCache caches the full ordered question list. Any authoring write
// invalidates it; a miss falls through to the store.
type QuestionCache interface {
	Get(ctx context.Context) ([]model.Question, error)
	Set(ctx context.Context, questions []model.Question) error
	Invalidate(ctx context.Context) error
}

type questionCache struct {
	client *redis.Client
}

func NewQuestionCache(client *redis.Client) QuestionCache {
	return &questionCache{
		client: client,
	}
}

func (c *questionCache) Get(ctx context.Context) ([]model.Question, error) {
	data, err := c.client.Get(ctx, questionListKey).Result()
	if err != nil {
		return nil, err
	}
	var questions []model.Question
	err = json.Unmarshal([]byte(data), &questions)
	return questions, err
}

func (c *questionCache) Set(ctx context.Context, questions []model.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, questionListKey, data, questionListTTL).Err()
}

func (c *questionCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, questionListKey).Err()
}
