package model

import (
	"fmt"
	"strings"
)

// Issue captures a single authoring problem in a question.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports one or more authoring issues. It blocks
// persistence and is fully recoverable by correcting the input.
type ValidationError struct {
	Issues []Issue `json:"issues"`
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("question validation failed: %s", strings.Join(parts, "; "))
}

type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

// Normalize trims whitespace, applies defaults, and validates the question
// against its declared answer type. This is the authoring gate: a question
// that fails here is never persisted.
func Normalize(q Question) (Question, error) {
	c := &issueCollector{}

	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		c.add("text", "is required")
	}

	q.Category = strings.TrimSpace(q.Category)
	if q.Category == "" {
		q.Category = CategoryMorning
	}

	switch q.AnswerType {
	case AnswerYesNo:
		if len(q.ImageAnswers) > 0 {
			c.add("imageAnswers", "must be empty for yes/no questions")
		}
		if q.RightWrong != nil {
			c.add("rightWrongImages", "must be empty for yes/no questions")
		}
	case AnswerImages:
		if q.RightWrong != nil {
			c.add("rightWrongImages", "must be empty for image questions")
		}
		if len(q.ImageAnswers) == 0 {
			c.add("imageAnswers", "must include at least one entry")
		}
		for i := range q.ImageAnswers {
			q.ImageAnswers[i].Text = strings.TrimSpace(q.ImageAnswers[i].Text)
			if q.ImageAnswers[i].ID == "" {
				c.add(fmt.Sprintf("imageAnswers[%d].id", i), "is required")
			}
		}
	case AnswerRightWrong:
		if len(q.ImageAnswers) > 0 {
			c.add("imageAnswers", "must be empty for right/wrong questions")
		}
		if q.RightWrong == nil {
			c.add("rightWrongImages", "is required")
		} else {
			if q.RightWrong.Image1 == "" {
				c.add("rightWrongImages.image1", "is required")
			}
			if q.RightWrong.Image2 == "" {
				c.add("rightWrongImages.image2", "is required")
			}
			if q.RightWrong.RightIcon == "" {
				c.add("rightWrongImages.rightIcon", "is required")
			}
			if q.RightWrong.WrongIcon == "" {
				c.add("rightWrongImages.wrongIcon", "is required")
			}
		}
	default:
		c.add("answerType", fmt.Sprintf("unknown answer type %q", q.AnswerType))
	}

	if err := c.result(); err != nil {
		return Question{}, err
	}
	return q, nil
}
