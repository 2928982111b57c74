package model

import "time"

// Answer is one recorded respondent choice. There is no correctness or
// scoring field: the system records what was chosen, nothing more.
type Answer struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	SessionID  string    `json:"sessionId" bson:"sessionId"`
	QuestionID string    `json:"questionId" bson:"questionId"`
	OptionID   string    `json:"optionId" bson:"optionId"`
	AnswerText string    `json:"answerText" bson:"answerText"`
	AnsweredAt time.Time `json:"answeredAt" bson:"answeredAt"`
}
