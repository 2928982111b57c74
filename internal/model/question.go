package model

import "time"

// AnswerType defines the shape of a question's answer options
type AnswerType string

const (
	AnswerYesNo      AnswerType = "yesno"      // Fixed yes/no pair
	AnswerImages     AnswerType = "images"     // One option per uploaded image
	AnswerRightWrong AnswerType = "rightwrong" // Two prompt images, right/wrong icons
)

// Built-in category tags. Authors may add free-form tags on top of these.
const (
	CategoryMorning = "M"
	CategoryEvening = "E"
	CategoryNight   = "N"
)

// ImageAnswer is a single selectable option for AnswerImages questions
type ImageAnswer struct {
	ID    string `json:"id" bson:"id"`
	Image string `json:"image" bson:"image"`
	Text  string `json:"text" bson:"text"`
}

// RightWrongImages holds the payload for AnswerRightWrong questions.
// All four images are required together: the variant is not renderable
// with any of them missing.
type RightWrongImages struct {
	Image1    string `json:"image1" bson:"image1"`
	Image2    string `json:"image2" bson:"image2"`
	RightIcon string `json:"rightIcon" bson:"rightIcon"`
	WrongIcon string `json:"wrongIcon" bson:"wrongIcon"`
}

// Question is an authored assessment question. Immutable once presented;
// the type-specific payload must match AnswerType exactly.
type Question struct {
	ID           string            `json:"id" bson:"_id,omitempty"`
	Text         string            `json:"text" bson:"text"`
	Image        string            `json:"image,omitempty" bson:"image,omitempty"`
	AnswerType   AnswerType        `json:"answerType" bson:"answerType"`
	Category     string            `json:"category" bson:"category"`
	ImageAnswers []ImageAnswer     `json:"imageAnswers,omitempty" bson:"imageAnswers,omitempty"`
	RightWrong   *RightWrongImages `json:"rightWrongImages,omitempty" bson:"rightWrongImages,omitempty"`
	CreatedAt    time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// SameIdentity reports whether two questions present as the same question.
// Identity is id plus narrated text, not struct equality: an edit that
// changes the text counts as a new question for the interaction flow.
func (q Question) SameIdentity(other Question) bool {
	return q.ID == other.ID && q.Text == other.Text
}
