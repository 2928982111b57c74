package session

import (
	"fmt"

	"kidassess/internal/i18n"
	"kidassess/internal/model"
)

// Fixed option ids for the two-option answer types. These are the canonical,
// locale-independent values handed to the recorder.
const (
	OptionYes   = "yes"
	OptionNo    = "no"
	OptionRight = "right"
	OptionWrong = "wrong"
)

// Option is one selectable answer with a stable id and the canonical text
// narrated and recorded when it is chosen.
type Option struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

// ResolveOptions dispatches over the question's answer type and produces its
// ordered option set. The switch is exhaustive: a question whose payload does
// not match its declared type is rejected at authoring time, so an unknown
// type here is a programming error surfaced as an error value.
func ResolveOptions(q model.Question, table *i18n.Table, locale string) ([]Option, error) {
	switch q.AnswerType {
	case model.AnswerYesNo:
		return []Option{
			{ID: OptionYes, Text: table.Resolve("app.yes", locale)},
			{ID: OptionNo, Text: table.Resolve("app.no", locale)},
		}, nil
	case model.AnswerImages:
		options := make([]Option, 0, len(q.ImageAnswers))
		for _, answer := range q.ImageAnswers {
			options = append(options, Option{
				ID:    answer.ID,
				Text:  answer.Text,
				Image: answer.Image,
			})
		}
		return options, nil
	case model.AnswerRightWrong:
		if q.RightWrong == nil {
			return nil, fmt.Errorf("session: right/wrong question %s has no image payload", q.ID)
		}
		return []Option{
			{ID: OptionRight, Text: table.Resolve("app.right", locale), Image: q.RightWrong.RightIcon},
			{ID: OptionWrong, Text: table.Resolve("app.wrong", locale), Image: q.RightWrong.WrongIcon},
		}, nil
	default:
		return nil, fmt.Errorf("session: unknown answer type %q", q.AnswerType)
	}
}

// GridColumns is the layout contract for image options: one column per
// option up to four. Rendering relies on this being stable.
func GridColumns(count int) int {
	switch {
	case count <= 1:
		return 1
	case count >= 4:
		return 4
	default:
		return count
	}
}
