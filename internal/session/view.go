package session

import "kidassess/internal/model"

// View is the render-ready projection of a session. The host drives its UI
// entirely from this snapshot; nothing else leaks out of the runner.
type View struct {
	SessionID      string          `json:"sessionId"`
	Locale         string          `json:"locale"`
	Empty          bool            `json:"empty"`
	Filter         string          `json:"filter"`
	Categories     []string        `json:"categories"`
	Index          int             `json:"index"`
	Total          int             `json:"total"`
	Phase          Phase           `json:"phase"`
	Question       *model.Question `json:"question,omitempty"`
	Options        []Option        `json:"options,omitempty"`
	GridColumns    int             `json:"gridColumns,omitempty"`
	Revealed       bool            `json:"revealed"`
	SelectedOption string          `json:"selectedOption,omitempty"`
	AudioURL       string          `json:"audioUrl,omitempty"`
}
