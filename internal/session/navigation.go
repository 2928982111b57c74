package session

import "kidassess/internal/model"

// FilterAll shows every question regardless of category.
const FilterAll = "all"

// Navigator holds the ordered question list and the current position within
// the category-filtered view. Ordering is the store's contract (newest
// authored first); the navigator never re-sorts.
type Navigator struct {
	questions []model.Question
	filter    string
	visible   []model.Question
	index     int
}

func NewNavigator(questions []model.Question) *Navigator {
	n := &Navigator{
		questions: questions,
		filter:    FilterAll,
	}
	n.refilter()
	return n
}

// SetFilter switches the visible category and unconditionally resets the
// position to 0, even when the previously active question would still be
// visible under the new filter.
func (n *Navigator) SetFilter(category string) {
	if category == "" {
		category = FilterAll
	}
	n.filter = category
	n.refilter()
}

func (n *Navigator) refilter() {
	n.index = 0
	if n.filter == FilterAll {
		n.visible = n.questions
		return
	}
	visible := make([]model.Question, 0, len(n.questions))
	for _, q := range n.questions {
		if q.Category == n.filter {
			visible = append(visible, q)
		}
	}
	n.visible = visible
}

// Next advances the position, wrapping past the end.
func (n *Navigator) Next() {
	if len(n.visible) == 0 {
		return
	}
	n.index = (n.index + 1) % len(n.visible)
}

// Previous steps back, wrapping past the start.
func (n *Navigator) Previous() {
	if len(n.visible) == 0 {
		return
	}
	n.index = (n.index - 1 + len(n.visible)) % len(n.visible)
}

// Current returns the active question, or false when the filtered view is
// empty. An empty filtered view is a valid state distinct from having no
// questions at all.
func (n *Navigator) Current() (model.Question, bool) {
	if len(n.visible) == 0 {
		return model.Question{}, false
	}
	return n.visible[n.index], true
}

func (n *Navigator) Filter() string { return n.filter }
func (n *Navigator) Index() int     { return n.index }
func (n *Navigator) Len() int       { return len(n.visible) }

// Empty reports whether no questions exist at all, regardless of filter.
func (n *Navigator) Empty() bool { return len(n.questions) == 0 }

// Categories returns the built-in tags followed by any distinct custom tags
// observed in the loaded questions, in first-seen order.
func (n *Navigator) Categories() []string {
	return Categories(n.questions)
}

// Categories derives the selectable category set for a question list.
func Categories(questions []model.Question) []string {
	builtin := []string{model.CategoryMorning, model.CategoryEvening, model.CategoryNight}
	seen := make(map[string]bool, len(builtin))
	for _, tag := range builtin {
		seen[tag] = true
	}
	out := builtin
	for _, q := range questions {
		if q.Category == "" || seen[q.Category] {
			continue
		}
		seen[q.Category] = true
		out = append(out, q.Category)
	}
	return out
}
