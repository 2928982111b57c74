// Package i18n is a static translation table for the small set of UI strings
// the service narrates or returns as canonical answer texts.
package i18n

// Supported locales
const (
	LocaleEnglish = "en"
	LocaleHindi   = "hi"
)

// Table resolves translation keys per locale, falling back to English and
// finally to the key itself when unresolved.
type Table struct {
	entries map[string]map[string]string
}

// NewTable returns the built-in English and Hindi table.
func NewTable() *Table {
	return &Table{
		entries: map[string]map[string]string{
			LocaleEnglish: {
				"app.title":           "Child Assessment",
				"app.yes":             "Yes",
				"app.no":              "No",
				"app.right":           "Right",
				"app.wrong":           "Wrong",
				"app.next":            "Next",
				"app.previous":        "Previous",
				"app.noQuestions":     "No questions available",
				"category.all":        "All",
				"category.morning":    "Morning",
				"category.evening":    "Evening",
				"category.night":      "Night",
				"form.enterQuestion":  "Please enter the question text",
				"form.addImageAnswers": "Please add at least one image answer",
				"form.addAllRightWrongImages": "Please add both images and both answer icons",
			},
			LocaleHindi: {
				"app.title":           "बाल मूल्यांकन",
				"app.yes":             "हाँ",
				"app.no":              "नहीं",
				"app.right":           "सही",
				"app.wrong":           "गलत",
				"app.next":            "अगला",
				"app.previous":        "पिछला",
				"app.noQuestions":     "कोई प्रश्न उपलब्ध नहीं",
				"category.all":        "सभी",
				"category.morning":    "सुबह",
				"category.evening":    "शाम",
				"category.night":      "रात",
				"form.enterQuestion":  "कृपया प्रश्न लिखें",
				"form.addImageAnswers": "कृपया कम से कम एक छवि उत्तर जोड़ें",
				"form.addAllRightWrongImages": "कृपया दोनों छवियाँ और दोनों उत्तर आइकन जोड़ें",
			},
		},
	}
}

// Resolve returns the translation for key in locale. Unknown locales fall
// back to English; unknown keys fall back to the key itself.
func (t *Table) Resolve(key, locale string) string {
	if entries, ok := t.entries[locale]; ok {
		if value, ok := entries[key]; ok {
			return value
		}
	}
	if locale != LocaleEnglish {
		if value, ok := t.entries[LocaleEnglish][key]; ok {
			return value
		}
	}
	return key
}

// Locales lists the locales the table carries entries for.
func (t *Table) Locales() []string {
	return []string{LocaleEnglish, LocaleHindi}
}
