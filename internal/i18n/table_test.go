package i18n

import "testing"

func TestResolve(t *testing.T) {
	table := NewTable()
	cases := []struct {
		name   string
		key    string
		locale string
		want   string
	}{
		{"english hit", "app.yes", LocaleEnglish, "Yes"},
		{"hindi hit", "app.yes", LocaleHindi, "हाँ"},
		{"hindi category", "category.night", LocaleHindi, "रात"},
		{"unknown locale falls back to english", "app.no", "fr", "No"},
		{"unknown key falls back to key", "app.missing", LocaleHindi, "app.missing"},
		{"unknown key unknown locale", "app.missing", "fr", "app.missing"},
	}
	for _, tc := range cases {
		if got := table.Resolve(tc.key, tc.locale); got != tc.want {
			t.Errorf("%s: Resolve(%q, %q) = %q, want %q", tc.name, tc.key, tc.locale, got, tc.want)
		}
	}
}

func TestLocales(t *testing.T) {
	table := NewTable()
	locales := table.Locales()
	if len(locales) != 2 || locales[0] != LocaleEnglish || locales[1] != LocaleHindi {
		t.Fatalf("locales = %v", locales)
	}
}

func TestEnglishAndHindiCoverTheSameKeys(t *testing.T) {
	table := NewTable()
	en := table.entries[LocaleEnglish]
	hi := table.entries[LocaleHindi]
	if len(en) != len(hi) {
		t.Fatalf("key count mismatch: en=%d hi=%d", len(en), len(hi))
	}
	for key := range en {
		if _, ok := hi[key]; !ok {
			t.Errorf("hindi missing %q", key)
		}
	}
}
