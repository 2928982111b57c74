package session

import (
	"testing"

	"kidassess/internal/i18n"
	"kidassess/internal/model"
)

func TestResolveYesNo(t *testing.T) {
	q := model.Question{ID: "q1", Text: "?", AnswerType: model.AnswerYesNo}

	options, err := ResolveOptions(q, i18n.NewTable(), i18n.LocaleHindi)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(options))
	}
	if options[0].ID != OptionYes || options[1].ID != OptionNo {
		t.Fatalf("unexpected option ids: %+v", options)
	}
	if options[0].Text != "हाँ" || options[1].Text != "नहीं" {
		t.Fatalf("expected Hindi texts, got %+v", options)
	}
}

func TestResolveImagesKeepsPayloadOrder(t *testing.T) {
	q := model.Question{
		ID:         "q1",
		Text:       "?",
		AnswerType: model.AnswerImages,
		ImageAnswers: []model.ImageAnswer{
			{ID: "opt-b", Image: "/v1/images/b", Text: "Banana"},
			{ID: "opt-a", Image: "/v1/images/a", Text: "Apple"},
			{ID: "opt-c", Image: "/v1/images/c", Text: "Cherry"},
		},
	}

	options, err := ResolveOptions(q, i18n.NewTable(), i18n.LocaleEnglish)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for i, want := range []string{"opt-b", "opt-a", "opt-c"} {
		if options[i].ID != want {
			t.Fatalf("option %d = %s, want %s", i, options[i].ID, want)
		}
	}
	if options[0].Text != "Banana" || options[0].Image != "/v1/images/b" {
		t.Fatalf("payload fields lost: %+v", options[0])
	}
}

func TestResolveRightWrong(t *testing.T) {
	q := model.Question{
		ID:         "q1",
		Text:       "?",
		AnswerType: model.AnswerRightWrong,
		RightWrong: &model.RightWrongImages{
			Image1:    "/v1/images/1",
			Image2:    "/v1/images/2",
			RightIcon: "/v1/images/tick",
			WrongIcon: "/v1/images/cross",
		},
	}

	options, err := ResolveOptions(q, i18n.NewTable(), i18n.LocaleEnglish)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if options[0].ID != OptionRight || options[0].Image != "/v1/images/tick" {
		t.Fatalf("unexpected right option: %+v", options[0])
	}
	if options[1].ID != OptionWrong || options[1].Image != "/v1/images/cross" {
		t.Fatalf("unexpected wrong option: %+v", options[1])
	}
}

func TestResolveRightWrongWithoutPayloadFails(t *testing.T) {
	q := model.Question{ID: "q1", Text: "?", AnswerType: model.AnswerRightWrong}
	if _, err := ResolveOptions(q, i18n.NewTable(), i18n.LocaleEnglish); err == nil {
		t.Fatal("expected error for missing payload")
	}
}

func TestResolveUnknownTypeFails(t *testing.T) {
	q := model.Question{ID: "q1", Text: "?", AnswerType: "slider"}
	if _, err := ResolveOptions(q, i18n.NewTable(), i18n.LocaleEnglish); err == nil {
		t.Fatal("expected error for unknown answer type")
	}
}

func TestGridColumns(t *testing.T) {
	cases := []struct {
		count int
		want  int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 4},
		{7, 4},
	}
	for _, tc := range cases {
		if got := GridColumns(tc.count); got != tc.want {
			t.Errorf("GridColumns(%d) = %d, want %d", tc.count, got, tc.want)
		}
	}
}
