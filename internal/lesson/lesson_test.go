package lesson

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/parsi-learn/academy/internal/bilingual"
	"github.com/parsi-learn/academy/internal/content"
)

// noShuffle keeps order stable so quiz output is deterministic.
func noShuffle(n int, swap func(i, j int)) {}

func testBuilder() *Builder {
	return NewBuilder(nil, noShuffle)
}

func decodeLesson(t *testing.T, raw string) *content.Lesson {
	t.Helper()
	var l content.Lesson
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		t.Fatalf("decode lesson: %v", err)
	}
	return &l
}

func TestBuildVocabGroupsDedup(t *testing.T) {
	l := decodeLesson(t, `{
		"id": "l1", "title": "T",
		"vocabularyExtended": {
			"actions": ["board a train", "Check the map"],
			"objects": ["check the map", "ticket barrier"]
		},
		"vocabularyDetailed": [
			{"en": "board a train", "fa": "سوار قطار شدن", "pos": "verb"},
			{"en": "platform", "fa": "سکو"}
		]
	}`)
	groups := BuildVocabGroups(l, nil)

	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	if groups[0].Key != "actions" || groups[1].Key != "objects" || groups[2].Key != "Vocabulary" {
		t.Fatalf("group order = %s, %s, %s", groups[0].Key, groups[1].Key, groups[2].Key)
	}
	// "check the map" stays in actions, where it first appeared.
	if len(groups[0].Items) != 2 {
		t.Fatalf("actions has %d items, want 2", len(groups[0].Items))
	}
	if len(groups[1].Items) != 1 || groups[1].Items[0].EN != "ticket barrier" {
		t.Fatalf("objects = %+v", groups[1].Items)
	}
	// Detailed entry enriches the extended card.
	if got := groups[0].Items[0]; got.FA != "سوار قطار شدن" || got.Pos != "verb" {
		t.Fatalf("board a train card = %+v", got)
	}
	// Detailed-only word lands in the fallback group.
	if groups[2].Items[0].EN != "platform" {
		t.Fatalf("Vocabulary group = %+v", groups[2].Items)
	}
}

func TestBuildVocabGroupsLexiconFallback(t *testing.T) {
	l := decodeLesson(t, `{
		"id": "l1", "title": "T",
		"vocabulary": [
			{"word": "rush hour", "translation": ""},
			{"word": "turnstile", "translation": "incomplete English text here"}
		]
	}`)
	var lx content.Lexicon
	if err := json.Unmarshal([]byte(`[{"en": "rush hour", "fa": "ساعت شلوغی"}]`), &lx); err != nil {
		t.Fatalf("decode lexicon: %v", err)
	}

	groups := BuildVocabGroups(l, &lx)
	if len(groups) != 1 || len(groups[0].Items) != 2 {
		t.Fatalf("groups = %+v", groups)
	}
	if got := groups[0].Items[0]; got.FA != "ساعت شلوغی" || got.Incomplete {
		t.Fatalf("rush hour = %+v", got)
	}
	if got := groups[0].Items[1]; !got.Incomplete || got.FA != bilingual.IncompleteFAMessage {
		t.Fatalf("turnstile = %+v", got)
	}
}

func TestQuizItemsPreferDetailed(t *testing.T) {
	l := decodeLesson(t, `{
		"id": "l1", "title": "T",
		"vocabulary": [{"word": "legacy", "translation": "x"}],
		"vocabularyDetailed": [
			{"en": "one", "fa": "یک"},
			{"en": "blank", "fa": ""}
		]
	}`)
	items := QuizItems(l)
	if len(items) != 1 || items[0].Word != "one" {
		t.Fatalf("items = %+v", items)
	}
}

func TestBuildQuizTooFewPairs(t *testing.T) {
	pool := []QuizItem{{"a", "1"}, {"b", "2"}, {"c", "3"}}
	if got := testBuilder().BuildQuiz(pool, 5); got != nil {
		t.Fatalf("quiz from 3 pairs = %+v, want nil", got)
	}
}

func TestBuildQuizWellFormed(t *testing.T) {
	pool := []QuizItem{
		{"a", "1"}, {"b", "2"}, {"c", "3"}, {"d", "4"},
		{"e", "5"}, {"f", "6"}, {"g", "7"},
	}
	quiz := testBuilder().BuildQuiz(pool, 5)
	if len(quiz) != 5 {
		t.Fatalf("len(quiz) = %d, want 5", len(quiz))
	}
	for _, q := range quiz {
		if len(q.Options) != 4 {
			t.Fatalf("%s has %d options", q.Prompt, len(q.Options))
		}
		seen := map[string]bool{}
		found := false
		for _, o := range q.Options {
			if seen[o] {
				t.Fatalf("%s repeats option %q", q.Prompt, o)
			}
			seen[o] = true
			if o == q.Answer {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s options %v miss answer %q", q.Prompt, q.Options, q.Answer)
		}
	}
}

func TestBuildQuizTranslationPromptsEnglishAnswers(t *testing.T) {
	pool := []QuizItem{
		{"exit", "خروج"}, {"stairs", "پله"}, {"crowd", "جمعیت"}, {"commuter", "مسافر"},
	}
	translation := map[string]string{}
	for _, it := range pool {
		translation[it.Word] = it.Translation
	}

	quiz := testBuilder().BuildQuiz(pool, 5)
	if len(quiz) != 4 {
		t.Fatalf("len(quiz) = %d, want 4", len(quiz))
	}
	for _, q := range quiz {
		if got := translation[q.Answer]; got != q.Prompt {
			t.Fatalf("answer %q translates to %q, prompt is %q", q.Answer, got, q.Prompt)
		}
		for _, o := range q.Options {
			if _, ok := translation[o]; !ok {
				t.Fatalf("option %q is not an English headword", o)
			}
		}
	}
}

func TestBuildQuizDuplicateWords(t *testing.T) {
	// Only three distinct headwords exist, so no question can field three
	// distractors and the quiz comes out empty.
	pool := []QuizItem{
		{"same", "1"}, {"same", "2"}, {"other", "3"}, {"third", "4"},
	}
	quiz := testBuilder().BuildQuiz(pool, 5)
	if len(quiz) != 0 {
		t.Fatalf("quiz = %+v, want empty", quiz)
	}
}

const fullLessonJSON = `{
	"id": "subway-exit", "title": "Subway Exit",
	"caption": "Commuters at rush hour",
	"fullDescription": {"en": "People leave the subway.", "fa": "مردم از مترو خارج می‌شوند."},
	"simpleEnglish": "People walk.",
	"intermediateEnglish": "Commuters climb the stairs.",
	"scenarios": [{"id": "s1", "title": "Morning rush", "level": "B1", "en": "Sara runs.", "fa": "سارا می‌دود.",
		"grammarLesson": {
			"en": {"tense": "Present continuous", "sentenceStructure": ["Subject + be + verb-ing"], "examples": ["Sara is running."]},
			"fa": {"tense": "حال استمراری", "sentenceStructure": ["فاعل + فعل کمکی + فعل"], "examples": ["سارا در حال دویدن است."]}
		}}],
	"actions": ["climbing stairs"],
	"people": {"count": 12, "gender": "mixed"},
	"place": "a subway exit downtown",
	"objects": ["turnstile"],
	"feelings": ["hurried"],
	"vocabularyDetailed": [
		{"en": "exit", "fa": "خروج"}, {"en": "stairs", "fa": "پله"},
		{"en": "crowd", "fa": "جمعیت"}, {"en": "commuter", "fa": "مسافر"}
	],
	"collocations": [{"en": "catch a train", "fa": "به قطار رسیدن"}],
	"exercises": [{"id": "ex1", "name": "Describe", "level": "beginner", "phases": [{"name": "prep", "seconds": 15}]}],
	"imagePrompt": "A crowded subway exit at 8am.",
	"imageAnalysis": {"time": "morning", "mood": "hurried"},
	"practice": {"sentences": ["They hurry."],
		"vocabularyPractice": {"fillInTheBlank": ["The ___ is crowded."], "answers": ["exit"]}},
	"grammar": "Present continuous for ongoing actions.",
	"toefl": {"examTips": ["Answer every question."]}
}`

func TestBuildSectionsOrder(t *testing.T) {
	l := decodeLesson(t, fullLessonJSON)
	sections := testBuilder().BuildSections(l, nil)

	want := []string{
		"sec-full-desc", "sec-levels", "sec-scenario",
		"sec-actions", "sec-people", "sec-place", "sec-objects", "sec-feelings",
		"sec-vocab", "sec-collocations", "sec-exercises",
		"sec-image-prompt", "sec-image-analysis",
		"sec-practice", "sec-quiz", "sec-grammar", "sec-toefl",
	}
	if len(sections) != len(want) {
		ids := make([]string, len(sections))
		for i, s := range sections {
			ids[i] = s.ID
		}
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i, s := range sections {
		if s.ID != want[i] {
			t.Fatalf("section[%d] = %s, want %s", i, s.ID, want[i])
		}
	}
}

func TestBuildSectionsGrammarItems(t *testing.T) {
	l := decodeLesson(t, `{
		"id": "grammar-heavy", "title": "Grammar Heavy",
		"grammar": [
			{"id": "present-continuous", "title": "Present continuous",
			 "explain_en": "Ongoing actions.", "explain_fa": "کارهای در جریان.",
			 "patterns": ["Subject + be + verb-ing"],
			 "examples": {"beginner": [{"en": "She is walking.", "fa": "او راه می‌رود."}]}},
			{"id": "simple-past", "title": "Simple past"}
		]
	}`)
	sections := testBuilder().BuildSections(l, nil)

	var grammar *Section
	for i := range sections {
		if sections[i].ID == "sec-grammar" {
			grammar = &sections[i]
		}
	}
	if grammar == nil {
		t.Fatal("no sec-grammar section")
	}
	if grammar.Kind != KindGrammar {
		t.Fatalf("kind = %s, want %s", grammar.Kind, KindGrammar)
	}
	if len(grammar.GrammarItems) != 2 || grammar.GrammarItems[0].ID != "present-continuous" {
		t.Fatalf("items = %+v", grammar.GrammarItems)
	}
}

func TestRenderGrammarItemLinks(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	l := decodeLesson(t, `{
		"id": "grammar-heavy", "title": "Grammar Heavy",
		"grammar": [{"id": "present-continuous", "title": "Present continuous"}]
	}`)
	page := testBuilder().BuildPage(l, nil, nil, nil)

	var sb strings.Builder
	if err := r.Render(&sb, page); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `/grammar?lesson=grammar-heavy&amp;g=present-continuous`
	if !strings.Contains(sb.String(), want) {
		t.Fatalf("rendered page missing %q", want)
	}
}

func TestGrammarBasicsPairing(t *testing.T) {
	gl := &content.GrammarLesson{
		EN: content.GrammarLessonSide{
			Tense:             "Present continuous",
			SentenceStructure: []string{"Subject + be + verb-ing", "Negative: be + not + verb-ing"},
			Examples:          []string{"She is walking."},
		},
		FA: content.GrammarLessonSide{
			Tense:             "حال استمراری",
			SentenceStructure: []string{"فاعل + فعل کمکی + فعل"},
			Examples:          []string{"او راه می‌رود.", "آنها می‌دوند."},
		},
	}
	groups := grammarBasics(gl)
	if len(groups) != 3 {
		t.Fatalf("groups = %+v", groups)
	}
	if groups[0].Title != "Tense & time" || groups[0].Paras[0].EN != "Present continuous" {
		t.Fatalf("tense group = %+v", groups[0])
	}
	// Uneven EN/FA lists pair by index and pad the short side.
	structure := groups[1]
	if len(structure.Paras) != 2 {
		t.Fatalf("structure paras = %+v", structure.Paras)
	}
	if structure.Paras[1].EN == "" || structure.Paras[1].FA != "" {
		t.Fatalf("second structure para = %+v", structure.Paras[1])
	}
	examples := groups[2]
	if len(examples.Paras) != 2 || examples.Paras[1].EN != "" || examples.Paras[1].FA == "" {
		t.Fatalf("example paras = %+v", examples.Paras)
	}
	if grammarBasics(nil) != nil {
		t.Fatal("nil lesson should yield nil groups")
	}
}

func TestReorganize(t *testing.T) {
	l := decodeLesson(t, fullLessonJSON)
	layout := Reorganize(testBuilder().BuildSections(l, nil))

	if len(layout.Intro) != 2 || layout.Intro[0].ID != "sec-full-desc" {
		t.Fatalf("intro = %+v", layout.Intro)
	}
	if len(layout.Drawers) != 3 {
		t.Fatalf("drawers = %d, want 3", len(layout.Drawers))
	}
	if layout.Drawers[1].Title != "Scene details" || len(layout.Drawers[1].Sections) != 5 {
		t.Fatalf("scene drawer = %+v", layout.Drawers[1])
	}

	keys := make([]string, len(layout.Tabs))
	for i, tab := range layout.Tabs {
		keys[i] = tab.Key
	}
	want := []string{TabVocab, TabColloc, TabGrammar, TabScenario, TabPractice}
	if len(keys) != len(want) {
		t.Fatalf("tabs = %v, want %v", keys, want)
	}
	for i, k := range keys {
		if k != want[i] {
			t.Fatalf("tabs = %v, want %v", keys, want)
		}
	}
	if !layout.Tabs[0].Active {
		t.Fatal("vocab tab not active")
	}
}

func TestReorganizeDefaultTabFallback(t *testing.T) {
	sections := []Section{
		{ID: "sec-collocations", Kind: KindColloc},
		{ID: "sec-grammar", Kind: KindText},
	}
	layout := Reorganize(sections)
	if len(layout.Tabs) != 2 {
		t.Fatalf("tabs = %+v", layout.Tabs)
	}
	if layout.Tabs[0].Key != TabColloc || !layout.Tabs[0].Active {
		t.Fatalf("active tab = %+v", layout.Tabs[0])
	}
	if layout.Tabs[1].Active {
		t.Fatal("grammar tab active too")
	}
}

func TestRenderLessonPage(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	l := decodeLesson(t, fullLessonJSON)
	page := testBuilder().BuildPage(l, nil,
		&content.RegistryEntry{ID: "prev-lesson", Title: "Previous"},
		&content.RegistryEntry{ID: "next-lesson", Title: "Next"},
	)

	var sb strings.Builder
	if err := r.Render(&sb, page); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := sb.String()

	for _, want := range []string{
		`<h1>Subway Exit</h1>`,
		`id="sec-vocab"`,
		`class="toggle-fa"`,
		`class="fa isHidden"`,
		`data-tab="vocab" aria-selected="true"`,
		`/collocation?lesson=subway-exit&amp;c=catch-a-train`,
		`/exercise?lesson=subway-exit&amp;ex=ex1`,
		`href="/lesson?id=prev-lesson"`,
		`href="/lesson?id=next-lesson"`,
		`class="quiz-prompt" lang="fa" dir="rtl"`,
		`Grammar basics`,
		`Tense &amp; time`,
		`Vocabulary practice`,
		`Answer key`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestRenderError(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	var sb strings.Builder
	if err := r.RenderError(&sb, "lesson missing-id was not found"); err != nil {
		t.Fatalf("RenderError: %v", err)
	}
	if !strings.Contains(sb.String(), "Failed to load lesson") {
		t.Fatalf("error page = %q", sb.String())
	}
}
