// Package lesson turns lesson documents into renderable pages: an ordered
// list of sections, the vocabulary merge, the mini quiz, and the tab
// layout. Persian text always renders hidden behind a toggle.
package lesson

import (
	"fmt"
	"sort"
	"strings"

	"github.com/parsi-learn/academy/internal/bilingual"
	"github.com/parsi-learn/academy/internal/colloc"
	"github.com/parsi-learn/academy/internal/content"
)

// Section kinds. Each kind renders through its own template block.
const (
	KindBilingual = "bilingual"
	KindText      = "text"
	KindList      = "list"
	KindLevels    = "levels"
	KindScenario  = "scenario"
	KindVocab     = "vocab"
	KindColloc    = "colloc"
	KindExercises = "exercises"
	KindGrammar   = "grammar"
	KindChecklist = "checklist"
	KindPractice  = "practice"
	KindQuiz      = "quiz"
	KindKeyValue  = "keyvalue"
	KindToefl     = "toefl"
	KindPrompt    = "prompt"
)

// Section is one renderable block of a lesson page.
type Section struct {
	ID    string
	Title string
	Kind  string

	Paras        []bilingual.Text
	Text         string
	Items        []string
	Levels       []LevelPane
	Scenarios    []ScenarioCard
	Groups       []VocabGroup
	Collocs      []colloc.Collocation
	Exercises    []ExerciseGroup
	GrammarItems []content.GrammarItem
	Checklist    []KV
	KVs          []KV
	Practice     *content.Practice
	Quiz         []QuizQuestion
	Toefl        *content.Toefl
}

// KV is one labelled value.
type KV struct {
	K string
	V string
}

// LevelPane is one levelled description pane.
type LevelPane struct {
	Level string
	Label string
	Text  string
}

// ScenarioCard is one scenario ready for rendering.
type ScenarioCard struct {
	Title         string
	GrammarFocus  []string
	Paras         []bilingual.Text
	GrammarUsed   *bilingual.Text
	GrammarBasics []GrammarBasics
}

// GrammarBasics is one titled block of a scenario's grammar-basics drawer.
type GrammarBasics struct {
	Title string
	Paras []bilingual.Text
}

// ExerciseGroup is the exercises of one difficulty level.
type ExerciseGroup struct {
	Level     string
	Label     string
	Desc      string
	Exercises []content.Exercise
}

// Builder assembles lesson pages. The collocation generator fills in
// collocations for lessons that ship none, and the lexicon backfills
// missing Persian translations on vocabulary cards.
type Builder struct {
	generator *colloc.Generator
	shuffle   Shuffler
}

// Shuffler permutes n elements via swap. Tests inject a fixed one.
type Shuffler func(n int, swap func(i, j int))

// NewBuilder returns a builder using the given shuffler for quiz order.
func NewBuilder(gen *colloc.Generator, shuffle Shuffler) *Builder {
	return &Builder{generator: gen, shuffle: shuffle}
}

// faOrNotice returns the Persian string, or the incomplete-translation
// notice when it still contains Latin text.
func faOrNotice(fa string) (string, bool) {
	if fa == "" {
		return "", false
	}
	if bilingual.IsIncompleteFA(fa) {
		return bilingual.IncompleteFAMessage, true
	}
	return fa, false
}

func biParas(t bilingual.Text) []bilingual.Text {
	return bilingual.SplitParagraphs(t)
}

// BuildSections renders the lesson into its sections, in the page's fixed
// order. Sections whose source data is absent are skipped entirely.
func (b *Builder) BuildSections(l *content.Lesson, lx *content.Lexicon) []Section {
	var out []Section
	add := func(s Section) {
		out = append(out, s)
	}

	if d := l.Description(); d != nil {
		add(Section{
			ID:    "sec-full-desc",
			Title: "Full description in English",
			Kind:  KindBilingual,
			Paras: biParas(d.Bilingual()),
		})
	}

	if panes := b.levelPanes(l); len(panes) > 0 {
		add(Section{ID: "sec-levels", Title: "Levelled description", Kind: KindLevels, Levels: panes})
	}

	if cards := b.scenarioCards(l); len(cards) > 0 {
		add(Section{ID: "sec-scenario", Title: "Scenario", Kind: KindScenario, Scenarios: cards})
	}

	addList := func(id, title string, items []string) {
		if len(items) > 0 {
			add(Section{ID: id, Title: title, Kind: KindList, Items: items})
		}
	}
	addText := func(id, title, text string) {
		if text != "" {
			add(Section{ID: id, Title: title, Kind: KindText, Text: text})
		}
	}

	addList("sec-actions", "What are they doing? (Actions)", l.Actions)
	if p := l.People; p != nil && (p.Count != "" || p.Gender != "") {
		line := string(p.Count)
		if p.Gender != "" {
			if line != "" {
				line += " — "
			}
			line += p.Gender
		}
		addText("sec-people", "Gender & count", line)
	}
	addText("sec-ages", "Approximate ages", l.Ages)
	addText("sec-place", "Place / neighborhood", l.Place)
	addList("sec-objects", "Objects in the photo", l.Objects)
	addText("sec-clothing", "What are they wearing? (Clothing)", l.Clothing)
	addText("sec-appearance", "Appearance (skin tone / hair)", l.Appearance)
	addList("sec-feelings", "Feelings / mood", l.Feelings)
	addText("sec-env", "Environment type (setting)", l.EnvironmentType)
	addText("sec-weather", "Weather / lighting", l.WeatherLighting)

	if groups := BuildVocabGroups(l, lx); len(groups) > 0 {
		add(Section{ID: "sec-vocab", Title: "Vocabulary", Kind: KindVocab, Groups: groups})
	}

	if cols := b.collocations(l); len(cols) > 0 {
		add(Section{ID: "sec-collocations", Title: "Collocations", Kind: KindColloc, Collocs: cols})
	}

	if groups := exerciseGroups(l.Exercises); len(groups) > 0 {
		add(Section{ID: "sec-exercises", Title: "Timed Practice", Kind: KindExercises, Exercises: groups})
	}

	if l.ImagePrompt != "" {
		add(Section{ID: "sec-image-prompt", Title: "Custom photo prompt", Kind: KindPrompt, Text: l.ImagePrompt})
	}

	if ia := l.ImageAnalysis; ia != nil {
		items := checklistItems(ia)
		if len(items) > 0 {
			add(Section{ID: "sec-image-analysis", Title: "Image analysis checklist", Kind: KindChecklist, Checklist: items})
		}
	}

	if l.Practice != nil {
		add(Section{ID: "sec-practice", Title: "Practice", Kind: KindPractice, Practice: l.Practice})
	}

	if quiz := b.BuildQuiz(QuizItems(l), 5); len(quiz) > 0 {
		add(Section{ID: "sec-quiz", Title: "Quiz (Vocabulary)", Kind: KindQuiz, Quiz: quiz})
	}

	if items := phraseItems(l.Phrases); len(items) > 0 {
		add(Section{ID: "sec-phrases", Title: "Phrases", Kind: KindList, Items: items})
	}

	if items := l.GrammarItems(); len(items) > 0 {
		add(Section{ID: "sec-grammar", Title: "Grammar", Kind: KindGrammar, GrammarItems: items})
	} else if g := strings.TrimSpace(l.GrammarText()); g != "" {
		add(Section{ID: "sec-grammar", Title: "Grammar", Kind: KindText, Text: g})
	}

	if kvs := visualItems(l.Visual); len(kvs) > 0 {
		add(Section{ID: "sec-visual", Title: "Visual details", Kind: KindKeyValue, KVs: kvs})
	}

	if l.Toefl != nil {
		add(Section{ID: "sec-toefl", Title: "TOEFL Practice", Kind: KindToefl, Toefl: l.Toefl})
	}

	return out
}

func (b *Builder) levelPanes(l *content.Lesson) []LevelPane {
	var panes []LevelPane
	addPane := func(level, label, text string) {
		if text != "" {
			panes = append(panes, LevelPane{Level: level, Label: label, Text: text})
		}
	}
	addPane("beginner", "Beginner", l.SimpleEnglish)
	addPane("intermediate", "Intermediate", l.IntermediateText())
	addPane("advanced", "Advanced", l.AdvancedEnglish)
	return panes
}

func (b *Builder) scenarioCards(l *content.Lesson) []ScenarioCard {
	scenarios := l.ScenarioList()
	cards := make([]ScenarioCard, 0, len(scenarios))
	for i, sc := range scenarios {
		title := sc.Title
		if title == "" {
			title = fmt.Sprintf("Scenario %d", i+1)
		}
		if sc.Level != "" {
			title = sc.Level + " • " + title
		}
		card := ScenarioCard{
			Title:        title,
			GrammarFocus: sc.GrammarFocus,
			Paras:        biParas(bilingual.Text{EN: sc.EN, FA: sc.FA}),
		}
		if len(card.GrammarFocus) > 8 {
			card.GrammarFocus = card.GrammarFocus[:8]
		}
		if gu := sc.GrammarUsed; gu != nil && !gu.IsZero() {
			t := gu.Bilingual()
			card.GrammarUsed = &t
		}
		card.GrammarBasics = grammarBasics(sc.GrammarLesson)
		cards = append(cards, card)
	}
	return cards
}

// grammarBasics pairs the EN and FA sides of a scenario's grammar lesson
// into titled bilingual blocks. Lists pair by index; a missing side leaves
// its half empty.
func grammarBasics(gl *content.GrammarLesson) []GrammarBasics {
	if gl == nil {
		return nil
	}
	var out []GrammarBasics
	if gl.EN.Tense != "" || gl.FA.Tense != "" {
		out = append(out, GrammarBasics{
			Title: "Tense & time",
			Paras: []bilingual.Text{{EN: gl.EN.Tense, FA: gl.FA.Tense}},
		})
	}
	pairLists := func(title string, en, fa []string) {
		n := len(en)
		if len(fa) > n {
			n = len(fa)
		}
		if n == 0 {
			return
		}
		paras := make([]bilingual.Text, 0, n)
		for i := 0; i < n; i++ {
			var t bilingual.Text
			if i < len(en) {
				t.EN = en[i]
			}
			if i < len(fa) {
				t.FA = fa[i]
			}
			paras = append(paras, t)
		}
		out = append(out, GrammarBasics{Title: title, Paras: paras})
	}
	pairLists("Sentence structure", gl.EN.SentenceStructure, gl.FA.SentenceStructure)
	pairLists("How to build it", gl.EN.HowToBuild, gl.FA.HowToBuild)
	pairLists("Examples", gl.EN.Examples, gl.FA.Examples)
	return out
}

func (b *Builder) collocations(l *content.Lesson) []colloc.Collocation {
	if len(l.Collocations) > 0 {
		out := make([]colloc.Collocation, 0, len(l.Collocations))
		for _, c := range l.Collocations {
			en := strings.TrimSpace(c.EN)
			if en == "" {
				continue
			}
			out = append(out, colloc.Collocation{ID: colloc.Slugify(en), EN: en, FA: strings.TrimSpace(c.FA)})
		}
		return out
	}
	if b.generator == nil {
		return nil
	}
	return b.generator.Generate(l)
}

func exerciseGroups(exercises []content.Exercise) []ExerciseGroup {
	if len(exercises) == 0 {
		return nil
	}
	info := []ExerciseGroup{
		{Level: "beginner", Label: "Beginner", Desc: "Start simple and build accuracy."},
		{Level: "intermediate", Label: "Intermediate", Desc: "Add reasoning, prediction, and stronger structure."},
		{Level: "advanced", Label: "Advanced", Desc: "TOEFL-style clarity with inference and solutions."},
	}
	var out []ExerciseGroup
	for _, g := range info {
		for _, e := range exercises {
			if e.Level == g.Level {
				g.Exercises = append(g.Exercises, e)
			}
		}
		if len(g.Exercises) > 0 {
			out = append(out, g)
		}
	}
	return out
}

func checklistItems(ia *content.ImageAnalysis) []KV {
	raw := []KV{
		{"Time", ia.Time},
		{"Weather", ia.Weather},
		{"People", ia.People},
		{"Actions", ia.Actions},
		{"Clothing", ia.Clothing},
		{"Mood", ia.Mood},
	}
	var out []KV
	for _, kv := range raw {
		if kv.V != "" {
			out = append(out, kv)
		}
	}
	return out
}

func phraseItems(phrases []content.VocabItem) []string {
	var out []string
	for _, p := range phrases {
		head := p.Headword()
		if head == "" {
			continue
		}
		if tr := p.Persian(); tr != "" {
			head += " — " + tr
		}
		out = append(out, head)
	}
	return out
}

func visualItems(visual map[string]any) []KV {
	if len(visual) == 0 {
		return nil
	}
	keys := make([]string, 0, len(visual))
	for k := range visual {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []KV
	for _, k := range keys {
		v := visual[k]
		if v == nil {
			continue
		}
		s := fmt.Sprintf("%v", v)
		if s == "" {
			continue
		}
		out = append(out, KV{K: k, V: s})
	}
	return out
}
