package lesson

import (
	"sort"
	"strings"

	"github.com/parsi-learn/academy/internal/content"
)

// VocabGroup is one category of vocabulary cards.
type VocabGroup struct {
	Key   string
	Label string
	Items []VocabCard
}

// VocabCard is one word ready for rendering. Incomplete marks a Persian
// side that was replaced with the incomplete-translation notice.
type VocabCard struct {
	EN         string
	FA         string
	Pos        string
	Examples   []content.Example
	Incomplete bool
}

// categoryLabels maps extended-vocabulary category keys to headings.
var categoryLabels = map[string]string{
	"academicPhrases": "Academic phrases",
	"actions":         "Actions",
	"feelings":        "Feelings",
	"places":          "Places",
	"objects":         "Objects",
	"people":          "People",
}

// categoryOrder fixes the display order of the known categories. Unknown
// categories sort alphabetically after them.
var categoryOrder = []string{"academicPhrases", "actions", "feelings", "places", "objects", "people", "Vocabulary"}

func categoryRank(key string) int {
	for i, k := range categoryOrder {
		if k == key {
			return i
		}
	}
	return len(categoryOrder)
}

func categoryLabel(key string) string {
	if l, ok := categoryLabels[key]; ok {
		return l
	}
	return key
}

// BuildVocabGroups merges the lesson's vocabulary shapes into display
// groups. Extended categories win when present; a word appearing in more
// than one category keeps its first category. Detailed entries supply the
// translation and examples, and the lexicon backfills missing Persian.
func BuildVocabGroups(l *content.Lesson, lx *content.Lexicon) []VocabGroup {
	detailed := make(map[string]content.VocabEntry, len(l.VocabularyDetailed))
	for _, e := range l.VocabularyDetailed {
		key := strings.ToLower(strings.TrimSpace(e.EN))
		if key == "" {
			continue
		}
		if _, ok := detailed[key]; !ok {
			detailed[key] = e
		}
	}

	persian := func(en, fa string) (string, bool) {
		if fa == "" && lx != nil {
			fa = lx.FA(en)
		}
		return faOrNotice(fa)
	}

	groups := make(map[string][]VocabCard)
	seen := make(map[string]bool)
	place := func(category, en, fa, pos string, examples []content.Example) {
		en = strings.TrimSpace(en)
		if en == "" {
			return
		}
		key := strings.ToLower(en)
		if seen[key] {
			return
		}
		seen[key] = true
		if d, ok := detailed[key]; ok {
			if fa == "" {
				fa = d.FA.String()
			}
			if pos == "" {
				pos = d.Pos
			}
			if len(examples) == 0 {
				examples = d.Examples
			}
		}
		faOut, incomplete := persian(en, fa)
		groups[category] = append(groups[category], VocabCard{
			EN:         en,
			FA:         faOut,
			Pos:        pos,
			Examples:   examples,
			Incomplete: incomplete,
		})
	}

	if len(l.VocabularyExtended) > 0 {
		keys := make([]string, 0, len(l.VocabularyExtended))
		for k := range l.VocabularyExtended {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			ri, rj := categoryRank(keys[i]), categoryRank(keys[j])
			if ri != rj {
				return ri < rj
			}
			return keys[i] < keys[j]
		})
		for _, cat := range keys {
			for _, word := range l.VocabularyExtended[cat] {
				place(cat, word, "", "", nil)
			}
		}
	}
	for _, e := range l.VocabularyDetailed {
		place("Vocabulary", e.EN, e.FA.String(), e.Pos, e.Examples)
	}
	for _, v := range l.Vocabulary {
		place("Vocabulary", v.Headword(), v.Persian(), "", nil)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := categoryRank(keys[i]), categoryRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	out := make([]VocabGroup, 0, len(keys))
	for _, k := range keys {
		out = append(out, VocabGroup{Key: k, Label: categoryLabel(k), Items: groups[k]})
	}
	return out
}

// QuizItem is one word/translation pair eligible for the quiz.
type QuizItem struct {
	Word        string
	Translation string
}

// QuizItems collects quiz pairs from the lesson, preferring detailed
// vocabulary over the legacy flat list.
func QuizItems(l *content.Lesson) []QuizItem {
	var out []QuizItem
	if len(l.VocabularyDetailed) > 0 {
		for _, e := range l.VocabularyDetailed {
			out = append(out, QuizItem{Word: strings.TrimSpace(e.EN), Translation: strings.TrimSpace(e.FA.String())})
		}
	} else {
		for _, v := range l.Vocabulary {
			out = append(out, QuizItem{Word: strings.TrimSpace(v.Headword()), Translation: strings.TrimSpace(v.Persian())})
		}
	}
	kept := out[:0]
	for _, it := range out {
		if it.Word != "" && it.Translation != "" {
			kept = append(kept, it)
		}
	}
	return kept
}

// QuizQuestion is one multiple choice question. The Persian translation is
// the prompt; Options holds the English answer word and three distractor
// words in shuffled order.
type QuizQuestion struct {
	Prompt  string
	Options []string
	Answer  string
}

const (
	quizMinPool   = 4
	quizQuestions = 5
)

// BuildQuiz builds up to count questions from the pool. It returns nil
// when fewer than four distinct pairs are available, since each question
// needs three distractors.
func (b *Builder) BuildQuiz(pool []QuizItem, count int) []QuizQuestion {
	if count <= 0 {
		count = quizQuestions
	}
	if len(pool) < quizMinPool {
		return nil
	}
	items := make([]QuizItem, len(pool))
	copy(items, pool)
	b.shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	if len(items) > count {
		items = items[:count]
	}

	questions := make([]QuizQuestion, 0, len(items))
	for _, it := range items {
		options := []string{it.Word}
		used := map[string]bool{it.Word: true}
		others := make([]QuizItem, 0, len(pool))
		for _, o := range pool {
			if !used[o.Word] {
				others = append(others, o)
				used[o.Word] = true
			}
		}
		b.shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })
		for _, o := range others {
			if len(options) == 4 {
				break
			}
			options = append(options, o.Word)
		}
		if len(options) < 4 {
			continue
		}
		b.shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
		questions = append(questions, QuizQuestion{Prompt: it.Translation, Options: options, Answer: it.Word})
	}
	return questions
}
