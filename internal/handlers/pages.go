package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/parsi-learn/academy/internal/bilingual"
	"github.com/parsi-learn/academy/internal/colloc"
	"github.com/parsi-learn/academy/internal/content"
	"github.com/parsi-learn/academy/internal/dict"
)

//go:embed templates/pages.tmpl
var pageFS embed.FS

var pageTmpl = template.Must(template.ParseFS(pageFS, "templates/pages.tmpl"))

// renderPage renders a named page template into the site shell.
func (h *Handlers) renderPage(w http.ResponseWriter, status int, title, name string, data any) {
	var body bytes.Buffer
	if err := pageTmpl.ExecuteTemplate(&body, name, data); err != nil {
		h.log.Error("template render failed", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	shell := struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(body.String())}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.ExecuteTemplate(w, "shell", shell); err != nil {
		h.log.Error("shell render failed", "error", err)
	}
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	reg, err := h.source.Registry(r.Context())
	if err != nil {
		h.log.Error("registry load failed", "error", err)
		http.Error(w, "registry unavailable", http.StatusBadGateway)
		return
	}
	h.renderPage(w, http.StatusOK, "Lessons", "index", reg)
}

func (h *Handlers) handleLesson(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	ctx := r.Context()

	l, err := h.source.Lesson(ctx, id)
	if err != nil {
		status := http.StatusBadGateway
		var notFound *content.ErrLessonNotFound
		if errors.As(err, &notFound) {
			status = http.StatusNotFound
		}
		h.log.Warn("lesson load failed", "lesson", id, "error", err)
		h.renderErrorPage(w, status, fmt.Sprintf("Lesson %q could not be loaded.", id))
		return
	}

	// The lexicon is a translation fallback; the lesson renders without it.
	lx, err := h.source.Lexicon(ctx)
	if err != nil {
		h.log.Warn("lexicon load failed", "error", err)
		lx = nil
	}

	var prev, next *content.RegistryEntry
	if reg, err := h.source.Registry(ctx); err == nil {
		prev, next = reg.Neighbors(id)
	}

	page := h.builder.BuildPage(l, lx, prev, next)
	var body bytes.Buffer
	if err := h.renderer.Render(&body, page); err != nil {
		h.log.Error("lesson render failed", "lesson", id, "error", err)
		h.renderErrorPage(w, http.StatusInternalServerError, "The lesson could not be rendered.")
		return
	}
	shell := struct {
		Title string
		Body  template.HTML
	}{Title: l.Title, Body: template.HTML(body.String())}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.ExecuteTemplate(w, "shell", shell); err != nil {
		h.log.Error("shell render failed", "error", err)
	}
}

func (h *Handlers) renderErrorPage(w http.ResponseWriter, status int, message string) {
	var body bytes.Buffer
	if err := h.renderer.RenderError(&body, message); err != nil {
		http.Error(w, message, status)
		return
	}
	shell := struct {
		Title string
		Body  template.HTML
	}{Title: "Failed to load lesson", Body: template.HTML(body.String())}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	pageTmpl.ExecuteTemplate(w, "shell", shell)
}

type dictionaryPage struct {
	Query    string
	Matches  []string
	Word     string
	Entry    *dict.Entry
	Meanings []dict.Meaning
	Synonyms []string
	Antonyms []string
}

const (
	maxMeanings = 15
	maxChips    = 24
)

func capChips(words []string) []string {
	if len(words) > maxChips {
		return words[:maxChips]
	}
	return words
}

func (h *Handlers) handleDictionary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	word := r.URL.Query().Get("w")
	ctx := r.Context()

	page := dictionaryPage{Query: q}
	if q != "" {
		res, err := h.dict.Search(ctx, q)
		if err != nil {
			h.log.Error("dictionary search failed", "query", q, "error", err)
			http.Error(w, "dictionary unavailable", http.StatusBadGateway)
			return
		}
		page.Query = res.Query
		page.Matches = res.Matches
		// An exact hit renders immediately unless another word was picked.
		if word == "" && res.Exact != nil {
			page.Word = res.ExactWord
			page.Entry = res.Exact
		}
	}
	if word != "" {
		entry, err := h.dict.Entry(ctx, word)
		if err != nil {
			h.log.Error("dictionary entry failed", "word", word, "error", err)
			http.Error(w, "dictionary unavailable", http.StatusBadGateway)
			return
		}
		if entry != nil {
			page.Word = dict.NormalizeQuery(word)
			page.Entry = entry
		}
	}
	if page.Entry != nil {
		page.Meanings = page.Entry.OrderedMeanings(maxMeanings)
		page.Synonyms = capChips(page.Entry.Synonyms)
		page.Antonyms = capChips(page.Entry.Antonyms)
	}
	h.renderPage(w, http.StatusOK, "Dictionary", "dictionary", page)
}

type wordPage struct {
	Word    string
	FA      string
	Profile *profileView
}

// profileView narrows the profile to what the template shows.
type profileView struct {
	Pos          string
	Definition   string
	Brief        string
	Synonyms     []string
	Antonyms     []string
	Collocations []string
	Patterns     []string
	Examples     []colloc.Example
}

func (h *Handlers) handleWord(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	word := query.Get("id")
	for _, alias := range []string{"word", "w", "q"} {
		if word != "" {
			break
		}
		word = query.Get(alias)
	}
	if word == "" {
		http.Error(w, "missing word", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	p := h.profiles.Lookup(ctx, word)

	page := wordPage{Word: word}
	if p != nil {
		page.Word = p.Word
		page.FA = p.FA
		view := &profileView{
			Pos:          p.Pos,
			Definition:   p.Definition,
			Brief:        p.Brief,
			Synonyms:     p.Synonyms,
			Antonyms:     p.Antonyms,
			Collocations: p.Collocations,
			Patterns:     p.Patterns,
		}
		for _, ex := range p.Examples {
			view.Examples = append(view.Examples, colloc.Example{EN: ex.EN, FA: ex.FA})
		}
		if len(view.Examples) == 0 && p.Example != "" {
			view.Examples = append(view.Examples, colloc.Example{EN: p.Example})
		}
		page.Profile = view
	}
	if page.FA == "" {
		if lx, err := h.source.Lexicon(ctx); err == nil {
			page.FA = lx.FA(word)
		}
	}
	status := http.StatusOK
	if page.Profile == nil && page.FA == "" {
		status = http.StatusNotFound
	}
	h.renderPage(w, status, page.Word, "word", page)
}

type collocationPage struct {
	LessonID          string
	EN                string
	FA                string
	Incomplete        bool
	IncompleteMessage string
	Examples          []colloc.Example
}

func (h *Handlers) handleCollocation(w http.ResponseWriter, r *http.Request) {
	lessonID := r.URL.Query().Get("lesson")
	id := r.URL.Query().Get("c")
	if id == "" {
		http.Error(w, "missing collocation id", http.StatusBadRequest)
		return
	}

	entry, err := h.index.Find(r.Context(), lessonID, id)
	if err != nil {
		h.log.Error("collocation index failed", "error", err)
		http.Error(w, "collocations unavailable", http.StatusBadGateway)
		return
	}
	if entry == nil {
		http.Error(w, "collocation not found", http.StatusNotFound)
		return
	}

	page := collocationPage{
		LessonID: entry.Lesson,
		EN:       entry.EN,
		FA:       entry.FA,
		Examples: colloc.BuildExamples(entry.EN, entry.FA),
	}
	if bilingual.IsIncompleteFA(page.FA) {
		page.FA = ""
		page.Incomplete = true
		page.IncompleteMessage = bilingual.IncompleteFAMessage
	}
	h.renderPage(w, http.StatusOK, entry.EN, "collocation", page)
}

type grammarPage struct {
	LessonID    string
	LessonTitle string
	Title       string
	ExplainEN   string
	ExplainFA   string
	Patterns    []string
	Levels      []grammarLevel
}

type grammarLevel struct {
	Level    string
	Label    string
	Examples []content.Example
}

var grammarLevels = []struct{ key, label string }{
	{"beginner", "Beginner"},
	{"intermediate", "Intermediate"},
	{"advanced", "Advanced"},
}

func (h *Handlers) handleGrammar(w http.ResponseWriter, r *http.Request) {
	lessonID := r.URL.Query().Get("lesson")
	gid := r.URL.Query().Get("g")
	if lessonID == "" || gid == "" {
		http.Error(w, "missing lesson or grammar id", http.StatusBadRequest)
		return
	}

	l, err := h.source.Lesson(r.Context(), lessonID)
	if err != nil {
		status := http.StatusBadGateway
		var notFound *content.ErrLessonNotFound
		if errors.As(err, &notFound) {
			status = http.StatusNotFound
		}
		h.log.Warn("lesson load failed", "lesson", lessonID, "error", err)
		h.renderErrorPage(w, status, fmt.Sprintf("Lesson %q could not be loaded.", lessonID))
		return
	}

	item := l.GrammarItemByID(gid)
	if item == nil {
		h.renderErrorPage(w, http.StatusNotFound, fmt.Sprintf("Grammar item %q not found in lesson.", gid))
		return
	}

	page := grammarPage{
		LessonID:    lessonID,
		LessonTitle: l.Title,
		Title:       item.Title,
		ExplainEN:   item.ExplainEN,
		ExplainFA:   item.ExplainFA,
		Patterns:    item.Patterns,
	}
	if page.Title == "" {
		page.Title = "Grammar"
	}
	for _, lvl := range grammarLevels {
		if exs := item.Examples[lvl.key]; len(exs) > 0 {
			page.Levels = append(page.Levels, grammarLevel{Level: lvl.key, Label: lvl.label, Examples: exs})
		}
	}
	h.renderPage(w, http.StatusOK, page.Title, "grammar", page)
}

func (h *Handlers) handleExercise(w http.ResponseWriter, r *http.Request) {
	lessonID := r.URL.Query().Get("lesson")
	exID := r.URL.Query().Get("ex")
	if lessonID == "" {
		http.Error(w, "missing lesson id", http.StatusBadRequest)
		return
	}

	l, err := h.source.Lesson(r.Context(), lessonID)
	if err != nil {
		h.log.Warn("lesson load failed", "lesson", lessonID, "error", err)
		h.renderErrorPage(w, http.StatusBadGateway, fmt.Sprintf("Lesson %q could not be loaded.", lessonID))
		return
	}

	if exID == "" {
		data := struct {
			LessonID  string
			Exercises []content.Exercise
		}{LessonID: lessonID, Exercises: l.Exercises}
		h.renderPage(w, http.StatusOK, "Timed practice", "exerciseChooser", data)
		return
	}

	ex := l.ExerciseByID(exID)
	if ex == nil {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}
	data := struct {
		LessonID string
		Exercise *content.Exercise
	}{LessonID: lessonID, Exercise: ex}
	h.renderPage(w, http.StatusOK, ex.Name, "exercise", data)
}
