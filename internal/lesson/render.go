package lesson

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/parsi-learn/academy/internal/content"
)

//go:embed templates/lesson.tmpl
var templateFS embed.FS

// Page is everything the lesson template needs.
type Page struct {
	LessonID string
	Title    string
	Caption  string
	Tags     []string
	Image    content.Image
	Layout   Layout
	Prev     *content.RegistryEntry
	Next     *content.RegistryEntry
}

// sectionCtx pairs a section with the page it belongs to, so section
// templates can link back to the lesson.
type sectionCtx struct {
	Section
	LessonID string
}

// Renderer renders lesson pages to HTML.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"sectionCtx": func(p Page, s Section) sectionCtx {
			return sectionCtx{Section: s, LessonID: p.LessonID}
		},
		"join": strings.Join,
	}
	tmpl, err := template.New("lesson.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/lesson.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse lesson templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// BuildPage assembles the page model for a lesson. prev and next come from
// the registry and may be nil at the ends of the catalog.
func (b *Builder) BuildPage(l *content.Lesson, lx *content.Lexicon, prev, next *content.RegistryEntry) Page {
	sections := b.BuildSections(l, lx)
	return Page{
		LessonID: l.ID,
		Title:    l.Title,
		Caption:  l.Caption,
		Tags:     l.Tags,
		Image:    l.Image(),
		Layout:   Reorganize(sections),
		Prev:     prev,
		Next:     next,
	}
}

// Render writes the lesson page.
func (r *Renderer) Render(w io.Writer, p Page) error {
	return r.tmpl.ExecuteTemplate(w, "lesson", p)
}

// RenderError writes the terminal lesson error panel shown when a lesson
// cannot be loaded.
func (r *Renderer) RenderError(w io.Writer, message string) error {
	return r.tmpl.ExecuteTemplate(w, "lessonError", struct{ Message string }{message})
}
