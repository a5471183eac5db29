// Package colloc generates scene-appropriate collocations for lessons and
// serves the collocation detail data: bilingual example sentences, verb
// inflection, and the cross-lesson index. Scene rules and phrase templates
// are data, kept in embedded YAML so new scenes need no code change.
package colloc

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/parsi-learn/academy/internal/content"
)

//go:embed rules.yaml
var rulesYAML []byte

//go:embed templates.yaml
var templatesYAML []byte

// GeneralScene is the fallback when no rule matches.
const GeneralScene = "general"

// Collocation is one generated phrase. IDs are slugs of the English phrase
// and are only unique within a lesson; callers address a collocation by
// the (lesson, id) pair.
type Collocation struct {
	ID    string `json:"id"`
	EN    string `json:"en"`
	FA    string `json:"fa"`
	Scene string `json:"-"`
}

type rule struct {
	scene    string
	patterns []*regexp.Regexp
}

// Generator classifies lesson scenes and produces their collocations.
type Generator struct {
	rules     []rule
	templates map[string][][2]string
}

// NewGenerator parses the embedded rule and template data.
func NewGenerator() (*Generator, error) {
	var rawRules struct {
		Rules []struct {
			Scene string   `yaml:"scene"`
			Match []string `yaml:"match"`
		} `yaml:"rules"`
	}
	if err := yaml.Unmarshal(rulesYAML, &rawRules); err != nil {
		return nil, fmt.Errorf("parse scene rules: %w", err)
	}

	g := &Generator{templates: make(map[string][][2]string)}
	for _, r := range rawRules.Rules {
		compiled := rule{scene: r.Scene}
		for _, p := range r.Match {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("scene %q pattern %q: %w", r.Scene, p, err)
			}
			compiled.patterns = append(compiled.patterns, re)
		}
		if len(compiled.patterns) == 0 {
			return nil, fmt.Errorf("scene %q has no patterns", r.Scene)
		}
		g.rules = append(g.rules, compiled)
	}

	if err := yaml.Unmarshal(templatesYAML, &g.templates); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if _, ok := g.templates[GeneralScene]; !ok {
		return nil, fmt.Errorf("templates missing %q scene", GeneralScene)
	}
	for _, r := range g.rules {
		if _, ok := g.templates[r.scene]; !ok {
			return nil, fmt.Errorf("scene %q has rules but no templates", r.scene)
		}
	}
	return g, nil
}

// sceneText flattens the lesson fields the classifier reads into one
// lowercase blob.
func sceneText(l *content.Lesson) string {
	var parts []string
	add := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}
	add(l.Place)
	if d := l.Description(); d != nil {
		if d.EN != "" {
			add(d.EN)
		} else {
			add(d.FA)
		}
	}
	if a := l.Analysis; a != nil {
		add(a.Setting)
		add(a.SettingFA)
		add(a.Mood)
		add(a.MoodFA)
		for _, o := range a.Objects {
			add(o)
		}
		for _, t := range a.Themes {
			add(t)
		}
	}
	return strings.ToLower(strings.Join(parts, " | "))
}

// Classify returns the first scene whose every pattern matches the
// lesson's scene text, or the general scene.
func (g *Generator) Classify(l *content.Lesson) string {
	t := sceneText(l)
	for _, r := range g.rules {
		ok := true
		for _, re := range r.patterns {
			if !re.MatchString(t) {
				ok = false
				break
			}
		}
		if ok {
			return r.scene
		}
	}
	return GeneralScene
}

// Generate returns the lesson's collocations from its scene template.
func (g *Generator) Generate(l *content.Lesson) []Collocation {
	scene := g.Classify(l)
	pairs := g.templates[scene]
	out := make([]Collocation, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Collocation{ID: Slugify(p[0]), EN: p[0], FA: p[1], Scene: scene})
	}
	return out
}

// Scenes returns every scene with templates.
func (g *Generator) Scenes() []string {
	out := make([]string, 0, len(g.templates))
	for s := range g.templates {
		out = append(out, s)
	}
	return out
}

var (
	apostrophes = regexp.MustCompile(`[’']`)
	nonAlnum    = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// Slugify turns a phrase into a URL-safe id: lowercase, apostrophes
// removed, non-alphanumeric runs collapsed to single hyphens, at most 64
// characters. The empty result becomes "item".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = apostrophes.ReplaceAllString(s, "")
	s = nonAlnum.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 64 {
		s = s[:64]
	}
	if s == "" {
		return "item"
	}
	return s
}

// faPlaceholders are category labels that leak into Persian fields of
// generated data and must not be shown as translations.
var faPlaceholders = map[string]bool{
	"فعل/عمل":   true,
	"موضوع/مفهوم": true,
	"شیء/وسیله":  true,
}

// CleanFA trims the values and drops empties and placeholder labels.
// It returns nil when nothing usable remains.
func CleanFA(values ...string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || faPlaceholders[v] {
			continue
		}
		out = append(out, v)
	}
	return out
}
