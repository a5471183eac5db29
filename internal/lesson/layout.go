package lesson

// Tab keys, in display order.
const (
	TabVocab    = "vocab"
	TabColloc   = "collocations"
	TabGrammar  = "grammar"
	TabScenario = "scenario"
	TabPractice = "practice"
	TabMore     = "more"
)

var tabOrder = []string{TabVocab, TabColloc, TabGrammar, TabScenario, TabPractice, TabMore}

var tabLabels = map[string]string{
	TabVocab:    "Vocabulary",
	TabColloc:   "Collocations",
	TabGrammar:  "Grammar",
	TabScenario: "Scenario",
	TabPractice: "Practice",
	TabMore:     "More",
}

// sectionTabs assigns section ids to tabs. Sections not listed here and
// not claimed by the intro land on the More tab.
var sectionTabs = map[string]string{
	"sec-vocab":        TabVocab,
	"sec-quiz":         TabVocab,
	"sec-collocations": TabColloc,
	"sec-grammar":      TabGrammar,
	"sec-scenario":     TabScenario,
	"sec-exercises":    TabPractice,
	"sec-practice":     TabPractice,
}

// introStack lists the sections rendered above the tabs, and introDrawers
// the collapsed groups among them.
var introStack = []string{"sec-full-desc", "sec-levels"}

var introDrawers = []struct {
	Title    string
	Sections []string
}{
	{"Analysis & prompts", []string{"sec-image-analysis", "sec-image-prompt"}},
	{"Scene details", []string{
		"sec-people", "sec-ages", "sec-appearance", "sec-clothing",
		"sec-place", "sec-env", "sec-weather", "sec-objects",
		"sec-actions", "sec-feelings", "sec-visual", "sec-phrases",
	}},
	{"Tips & guide", []string{"sec-toefl"}},
}

// Drawer is one collapsed group of sections above the tabs.
type Drawer struct {
	Title    string
	Sections []Section
}

// Tab is one tab pane.
type Tab struct {
	Key      string
	Label    string
	Active   bool
	Sections []Section
}

// Layout is the tabbed arrangement of a lesson's sections.
type Layout struct {
	Intro   []Section
	Drawers []Drawer
	Tabs    []Tab
}

// Reorganize splits the flat section list into the intro stack, the intro
// drawers, and the tab panes. The first non-empty tab in display order is
// marked active, so a lesson without vocabulary opens on collocations,
// and so on down the order.
func Reorganize(sections []Section) Layout {
	byID := make(map[string]Section, len(sections))
	order := make([]string, 0, len(sections))
	for _, s := range sections {
		byID[s.ID] = s
		order = append(order, s.ID)
	}
	claimed := make(map[string]bool)

	var layout Layout
	for _, id := range introStack {
		if s, ok := byID[id]; ok {
			layout.Intro = append(layout.Intro, s)
			claimed[id] = true
		}
	}
	for _, d := range introDrawers {
		drawer := Drawer{Title: d.Title}
		for _, id := range d.Sections {
			if s, ok := byID[id]; ok {
				drawer.Sections = append(drawer.Sections, s)
				claimed[id] = true
			}
		}
		if len(drawer.Sections) > 0 {
			layout.Drawers = append(layout.Drawers, drawer)
		}
	}

	panes := make(map[string][]Section)
	for _, id := range order {
		if claimed[id] {
			continue
		}
		tab, ok := sectionTabs[id]
		if !ok {
			tab = TabMore
		}
		panes[tab] = append(panes[tab], byID[id])
	}

	active := ""
	for _, key := range tabOrder {
		if key != TabMore && len(panes[key]) > 0 {
			active = key
			break
		}
	}
	if active == "" && len(panes[TabMore]) > 0 {
		active = TabMore
	}
	for _, key := range tabOrder {
		if len(panes[key]) == 0 {
			continue
		}
		layout.Tabs = append(layout.Tabs, Tab{
			Key:      key,
			Label:    tabLabels[key],
			Active:   key == active,
			Sections: panes[key],
		})
	}
	return layout
}
