// Package bilingual models paired English/Persian text and the reveal-on-tap
// behavior driving it. Persian is always hidden at first render and revealed
// only by explicit user action.
package bilingual

import (
	"regexp"
	"strings"
)

// Text is one bilingual unit. FA may be empty.
type Text struct {
	EN string
	FA string
}

var blankLine = regexp.MustCompile(`\n\s*\n`)

// SplitParagraphs splits a bilingual block into per-paragraph pairs. English
// and Persian split independently on blank lines and pair up by index. When
// Persian has exactly one paragraph but English has several, the single
// Persian paragraph repeats for every English one (best-effort alignment).
func SplitParagraphs(t Text) []Text {
	en := splitParas(t.EN)
	fa := splitParas(t.FA)

	if len(en) == 0 {
		if len(fa) == 0 {
			return nil
		}
		out := make([]Text, 0, len(fa))
		for _, p := range fa {
			out = append(out, Text{FA: p})
		}
		return out
	}

	out := make([]Text, 0, len(en))
	for i, p := range en {
		pair := Text{EN: p}
		switch {
		case i < len(fa):
			pair.FA = fa[i]
		case len(fa) == 1:
			pair.FA = fa[0]
		}
		out = append(out, pair)
	}
	return out
}

func splitParas(s string) []string {
	var out []string
	for _, p := range blankLine.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsIncompleteFA reports whether a Persian string still contains a noticeable
// amount of Latin text. Such strings come from half-finished translations and
// are replaced with a placeholder instead of being shown as-is.
func IsIncompleteFA(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	latin := 0
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			latin++
			if latin >= 3 {
				return true
			}
		}
	}
	return false
}

// IncompleteFAMessage is shown in place of a mixed-script Persian string.
const IncompleteFAMessage = "ترجمه فارسی این مورد کامل نیست."
