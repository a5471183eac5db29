package colloc

import (
	"regexp"
	"strings"
)

type irregular struct {
	past string
	pp   string
}

var irregulars = map[string]irregular{
	"take":  {"took", "taken"},
	"make":  {"made", "made"},
	"get":   {"got", "gotten"},
	"go":    {"went", "gone"},
	"come":  {"came", "come"},
	"run":   {"ran", "run"},
	"sit":   {"sat", "sat"},
	"eat":   {"ate", "eaten"},
	"drink": {"drank", "drunk"},
	"write": {"wrote", "written"},
	"speak": {"spoke", "spoken"},
	"see":   {"saw", "seen"},
	"feel":  {"felt", "felt"},
	"keep":  {"kept", "kept"},
	"leave": {"left", "left"},
	"hold":  {"held", "held"},
	"stand": {"stood", "stood"},
	"build": {"built", "built"},
	"bring": {"brought", "brought"},
	"buy":   {"bought", "bought"},
	"catch": {"caught", "caught"},
	"think": {"thought", "thought"},
	"wear":  {"wore", "worn"},
	"ride":  {"rode", "ridden"},
}

var (
	consY   = regexp.MustCompile(`[^aeiou]y$`)
	sibilant = regexp.MustCompile(`(s|sh|ch|x|z|o)$`)
	cvcEnd  = regexp.MustCompile(`[^aeiou][aeiou][^aeiou]$`)
)

// ThirdPerson returns the third person singular form.
func ThirdPerson(v string) string {
	switch {
	case consY.MatchString(v):
		return v[:len(v)-1] + "ies"
	case sibilant.MatchString(v):
		return v + "es"
	default:
		return v + "s"
	}
}

// Gerund returns the -ing form.
func Gerund(v string) string {
	switch {
	case strings.HasSuffix(v, "ie"):
		return v[:len(v)-2] + "ying"
	case strings.HasSuffix(v, "e") && !strings.HasSuffix(v, "ee"):
		return v[:len(v)-1] + "ing"
	case cvcEnd.MatchString(v) && len(v) <= 5:
		return v + v[len(v)-1:] + "ing"
	default:
		return v + "ing"
	}
}

// Past returns the simple past form.
func Past(v string) string {
	if irr, ok := irregulars[v]; ok {
		return irr.past
	}
	switch {
	case strings.HasSuffix(v, "e"):
		return v + "d"
	case consY.MatchString(v):
		return v[:len(v)-1] + "ied"
	case cvcEnd.MatchString(v) && len(v) <= 5:
		return v + v[len(v)-1:] + "ed"
	default:
		return v + "ed"
	}
}

// PastParticiple returns the past participle form.
func PastParticiple(v string) string {
	if irr, ok := irregulars[v]; ok {
		return irr.pp
	}
	return Past(v)
}

var lowerWord = regexp.MustCompile(`^[a-z]+$`)

// splitVerbPhrase separates the leading verb from the rest of a phrase.
func splitVerbPhrase(phrase string) (verb, rest string) {
	parts := strings.Fields(strings.TrimSpace(phrase))
	if len(parts) == 0 {
		return "", ""
	}
	return strings.ToLower(parts[0]), strings.Join(parts[1:], " ")
}

// looksLikeVerbPhrase reports whether a collocation plausibly starts with
// a verb: a multi-word phrase opening with a plain lowercase word.
func looksLikeVerbPhrase(phrase string) bool {
	phrase = strings.TrimSpace(phrase)
	first, _ := splitVerbPhrase(phrase)
	return lowerWord.MatchString(first) && strings.Contains(phrase, " ") && len(first) > 1
}
