package content

import (
	"encoding/json"
	"strings"
)

func normKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "’", "'")
}

// LexEntry is one lexicon record.
type LexEntry struct {
	ID            string `json:"id,omitempty"`
	EN            string `json:"en,omitempty"`
	Word          string `json:"word,omitempty"`
	FARaw         FAText `json:"fa,omitempty"`
	TranslationFA string `json:"translation_fa,omitempty"`
}

// FA returns the Persian translation from whichever field carries it.
func (e LexEntry) FA() string {
	if s := e.FARaw.String(); s != "" {
		return s
	}
	return e.TranslationFA
}

// Headword returns the English form from whichever field carries it.
func (e LexEntry) Headword() string {
	switch {
	case e.EN != "":
		return e.EN
	case e.Word != "":
		return e.Word
	default:
		return e.ID
	}
}

// Lexicon indexes lexicon entries by normalized English form and by id.
// The file ships in three shapes: a map keyed by word, a bare entry array,
// and an {entries: [...]} object.
type Lexicon struct {
	byEN map[string]LexEntry
	byID map[string]LexEntry
}

func (lx *Lexicon) UnmarshalJSON(data []byte) error {
	var entries []LexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		var obj struct {
			Entries []LexEntry `json:"entries"`
		}
		if err := json.Unmarshal(data, &obj); err == nil && obj.Entries != nil {
			entries = obj.Entries
		} else {
			var m map[string]LexEntry
			if err := json.Unmarshal(data, &m); err != nil {
				return err
			}
			lx.byEN = make(map[string]LexEntry, len(m))
			lx.byID = make(map[string]LexEntry)
			for k, e := range m {
				lx.index(normKey(k), e)
			}
			return nil
		}
	}
	lx.byEN = make(map[string]LexEntry, len(entries))
	lx.byID = make(map[string]LexEntry)
	for _, e := range entries {
		lx.index(normKey(e.Headword()), e)
	}
	return nil
}

func (lx *Lexicon) index(key string, e LexEntry) {
	if key != "" {
		lx.byEN[key] = e
	}
	if e.ID != "" {
		lx.byID[e.ID] = e
	}
}

// Lookup finds an entry by id or by normalized English form, also trying
// the key with hyphens and underscores read as spaces.
func (lx *Lexicon) Lookup(key string) (LexEntry, bool) {
	if lx == nil || lx.byEN == nil {
		return LexEntry{}, false
	}
	candidates := []string{
		key,
		strings.ReplaceAll(key, "-", " "),
		strings.ReplaceAll(key, "_", " "),
	}
	for _, c := range candidates {
		n := normKey(c)
		if e, ok := lx.byID[n]; ok {
			return e, true
		}
		if e, ok := lx.byEN[n]; ok {
			return e, true
		}
	}
	return LexEntry{}, false
}

// FA returns the Persian translation for an English key, or "".
func (lx *Lexicon) FA(en string) string {
	e, ok := lx.Lookup(en)
	if !ok {
		return ""
	}
	return e.FA()
}
