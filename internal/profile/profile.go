// Package profile serves word profiles from per-letter JSON shards. Words
// that do not start with a Latin letter live in the "_" shard. Lookups are
// memoized per word, including misses, so repeated requests for an absent
// word never refetch, and a shard that fails to load counts as empty.
package profile

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// Fetcher loads a JSON document by path. *httpx.Client satisfies it.
type Fetcher interface {
	FetchJSON(ctx context.Context, path string, v any) error
}

// Example is one usage example, optionally translated.
type Example struct {
	EN string `json:"en"`
	FA string `json:"fa,omitempty"`
}

// Profile is the sanitized profile of one word or phrase.
type Profile struct {
	Word         string    `json:"word"`
	Pos          string    `json:"pos,omitempty"`
	Definition   string    `json:"definition,omitempty"`
	FA           string    `json:"fa,omitempty"`
	Brief        string    `json:"brief,omitempty"`
	Synonyms     []string  `json:"synonyms,omitempty"`
	Antonyms     []string  `json:"antonyms,omitempty"`
	Patterns     []string  `json:"patterns,omitempty"`
	Collocations []string  `json:"collocations,omitempty"`
	Examples     []Example `json:"examples,omitempty"`
	Example      string    `json:"example,omitempty"`
}

const shardPathFormat = "assets/data/word_profiles/%s.json"

// Store loads profile shards on demand and memoizes per-word results.
type Store struct {
	fetcher Fetcher

	mu     sync.Mutex
	shards map[string]map[string]*Profile
	// words maps normalized word to its sanitized profile; a present nil
	// records a confirmed miss.
	words map[string]*Profile
}

// NewStore returns an empty store backed by f.
func NewStore(f Fetcher) *Store {
	return &Store{
		fetcher: f,
		shards:  make(map[string]map[string]*Profile),
		words:   make(map[string]*Profile),
	}
}

var spaceRuns = regexp.MustCompile(`\s+`)

// Normalize canonicalizes a word key: NFC form, trimmed, lowercased, inner
// whitespace collapsed, curly apostrophes straightened.
func Normalize(w string) string {
	w = norm.NFC.String(strings.TrimSpace(w))
	w = strings.ToLower(w)
	w = spaceRuns.ReplaceAllString(w, " ")
	return strings.ReplaceAll(w, "’", "'")
}

// ShardKey returns the shard a word belongs to: its first letter when in
// a-z, "_" otherwise.
func ShardKey(w string) string {
	w = Normalize(w)
	if w == "" {
		return "_"
	}
	if c := w[0]; c >= 'a' && c <= 'z' {
		return string(c)
	}
	return "_"
}

// Lookup returns the sanitized profile for a word, or nil when the word has
// no profile. Lookups never fail: a shard fetch failure caches an empty
// shard for that letter, so every word in it degrades to a memoized miss.
func (s *Store) Lookup(ctx context.Context, word string) *Profile {
	w := Normalize(word)
	if w == "" {
		return nil
	}

	s.mu.Lock()
	if p, ok := s.words[w]; ok {
		s.mu.Unlock()
		return p
	}
	letter := ShardKey(w)
	shard, loaded := s.shards[letter]
	s.mu.Unlock()

	if !loaded {
		var raw map[string]*Profile
		if err := s.fetcher.FetchJSON(ctx, fmt.Sprintf(shardPathFormat, letter), &raw); err != nil {
			raw = map[string]*Profile{}
		}
		if raw == nil {
			raw = map[string]*Profile{}
		}
		s.mu.Lock()
		if existing, ok := s.shards[letter]; ok {
			raw = existing
		} else {
			s.shards[letter] = raw
		}
		s.mu.Unlock()
		shard = raw
	}

	p := shard[w]
	if p != nil {
		p = sanitize(w, p)
	}
	s.mu.Lock()
	s.words[w] = p
	s.mu.Unlock()
	return p
}

var junkItem = regexp.MustCompile(`^[-–—•]+$`)

// uniqClean deduplicates a list case-insensitively, dropping empties,
// divider glyphs and strings over 140 characters, capped at max items.
func uniqClean(list []string, max int) []string {
	var out []string
	seen := make(map[string]bool, len(list))
	for _, raw := range list {
		v := strings.TrimSpace(raw)
		if v == "" || junkItem.MatchString(v) || len(v) > 140 {
			continue
		}
		key := strings.ToLower(v)
		if !seen[key] {
			seen[key] = true
			out = append(out, v)
		}
		if len(out) >= max {
			break
		}
	}
	return out
}

var sentenceMark = regexp.MustCompile(`[.!?]`)

// sentenceShaped reports whether a term looks like a full sentence. Some
// source datasets leak example sentences into the antonym list.
func sentenceShaped(v string) bool {
	return sentenceMark.MatchString(v) && len(strings.Split(v, " ")) > 6
}

func sanitize(word string, p *Profile) *Profile {
	out := *p
	if out.Word == "" {
		out.Word = word
	}
	out.Synonyms = uniqClean(p.Synonyms, 10)
	ants := uniqClean(p.Antonyms, 10)
	kept := ants[:0]
	for _, a := range ants {
		if !sentenceShaped(a) {
			kept = append(kept, a)
		}
	}
	out.Antonyms = kept
	out.Patterns = uniqClean(p.Patterns, 10)
	out.Collocations = uniqClean(p.Collocations, 10)
	return &out
}
