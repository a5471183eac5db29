// Package dict serves the letter-sharded academic dictionary. Each shard is
// one JSON file per initial letter mapping uppercase headwords to an entry,
// so a search only ever loads the single shard its query belongs to.
package dict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Fetcher loads a JSON document by path. *httpx.Client satisfies it.
type Fetcher interface {
	FetchJSON(ctx context.Context, path string, v any) error
}

// Meaning is one numbered sense of an entry. On the wire it is an array
// whose first two elements are part of speech and definition.
type Meaning struct {
	Pos        string
	Definition string
}

func (m *Meaning) UnmarshalJSON(data []byte) error {
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) > 0 {
		m.Pos = parts[0]
	}
	if len(parts) > 1 {
		m.Definition = parts[1]
	}
	return nil
}

// Entry is one dictionary headword.
type Entry struct {
	Meanings map[string]Meaning `json:"MEANINGS"`
	Synonyms []string           `json:"SYNONYMS"`
	Antonyms []string           `json:"ANTONYMS"`
}

// OrderedMeanings returns the entry's senses sorted by their numeric key,
// at most limit of them.
func (e *Entry) OrderedMeanings(limit int) []Meaning {
	keys := make([]string, 0, len(e.Meanings))
	for k := range e.Meanings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.ParseFloat(keys[i], 64)
		b, _ := strconv.ParseFloat(keys[j], 64)
		return a < b
	})
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	out := make([]Meaning, 0, len(keys))
	for _, k := range keys {
		out = append(out, e.Meanings[k])
	}
	return out
}

const (
	maxMatches      = 60
	substringBelow  = 20
	defaultShards   = 3
	shardPathFormat = "assets/data/dict_letters/%s.json"
)

// shard keeps a decoded letter file. keys preserves the file's headword
// order, which ranks search results.
type shard struct {
	entries map[string]Entry
	keys    []string
}

func (sh *shard) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("shard: expected object, got %v", tok)
	}
	sh.entries = make(map[string]Entry)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("shard: expected string key, got %v", keyTok)
		}
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("shard entry %q: %w", key, err)
		}
		sh.entries[key] = e
		sh.keys = append(sh.keys, key)
	}
	return nil
}

type pendingLoad struct {
	done chan struct{}
	sh   *shard
	err  error
}

// Store streams dictionary shards on demand and keeps the most recently
// used ones resident.
type Store struct {
	fetcher Fetcher
	max     int

	mu      sync.Mutex
	shards  map[string]*shard
	order   []string
	pending map[string]*pendingLoad
}

// NewStore returns a store keeping at most maxShards shards in memory.
// maxShards below 1 falls back to the default of 3.
func NewStore(f Fetcher, maxShards int) *Store {
	if maxShards < 1 {
		maxShards = defaultShards
	}
	return &Store{
		fetcher: f,
		max:     maxShards,
		shards:  make(map[string]*shard),
		pending: make(map[string]*pendingLoad),
	}
}

var (
	firstLetter = regexp.MustCompile(`[a-z]`)
	queryJunk   = regexp.MustCompile(`[^A-Z0-9.-]+`)
	dashRuns    = regexp.MustCompile(`-+`)
)

// ShardKey returns the letter shard a query belongs to, or "" when the
// query contains no Latin letter.
func ShardKey(q string) string {
	return firstLetter.FindString(strings.ToLower(q))
}

// NormalizeQuery uppercases the query and collapses everything outside
// A-Z, digits, dot and hyphen into single hyphens. Dot and hyphen are kept
// because shard keys contain them.
func NormalizeQuery(q string) string {
	up := strings.ToUpper(strings.TrimSpace(q))
	up = queryJunk.ReplaceAllString(up, "-")
	up = dashRuns.ReplaceAllString(up, "-")
	return strings.Trim(up, "-")
}

// Result is one search over a single shard.
type Result struct {
	Query   string
	Shard   string
	Matches []string
	// Exact is set when the normalized query is itself a headword.
	Exact     *Entry
	ExactWord string
}

// Search normalizes the query, loads its shard, and returns headwords
// matching by prefix first and by substring only when prefix matches are
// scarce. At most 60 headwords are returned.
func (s *Store) Search(ctx context.Context, raw string) (*Result, error) {
	q := NormalizeQuery(raw)
	if q == "" {
		return &Result{}, nil
	}
	letter := ShardKey(q)
	if letter == "" {
		return &Result{Query: q}, nil
	}

	sh, err := s.loadShard(ctx, letter)
	if err != nil {
		return nil, fmt.Errorf("load shard %q: %w", letter, err)
	}

	res := &Result{Query: q, Shard: letter}
	for _, k := range sh.keys {
		if strings.HasPrefix(k, q) {
			res.Matches = append(res.Matches, k)
			if len(res.Matches) >= maxMatches {
				break
			}
		}
	}
	if len(res.Matches) < substringBelow {
		seen := make(map[string]bool, len(res.Matches))
		for _, m := range res.Matches {
			seen[m] = true
		}
		q2 := strings.ReplaceAll(q, "-", "")
		for _, k := range sh.keys {
			if len(res.Matches) >= maxMatches {
				break
			}
			if seen[k] {
				continue
			}
			if strings.Contains(k, q) || (q2 != "" && strings.Contains(k, q2)) {
				res.Matches = append(res.Matches, k)
			}
		}
	}

	if e, ok := sh.entries[q]; ok {
		res.Exact = &e
		res.ExactWord = q
	}
	return res, nil
}

// Entry returns the entry for an exact headword, or nil when absent.
func (s *Store) Entry(ctx context.Context, headword string) (*Entry, error) {
	q := NormalizeQuery(headword)
	letter := ShardKey(q)
	if letter == "" {
		return nil, nil
	}
	sh, err := s.loadShard(ctx, letter)
	if err != nil {
		return nil, fmt.Errorf("load shard %q: %w", letter, err)
	}
	if e, ok := sh.entries[q]; ok {
		return &e, nil
	}
	return nil, nil
}

// Resident returns the shard letters currently held in memory, oldest
// first.
func (s *Store) Resident() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// loadShard returns the shard for a letter, fetching it at most once even
// under concurrent callers. Loaded shards enter the LRU list and the
// oldest is dropped once the list exceeds the limit.
func (s *Store) loadShard(ctx context.Context, letter string) (*shard, error) {
	s.mu.Lock()
	if sh, ok := s.shards[letter]; ok {
		s.touch(letter)
		s.mu.Unlock()
		return sh, nil
	}
	if p, ok := s.pending[letter]; ok {
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-p.done:
			return p.sh, p.err
		}
	}
	p := &pendingLoad{done: make(chan struct{})}
	s.pending[letter] = p
	s.mu.Unlock()

	var sh *shard
	var loaded shard
	err := s.fetcher.FetchJSON(ctx, fmt.Sprintf(shardPathFormat, letter), &loaded)
	if err == nil {
		sh = &loaded
	}

	s.mu.Lock()
	delete(s.pending, letter)
	if err == nil {
		s.shards[letter] = sh
		s.order = append(s.order, letter)
		for len(s.order) > s.max {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.shards, oldest)
		}
	}
	s.mu.Unlock()

	p.sh, p.err = sh, err
	close(p.done)
	return sh, err
}

// touch moves a resident letter to the most recently used position.
// Caller holds mu.
func (s *Store) touch(letter string) {
	for i, l := range s.order {
		if l == letter {
			s.order = append(append(s.order[:i:i], s.order[i+1:]...), letter)
			return
		}
	}
}
