package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
)

type fakeFetcher struct {
	shards  map[string]string
	fetches map[string]int
	err     error
}

func (f *fakeFetcher) FetchJSON(ctx context.Context, path string, v any) error {
	if f.fetches == nil {
		f.fetches = make(map[string]int)
	}
	f.fetches[path]++
	if f.err != nil {
		return f.err
	}
	body, ok := f.shards[path]
	if !ok {
		return fmt.Errorf("HTTP 404: %s", path)
	}
	return json.Unmarshal([]byte(body), v)
}

func shardPath(letter string) string {
	return fmt.Sprintf(shardPathFormat, letter)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Take   Off ", "take off"},
		{"don’t", "don't"},
		{"HURRY", "hurry"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestShardKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hurry", "h"},
		{"Take off", "t"},
		{"3d model", "_"},
		{"آرام", "_"},
		{"", "_"},
	}
	for _, tt := range tests {
		if got := ShardKey(tt.in); got != tt.want {
			t.Errorf("ShardKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLookupSanitizes(t *testing.T) {
	f := &fakeFetcher{shards: map[string]string{shardPath("h"): `{
		"hurry": {
			"pos": "verb",
			"definition": "move or act quickly",
			"synonyms": ["rush", "Rush", "  ", "—", "hasten"],
			"antonyms": ["dawdle", "He was in such a hurry that he forgot his keys."]
		}
	}`}}
	s := NewStore(f)

	p := s.Lookup(t.Context(), "Hurry")
	if p == nil {
		t.Fatal("profile not found")
	}
	if p.Word != "hurry" {
		t.Errorf("word = %q", p.Word)
	}
	if len(p.Synonyms) != 2 || p.Synonyms[0] != "rush" || p.Synonyms[1] != "hasten" {
		t.Errorf("synonyms = %v, want deduped [rush hasten]", p.Synonyms)
	}
	if len(p.Antonyms) != 1 || p.Antonyms[0] != "dawdle" {
		t.Errorf("antonyms = %v, want sentence dropped", p.Antonyms)
	}
}

func TestLookupMemoizesMisses(t *testing.T) {
	f := &fakeFetcher{shards: map[string]string{shardPath("h"): `{}`}}
	s := NewStore(f)
	ctx := t.Context()

	for i := 0; i < 3; i++ {
		if p := s.Lookup(ctx, "hurry"); p != nil {
			t.Fatalf("unexpected profile %+v", p)
		}
	}
	if n := f.fetches[shardPath("h")]; n != 1 {
		t.Errorf("shard h fetched %d times, want 1", n)
	}
}

func TestLookupFetchFailureDegradesToMiss(t *testing.T) {
	f := &fakeFetcher{err: fmt.Errorf("boom")}
	s := NewStore(f)
	ctx := t.Context()

	if p := s.Lookup(ctx, "hurry"); p != nil {
		t.Fatalf("unexpected profile %+v", p)
	}
	// The failed shard is cached as empty, so later lookups in the same
	// letter stay misses without a refetch.
	f.err = nil
	f.shards = map[string]string{shardPath("h"): `{"hurry": {"pos": "verb"}}`}
	if p := s.Lookup(ctx, "hasten"); p != nil {
		t.Fatalf("unexpected profile %+v", p)
	}
	if n := f.fetches[shardPath("h")]; n != 1 {
		t.Errorf("shard h fetched %d times, want 1", n)
	}
}

func TestLookupNonLatinUsesUnderscoreShard(t *testing.T) {
	f := &fakeFetcher{shards: map[string]string{shardPath("_"): `{
		"3d model": {"definition": "a digital object"}
	}`}}
	s := NewStore(f)

	p := s.Lookup(t.Context(), "3D Model")
	if p == nil || p.Definition != "a digital object" {
		t.Fatalf("profile = %+v", p)
	}
}

func TestUniqCleanCap(t *testing.T) {
	in := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		in = append(in, fmt.Sprintf("word%d", i))
	}
	if got := uniqClean(in, 10); len(got) != 10 {
		t.Errorf("len = %d, want 10", len(got))
	}
}
