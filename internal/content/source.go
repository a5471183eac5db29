package content

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/lesson.schema.json
var lessonSchemaJSON []byte

// Fetcher loads a JSON document by path. *httpx.Client satisfies it.
type Fetcher interface {
	FetchJSON(ctx context.Context, path string, v any) error
}

const (
	registryPath       = "assets/data/registry.json"
	lexiconPath        = "assets/data/lexicon.json"
	lexiconUpdatedPath = "assets/data/lexicon_updated.json"
)

// Source loads lesson content from the content origin. The registry and
// lexicon are fetched once and kept for the lifetime of the source; lesson
// documents are fetched per call and validated against the lesson schema.
// Validation failures are logged, not fatal, because older documents
// predate the schema.
type Source struct {
	fetcher Fetcher
	log     *slog.Logger
	schema  *gojsonschema.Schema

	mu       sync.Mutex
	registry *Registry
	lexicon  *Lexicon
}

// NewSource builds a source over f. The embedded lesson schema must parse;
// it is part of the binary.
func NewSource(f Fetcher, log *slog.Logger) (*Source, error) {
	if log == nil {
		log = slog.Default()
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(lessonSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile lesson schema: %w", err)
	}
	return &Source{fetcher: f, log: log, schema: schema}, nil
}

// Registry returns the lesson index, fetching it on first use.
func (s *Source) Registry(ctx context.Context) (*Registry, error) {
	s.mu.Lock()
	cached := s.registry
	s.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	var reg Registry
	if err := s.fetcher.FetchJSON(ctx, registryPath, &reg); err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	s.mu.Lock()
	if s.registry == nil {
		s.registry = &reg
	}
	cached = s.registry
	s.mu.Unlock()
	return cached, nil
}

// ErrLessonNotFound reports a lesson id absent from the registry.
type ErrLessonNotFound struct{ ID string }

func (e *ErrLessonNotFound) Error() string {
	return fmt.Sprintf("lesson %q not found in registry", e.ID)
}

// Lesson loads one lesson by id: resolves its file through the registry,
// fetches the document, and backfills title, caption, tags and image
// metadata from the registry entry when the document omits them.
func (s *Source) Lesson(ctx context.Context, id string) (*Lesson, error) {
	reg, err := s.Registry(ctx)
	if err != nil {
		return nil, err
	}
	entry := reg.Find(id)
	if entry == nil || entry.File == "" {
		return nil, &ErrLessonNotFound{ID: id}
	}

	var raw json.RawMessage
	if err := s.fetcher.FetchJSON(ctx, entry.File, &raw); err != nil {
		return nil, fmt.Errorf("load lesson %q: %w", id, err)
	}
	s.validate(id, raw)

	var lesson Lesson
	if err := json.Unmarshal(raw, &lesson); err != nil {
		return nil, fmt.Errorf("decode lesson %q: %w", id, err)
	}
	entry.Merge(&lesson)
	if lesson.ID == "" {
		lesson.ID = id
	}
	return &lesson, nil
}

func (s *Source) validate(id string, doc json.RawMessage) {
	res, err := s.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		s.log.Warn("lesson schema check failed", "lesson", id, "error", err)
		return
	}
	if !res.Valid() {
		for _, e := range res.Errors() {
			s.log.Warn("lesson schema violation", "lesson", id, "field", e.Field(), "detail", e.Description())
		}
	}
}

// Lexicon returns the translation lexicon, fetching it on first use. The
// updated file is preferred; the original is the fallback.
func (s *Source) Lexicon(ctx context.Context) (*Lexicon, error) {
	s.mu.Lock()
	cached := s.lexicon
	s.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	var lx Lexicon
	if err := s.fetcher.FetchJSON(ctx, lexiconUpdatedPath, &lx); err != nil {
		s.log.Debug("updated lexicon unavailable", "error", err)
		if err := s.fetcher.FetchJSON(ctx, lexiconPath, &lx); err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
	}
	s.mu.Lock()
	if s.lexicon == nil {
		s.lexicon = &lx
	}
	cached = s.lexicon
	s.mu.Unlock()
	return cached, nil
}
