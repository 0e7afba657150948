// Package annotate turns raw Japanese text into furigana segments: it runs a
// morphological analyzer over the text, aligns each morpheme's reading with its surface
// and keeps the text between morphemes as plain segments.
package annotate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"furigana/ingest"
	"furigana/kana"
	"furigana/model"
	"furigana/okurigana"
	"furigana/tokenize"
)

// Analyzer splits text into morphemes. Implementations need not be safe for concurrent
// use; an Annotator never calls its analyzer from two goroutines at once.
type Analyzer interface {
	Tokenize(ctx context.Context, text string) ([]model.Token, error)
}

// Annotator annotates text using one analyzer.
type Annotator struct {
	mu       sync.Mutex // guards analyzer
	analyzer Analyzer

	aligner        *okurigana.Aligner
	conv           kana.Converter
	readingField   int
	preserveSpaces bool
	cacheTTL       time.Duration
	cache          *cache.Cache
	logger         *slog.Logger
}

// Option configures an Annotator.
type Option func(*Annotator)

// WithReadingField sets the feature index holding the katakana reading.
func WithReadingField(field int) Option {
	return func(a *Annotator) { a.readingField = field }
}

// WithConverter sets the converter used to normalize readings to hiragana.
func WithConverter(conv kana.Converter) Option {
	return func(a *Annotator) {
		if conv != nil {
			a.conv = conv
		}
	}
}

// WithoutSpaces drops the text found between morphemes (usually whitespace the analyzer
// skipped) instead of keeping it as plain segments.
func WithoutSpaces() Option {
	return func(a *Annotator) { a.preserveSpaces = false }
}

// WithCache memoizes annotations for ttl. A ttl of zero disables the cache.
func WithCache(ttl time.Duration) Option {
	return func(a *Annotator) { a.cacheTTL = ttl }
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Annotator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New builds an Annotator around analyzer. The analyzer is warmed up with an empty parse
// before first use.
func New(ctx context.Context, analyzer Analyzer, opts ...Option) (*Annotator, error) {
	a := &Annotator{
		analyzer:       analyzer,
		conv:           kana.Default,
		readingField:   tokenize.IPAReadingField,
		preserveSpaces: true,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.aligner = okurigana.New(okurigana.WithConverter(a.conv), okurigana.WithLogger(a.logger))
	if a.cacheTTL > 0 {
		a.cache = cache.New(a.cacheTTL, 2*a.cacheTTL)
	}

	if _, err := a.tokenize(ctx, ""); err != nil {
		return nil, fmt.Errorf("warm up analyzer: %w", err)
	}
	return a, nil
}

func (a *Annotator) tokenize(ctx context.Context, text string) ([]model.Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.analyzer.Tokenize(ctx, text)
}

// Annotate splits text into plain and reading-bearing segments. Concatenating the
// segment texts gives back text unless spaces are dropped.
func (a *Annotator) Annotate(ctx context.Context, text string) (model.Segments, error) {
	if text == "" {
		return nil, nil
	}
	if a.cache != nil {
		if v, ok := a.cache.Get(text); ok {
			return v.(model.Segments).Clone(), nil
		}
	}

	toks, err := a.tokenize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("analyze %q: %w", text, err)
	}

	var out model.Segments
	cursor := 0
	for _, tok := range toks {
		if a.preserveSpaces {
			var gap string
			cursor, gap = a.detectGap(cursor, tok, text)
			if gap != "" {
				out = append(out, model.Plain(gap))
			}
		}
		out = append(out, a.parseNode(tok)...)
	}
	if a.preserveSpaces && cursor < len(text) {
		out = append(out, model.Plain(text[cursor:]))
	}

	if a.cache != nil {
		a.cache.Set(text, out.Clone(), cache.DefaultExpiration)
	}
	return out, nil
}

// detectGap locates tok in text at or after cursor and returns the text skipped over
// together with the cursor moved past tok. The analyzer's byte span is used when it has
// one; otherwise the surface is searched for.
func (a *Annotator) detectGap(cursor int, tok model.Token, text string) (int, string) {
	if tok.Surface == "" {
		return cursor, ""
	}
	if start, end, ok := tok.Span(text); ok && start >= cursor {
		return end, text[cursor:start]
	}
	idx := strings.Index(text[cursor:], tok.Surface)
	if idx < 0 {
		a.logger.Warn("morpheme not found in text", "surface", tok.Surface, "cursor", cursor)
		return cursor, ""
	}
	start := cursor + idx
	return start + len(tok.Surface), text[cursor:start]
}

func (a *Annotator) parseNode(tok model.Token) model.Segments {
	surface := tok.Surface
	if surface == "" {
		return nil
	}
	if !kana.ContainsKanji(surface) {
		return model.Segments{model.Plain(surface)}
	}
	reading, ok := tok.Reading(a.readingField)
	if !ok {
		// unknown words carry no reading; the aligner degrades on the mismatch
		a.logger.Debug("no reading for morpheme", "surface", surface, "feature", tok.Feature())
		reading = surface
	}
	return a.aligner.Split(surface, a.conv.ToHiragana(reading))
}

// AnnotateAll annotates texts with at most workers alignments in flight and returns the
// results in input order. Analyzer calls are still serialized.
func (a *Annotator) AnnotateAll(ctx context.Context, texts []string, workers int) ([]model.Segments, error) {
	results := make([]model.Segments, len(texts))
	eg, egCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for i, text := range texts {
		i, text := i, text
		eg.Go(func() error {
			segs, err := a.Annotate(egCtx, text)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			results[i] = segs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Result pairs a sentence with its annotation.
type Result struct {
	Sentence ingest.Sentence `json:"sentence"`
	Segments model.Segments  `json:"segments"`
	Err      error           `json:"-"`
}

// Stream consumes sentences from in and publishes one Result per sentence, in order.
// The output channel is closed when in is closed or ctx is done.
func (a *Annotator) Stream(ctx context.Context, in <-chan ingest.Sentence) <-chan Result {
	out := make(chan Result, 100)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-in:
				if !ok {
					return
				}
				segs, err := a.Annotate(ctx, s.Text)
				if err != nil {
					a.logger.Error("annotate failed", "sentence_id", s.ID, "error", err)
				}
				select {
				case <-ctx.Done():
					return
				case out <- Result{Sentence: s, Segments: segs, Err: err}:
				}
			}
		}
	}()
	return out
}
