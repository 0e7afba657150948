package ingest

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptySentence is returned for blank input.
var ErrEmptySentence = errors.New("empty sentence")

// Sentence represents an ingested Japanese sentence and metadata.
type Sentence struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSentence validates text and wraps it in a Sentence. The text is kept verbatim:
// whitespace inside and around it is reproduced in the annotation.
func NewSentence(text string) (Sentence, error) {
	if strings.TrimSpace(text) == "" {
		return Sentence{}, ErrEmptySentence
	}
	return Sentence{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ReadLines publishes one Sentence per non-blank line of r. Both channels are closed
// when r is exhausted, on read error, or when ctx is done.
func ReadLines(ctx context.Context, r io.Reader) (<-chan Sentence, <-chan error) {
	out := make(chan Sentence, 100)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			if err := ctx.Err(); err != nil {
				errs <- err
				return
			}
			s, err := NewSentence(strings.TrimRight(sc.Text(), "\r"))
			if errors.Is(err, ErrEmptySentence) {
				continue
			}
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			case out <- s:
			}
		}
		if err := sc.Err(); err != nil {
			errs <- err
		}
	}()
	return out, errs
}
