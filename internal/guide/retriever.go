// Package guide retrieves destination guide material and packs it into a
// bounded excerpt block for the plan synthesizer. Retrieval is best
// effort: a failing or unconfigured guide source yields no excerpts, and
// the rest of the pipeline proceeds without them.
package guide

import (
	"context"

	"github.com/mbenedetti/viaggio/internal/domain"
)

// Retriever fetches guide excerpts relevant to a destination, most
// relevant first. Country and interests are hints an implementation may
// use to widen or rank the match; they can be empty.
type Retriever interface {
	Excerpts(ctx context.Context, destination, country string, interests []string) ([]domain.GuideExcerpt, error)
}

// NoopRetriever always returns no excerpts. Used when no guide source is
// configured.
type NoopRetriever struct{}

func (NoopRetriever) Excerpts(context.Context, string, string, []string) ([]domain.GuideExcerpt, error) {
	return nil, nil
}

var _ Retriever = NoopRetriever{}
