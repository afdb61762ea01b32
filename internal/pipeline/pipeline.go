// Package pipeline chains the planning stages: query parsing, external
// data collection, guide retrieval, context assembly, and plan synthesis.
// Every stage is injected as an interface so the chain can run with stubs
// in tests. A run always produces a non-empty plan: each stage degrades
// rather than fails.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/mbenedetti/viaggio/internal/domain"
	"github.com/mbenedetti/viaggio/internal/guide"
	"github.com/mbenedetti/viaggio/internal/planner"
)

// QueryParser extracts a TripRequest from a free-text query, substituting
// defaults on failure.
type QueryParser interface {
	Parse(ctx context.Context, query string) domain.TripRequest
}

// DataCollector gathers all external data for a request.
type DataCollector interface {
	CollectAll(ctx context.Context, req domain.TripRequest) domain.CollectedData
}

// PlanGenerator synthesizes a plan from the assembled context, falling
// back to a deterministic plan on model failure.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, req domain.TripRequest, data domain.CollectedData, contextText string) (string, error)
}

// Result is the immutable outcome of one pipeline run. Plan is never
// empty.
type Result struct {
	Request  domain.TripRequest
	Data     domain.CollectedData
	Excerpts []domain.GuideExcerpt
	Context  string
	Plan     string
}

// Pipeline wires the stages together.
type Pipeline struct {
	parser    QueryParser
	collector DataCollector
	retriever guide.Retriever
	packer    *guide.Packer
	generator PlanGenerator
	log       *slog.Logger
}

// New constructs a Pipeline from its stage implementations.
func New(parser QueryParser, collector DataCollector, retriever guide.Retriever,
	packer *guide.Packer, generator PlanGenerator, log *slog.Logger) *Pipeline {
	return &Pipeline{
		parser:    parser,
		collector: collector,
		retriever: retriever,
		packer:    packer,
		generator: generator,
		log:       log,
	}
}

// Run executes the full chain for one free-text query. Guide retrieval
// failure degrades to no excerpts; data-source failures are already
// per-slot markers; generation failure is absorbed by the generator's
// fallback. The returned error is reserved for failures even the
// fallback cannot absorb.
func (p *Pipeline) Run(ctx context.Context, query string) (Result, error) {
	return p.RunWithRequest(ctx, p.parser.Parse(ctx, query))
}

// RunWithRequest executes the chain for an already-parsed request, used
// when the caller re-plans an existing trip without new free text.
func (p *Pipeline) RunWithRequest(ctx context.Context, req domain.TripRequest) (Result, error) {
	data := p.collector.CollectAll(ctx, req)

	excerpts, err := p.retriever.Excerpts(ctx, req.Destination, req.Country, req.Interests)
	if err != nil {
		p.log.Warn("guide retrieval unavailable", "destination", req.Destination, "error", err)
		excerpts = nil
	}
	excerpts = p.packer.Pack(excerpts)

	contextText := planner.BuildContext(req, data, excerpts)

	plan, err := p.generator.GeneratePlan(ctx, req, data, contextText)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Request:  req,
		Data:     data,
		Excerpts: excerpts,
		Context:  contextText,
		Plan:     plan,
	}, nil
}
