// Package pipeline runs one question end to end: resolve dates, build the
// prompt, obtain a Cypher query from the model (or the heuristic fallback),
// dry-run it, execute it, summarize the rows. Single in-flight request per
// Run call, no internal parallelism; concurrent requests share only the
// immutable config.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/factlens/factlens/graphdb"
	"github.com/factlens/factlens/llm"
	"github.com/factlens/factlens/translator"
	Logger "github.com/factlens/factlens/utils/log"
)

// GraphStore is the slice of the graph client the pipeline needs.
type GraphStore interface {
	Validate(ctx context.Context, query string) (string, error)
	Execute(ctx context.Context, query string) ([]map[string]any, error)
}

type Pipeline struct {
	cfg   translator.PromptConfig
	store GraphStore
	gen   llm.Generator
	clock func() time.Time
}

func New(cfg translator.PromptConfig, store GraphStore, gen llm.Generator) *Pipeline {
	return &Pipeline{cfg: cfg, store: store, gen: gen, clock: time.Now}
}

// NewWithClock pins "now" for the temporal resolver, used in tests.
func NewWithClock(cfg translator.PromptConfig, store GraphStore, gen llm.Generator, clock func() time.Time) *Pipeline {
	return &Pipeline{cfg: cfg, store: store, gen: gen, clock: clock}
}

// Run walks the state machine for one question. On failure the returned
// Result still carries everything produced so far (prompt, raw completion,
// extracted query) in its Trace; no stage is retried automatically.
func (p *Pipeline) Run(ctx context.Context, question string) (*Result, error) {
	res := &Result{Question: question}
	trace := &res.Trace

	trace.Stage = StageBuildingPrompt
	literal, phrase, ok := translator.ResolveTemporal(question, p.clock())
	if ok {
		trace.TemporalPhrase = phrase
		trace.TemporalLiteral = literal
	}
	prompt := translator.BuildPrompt(p.cfg, question, literal)
	res.Prompt = prompt
	trace.Prompt = prompt

	trace.Stage = StageGenerating
	query := ""
	raw, genErr := p.gen.Generate(ctx, prompt)
	if genErr == nil {
		trace.RawCompletion = raw
		trace.Stage = StageExtracting
		extracted, exErr := translator.ExtractQuery(raw)
		if exErr == nil {
			query = extracted
			trace.Path = PathModel
		} else {
			trace.FallbackReason = KindExtractionError
		}
	} else {
		trace.FallbackReason = KindModelUnavailable
		Logger.Log.Warn("completion model unreachable, using heuristic translator: ", genErr)
	}

	if query == "" {
		// Fallback branch: model unreachable or unusable output. Recorded in
		// the trace rather than hidden in control flow.
		fbQuery, rule, fbErr := translator.TranslateFallback(question, literal)
		if fbErr != nil {
			return p.fail(res, fbErr)
		}
		query = fbQuery
		trace.Path = PathHeuristic
		trace.HeuristicRule = rule
	}
	res.Query = query
	trace.Query = query

	trace.Stage = StageValidating
	plan, err := p.store.Validate(ctx, query)
	if err != nil {
		return p.fail(res, err)
	}
	trace.Plan = plan

	trace.Stage = StageExecuting
	rows, err := p.store.Execute(ctx, query)
	if err != nil {
		return p.fail(res, err)
	}
	res.Rows = rows

	trace.Stage = StageSummarizing
	if trace.Path == PathModel {
		summary, err := p.gen.Generate(ctx, translator.BuildSummaryPrompt(question, renderRows(rows)))
		if err != nil {
			return p.fail(res, err)
		}
		res.Summary = summary
	} else {
		// The model is known unavailable on the heuristic path, skip the
		// summarization round trip.
		res.Summary = heuristicSummary(rows)
	}

	trace.Stage = StageDone
	return res, nil
}

func (p *Pipeline) fail(res *Result, err error) (*Result, error) {
	res.Trace.ErrorKind = ClassifyError(err)
	res.Trace.ErrorMessage = err.Error()
	res.Trace.Stage = StageErrored
	Logger.Log.WithField("kind", res.Trace.ErrorKind).Warn("pipeline failed: ", err)
	return res, err
}

// ClassifyError maps an error to its reported kind.
func ClassifyError(err error) string {
	var extractionErr *translator.ExtractionError
	var untranslatableErr *translator.UntranslatableQueryError
	var validationErr *graphdb.ValidationError
	var executionErr *graphdb.ExecutionError
	switch {
	case errors.As(err, &extractionErr):
		return KindExtractionError
	case errors.As(err, &untranslatableErr):
		return KindUntranslatableQuery
	case errors.As(err, &validationErr):
		return KindValidationError
	case errors.As(err, &executionErr):
		return KindExecutionError
	case errors.Is(err, llm.ErrUnavailable):
		return KindModelUnavailable
	default:
		return KindInternalError
	}
}

// renderRows compacts result rows for the summarization prompt.
func renderRows(rows []map[string]any) string {
	if len(rows) == 0 {
		return "(no rows)"
	}
	encoded, err := json.Marshal(rows)
	if err != nil {
		return fmt.Sprintf("%v", rows)
	}
	return string(encoded)
}

// heuristicSummary is the deterministic stand-in used when no model is
// around to write prose.
func heuristicSummary(rows []map[string]any) string {
	if len(rows) == 0 {
		return "The query returned no results."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The query returned %d result(s).", len(rows))
	shown := rows
	if len(shown) > 3 {
		shown = shown[:3]
	}
	for i, row := range shown {
		fmt.Fprintf(&b, " Row %d: %s.", i+1, renderRow(row))
	}
	return b.String()
}

func renderRow(row map[string]any) string {
	encoded, err := json.Marshal(row)
	if err != nil {
		return fmt.Sprintf("%v", row)
	}
	return string(encoded)
}
