package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factlens/factlens/graphdb"
	"github.com/factlens/factlens/llm"
	"github.com/factlens/factlens/translator"
)

type scriptedCompletion struct {
	text string
	err  error
}

// fakeGenerator replays scripted completions, one per Generate call. When a
// single error is set it applies to every call.
type fakeGenerator struct {
	script  []scriptedCompletion
	err     error
	prompts []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	next := g.script[0]
	if len(g.script) > 1 {
		g.script = g.script[1:]
	}
	return next.text, next.err
}

func completions(texts ...string) []scriptedCompletion {
	out := make([]scriptedCompletion, 0, len(texts))
	for _, text := range texts {
		out = append(out, scriptedCompletion{text: text})
	}
	return out
}

// fakeStore records the order of Validate/Execute calls.
type fakeStore struct {
	validateErr error
	executeErr  error
	rows        []map[string]any
	calls       []string
	queries     []string
}

func (s *fakeStore) Validate(_ context.Context, query string) (string, error) {
	s.calls = append(s.calls, "validate")
	s.queries = append(s.queries, query)
	if s.validateErr != nil {
		return "", s.validateErr
	}
	return "ProduceResults\n  Filter\n", nil
}

func (s *fakeStore) Execute(_ context.Context, query string) ([]map[string]any, error) {
	s.calls = append(s.calls, "execute")
	s.queries = append(s.queries, query)
	if s.executeErr != nil {
		return nil, s.executeErr
	}
	return s.rows, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var august16 = time.Date(2025, 8, 16, 10, 0, 0, 0, time.UTC)

func TestModelPathEndToEnd(t *testing.T) {
	generated := "```cypher\nMATCH (p:Post)-[:VERIFIED_BY]->(f:FactCheck {status: \"False\"}) WHERE p.timestamp >= datetime('2025-08-01T00:00:00') RETURN p.id, p.content, f.comments LIMIT 5\n```"
	gen := &fakeGenerator{script: completions(generated, "Two false posts were found this month.")}
	store := &fakeStore{rows: []map[string]any{{"p.id": "p1", "p.content": "hoax", "f.comments": "debunked"}}}

	p := NewWithClock(translator.DefaultPromptConfig(), store, gen, fixedClock(august16))
	res, err := p.Run(context.Background(), "Find posts verified as false news this month")
	require.NoError(t, err)

	assert.Equal(t, StageDone, res.Trace.Stage)
	assert.Equal(t, PathModel, res.Trace.Path)
	assert.Equal(t, "2025-08-01T00:00:00", res.Trace.TemporalLiteral)
	// The resolved literal is embedded in the prompt, never computed by the
	// model.
	assert.Contains(t, res.Prompt, "datetime('2025-08-01T00:00:00')")
	assert.Contains(t, res.Query, "-[:VERIFIED_BY]->(f:FactCheck")
	assert.Equal(t, []string{"validate", "execute"}, store.calls)
	assert.Equal(t, "Two false posts were found this month.", res.Summary)
	require.Len(t, res.Rows, 1)
}

func TestModelUnavailableTakesHeuristicPath(t *testing.T) {
	gen := &fakeGenerator{err: llm.ErrUnavailable}
	store := &fakeStore{rows: []map[string]any{{"p.id": "p1"}}}

	p := NewWithClock(translator.DefaultPromptConfig(), store, gen, fixedClock(august16))
	res, err := p.Run(context.Background(), "Show me the most viral posts on Twitter this week")
	require.NoError(t, err)

	assert.Equal(t, StageDone, res.Trace.Stage)
	assert.Equal(t, PathHeuristic, res.Trace.Path)
	assert.Equal(t, KindModelUnavailable, res.Trace.FallbackReason)
	assert.Equal(t, "viral_posts", res.Trace.HeuristicRule)
	assert.Contains(t, res.Query, "p.platform = 'Twitter'")
	// Deterministic summary, no second model round trip.
	assert.Contains(t, res.Summary, "1 result(s)")
	assert.Equal(t, []string{"validate", "execute"}, store.calls)
}

func TestUnusableOutputFallsBackThenGivesUp(t *testing.T) {
	gen := &fakeGenerator{script: completions("I am sorry, I am unable to answer that.")}
	store := &fakeStore{}

	p := NewWithClock(translator.DefaultPromptConfig(), store, gen, fixedClock(august16))
	res, err := p.Run(context.Background(), "how is the weather")
	require.Error(t, err)

	assert.Equal(t, StageErrored, res.Trace.Stage)
	assert.Equal(t, KindExtractionError, res.Trace.FallbackReason)
	assert.Equal(t, KindUntranslatableQuery, res.Trace.ErrorKind)
	// The raw completion stays in the partial trace for diagnosis.
	assert.Equal(t, "I am sorry, I am unable to answer that.", res.Trace.RawCompletion)
	assert.Empty(t, store.calls)
}

func TestValidationFailureNeverExecutes(t *testing.T) {
	gen := &fakeGenerator{script: completions("MATCH (p:Post RETURN p.id")}
	store := &fakeStore{validateErr: &graphdb.ValidationError{Query: "q", Diagnostic: "Invalid input 'RETURN'"}}

	p := NewWithClock(translator.DefaultPromptConfig(), store, gen, fixedClock(august16))
	res, err := p.Run(context.Background(), "list posts")
	require.Error(t, err)

	assert.Equal(t, StageErrored, res.Trace.Stage)
	assert.Equal(t, KindValidationError, res.Trace.ErrorKind)
	assert.Contains(t, res.Trace.ErrorMessage, "Invalid input")
	// The dry-run failure must stop the pipeline before execution.
	assert.Equal(t, []string{"validate"}, store.calls)
	assert.NotEmpty(t, res.Trace.Query)
}

func TestExecutionFailureReported(t *testing.T) {
	gen := &fakeGenerator{script: completions("MATCH (p:Post) RETURN p.id LIMIT 5")}
	store := &fakeStore{executeErr: &graphdb.ExecutionError{Query: "q", Err: context.DeadlineExceeded}}

	p := NewWithClock(translator.DefaultPromptConfig(), store, gen, fixedClock(august16))
	res, err := p.Run(context.Background(), "list posts")
	require.Error(t, err)

	assert.Equal(t, StageErrored, res.Trace.Stage)
	assert.Equal(t, KindExecutionError, res.Trace.ErrorKind)
	assert.Equal(t, []string{"validate", "execute"}, store.calls)
}

func TestSummarizationFailureOnModelPathErrors(t *testing.T) {
	// Generation succeeds but the second call, the summarization, fails.
	gen := &fakeGenerator{script: []scriptedCompletion{
		{text: "MATCH (p:Post) RETURN p.id LIMIT 5"},
		{err: llm.ErrUnavailable},
	}}
	store := &fakeStore{rows: []map[string]any{{"p.id": "p1"}}}

	p := NewWithClock(translator.DefaultPromptConfig(), store, gen, fixedClock(august16))
	res, err := p.Run(context.Background(), "list posts")
	require.Error(t, err)

	assert.Equal(t, StageErrored, res.Trace.Stage)
	assert.Equal(t, KindModelUnavailable, res.Trace.ErrorKind)
	// Query and rows were still produced, the trace keeps them.
	assert.Equal(t, []string{"validate", "execute"}, store.calls)
	assert.NotEmpty(t, res.Trace.Query)
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, KindExtractionError, ClassifyError(&translator.ExtractionError{}))
	assert.Equal(t, KindUntranslatableQuery, ClassifyError(&translator.UntranslatableQueryError{}))
	assert.Equal(t, KindValidationError, ClassifyError(&graphdb.ValidationError{}))
	assert.Equal(t, KindExecutionError, ClassifyError(&graphdb.ExecutionError{}))
	assert.Equal(t, KindModelUnavailable, ClassifyError(llm.ErrUnavailable))
	assert.Equal(t, KindInternalError, ClassifyError(context.Canceled))
}
