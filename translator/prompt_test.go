package translator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptEmbedsSchemaAndQuestion(t *testing.T) {
	cfg := DefaultPromptConfig()
	prompt := BuildPrompt(cfg, "who shared the flood rumor?", "")

	assert.Contains(t, prompt, "User: {id (string)")
	assert.Contains(t, prompt, "FactCheck: {id (string)")
	assert.Contains(t, prompt, "(p:Post)-[:VERIFIED_BY]->(f:FactCheck)")
	assert.Contains(t, prompt, "Q: who shared the flood rumor?")
	assert.True(t, strings.HasSuffix(prompt, "A:"))
	assert.Contains(t, prompt, "Only output the Cypher query.")
}

func TestBuildPromptEmbedsResolvedLiteral(t *testing.T) {
	cfg := DefaultPromptConfig()
	prompt := BuildPrompt(cfg, "viral posts this month", "2025-08-01T00:00:00")

	// The literal is embedded directly, date math is never delegated to the
	// model.
	assert.Contains(t, prompt, "p.timestamp >= datetime('2025-08-01T00:00:00')")
	// Few-shot examples pick up the same literal.
	assert.Contains(t, prompt, "datetime('2025-08-01T00:00:00') RETURN")
	assert.NotContains(t, prompt, "$DATETIME")
}

func TestBuildPromptWithoutLiteralOmitsFilter(t *testing.T) {
	cfg := DefaultPromptConfig()
	prompt := BuildPrompt(cfg, "who shared the flood rumor?", "")

	assert.Contains(t, prompt, "No date filters requested.")
	assert.NotContains(t, prompt, "$DATETIME")
}

func TestFewShotsIncludeMultiHopExample(t *testing.T) {
	shots := DefaultFewShots()
	multiHop := false
	for _, shot := range shots {
		if strings.Contains(shot.Query, "-[:CREATED]->") && strings.Contains(shot.Query, "-[:VERIFIED_BY]->") {
			multiHop = true
		}
	}
	assert.True(t, multiHop, "few-shots must include an example traversing two relationship types")
}

func TestFewShotsAreCompleteStatements(t *testing.T) {
	// Every example must be a full MATCH ... RETURN statement; a WHERE-less
	// dangling comparison would teach the model malformed Cypher.
	for _, shot := range DefaultFewShots() {
		require.True(t, strings.HasPrefix(shot.Query, "MATCH "), shot.Question)
		require.Contains(t, shot.Query, "RETURN", shot.Question)
	}
}
