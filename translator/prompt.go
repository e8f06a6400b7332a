package translator

import (
	"fmt"
	"strings"
)

// GraphSchemaText enumerates the node labels, properties and edges of the
// lineage graph exactly as the importer writes them. It is embedded verbatim
// into every prompt so the model cannot invent properties.
const GraphSchemaText = `Nodes:

User: {id (string), name (string), username (string), email (string), followers (integer), account_created (date), verified (boolean), location (string)}

Post: {id (string), content (string), timestamp (datetime), likes (integer), shares (integer), comments (integer), platform (string), tags (list of strings), author_id (string), shared_post_id (string, nullable)}

FactCheck: {id (string), status (string), verified_at (datetime), comments (string), source_url (string)}

Relationships:

(u:User)-[:CREATED]->(p:Post)

(p:Post)-[:VERIFIED_BY]->(f:FactCheck)

(u:User)-[:SHARED]->(p:Post)`

// datetimeToken is substituted in few-shot queries with the resolved temporal
// literal, or with defaultDatetime when the question carried no date phrase.
const (
	datetimeToken   = "$DATETIME"
	defaultDatetime = "2023-01-01T00:00:00"
)

// FewShot is one sample question/query pair embedded in the prompt to bias
// the model's output format.
type FewShot struct {
	Question string
	Query    string
}

// DefaultFewShots returns the built-in example set. Every example must be a
// syntactically complete Cypher statement; the multi-hop example traverses
// two relationship types to bias the model away from single-hop answers.
func DefaultFewShots() []FewShot {
	return []FewShot{
		{
			Question: "Show me the most viral posts on Twitter this week",
			Query:    "MATCH (p:Post) WHERE p.shares > 100 AND p.platform = 'Twitter' AND p.timestamp >= datetime('$DATETIME') RETURN p.id, p.content, p.shares, p.timestamp ORDER BY p.shares DESC LIMIT 5",
		},
		{
			Question: "Find posts verified as false news this month",
			Query:    "MATCH (p:Post)-[:VERIFIED_BY]->(f:FactCheck {status: \"False\"}) WHERE p.timestamp >= datetime('$DATETIME') RETURN p.id, p.content, f.comments LIMIT 5",
		},
		{
			Question: "Which verified users created posts that were fact-checked as false?",
			Query:    "MATCH (u:User {verified: true})-[:CREATED]->(p:Post)-[:VERIFIED_BY]->(f:FactCheck) WHERE f.status = 'False' RETURN u.id, u.name, p.id, p.content, f.comments LIMIT 5",
		},
		{
			Question: "Who shared the COVID variant news?",
			Query:    "MATCH (u:User)-[:SHARED]->(p:Post) WHERE toLower(p.content) CONTAINS 'covid variant' RETURN u.id, u.name, p.content, p.timestamp LIMIT 5",
		},
		{
			Question: "List posts created by user john_doe this year",
			Query:    "MATCH (u:User {username: 'john_doe'})-[:CREATED]->(p:Post) WHERE p.timestamp >= datetime('$DATETIME') RETURN p.id, p.content, p.timestamp LIMIT 5",
		},
	}
}

// PromptConfig is the immutable prompt-assembly configuration, constructed
// once at process start and shared read-only across requests.
type PromptConfig struct {
	Schema      string
	FewShots    []FewShot
	ResultLimit int
}

func DefaultPromptConfig() PromptConfig {
	return PromptConfig{
		Schema:      GraphSchemaText,
		FewShots:    DefaultFewShots(),
		ResultLimit: 5,
	}
}

// BuildPrompt assembles the instruction string for the completion model. Pure
// function of its inputs: the question, the resolved temporal literal (empty
// when the question carried no recognized date phrase) and the config. Date
// computation is never delegated to the model; the resolved literal is
// embedded directly as the filter value.
func BuildPrompt(cfg PromptConfig, question string, temporalLiteral string) string {
	dateFilter := "No date filters requested."
	if temporalLiteral != "" {
		dateFilter = fmt.Sprintf("p.timestamp >= datetime('%s')", temporalLiteral)
	}

	exampleLiteral := temporalLiteral
	if exampleLiteral == "" {
		exampleLiteral = defaultDatetime
	}

	var b strings.Builder
	b.WriteString("You are a Cypher query generation assistant.\n\n")
	b.WriteString("Given a user's natural language question about social media viral posts and fact-check lineage, ")
	b.WriteString("your task is to generate a valid Neo4j Cypher query only. Do NOT include explanations, comments, or any other text.\n\n")
	b.WriteString("Important instructions:\n")
	b.WriteString("- Only output the Cypher query.\n")
	b.WriteString("- Use the graph schema below, never invent labels or properties.\n")
	b.WriteString("- Use explicit datetime literals in ISO 8601 format like: datetime('2023-08-10T00:00:00')\n")
	fmt.Fprintf(&b, "- Use the following date filter where applicable in your query: %s\n", dateFilter)
	b.WriteString("- Avoid any Cypher commands that modify or delete data such as DROP, DELETE, REMOVE.\n")
	b.WriteString("- Prioritize read-only queries (using MATCH, RETURN, OPTIONAL MATCH, WHERE).\n")
	b.WriteString("- Return relevant fields only, e.g. p.id, p.content, p.shares, u.id.\n")
	fmt.Fprintf(&b, "- Limit results to a reasonable number (e.g. LIMIT %d) when applicable.\n", cfg.ResultLimit)
	b.WriteString("\nGraph database schema:\n\n")
	b.WriteString(cfg.Schema)
	b.WriteString("\n\nExamples:\n\n")
	for _, shot := range cfg.FewShots {
		fmt.Fprintf(&b, "Q: %s\n", shot.Question)
		fmt.Fprintf(&b, "A: %s\n\n", strings.ReplaceAll(shot.Query, datetimeToken, exampleLiteral))
	}
	b.WriteString("Now, generate a Cypher query for the following user question.\n")
	b.WriteString("Remember: Output only the Cypher query.\n\n")
	fmt.Fprintf(&b, "Q: %s\nA:", question)

	return b.String()
}

// BuildSummaryPrompt asks the model to turn raw result rows into a short
// human readable answer to the original question.
func BuildSummaryPrompt(question string, renderedRows string) string {
	var b strings.Builder
	b.WriteString("Summarize the following graph query results as a short, descriptive answer ")
	b.WriteString("to the user's question. Two or three sentences, no markdown, no code.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\nResults:\n%s\n\nSummary:", question, renderedRows)
	return b.String()
}
