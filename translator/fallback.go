package translator

import (
	"fmt"
	"regexp"
	"strings"
)

// Platforms the bundled datasets contain. Matching is case-insensitive but
// the canonical casing is what gets interpolated into the query.
var knownPlatforms = []string{"Twitter", "Facebook", "Instagram", "TikTok", "YouTube", "Reddit"}

// heuristicRule is one (predicate, template) pair of the fallback translator.
type heuristicRule struct {
	name    string
	matches func(q string) bool
	build   func(q string, temporalLiteral string) string
}

func containsAny(q string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(q, n) {
			return true
		}
	}
	return false
}

func detectPlatform(q string) (string, bool) {
	for _, p := range knownPlatforms {
		if strings.Contains(q, strings.ToLower(p)) {
			return p, true
		}
	}
	return "", false
}

// escapeLiteral makes a value safe to interpolate inside single quotes.
func escapeLiteral(v string) string {
	return strings.ReplaceAll(v, "'", "\\'")
}

func timestampFilter(temporalLiteral string) string {
	if temporalLiteral == "" {
		return ""
	}
	return fmt.Sprintf(" AND p.timestamp >= datetime('%s')", temporalLiteral)
}

var usernamePattern = regexp.MustCompile(`(?i)\buser\s+([A-Za-z0-9_]+)`)

// Quoted text is tried before the "about ..." tail: for a question like
// `posts about "covid variant"` the quotes pin the topic exactly, while the
// about-pattern would capture the quote characters along with it.
var quotedTopicPattern = regexp.MustCompile(`['"]([^'"]{3,})['"]`)
var aboutTopicPattern = regexp.MustCompile(`(?i)\babout\s+(.{3,}?)(?:[?.!]|$)`)

func topicFromQuestion(q string) (string, bool) {
	if m := quotedTopicPattern.FindStringSubmatch(q); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := aboutTopicPattern.FindStringSubmatch(q); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

// fallbackRules is evaluated in order, first matching rule wins. The order is
// behavior-defining: the viral rule must shadow the generic share rule, and
// the catch-all content rule comes last. Covered by tests.
var fallbackRules = []heuristicRule{
	{
		name: "viral_posts",
		matches: func(q string) bool {
			return containsAny(q, "viral", "trending", "most shared")
		},
		build: func(q string, temporalLiteral string) string {
			where := "p.shares > 100"
			if platform, ok := detectPlatform(strings.ToLower(q)); ok {
				where += fmt.Sprintf(" AND p.platform = '%s'", platform)
			}
			where += timestampFilter(temporalLiteral)
			return fmt.Sprintf(
				"MATCH (p:Post) WHERE %s RETURN p.id, p.content, p.shares, p.timestamp ORDER BY p.shares DESC LIMIT 5",
				where)
		},
	},
	{
		name: "fact_check",
		matches: func(q string) bool {
			return containsAny(q, "fact-check", "fact check", "false", "fake news", "misinformation", "verified", "debunk")
		},
		build: func(q string, temporalLiteral string) string {
			where := "true"
			if containsAny(strings.ToLower(q), "false", "fake news", "misinformation", "debunk") {
				where = "f.status = 'False'"
			}
			where += timestampFilter(temporalLiteral)
			return fmt.Sprintf(
				"MATCH (p:Post)-[:VERIFIED_BY]->(f:FactCheck) WHERE %s RETURN p.id, p.content, f.status, f.comments LIMIT 5",
				where)
		},
	},
	{
		name: "created_by_user",
		matches: func(q string) bool {
			return usernamePattern.MatchString(q) && containsAny(q, "created", "posted", "wrote", "by user")
		},
		build: func(q string, temporalLiteral string) string {
			username := usernamePattern.FindStringSubmatch(q)[1]
			where := "true" + timestampFilter(temporalLiteral)
			return fmt.Sprintf(
				"MATCH (u:User {username: '%s'})-[:CREATED]->(p:Post) WHERE %s RETURN p.id, p.content, p.timestamp LIMIT 5",
				escapeLiteral(username), where)
		},
	},
	{
		name: "share_lineage",
		matches: func(q string) bool {
			return containsAny(q, "shared", "reshare", "re-share", "share")
		},
		build: func(q string, temporalLiteral string) string {
			where := "true" + timestampFilter(temporalLiteral)
			return fmt.Sprintf(
				"MATCH (u:User)-[:SHARED]->(p:Post) WHERE %s RETURN u.id, u.name, p.id, p.content, p.timestamp LIMIT 5",
				where)
		},
	},
	{
		name: "content_topic",
		matches: func(q string) bool {
			_, ok := topicFromQuestion(q)
			return ok
		},
		build: func(q string, temporalLiteral string) string {
			topic, ok := topicFromQuestion(q)
			if !ok {
				// matches ran against the lowered text; retry with it rather
				// than assume the original phrasing also matched.
				topic, _ = topicFromQuestion(strings.ToLower(q))
			}
			where := fmt.Sprintf("toLower(p.content) CONTAINS toLower('%s')", escapeLiteral(topic))
			where += timestampFilter(temporalLiteral)
			return fmt.Sprintf(
				"MATCH (p:Post) WHERE %s RETURN p.id, p.content, p.timestamp LIMIT 5",
				where)
		},
	},
}

// TranslateFallback is the rule-based NL to Cypher path, used only when the
// completion model is unreachable or produced unusable output. Returns the
// query, the name of the rule that fired (for the orchestration trace), or
// *UntranslatableQueryError when no rule matches.
func TranslateFallback(question string, temporalLiteral string) (query string, rule string, err error) {
	lowered := strings.ToLower(question)
	for _, r := range fallbackRules {
		if r.matches(lowered) {
			// Rules match against the lowered text but build from the original
			// question so interpolated values keep their casing.
			return r.build(question, temporalLiteral), r.name, nil
		}
	}
	return "", "", &UntranslatableQueryError{Question: question}
}
