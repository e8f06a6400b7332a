package translator

import (
	"regexp"
	"strings"
)

// Clause openers that can legally start a Cypher statement. Uppercase only:
// models emit uppercase Cypher keywords, while a case-insensitive WITH or
// CREATE would match ordinary prose around the query.
var openerPattern = regexp.MustCompile(`\b(OPTIONAL MATCH|MATCH|UNWIND|WITH|MERGE|CREATE|CALL)\b`)

// Fenced blocks like ```cypher ... ``` or plain ``` ... ```.
var fencePattern = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")

// ExtractQuery isolates the first well-formed Cypher statement from raw model
// output, stripped of markdown fences and surrounding prose. A fenced block
// containing a clause opener wins over the unfenced text and is returned
// verbatim minus the fences. Returns *ExtractionError when no clause opener
// is found anywhere; no fallback text is ever substituted.
func ExtractQuery(output string) (string, error) {
	for _, m := range fencePattern.FindAllStringSubmatch(output, -1) {
		block := strings.TrimSpace(m[1])
		if openerPattern.MatchString(block) {
			return strings.TrimSuffix(block, ";"), nil
		}
	}

	loc := openerPattern.FindStringIndex(output)
	if loc == nil {
		return "", &ExtractionError{Output: output}
	}

	query := output[loc[0]:]
	// Unfenced output may still trail into a fence or a prose paragraph.
	if i := strings.Index(query, "```"); i >= 0 {
		query = query[:i]
	}
	if i := strings.Index(query, "\n\n"); i >= 0 {
		query = query[:i]
	}
	return strings.TrimSuffix(strings.TrimSpace(query), ";"), nil
}
