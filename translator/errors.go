package translator

import "fmt"

// ExtractionError is returned when no Cypher statement can be located in the
// completion model's raw output. The offending output is attached for the
// orchestration trace.
type ExtractionError struct {
	Output string
}

func (e *ExtractionError) Error() string {
	return "no Cypher clause opener found in model output"
}

// UntranslatableQueryError is returned when the heuristic translator runs out
// of rules for a question, i.e. the fallback path is exhausted.
type UntranslatableQueryError struct {
	Question string
}

func (e *UntranslatableQueryError) Error() string {
	return fmt.Sprintf("no heuristic rule matches question: %q", e.Question)
}
