package pipeline

// Stage names the state the machine is in. One request walks
// building_prompt → generating → extracting → validating → executing →
// summarizing → done; errored is terminal and reachable from any of them.
type Stage string

const (
	StageBuildingPrompt Stage = "building_prompt"
	StageGenerating     Stage = "generating"
	StageExtracting     Stage = "extracting"
	StageValidating     Stage = "validating"
	StageExecuting      Stage = "executing"
	StageSummarizing    Stage = "summarizing"
	StageDone           Stage = "done"
	StageErrored        Stage = "errored"
)

// GenerationPath records which of the two translation branches produced the
// query. An explicit value rather than exception-based control flow, so the
// chosen path is always observable.
type GenerationPath string

const (
	PathModel     GenerationPath = "model"
	PathHeuristic GenerationPath = "heuristic"
)

// Error kinds reported in the trace, one per failure mode of the pipeline.
const (
	KindExtractionError     = "extraction_error"
	KindValidationError     = "validation_error"
	KindExecutionError      = "execution_error"
	KindUntranslatableQuery = "untranslatable_query_error"
	KindModelUnavailable    = "model_unavailable"
	KindInternalError       = "internal_error"
)

// Trace is the partial record of a request's walk through the state machine,
// returned to the caller on success and failure alike so a human can see
// exactly which stage failed and why.
type Trace struct {
	Stage           Stage          `json:"stage"`
	Path            GenerationPath `json:"path,omitempty"`
	FallbackReason  string         `json:"fallback_reason,omitempty"`
	TemporalPhrase  string         `json:"temporal_phrase,omitempty"`
	TemporalLiteral string         `json:"temporal_literal,omitempty"`
	Prompt          string         `json:"prompt,omitempty"`
	RawCompletion   string         `json:"raw_completion,omitempty"`
	Query           string         `json:"query,omitempty"`
	Plan            string         `json:"plan,omitempty"`
	HeuristicRule   string         `json:"heuristic_rule,omitempty"`
	ErrorKind       string         `json:"error_kind,omitempty"`
	ErrorMessage    string         `json:"error_message,omitempty"`
}

// Result is the structured payload handed back to the service boundary.
type Result struct {
	Question string           `json:"question"`
	Prompt   string           `json:"prompt"`
	Query    string           `json:"query"`
	Rows     []map[string]any `json:"rows"`
	Summary  string           `json:"summary"`
	Trace    Trace            `json:"trace"`
}
