// Package milestone maps single log lines to pipeline stages and epoch progress.
//
// Detection is a two-stage lookup. Explicit machine tokens such as
// "[STAGE=TRAINING]" are checked first and always win; only lines without a
// token fall through to the ordered, case-insensitive regex heuristics. Both
// stages are pure functions with no state.
package milestone

import "strings"

// Type is one of the fixed, ordered pipeline stages.
type Type int

const (
	Starting Type = iota
	LoadingDataset
	Training
	Evaluating
	WritingArtifacts
	Completed
	Failed
)

// Count is the number of stages.
const Count = int(Failed) + 1

// All lists every stage in display order.
var All = [Count]Type{Starting, LoadingDataset, Training, Evaluating, WritingArtifacts, Completed, Failed}

var labels = [Count]string{
	"Starting",
	"Loading dataset",
	"Training",
	"Evaluating",
	"Writing artifacts",
	"Completed",
	"Failed",
}

var tokenNames = [Count]string{
	"STARTING",
	"LOADING_DATASET",
	"TRAINING",
	"EVALUATING",
	"WRITING_ARTIFACTS",
	"COMPLETED",
	"FAILED",
}

// String returns the display label.
func (t Type) String() string {
	if !t.Valid() {
		return "Unknown"
	}
	return labels[t]
}

// Token returns the explicit marker a producer writes to announce the stage.
func (t Type) Token() string {
	if !t.Valid() {
		return ""
	}
	return "[STAGE=" + tokenNames[t] + "]"
}

// Valid reports whether t is one of the known stages.
func (t Type) Valid() bool {
	return t >= Starting && t <= Failed
}

// Terminal reports whether t ends a run.
func (t Type) Terminal() bool {
	return t == Completed || t == Failed
}

// Parse resolves a stage from its token name ("LOADING_DATASET") or label,
// ignoring case and separators.
func Parse(s string) (Type, bool) {
	norm := normalize(s)
	for _, t := range All {
		if norm == normalize(tokenNames[t]) || norm == normalize(labels[t]) {
			return t, true
		}
	}
	return 0, false
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", " ", "", "-", "").Replace(s)
}
