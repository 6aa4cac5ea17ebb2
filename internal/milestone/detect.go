package milestone

import (
	"regexp"
	"strings"
)

// explicitTokens is the exact-match table consulted before any heuristic.
var explicitTokens = func() map[string]Type {
	m := make(map[string]Type, Count)
	for _, t := range All {
		m[t.Token()] = t
	}
	return m
}()

var stageMarker = regexp.MustCompile(`\[STAGE=[A-Z_]+\]`)

type heuristic struct {
	stage    Type
	patterns []*regexp.Regexp
}

// heuristics are tried in order; the first stage with a matching pattern wins.
// Failure and completion come first so "training failed" is not read as
// training progress.
var heuristics = []heuristic{
	{Failed, []*regexp.Regexp{
		regexp.MustCompile(`(?i)^\s*(error|fatal)\b`),
		regexp.MustCompile(`(?i)\berror:`),
		regexp.MustCompile(`\b[A-Z]\w*(Error|Exception):`),
		regexp.MustCompile(`(?i)\b(exception|traceback|failed|crashed)\b`),
	}},
	{Completed, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(training|run|job|pipeline)\s+(complete|completed|finished)\b`),
		regexp.MustCompile(`(?i)\bfinished\s+successfully\b`),
		regexp.MustCompile(`(?i)\ball\s+done\b`),
	}},
	// Periodic checkpoint saves belong to training, not to artifact writing.
	{WritingArtifacts, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(saving|writing|exporting|uploading)\b.*\b(model|artifacts?|weights|results|outputs?)\b`),
		regexp.MustCompile(`(?i)\bsaved\s+(model|artifacts?|weights)\b`),
	}},
	{Evaluating, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(evaluating|evaluation|evaluate|validating|validation|testing)\b`),
	}},
	{Training, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bepoch\s*[:#]?\s*\d+\s*(/|of)\s*\d+`),
		regexp.MustCompile(`(?i)\btraining\b`),
		regexp.MustCompile(`(?i)\bstep\s+\d+`),
	}},
	{LoadingDataset, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(loading|reading|preparing|downloading)\b.*\b(dataset|data|samples|corpus)\b`),
		regexp.MustCompile(`(?i)\bdataset\s+loaded\b`),
	}},
	{Starting, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(starting|initializing|initialising|booting|launching)\b`),
	}},
}

// Detect returns the stage announced by line, if any.
func Detect(line string) (Type, bool) {
	if t, ok := DetectExplicit(line); ok {
		return t, true
	}
	return DetectHeuristic(line)
}

// DetectExplicit looks only for explicit tokens. Unknown "[STAGE=...]"
// markers are ignored. A line carrying "[EPOCH=c/t]" and no known stage
// token is Training.
func DetectExplicit(line string) (Type, bool) {
	if strings.Contains(line, "[STAGE=") {
		for _, marker := range stageMarker.FindAllString(line, -1) {
			if t, ok := explicitTokens[marker]; ok {
				return t, true
			}
		}
	}
	if strings.Contains(line, "[EPOCH=") && explicitEpoch.MatchString(line) {
		return Training, true
	}
	return 0, false
}

// DetectHeuristic matches line against the regex fallbacks only.
func DetectHeuristic(line string) (Type, bool) {
	for _, h := range heuristics {
		for _, p := range h.patterns {
			if p.MatchString(line) {
				return h.stage, true
			}
		}
	}
	return 0, false
}
