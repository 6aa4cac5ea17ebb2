package milestone

import (
	"regexp"
	"strconv"
)

// Epoch is observed epoch progress.
type Epoch struct {
	Current int
	Total   int
}

// Fraction returns progress in [0,1].
func (e Epoch) Fraction() float64 {
	if e.Total <= 0 {
		return 0
	}
	return float64(e.Current) / float64(e.Total)
}

// EpochSource records where an epoch value came from.
type EpochSource int

const (
	EpochNone EpochSource = iota
	EpochHeuristic
	EpochExplicit
)

var (
	explicitEpoch  = regexp.MustCompile(`\[EPOCH=(\d+)/(\d+)\]`)
	heuristicEpoch = regexp.MustCompile(`(?i)\bepoch\s*[:#]?\s*(\d+)\s*(?:/|of)\s*(\d+)`)
)

// ExtractEpoch returns the epoch progress carried by line. The explicit
// "[EPOCH=c/t]" token is preferred over "Epoch c/t" text on the same line.
// Values with a zero total or current > total are rejected.
func ExtractEpoch(line string) (Epoch, EpochSource, bool) {
	if e, ok := matchEpoch(explicitEpoch, line); ok {
		return e, EpochExplicit, true
	}
	if e, ok := matchEpoch(heuristicEpoch, line); ok {
		return e, EpochHeuristic, true
	}
	return Epoch{}, EpochNone, false
}

func matchEpoch(re *regexp.Regexp, line string) (Epoch, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return Epoch{}, false
	}
	cur, err1 := strconv.Atoi(m[1])
	total, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || total <= 0 || cur < 0 || cur > total {
		return Epoch{}, false
	}
	return Epoch{Current: cur, Total: total}, true
}
