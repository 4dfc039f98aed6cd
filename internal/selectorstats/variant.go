package selectorstats

import (
	"fmt"
	"strings"

	"github.com/getsentry/stylestats/internal/errorutil"
	"github.com/getsentry/stylestats/internal/traceevent"
)

// SlowRejectVariant selects how slow rejects are derived from a timing.
// Both formulas are in use by existing reports.
type SlowRejectVariant int

const (
	// SlowRejectExcludingMatches is match_attempts - match_count -
	// fast_reject_count.
	SlowRejectExcludingMatches SlowRejectVariant = iota
	// SlowRejectIncludingMatches is match_attempts - fast_reject_count, as
	// computed by the single profile report.
	SlowRejectIncludingMatches
)

func (v SlowRejectVariant) String() string {
	switch v {
	case SlowRejectExcludingMatches:
		return "excluding-matches"
	case SlowRejectIncludingMatches:
		return "including-matches"
	}
	return fmt.Sprintf("SlowRejectVariant(%d)", int(v))
}

// ParseSlowRejectVariant accepts the names returned by String.
func ParseSlowRejectVariant(s string) (SlowRejectVariant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "excluding-matches", "":
		return SlowRejectExcludingMatches, nil
	case "including-matches":
		return SlowRejectIncludingMatches, nil
	}
	return 0, fmt.Errorf("selectorstats: %w: unknown slow reject variant %q", errorutil.ErrInvalidParameter, s)
}

// SlowRejectCount derives the slow rejects of t.
func (v SlowRejectVariant) SlowRejectCount(t traceevent.SelectorTiming) int64 {
	if v == SlowRejectIncludingMatches {
		return t.MatchAttempts - t.FastRejectCount
	}
	return t.MatchAttempts - t.MatchCount - t.FastRejectCount
}
