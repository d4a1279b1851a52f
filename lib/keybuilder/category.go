// Package keybuilder implements the pure functions mapping a raw simulator
// keyword and context (well/group name, nums, optional LGR) to a canonical
// user-facing key string, and the inverse unpacking of block/region
// coordinates (spec.md §4.4). It's grounded on
// opm/io/eclipse/ESmry.cpp::makeKeyString in _examples/original_source.
package keybuilder

import "regexp"

// Category classifies a keyword by its first character, per spec.md §4.4's
// rule table. Expressed as a tagged enum rather than a chain of string
// prefix checks, per spec.md §9's design note.
type Category int

const (
	CategoryAquifer Category = iota
	CategoryBlock
	CategoryCompletion
	CategoryGroup
	CategoryLGR
	CategoryRegion
	CategorySegment
	CategoryWell
	CategoryOther
)

// NoWGName is the sentinel WGNAMES value meaning "no well or group"
// (spec.md §6).
const NoWGName = ":+:+:+:+"

// CategoryOf classifies keyword by its first character.
func CategoryOf(keyword string) Category {
	if keyword == "" {
		return CategoryOther
	}
	switch keyword[0] {
	case 'A':
		return CategoryAquifer
	case 'B':
		return CategoryBlock
	case 'C':
		return CategoryCompletion
	case 'G':
		return CategoryGroup
	case 'L':
		return CategoryLGR
	case 'R':
		return CategoryRegion
	case 'S':
		return CategorySegment
	case 'W':
		return CategoryWell
	default:
		return CategoryOther
	}
}

var connectionCompletionPattern = regexp.MustCompile(`^C[OGW][IP][RT]L$`)

// IsConnectionCompletion reports whether keyword is a connection-completion
// keyword (e.g. COPRL), per ESmry.cpp::is_connection_completion.
func IsConnectionCompletion(keyword string) bool {
	return connectionCompletionPattern.MatchString(keyword)
}

var wellCompletionPattern = regexp.MustCompile(`^W[OGWLV][PIGOLCF][RT]L([0-9_]{2}[0-9])?$`)

// IsWellCompletion reports whether keyword is a well-completion keyword
// (e.g. WOPRL, WOPRL__8, WOPRL123, but not WOPRL___ or WKITL), per
// ESmry.cpp::is_well_completion.
func IsWellCompletion(keyword string) bool {
	return wellCompletionPattern.MatchString(keyword)
}

// MiscellaneousException reports whether keyword is one of the step/date
// keywords that MakeKeyString passes through unchanged before any category
// rule applies (spec.md §4.4's "miscellaneous exceptions pass through
// unchanged").
func MiscellaneousException(keyword string) bool {
	switch keyword {
	case "STEP", "TIME", "DAY", "MONTH", "YEAR", "TIMESTEP":
		return true
	default:
		return false
	}
}
