package tagexpr

import (
	"regexp"
	"strconv"

	"github.com/poiesic/cardex/core"
)

// weightAssignment matches one `weight("tag") = 1.5` style assignment,
// with either quote style. Anything that does not match is skipped.
var weightAssignment = regexp.MustCompile(
	`weight\s*\(\s*(?:"([^"]*)"|'([^']*)')\s*\)\s*=\s*([+-]?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?)`)

// ParseWeights parses a weight-assignment expression such as
//
//	weight("fantasy") = 0.3; weight('slice of life') = 2.0
//
// into a tag->weight map. Invalid or unparsable segments are silently
// skipped; when a tag is assigned more than once, the last assignment
// wins. Tags are normalized.
func ParseWeights(input string) map[string]float64 {
	weights := make(map[string]float64)

	for _, match := range weightAssignment.FindAllStringSubmatch(input, -1) {
		tag := match[1]
		if tag == "" && match[2] != "" {
			tag = match[2]
		}
		tag = core.NormalizeTag(tag)
		if tag == "" {
			continue
		}
		value, err := strconv.ParseFloat(match[3], 64)
		if err != nil {
			continue
		}
		weights[tag] = value
	}

	return weights
}
