package checker

import (
	"github.com/agnivade/levenshtein"
	"golang.org/x/exp/slices"

	"tscheck/pkg/parser"
)

// suggest returns the candidate closest to name, or "" when suggestions are
// disabled or nothing is within the configured distance. Ties go to the
// alphabetically first candidate.
func (c *Checker) suggest(name string, candidates []string) string {
	if c.suggestDistance <= 0 || len(candidates) == 0 {
		return ""
	}
	sorted := slices.Clone(candidates)
	slices.Sort(sorted)
	best, bestDistance := "", c.suggestDistance+1
	for _, candidate := range sorted {
		if candidate == name {
			continue
		}
		if d := levenshtein.ComputeDistance(name, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}

// throwUnresolvedName reports a name that is not declared anywhere.
func (c *Checker) throwUnresolvedName(id *parser.Identifier) {
	candidates := append(c.scope.VisibleNames(), c.globals.ValueNames()...)
	if hint := c.suggest(id.Value, candidates); hint != "" {
		c.throwTypeError(id, "Cannot find name '%s'. Did you mean '%s'?", id.Value, hint)
	}
	c.throwTypeError(id, "Cannot find name '%s'.", id.Value)
}
