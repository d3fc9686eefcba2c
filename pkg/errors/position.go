package errors

import "tscheck/pkg/source"

// Position represents a specific location in the source code.
// Line and Column are 1-based for humans, StartPos/EndPos are byte offsets for tooling.
type Position struct {
	Line     int
	Column   int
	StartPos int
	EndPos   int // exclusive
	Source   *source.SourceFile
}

// IsValid reports whether the position points into a line.
func (p Position) IsValid() bool {
	return p.Line > 0
}
