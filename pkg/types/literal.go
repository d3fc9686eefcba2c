package types

import (
	"math"
	"strconv"
	"strings"
)

// NumberLiteralType is the type of a single numeric value. The checker
// interns these, one instance per value.
type NumberLiteralType struct {
	typeBase
	Value float64
}

func (n *NumberLiteralType) String() string { return FormatNumber(n.Value) }
func (n *NumberLiteralType) typeNode()      {}

// StringLiteralType is the type of a single string value.
type StringLiteralType struct {
	typeBase
	Value string
}

func (s *StringLiteralType) String() string { return strconv.Quote(s.Value) }
func (s *StringLiteralType) typeNode()      {}

// BigIntLiteralType is the type of a single bigint value. Text holds the
// decimal digits without sign or suffix.
type BigIntLiteralType struct {
	typeBase
	Text     string
	Negative bool
}

func (b *BigIntLiteralType) String() string {
	if b.Negative {
		return "-" + b.Text + "n"
	}
	return b.Text + "n"
}
func (b *BigIntLiteralType) typeNode() {}

// FormatNumber renders a float the way JavaScript's Number#toString does for
// the values literal types can hold.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	// Go pads exponents to two digits (1e-07); JavaScript does not.
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		mant, exp := s[:i], s[i+1:]
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		s = mant + "e" + sign + digits
	}
	return s
}

// IsLiteral reports whether t is a number, string, bigint or boolean literal type.
func IsLiteral(t Type) bool {
	switch t.(type) {
	case *NumberLiteralType, *StringLiteralType, *BigIntLiteralType, *BooleanLiteralType:
		return true
	}
	return false
}
