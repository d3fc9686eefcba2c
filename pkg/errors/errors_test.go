package errors

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/source"
)

func TestDiagnosticKinds(t *testing.T) {
	pos := Position{Line: 2, Column: 5}
	diags := []Diagnostic{
		&SyntaxError{Position: pos, Msg: "Expression expected."},
		&TypeError{Position: pos, Msg: "Cannot find name 'x'."},
		&ConfigError{Msg: "cannot read a.ts", Cause: fs.ErrNotExist},
	}
	assert.Equal(t, "Syntax Error at 2:5: Expression expected.", diags[0].Error())
	assert.Equal(t, "Type Error at 2:5: Cannot find name 'x'.", diags[1].Error())
	assert.Equal(t, "Config Error: cannot read a.ts: file does not exist", diags[2].Error())
	assert.Equal(t, []string{"Syntax", "Type", "Config"}, []string{diags[0].Kind(), diags[1].Kind(), diags[2].Kind()})
	assert.True(t, stderrors.Is(diags[2], fs.ErrNotExist))
	assert.False(t, diags[2].Pos().IsValid())
}

func TestTypeErrorCausedBy(t *testing.T) {
	cause := stderrors.New("inner")
	err := (&TypeError{Msg: "outer"}).CausedBy(cause)
	require.ErrorIs(t, err, cause)
}

func TestDisplayErrors(t *testing.T) {
	file := source.NewSourceFile("main.ts", "src/main.ts", "let a = 1;\n\tlet b: string = a;\n")
	diags := []Diagnostic{
		&TypeError{
			Position: Position{Line: 2, Column: 18, StartPos: 28, EndPos: 29, Source: file},
			Msg:      "Type 'number' is not assignable to type 'string'.",
		},
		&ConfigError{Msg: "no input"},
	}
	var buf bytes.Buffer
	DisplayErrors(&buf, diags)

	expect := "src/main.ts:2:18: Type Error: Type 'number' is not assignable to type 'string'.\n" +
		"  \tlet b: string = a;\n" +
		"  \t                ^\n\n" +
		"Config Error: no input\n"
	assert.Equal(t, expect, buf.String())
}

func TestDisplayErrorsUnderline(t *testing.T) {
	file := source.NewEvalSource("let value = missing;")
	var buf bytes.Buffer
	DisplayErrors(&buf, []Diagnostic{&TypeError{
		Position: Position{Line: 1, Column: 13, StartPos: 12, EndPos: 19, Source: file},
		Msg:      "Cannot find name 'missing'.",
	}})
	assert.Contains(t, buf.String(), "  let value = missing;\n  "+"            ^~~~~~~\n")
}
