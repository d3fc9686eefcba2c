// Package checker implements the static type checker: literal interning and
// type construction, one check function per AST node kind, destructuring
// inference, enum constant evaluation and signature resolution.
//
// Checking is fatal on the first error. Check functions never return an
// error value; they panic with an *errors.TypeError which Check recovers.
package checker

import (
	"fmt"

	"go.uber.org/zap"

	"tscheck/pkg/binder"
	"tscheck/pkg/errors"
	"tscheck/pkg/lexer"
	"tscheck/pkg/parser"
	"tscheck/pkg/source"
	"tscheck/pkg/types"
)

const checkerDebug = false

func debugPrintf(format string, args ...interface{}) {
	if checkerDebug {
		fmt.Printf("[Checker] "+format+"\n", args...)
	}
}

// Status is the set of context flags active while checking a node.
type Status uint8

const (
	StatusNone Status = 0
	// InConstContext keeps literal types and makes array and object
	// literals readonly (`as const`).
	InConstContext Status = 1 << (iota - 1)
	// ForceTuple turns array literals into tuples. Set while checking the
	// source of a destructuring declaration or assignment.
	ForceTuple
	// NoOpts relaxes destructuring validation, used for parameter patterns.
	NoOpts
)

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSuggestions enables "Did you mean" hints for unresolved names within
// maxDistance edits. Zero disables them.
func WithSuggestions(maxDistance int) Option {
	return func(c *Checker) {
		c.suggestDistance = maxDistance
	}
}

type declState uint8

const (
	declUnchecked declState = iota
	declChecking
	declChecked
)

// Checker holds the state of checking one compilation unit. It is not safe
// for concurrent use; create one Checker per unit.
type Checker struct {
	logger          *zap.Logger
	suggestDistance int

	relations *types.Relations
	globals   *GlobalTypesHolder

	numberLiterals map[uint64]*types.NumberLiteralType
	stringLiterals map[string]*types.StringLiteralType
	bigintLiterals map[bigintKey]*types.BigIntLiteralType
	regularTypes   map[*types.ObjectType]*types.ObjectType

	binaryRules map[string]binaryRule

	status   Status
	scope    *binder.Scope
	bindings *binder.Result
	source   *source.SourceFile
	fn       *functionContext

	declStates       map[*parser.VariableDeclarator]declState
	functionTypes    map[*parser.FunctionLiteral]*types.ObjectType
	resolvingAliases map[*binder.Variable]bool
	enumsDone        map[*parser.EnumDeclaration]bool
	enumKindFixed    map[*types.EnumLiteralType]bool
	evaluatedMembers map[*binder.Variable]bool
}

// New creates a Checker with empty interning maps and a fresh set of global
// types.
func New(opts ...Option) *Checker {
	c := &Checker{
		logger:           zap.NewNop(),
		relations:        types.NewRelations(),
		globals:          NewGlobalTypesHolder(),
		numberLiterals:   make(map[uint64]*types.NumberLiteralType),
		stringLiterals:   make(map[string]*types.StringLiteralType),
		bigintLiterals:   make(map[bigintKey]*types.BigIntLiteralType),
		regularTypes:     make(map[*types.ObjectType]*types.ObjectType),
		declStates:       make(map[*parser.VariableDeclarator]declState),
		functionTypes:    make(map[*parser.FunctionLiteral]*types.ObjectType),
		resolvingAliases: make(map[*binder.Variable]bool),
		enumsDone:        make(map[*parser.EnumDeclaration]bool),
		enumKindFixed:    make(map[*types.EnumLiteralType]bool),
		evaluatedMembers: make(map[*binder.Variable]bool),
	}
	c.binaryRules = c.newBinaryRules()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check type-checks program against the scopes built by the binder. It
// returns the first type error as an *errors.TypeError, or nil. Computed
// types are left on the expression nodes and on the binder's variables.
func (c *Checker) Check(program *parser.Program, bindings *binder.Result) (err error) {
	c.bindings = bindings
	c.source = program.Source
	c.scope = bindings.Global
	c.status = StatusNone
	c.fn = nil

	defer func() {
		if r := recover(); r != nil {
			typeErr, ok := r.(*errors.TypeError)
			if !ok {
				panic(r)
			}
			c.logger.Debug("type error", zap.String("message", typeErr.Msg), zap.Int("line", typeErr.Line))
			err = typeErr
		}
	}()

	for _, stmt := range program.Statements {
		c.checkStatement(stmt)
	}
	return nil
}

// --- Scoped guards ---

// pushStatus replaces the status with s and returns the function restoring
// the previous value.
func (c *Checker) pushStatus(s Status) func() {
	prev := c.status
	c.status = s
	return func() { c.status = prev }
}

// addStatus ORs s onto the status and returns the restore function.
func (c *Checker) addStatus(s Status) func() {
	return c.pushStatus(c.status | s)
}

func (c *Checker) hasStatus(s Status) bool {
	return c.status&s != 0
}

// enterScope makes s the current scope. A nil s keeps the current scope.
func (c *Checker) enterScope(s *binder.Scope) func() {
	prev := c.scope
	if s != nil {
		c.scope = s
	}
	return func() { c.scope = prev }
}

// --- Errors ---

// throwTypeError aborts checking with a TypeError located at node.
func (c *Checker) throwTypeError(node parser.Node, format string, args ...interface{}) {
	c.throwAt(node.NodeToken(), format, args...)
}

func (c *Checker) throwAt(tok lexer.Token, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	debugPrintf("error at %d:%d: %s", tok.Line, tok.Column, msg)
	panic(&errors.TypeError{
		Position: errors.Position{
			Line:     tok.Line,
			Column:   tok.Column,
			StartPos: tok.StartPos,
			EndPos:   tok.EndPos,
			Source:   c.source,
		},
		Msg: msg,
	})
}

// GetTokenFromNode returns the token diagnostics for node are reported at.
// Expressions that start with a sub-expression report at that sub-expression.
func GetTokenFromNode(node parser.Node) lexer.Token {
	switch n := node.(type) {
	case *parser.AssignmentExpression:
		return GetTokenFromNode(n.Left)
	case *parser.BinaryExpression:
		return GetTokenFromNode(n.Left)
	case *parser.MemberExpression:
		return GetTokenFromNode(n.Object)
	case *parser.CallExpression:
		return GetTokenFromNode(n.Function)
	case *parser.ConditionalExpression:
		return GetTokenFromNode(n.Condition)
	case *parser.AsExpression:
		return GetTokenFromNode(n.Expression)
	case *parser.NonNullExpression:
		return GetTokenFromNode(n.Expression)
	case *parser.UpdateExpression:
		if !n.Prefix {
			return GetTokenFromNode(n.Argument)
		}
	}
	return node.NodeToken()
}

// throwAtNode reports at the start of node rather than its operator.
func (c *Checker) throwAtNode(node parser.Node, format string, args ...interface{}) {
	c.throwAt(GetTokenFromNode(node), format, args...)
}
