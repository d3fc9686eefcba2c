package binder

import (
	"tscheck/pkg/parser"
	"tscheck/pkg/types"
)

// ScopeKind tells what construct opened a scope.
type ScopeKind int

const (
	ProgramScope ScopeKind = iota
	FunctionScope
	BlockScope
	ForScope
	SwitchScope
	EnumScope
)

func (k ScopeKind) String() string {
	switch k {
	case ProgramScope:
		return "program"
	case FunctionScope:
		return "function"
	case BlockScope:
		return "block"
	case ForScope:
		return "for"
	case SwitchScope:
		return "switch"
	case EnumScope:
		return "enum"
	}
	return "unknown"
}

// Scope is one lexical scope. Variables are kept in declaration order.
type Scope struct {
	Kind   ScopeKind
	Parent *Scope
	Node   parser.Node // the node that opened the scope

	vars  map[string]*Variable
	order []*Variable
}

func newScope(kind ScopeKind, parent *Scope, node parser.Node) *Scope {
	return &Scope{Kind: kind, Parent: parent, Node: node, vars: make(map[string]*Variable)}
}

// FindLocal looks name up in this scope only.
func (s *Scope) FindLocal(name string) *Variable {
	return s.vars[name]
}

// Find looks name up in this scope and then in each enclosing scope.
func (s *Scope) Find(name string) *Variable {
	for scope := s; scope != nil; scope = scope.Parent {
		if v, ok := scope.vars[name]; ok {
			return v
		}
	}
	return nil
}

// Variables returns the variables declared directly in s, in declaration order.
func (s *Scope) Variables() []*Variable {
	return s.order
}

// VisibleNames lists every name visible from s, innermost first. Shadowed
// names appear once.
func (s *Scope) VisibleNames() []string {
	seen := make(map[string]bool)
	var names []string
	for scope := s; scope != nil; scope = scope.Parent {
		for _, v := range scope.order {
			if !seen[v.Name] {
				seen[v.Name] = true
				names = append(names, v.Name)
			}
		}
	}
	return names
}

// FunctionScope returns the nearest enclosing function or program scope,
// which is where `var` declarations land.
func (s *Scope) FunctionScope() *Scope {
	scope := s
	for scope.Kind != FunctionScope && scope.Kind != ProgramScope && scope.Parent != nil {
		scope = scope.Parent
	}
	return scope
}

func (s *Scope) add(v *Variable) {
	s.vars[v.Name] = v
	s.order = append(s.order, v)
}

// VariableKind classifies a binding.
type VariableKind int

const (
	VarBinding VariableKind = iota
	LetBinding
	ConstBinding
	ParameterBinding
	FunctionBinding
	InterfaceBinding
	TypeAliasBinding
	EnumBinding
	EnumMemberBinding
)

func (k VariableKind) String() string {
	switch k {
	case VarBinding:
		return "var"
	case LetBinding:
		return "let"
	case ConstBinding:
		return "const"
	case ParameterBinding:
		return "parameter"
	case FunctionBinding:
		return "function"
	case InterfaceBinding:
		return "interface"
	case TypeAliasBinding:
		return "type"
	case EnumBinding:
		return "enum"
	case EnumMemberBinding:
		return "enum member"
	}
	return "unknown"
}

// Declaration is one syntactic declaration of a variable.
type Declaration struct {
	// Node is the *parser.VariableDeclarator, *parser.Parameter,
	// *parser.FunctionDeclaration, *parser.InterfaceDeclaration,
	// *parser.TypeAliasStatement, *parser.EnumDeclaration, *parser.EnumMember
	// or named *parser.FunctionLiteral that introduced the binding.
	Node parser.Node
	// Scope is the lexical scope the declaration appears in.
	Scope *Scope
}

// Variable is a named binding. Type is filled in by the checker.
type Variable struct {
	Name  string
	Kind  VariableKind
	Decls []*Declaration
	Type  types.Type

	// Value is the evaluated constant of an enum member.
	Value types.EnumValue
	// Members is the member scope of an enum, shared by all of its
	// declarations.
	Members *Scope
	// IsConstEnum is set for `const enum` declarations.
	IsConstEnum bool
}

// IsTypeOnly reports whether the binding names a type but no value.
func (v *Variable) IsTypeOnly() bool {
	return v.Kind == InterfaceBinding || v.Kind == TypeAliasBinding
}

// IsConst reports whether the binding cannot be assigned to.
func (v *Variable) IsConst() bool {
	switch v.Kind {
	case ConstBinding, EnumBinding, EnumMemberBinding:
		return true
	}
	return false
}

// FirstDeclaration returns the earliest declaration.
func (v *Variable) FirstDeclaration() *Declaration {
	if len(v.Decls) == 0 {
		return nil
	}
	return v.Decls[0]
}
