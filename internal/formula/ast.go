// Package formula parses and evaluates the restricted arithmetic expressions
// functional units are defined with: `+ - * / ^ ( )`, numeric literals, and
// parameter-name identifiers.
//
// Formulas come from user-editable project files, so they are never handed
// to a general-purpose evaluator. The whitelisted grammar here is the safety
// boundary: no function calls, no assignment, no host-language escape.
package formula

import (
	"math"
	"sort"

	"github.com/rshade/lca-engine/internal/params"
)

// node is one tagged variant of the expression tree.
type node interface {
	eval(snap params.Snapshot, src string) (float64, error)
	collect(idents map[string]struct{})
}

type literalNode struct {
	value float64
}

type identNode struct {
	name string
}

type unaryNode struct {
	negate  bool
	operand node
}

type binaryNode struct {
	op  tokenKind // tokPlus, tokMinus, tokStar, tokSlash, tokCaret
	lhs node
	rhs node
}

func (n literalNode) eval(params.Snapshot, string) (float64, error) {
	return n.value, nil
}

func (n identNode) eval(snap params.Snapshot, _ string) (float64, error) {
	v, ok := snap.Value(n.name)
	if !ok {
		return 0, &UnknownIdentifierError{Name: n.name}
	}
	return v, nil
}

func (n unaryNode) eval(snap params.Snapshot, src string) (float64, error) {
	v, err := n.operand.eval(snap, src)
	if err != nil {
		return 0, err
	}
	if n.negate {
		return -v, nil
	}
	return v, nil
}

func (n binaryNode) eval(snap params.Snapshot, src string) (float64, error) {
	lhs, err := n.lhs.eval(snap, src)
	if err != nil {
		return 0, err
	}
	rhs, err := n.rhs.eval(snap, src)
	if err != nil {
		return 0, err
	}

	var v float64
	switch n.op {
	case tokPlus:
		v = lhs + rhs
	case tokMinus:
		v = lhs - rhs
	case tokStar:
		v = lhs * rhs
	case tokSlash:
		if rhs == 0 {
			return 0, &DivisionByZeroError{Expr: src}
		}
		v = lhs / rhs
	case tokCaret:
		v = math.Pow(lhs, rhs)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &OverflowError{Expr: src}
	}
	return v, nil
}

func (n literalNode) collect(map[string]struct{}) {}

func (n identNode) collect(idents map[string]struct{}) {
	idents[n.name] = struct{}{}
}

func (n unaryNode) collect(idents map[string]struct{}) {
	n.operand.collect(idents)
}

func (n binaryNode) collect(idents map[string]struct{}) {
	n.lhs.collect(idents)
	n.rhs.collect(idents)
}

// Expr is a parsed formula. It is immutable and safe for concurrent use.
type Expr struct {
	root   node
	source string
}

// Source returns the original expression text.
func (e *Expr) Source() string {
	return e.source
}

// Eval evaluates the expression against a parameter snapshot. It is pure:
// the snapshot is read-only and identical (expression, snapshot) pairs
// always produce identical results.
func (e *Expr) Eval(snap params.Snapshot) (float64, error) {
	v, err := e.root.eval(snap, e.source)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &OverflowError{Expr: e.source}
	}
	return v, nil
}

// Identifiers returns the free identifiers of the expression, sorted and
// deduplicated. Config validation uses this to cross-check declared
// parameters, mirroring what the evaluation path will require.
func (e *Expr) Identifiers() []string {
	set := make(map[string]struct{})
	e.root.collect(set)

	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
