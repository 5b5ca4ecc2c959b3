// Package query implements the filter and selection expression language
// evaluated under a data mask.
//
// Identifiers in an expression may be written bare (carat), qualified with a
// namespace pronoun (data.carat, env.min_carat), or as an indirect column
// selection (data[var], where var is a binding holding a column name). Bare
// identifiers resolve against the frame first and fall back to the bindings,
// so the pronouns exist to make resolution explicit where the namespaces
// overlap. The package includes a lexer for tokenization, a recursive-descent
// parser producing an AST, and per-row evaluation via mask.Mask.
//
// Example usage:
//
//	expr, err := query.Parse("carat > env.min_carat and cut = 'Ideal'")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	keep, err := expr.Eval(mask.New(row, bindings))
package query

import (
	"fmt"

	"github.com/vegasq/maskql/mask"
)

// TokenType represents the type of a token
type TokenType int

const (
	// Keywords
	TokenAnd TokenType = iota
	TokenOr
	TokenNot
	TokenIn
	TokenLike
	TokenBetween
	TokenIs
	TokenNull

	// Operators
	TokenEqual        // =
	TokenNotEqual     // !=
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=

	// Literals
	TokenString
	TokenNumber
	TokenIdent
	TokenBool

	// Delimiters
	TokenComma        // ,
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBracket  // [
	TokenRightBracket // ]

	// Special
	TokenEOF
	TokenError
)

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
}

// ValueExpr is an expression that produces a scalar value for one row.
type ValueExpr interface {
	Eval(m *mask.Mask) (interface{}, error)
}

// Expr is a boolean expression that decides whether a row matches.
type Expr interface {
	Eval(m *mask.Mask) (bool, error)
}

// Ref references a name, optionally forced into one namespace by a pronoun.
type Ref struct {
	Name   string
	Source mask.Source
}

// IndirectRef selects the column whose name is held in the binding Name.
// Written data[name] in the expression language.
type IndirectRef struct {
	Name string
}

// Literal is a literal value (number, string, bool)
type Literal struct {
	Value interface{}
}

// FunctionCall represents a scalar function invocation
type FunctionCall struct {
	Name string
	Args []ValueExpr
}

// BinaryExpr combines two boolean expressions with AND or OR
type BinaryExpr struct {
	Left     Expr
	Operator TokenType // TokenAnd or TokenOr
	Right    Expr
}

// NotExpr negates a boolean expression
type NotExpr struct {
	Inner Expr
}

// ComparisonExpr compares two operands. Each side resolves independently
// under the mask; there is no coupling between the sides.
type ComparisonExpr struct {
	Left     ValueExpr
	Operator TokenType
	Right    ValueExpr
}

// InExpr tests membership: operand IN (v1, v2, ...)
type InExpr struct {
	Operand ValueExpr
	Values  []ValueExpr
	Negate  bool // NOT IN
}

// LikeExpr matches an operand against a pattern with % and _ wildcards
type LikeExpr struct {
	Operand ValueExpr
	Pattern string
	Negate  bool // NOT LIKE
}

// BetweenExpr tests operand BETWEEN lower AND upper (inclusive)
type BetweenExpr struct {
	Operand ValueExpr
	Lower   ValueExpr
	Upper   ValueExpr
	Negate  bool // NOT BETWEEN
}

// IsNullExpr tests operand IS [NOT] NULL. The operand must still resolve; a
// name absent from its namespace is a resolution error, not a null.
type IsNullExpr struct {
	Operand ValueExpr
	Negate  bool // IS NOT NULL
}

// Eval resolves the reference under the mask.
func (r *Ref) Eval(m *mask.Mask) (interface{}, error) {
	return m.Resolve(r.Name, r.Source)
}

// Eval resolves the binding to a column name, then the column itself.
func (r *IndirectRef) Eval(m *mask.Mask) (interface{}, error) {
	return m.ResolveIndirect(r.Name)
}

// Eval returns the literal value.
func (l *Literal) Eval(m *mask.Mask) (interface{}, error) {
	return l.Value, nil
}

// Eval evaluates the arguments and applies the named function.
func (f *FunctionCall) Eval(m *mask.Mask) (interface{}, error) {
	fn, ok := LookupFunction(f.Name)
	if !ok {
		return nil, fmt.Errorf("unknown function: %s", f.Name)
	}

	if len(f.Args) < fn.MinArgs {
		return nil, fmt.Errorf("function %s: expected at least %d arguments, got %d", f.Name, fn.MinArgs, len(f.Args))
	}
	if fn.MaxArgs >= 0 && len(f.Args) > fn.MaxArgs {
		return nil, fmt.Errorf("function %s: expected at most %d arguments, got %d", f.Name, fn.MaxArgs, len(f.Args))
	}

	args := make([]interface{}, len(f.Args))
	for i, arg := range f.Args {
		v, err := arg.Eval(m)
		if err != nil {
			return nil, fmt.Errorf("function %s: argument %d: %w", f.Name, i+1, err)
		}
		args[i] = v
	}

	return fn.Call(args)
}

// Eval evaluates a binary expression
func (b *BinaryExpr) Eval(m *mask.Mask) (bool, error) {
	left, err := b.Left.Eval(m)
	if err != nil {
		return false, err
	}

	right, err := b.Right.Eval(m)
	if err != nil {
		return false, err
	}

	switch b.Operator {
	case TokenAnd:
		return left && right, nil
	case TokenOr:
		return left || right, nil
	default:
		return false, fmt.Errorf("unsupported binary operator: %v", b.Operator)
	}
}

// Eval evaluates a NOT expression
func (n *NotExpr) Eval(m *mask.Mask) (bool, error) {
	inner, err := n.Inner.Eval(m)
	if err != nil {
		return false, err
	}
	return !inner, nil
}

// Eval evaluates a comparison expression
func (c *ComparisonExpr) Eval(m *mask.Mask) (bool, error) {
	left, err := c.Left.Eval(m)
	if err != nil {
		return false, err
	}

	right, err := c.Right.Eval(m)
	if err != nil {
		return false, err
	}

	return compare(left, c.Operator, right)
}

// Eval evaluates an IN expression
func (i *InExpr) Eval(m *mask.Mask) (bool, error) {
	value, err := i.Operand.Eval(m)
	if err != nil {
		return false, err
	}

	found := false
	for _, candidate := range i.Values {
		cv, err := candidate.Eval(m)
		if err != nil {
			return false, err
		}
		match, err := compare(value, TokenEqual, cv)
		if err != nil {
			return false, err
		}
		if match {
			found = true
			break
		}
	}

	if i.Negate {
		return !found, nil
	}
	return found, nil
}

// Eval evaluates a LIKE expression
func (l *LikeExpr) Eval(m *mask.Mask) (bool, error) {
	value, err := l.Operand.Eval(m)
	if err != nil {
		return false, err
	}

	str, ok := value.(string)
	if !ok {
		return false, fmt.Errorf("LIKE requires a string operand, got %T", value)
	}

	match := matchLikePattern(str, l.Pattern)
	if l.Negate {
		return !match, nil
	}
	return match, nil
}

// Eval evaluates a BETWEEN expression
func (b *BetweenExpr) Eval(m *mask.Mask) (bool, error) {
	value, err := b.Operand.Eval(m)
	if err != nil {
		return false, err
	}

	lower, err := b.Lower.Eval(m)
	if err != nil {
		return false, err
	}
	upper, err := b.Upper.Eval(m)
	if err != nil {
		return false, err
	}

	lowerMatch, err := compare(value, TokenGreaterEqual, lower)
	if err != nil {
		return false, err
	}
	upperMatch, err := compare(value, TokenLessEqual, upper)
	if err != nil {
		return false, err
	}

	between := lowerMatch && upperMatch
	if b.Negate {
		return !between, nil
	}
	return between, nil
}

// Eval evaluates an IS NULL expression
func (i *IsNullExpr) Eval(m *mask.Mask) (bool, error) {
	value, err := i.Operand.Eval(m)
	if err != nil {
		return false, err
	}

	isNull := value == nil
	if i.Negate {
		return !isNull, nil
	}
	return isNull, nil
}
