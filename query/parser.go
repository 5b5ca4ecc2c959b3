package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vegasq/maskql/mask"
)

// Parser parses expressions into an AST
type Parser struct {
	tokens []Token
	pos    int
	depth  depthCounter
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF, Value: ""}
	}
	return p.tokens[p.pos]
}

// peek returns the next token without advancing
func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: TokenEOF, Value: ""}
	}
	return p.tokens[p.pos+1]
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

// expect checks if current token matches expected type and advances
func (p *Parser) expect(tokType TokenType) error {
	if p.current().Type != tokType {
		return fmt.Errorf("expected %v, got %v", tokType, p.current().Type)
	}
	p.advance()
	return nil
}

// Parse parses a boolean filter expression
func Parse(input string) (Expr, error) {
	parser, err := prepare(input)
	if err != nil {
		return nil, err
	}

	expr, err := parser.parseOr()
	if err != nil {
		return nil, err
	}

	if err := parser.atEnd(); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseSelectors parses a comma-separated list of value expressions, as given
// to the -s flag: "carat, data[var], upper(cut)".
func ParseSelectors(input string) ([]ValueExpr, error) {
	parser, err := prepare(input)
	if err != nil {
		return nil, err
	}

	var selectors []ValueExpr
	for {
		sel, err := parser.parseOperand()
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)

		if parser.current().Type != TokenComma {
			break
		}
		parser.advance()
	}

	if err := parser.atEnd(); err != nil {
		return nil, err
	}
	return selectors, nil
}

// prepare validates and tokenizes input and returns a parser over it
func prepare(input string) (*Parser, error) {
	if err := validateExpr(input); err != nil {
		return nil, err
	}

	tokens := Tokenize(input)
	if err := validateTokens(tokens); err != nil {
		return nil, err
	}

	return NewParser(tokens), nil
}

// atEnd verifies all tokens were consumed
func (p *Parser) atEnd() error {
	if p.current().Type == TokenError {
		return fmt.Errorf("invalid character in expression: %s", p.current().Value)
	}
	if p.current().Type != TokenEOF {
		return fmt.Errorf("unexpected trailing tokens: %s", p.current().Value)
	}
	return nil
}

// parseOr parses OR expressions (lowest precedence)
func (p *Parser) parseOr() (Expr, error) {
	if err := p.depth.enter(); err != nil {
		return nil, err
	}
	defer p.depth.exit()

	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{
			Left:     left,
			Operator: TokenOr,
			Right:    right,
		}
	}

	return left, nil
}

// parseAnd parses AND expressions (higher precedence than OR)
func (p *Parser) parseAnd() (Expr, error) {
	if err := p.depth.enter(); err != nil {
		return nil, err
	}
	defer p.depth.exit()

	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenAnd {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{
			Left:     left,
			Operator: TokenAnd,
			Right:    right,
		}
	}

	return left, nil
}

// parseUnary parses NOT and parenthesized groups
func (p *Parser) parseUnary() (Expr, error) {
	if err := p.depth.enter(); err != nil {
		return nil, err
	}
	defer p.depth.exit()

	// NOT binds to the following unary expression, except NOT IN / NOT LIKE /
	// NOT BETWEEN which are handled inside the predicate.
	if p.current().Type == TokenNot && p.peek().Type == TokenLeftParen {
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Inner: inner}, nil
	}

	if p.current().Type == TokenLeftParen {
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRightParen); err != nil {
			return nil, fmt.Errorf("expected ')' to close group: %w", err)
		}
		return inner, nil
	}

	return p.parsePredicate()
}

// parsePredicate parses a single predicate: a comparison or one of the
// IN / LIKE / BETWEEN / IS NULL forms, all anchored on a left operand.
func (p *Parser) parsePredicate() (Expr, error) {
	operand, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	switch p.current().Type {
	case TokenIn:
		return p.parseInExpr(operand)
	case TokenNot:
		p.advance()
		switch p.current().Type {
		case TokenIn:
			expr, err := p.parseInExpr(operand)
			if err != nil {
				return nil, err
			}
			expr.(*InExpr).Negate = true
			return expr, nil
		case TokenLike:
			expr, err := p.parseLikeExpr(operand)
			if err != nil {
				return nil, err
			}
			expr.(*LikeExpr).Negate = true
			return expr, nil
		case TokenBetween:
			expr, err := p.parseBetweenExpr(operand)
			if err != nil {
				return nil, err
			}
			expr.(*BetweenExpr).Negate = true
			return expr, nil
		default:
			return nil, fmt.Errorf("expected IN, LIKE, or BETWEEN after NOT, got %v", p.current().Type)
		}
	case TokenLike:
		return p.parseLikeExpr(operand)
	case TokenBetween:
		return p.parseBetweenExpr(operand)
	case TokenIs:
		return p.parseIsNullExpr(operand)
	}

	operator := p.current().Type
	switch operator {
	case TokenEqual, TokenNotEqual, TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual:
		p.advance()
	default:
		return nil, fmt.Errorf("expected comparison operator, got %v", operator)
	}

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	return &ComparisonExpr{
		Left:     operand,
		Operator: operator,
		Right:    right,
	}, nil
}

// parseOperand parses a value expression: literal, function call, indirect
// selection, or (possibly pronoun-qualified) reference
func (p *Parser) parseOperand() (ValueExpr, error) {
	switch p.current().Type {
	case TokenNumber:
		return p.parseNumberLiteral()
	case TokenString:
		value := p.current().Value
		p.advance()
		return &Literal{Value: value}, nil
	case TokenBool:
		value := strings.EqualFold(p.current().Value, "true")
		p.advance()
		return &Literal{Value: value}, nil
	case TokenIdent:
		ident := p.current().Value

		if p.peek().Type == TokenLeftBracket {
			if ident != "data" {
				return nil, fmt.Errorf("indirect selection %s[...] is only valid on the data pronoun", ident)
			}
			return p.parseIndirectRef()
		}

		if p.peek().Type == TokenLeftParen {
			return p.parseFunctionCall()
		}

		p.advance()
		return parseRef(ident)
	default:
		return nil, fmt.Errorf("expected value, name, or function call, got %v", p.current().Type)
	}
}

// parseNumberLiteral parses a numeric token as int64 first, then float64
func (p *Parser) parseNumberLiteral() (ValueExpr, error) {
	numStr := p.current().Value
	p.advance()
	if intVal, err := strconv.ParseInt(numStr, 10, 64); err == nil {
		return &Literal{Value: intVal}, nil
	}
	if floatVal, err := strconv.ParseFloat(numStr, 64); err == nil {
		return &Literal{Value: floatVal}, nil
	}
	return nil, fmt.Errorf("invalid number: %s", numStr)
}

// parseIndirectRef parses data[name], where name is a binding holding a
// column name. Both data[var] and data['var'] are accepted.
func (p *Parser) parseIndirectRef() (ValueExpr, error) {
	p.advance() // skip the data pronoun
	if err := p.expect(TokenLeftBracket); err != nil {
		return nil, err
	}

	var name string
	switch p.current().Type {
	case TokenIdent, TokenString:
		name = p.current().Value
		p.advance()
	default:
		return nil, fmt.Errorf("expected binding name inside data[...], got %v", p.current().Type)
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	if err := p.expect(TokenRightBracket); err != nil {
		return nil, fmt.Errorf("expected ']' after data[%s: %w", name, err)
	}

	return &IndirectRef{Name: name}, nil
}

// parseFunctionCall parses name(arg, arg, ...)
func (p *Parser) parseFunctionCall() (ValueExpr, error) {
	name := p.current().Value
	p.advance()
	if err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}

	var args []ValueExpr
	if p.current().Type != TokenRightParen {
		for {
			arg, err := p.parseOperand()
			if err != nil {
				return nil, fmt.Errorf("function %s: %w", name, err)
			}
			args = append(args, arg)

			if p.current().Type == TokenComma {
				p.advance()
				continue
			}
			break
		}
	}

	if err := p.expect(TokenRightParen); err != nil {
		return nil, fmt.Errorf("expected ')' after arguments of %s: %w", name, err)
	}

	if _, ok := LookupFunction(name); !ok {
		return nil, fmt.Errorf("unknown function: %s", name)
	}

	return &FunctionCall{Name: name, Args: args}, nil
}

// parseInExpr parses operand IN (v1, v2, ...). List values are operands, so
// bindings may supply members: cut IN (env.good, env.better).
func (p *Parser) parseInExpr(operand ValueExpr) (Expr, error) {
	if err := p.expect(TokenIn); err != nil {
		return nil, err
	}
	if err := p.expect(TokenLeftParen); err != nil {
		return nil, fmt.Errorf("expected '(' after IN: %w", err)
	}

	var values []ValueExpr
	for {
		value, err := p.parseOperand()
		if err != nil {
			return nil, fmt.Errorf("IN list: %w", err)
		}
		values = append(values, value)

		if p.current().Type == TokenComma {
			p.advance()
			continue
		}
		if p.current().Type == TokenRightParen {
			break
		}
		return nil, fmt.Errorf("expected ',' or ')' in IN list, got %v", p.current().Type)
	}

	if err := p.expect(TokenRightParen); err != nil {
		return nil, fmt.Errorf("expected ')' after IN list: %w", err)
	}

	return &InExpr{Operand: operand, Values: values}, nil
}

// parseLikeExpr parses operand LIKE 'pattern'
func (p *Parser) parseLikeExpr(operand ValueExpr) (Expr, error) {
	if err := p.expect(TokenLike); err != nil {
		return nil, err
	}

	if p.current().Type != TokenString {
		return nil, fmt.Errorf("expected string pattern after LIKE, got %v", p.current().Type)
	}
	pattern := p.current().Value
	p.advance()

	return &LikeExpr{Operand: operand, Pattern: pattern}, nil
}

// parseBetweenExpr parses operand BETWEEN lower AND upper
func (p *Parser) parseBetweenExpr(operand ValueExpr) (Expr, error) {
	if err := p.expect(TokenBetween); err != nil {
		return nil, err
	}

	lower, err := p.parseOperand()
	if err != nil {
		return nil, fmt.Errorf("BETWEEN lower bound: %w", err)
	}

	if err := p.expect(TokenAnd); err != nil {
		return nil, fmt.Errorf("expected AND in BETWEEN expression: %w", err)
	}

	upper, err := p.parseOperand()
	if err != nil {
		return nil, fmt.Errorf("BETWEEN upper bound: %w", err)
	}

	return &BetweenExpr{Operand: operand, Lower: lower, Upper: upper}, nil
}

// parseIsNullExpr parses operand IS [NOT] NULL
func (p *Parser) parseIsNullExpr(operand ValueExpr) (Expr, error) {
	if err := p.expect(TokenIs); err != nil {
		return nil, err
	}

	negate := false
	if p.current().Type == TokenNot {
		negate = true
		p.advance()
	}

	if err := p.expect(TokenNull); err != nil {
		return nil, fmt.Errorf("expected NULL after IS [NOT]: %w", err)
	}

	return &IsNullExpr{Operand: operand, Negate: negate}, nil
}

// parseRef builds a reference from an identifier, honoring the data and env
// pronoun prefixes. An unprefixed identifier resolves data-first (bare names
// are shadowed by columns).
func parseRef(ident string) (ValueExpr, error) {
	prefix, rest, found := strings.Cut(ident, ".")
	if found {
		var src mask.Source
		switch prefix {
		case "data":
			src = mask.SourceData
		case "env":
			src = mask.SourceEnv
		default:
			// A dotted name without a pronoun prefix is just a name.
			if err := validateName(ident); err != nil {
				return nil, err
			}
			return &Ref{Name: ident, Source: mask.SourceAny}, nil
		}
		if rest == "" {
			return nil, fmt.Errorf("pronoun %q must be followed by a name", prefix)
		}
		if err := validateName(rest); err != nil {
			return nil, err
		}
		return &Ref{Name: rest, Source: src}, nil
	}

	if err := validateName(ident); err != nil {
		return nil, err
	}
	return &Ref{Name: ident, Source: mask.SourceAny}, nil
}
