package query

import (
	"errors"
	"fmt"
)

// Validation limits to prevent resource exhaustion on hostile input
const (
	// MaxExprLength is the maximum allowed expression string length (64KB)
	MaxExprLength = 64 * 1024

	// MaxTokens is the maximum number of tokens in an expression
	MaxTokens = 500

	// MaxExprDepth is the maximum nesting depth for expressions
	MaxExprDepth = 50

	// MaxNameLength is the maximum length for an identifier
	MaxNameLength = 256
)

var (
	// ErrExprTooLong is returned when an expression exceeds MaxExprLength
	ErrExprTooLong = errors.New("expression too long")

	// ErrTooManyTokens is returned when an expression has too many tokens
	ErrTooManyTokens = errors.New("too many tokens in expression")

	// ErrExprTooDeep is returned when expression nesting exceeds the limit
	ErrExprTooDeep = errors.New("expression nesting too deep")

	// ErrNameTooLong is returned when an identifier is too long
	ErrNameTooLong = errors.New("identifier too long")
)

// validateExpr checks expression string length
func validateExpr(input string) error {
	if len(input) > MaxExprLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrExprTooLong, len(input), MaxExprLength)
	}
	return nil
}

// validateTokens checks token count
func validateTokens(tokens []Token) error {
	if len(tokens) > MaxTokens {
		return fmt.Errorf("%w: %d tokens (max %d)", ErrTooManyTokens, len(tokens), MaxTokens)
	}
	return nil
}

// validateName checks identifier length
func validateName(name string) error {
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrNameTooLong, len(name), MaxNameLength)
	}
	return nil
}

// depthCounter tracks expression nesting depth during parsing
type depthCounter struct {
	depth int
}

// enter increments depth and returns an error if the limit is exceeded
func (c *depthCounter) enter() error {
	c.depth++
	if c.depth > MaxExprDepth {
		return fmt.Errorf("%w: %d (max %d)", ErrExprTooDeep, c.depth, MaxExprDepth)
	}
	return nil
}

// exit decrements depth
func (c *depthCounter) exit() {
	c.depth--
}
