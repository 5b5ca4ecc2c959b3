package query

import (
	"fmt"
	"math"
	"strings"
)

// compare compares two resolved values using the given operator. Numeric
// types are widened to float64 so int64 columns compare against float
// bindings; strings and bools only compare with their own kind.
func compare(left interface{}, operator TokenType, right interface{}) (bool, error) {
	if left == nil || right == nil {
		switch operator {
		case TokenEqual:
			return left == right, nil
		case TokenNotEqual:
			return left != right, nil
		}
		return false, nil
	}

	if leftNum, ok := asFloat64(left); ok {
		if rightNum, ok := asFloat64(right); ok {
			return compareNumbers(leftNum, operator, rightNum), nil
		}
	}

	if leftStr, ok := left.(string); ok {
		if rightStr, ok := right.(string); ok {
			return compareOrdered(strings.Compare(leftStr, rightStr), operator)
		}
	}

	if leftBool, ok := left.(bool); ok {
		if rightBool, ok := right.(bool); ok {
			switch operator {
			case TokenEqual:
				return leftBool == rightBool, nil
			case TokenNotEqual:
				return leftBool != rightBool, nil
			}
			return false, fmt.Errorf("operator %v is not defined for booleans", operator)
		}
	}

	return false, fmt.Errorf("cannot compare %T with %T", left, right)
}

// asFloat64 widens any integer or float value to float64
func asFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	}
	return 0, false
}

// compareNumbers compares floats, with a relative epsilon for equality so
// values that went through float64 widening still compare equal
func compareNumbers(left float64, operator TokenType, right float64) bool {
	const epsilon = 1e-9
	switch operator {
	case TokenEqual, TokenNotEqual:
		threshold := epsilon * math.Max(1.0, math.Max(math.Abs(left), math.Abs(right)))
		equal := math.Abs(left-right) < threshold
		if operator == TokenEqual {
			return equal
		}
		return !equal
	case TokenLess:
		return left < right
	case TokenGreater:
		return left > right
	case TokenLessEqual:
		return left <= right
	case TokenGreaterEqual:
		return left >= right
	}
	return false
}

// compareOrdered maps a three-way comparison result through an operator
func compareOrdered(cmp int, operator TokenType) (bool, error) {
	switch operator {
	case TokenEqual:
		return cmp == 0, nil
	case TokenNotEqual:
		return cmp != 0, nil
	case TokenLess:
		return cmp < 0, nil
	case TokenGreater:
		return cmp > 0, nil
	case TokenLessEqual:
		return cmp <= 0, nil
	case TokenGreaterEqual:
		return cmp >= 0, nil
	}
	return false, fmt.Errorf("unsupported comparison operator: %v", operator)
}

// matchLikePattern matches a string against a pattern where % matches any
// sequence of characters and _ matches exactly one
func matchLikePattern(str, pattern string) bool {
	segments := strings.Split(pattern, "%")
	pos := 0

	for i, segment := range segments {
		if segment == "" {
			continue
		}

		matchPos := findSegmentMatch(str[pos:], segment)
		if matchPos == -1 {
			return false
		}

		// The first segment must anchor at the start unless the pattern
		// opens with %.
		if i == 0 && !strings.HasPrefix(pattern, "%") && matchPos != 0 {
			return false
		}

		pos += matchPos + len(segment)
	}

	// The last segment must anchor at the end unless the pattern closes
	// with %.
	if !strings.HasSuffix(pattern, "%") && pos != len(str) {
		return false
	}

	return true
}

// findSegmentMatch finds where a pattern segment (which may contain _)
// first matches within str, or -1
func findSegmentMatch(str, segment string) int {
	if len(segment) == 0 {
		return 0
	}

	if !strings.Contains(segment, "_") {
		return strings.Index(str, segment)
	}

	for i := 0; i <= len(str)-len(segment); i++ {
		match := true
		for j := 0; j < len(segment); j++ {
			if segment[j] != '_' && str[i+j] != segment[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}

	return -1
}
