package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Function is a scalar function callable from expressions. MaxArgs of -1
// means variadic.
type Function struct {
	Name    string
	MinArgs int
	MaxArgs int
	Call    func(args []interface{}) (interface{}, error)
}

// LookupFunction returns the registered function for name, case-insensitively.
func LookupFunction(name string) (*Function, bool) {
	fn, ok := functions[strings.ToLower(name)]
	return fn, ok
}

// Functions returns the names of all registered functions, for diagnostics.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	return names
}

var functions = map[string]*Function{
	"upper": {
		Name: "upper", MinArgs: 1, MaxArgs: 1,
		Call: func(args []interface{}) (interface{}, error) {
			s, err := argString("upper", args, 0)
			if err != nil {
				return nil, err
			}
			return strings.ToUpper(s), nil
		},
	},
	"lower": {
		Name: "lower", MinArgs: 1, MaxArgs: 1,
		Call: func(args []interface{}) (interface{}, error) {
			s, err := argString("lower", args, 0)
			if err != nil {
				return nil, err
			}
			return strings.ToLower(s), nil
		},
	},
	"length": {
		Name: "length", MinArgs: 1, MaxArgs: 1,
		Call: func(args []interface{}) (interface{}, error) {
			s, err := argString("length", args, 0)
			if err != nil {
				return nil, err
			}
			return int64(len(s)), nil
		},
	},
	"trim": {
		Name: "trim", MinArgs: 1, MaxArgs: 1,
		Call: func(args []interface{}) (interface{}, error) {
			s, err := argString("trim", args, 0)
			if err != nil {
				return nil, err
			}
			return strings.TrimSpace(s), nil
		},
	},
	"substr": {
		Name: "substr", MinArgs: 2, MaxArgs: 3,
		Call: func(args []interface{}) (interface{}, error) {
			s, err := argString("substr", args, 0)
			if err != nil {
				return nil, err
			}
			start, err := argInt("substr", args, 1)
			if err != nil {
				return nil, err
			}
			// 1-based start, SQL style
			if start < 1 {
				start = 1
			}
			if start > int64(len(s)) {
				return "", nil
			}
			rest := s[start-1:]
			if len(args) == 3 {
				n, err := argInt("substr", args, 2)
				if err != nil {
					return nil, err
				}
				if n < 0 {
					n = 0
				}
				if n < int64(len(rest)) {
					rest = rest[:n]
				}
			}
			return rest, nil
		},
	},
	"abs": {
		Name: "abs", MinArgs: 1, MaxArgs: 1,
		Call: func(args []interface{}) (interface{}, error) {
			n, err := argNumber("abs", args, 0)
			if err != nil {
				return nil, err
			}
			return math.Abs(n), nil
		},
	},
	"round": {
		Name: "round", MinArgs: 1, MaxArgs: 2,
		Call: func(args []interface{}) (interface{}, error) {
			n, err := argNumber("round", args, 0)
			if err != nil {
				return nil, err
			}
			digits := int64(0)
			if len(args) == 2 {
				digits, err = argInt("round", args, 1)
				if err != nil {
					return nil, err
				}
			}
			scale := math.Pow(10, float64(digits))
			return math.Round(n*scale) / scale, nil
		},
	},
	"floor": {
		Name: "floor", MinArgs: 1, MaxArgs: 1,
		Call: func(args []interface{}) (interface{}, error) {
			n, err := argNumber("floor", args, 0)
			if err != nil {
				return nil, err
			}
			return math.Floor(n), nil
		},
	},
	"ceil": {
		Name: "ceil", MinArgs: 1, MaxArgs: 1,
		Call: func(args []interface{}) (interface{}, error) {
			n, err := argNumber("ceil", args, 0)
			if err != nil {
				return nil, err
			}
			return math.Ceil(n), nil
		},
	},
	"coalesce": {
		Name: "coalesce", MinArgs: 1, MaxArgs: -1,
		Call: func(args []interface{}) (interface{}, error) {
			for _, arg := range args {
				if arg != nil {
					return arg, nil
				}
			}
			return nil, nil
		},
	},
	"to_string": {
		Name: "to_string", MinArgs: 1, MaxArgs: 1,
		Call: func(args []interface{}) (interface{}, error) {
			if args[0] == nil {
				return nil, nil
			}
			switch v := args[0].(type) {
			case string:
				return v, nil
			case float64:
				return strconv.FormatFloat(v, 'g', -1, 64), nil
			case float32:
				return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
			case bool:
				return strconv.FormatBool(v), nil
			default:
				if n, ok := asFloat64(v); ok {
					return strconv.FormatInt(int64(n), 10), nil
				}
				return fmt.Sprintf("%v", v), nil
			}
		},
	},
	"to_number": {
		Name: "to_number", MinArgs: 1, MaxArgs: 1,
		Call: func(args []interface{}) (interface{}, error) {
			if args[0] == nil {
				return nil, nil
			}
			if n, ok := asFloat64(args[0]); ok {
				return n, nil
			}
			s, ok := args[0].(string)
			if !ok {
				return nil, fmt.Errorf("to_number: cannot convert %T", args[0])
			}
			n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("to_number: invalid number %q", s)
			}
			return n, nil
		},
	},
}

// argString extracts a string argument
func argString(fn string, args []interface{}, i int) (string, error) {
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("%s: argument %d must be a string, got %T", fn, i+1, args[i])
	}
	return s, nil
}

// argNumber extracts a numeric argument as float64
func argNumber(fn string, args []interface{}, i int) (float64, error) {
	n, ok := asFloat64(args[i])
	if !ok {
		return 0, fmt.Errorf("%s: argument %d must be a number, got %T", fn, i+1, args[i])
	}
	return n, nil
}

// argInt extracts an integral argument
func argInt(fn string, args []interface{}, i int) (int64, error) {
	n, err := argNumber(fn, args, i)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}
