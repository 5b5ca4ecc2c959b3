package query

import (
	"fmt"

	"github.com/vegasq/maskql/frame"
	"github.com/vegasq/maskql/mask"
)

// Filter returns a new frame containing the rows for which expr is true.
// Every row is evaluated under its own mask over the shared bindings; the
// input frame is not modified.
func Filter(f *frame.Frame, expr Expr, env mask.Bindings) (*frame.Frame, error) {
	if expr == nil {
		return f, nil
	}

	kept := make([]map[string]interface{}, 0)
	for i := 0; i < f.Len(); i++ {
		match, err := expr.Eval(f.Mask(i, env))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if match {
			kept = append(kept, f.Row(i))
		}
	}

	return frame.New(f.Columns(), kept, f.Source()), nil
}

// Select projects a frame down to the given selectors, in order. An indirect
// selector (data[var]) is named after the column the binding points at, so
// the output header shows the column that was actually selected.
func Select(f *frame.Frame, selectors []ValueExpr, env mask.Bindings) (*frame.Frame, error) {
	if len(selectors) == 0 {
		return f, nil
	}

	columns := make([]string, len(selectors))
	for i, sel := range selectors {
		name, err := selectorName(sel, env, i)
		if err != nil {
			return nil, err
		}
		columns[i] = name
	}

	rows := make([]map[string]interface{}, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		m := f.Mask(i, env)
		row := make(map[string]interface{}, len(selectors))
		for j, sel := range selectors {
			v, err := sel.Eval(m)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			row[columns[j]] = v
		}
		rows = append(rows, row)
	}

	return frame.New(columns, rows, f.Source()), nil
}

// Derive returns a new frame with an extra column computed per row from a
// value expression. The name must not collide with an existing column;
// overwriting a loaded column silently is exactly the kind of surprise this
// package exists to prevent.
func Derive(f *frame.Frame, name string, expr ValueExpr, env mask.Bindings) (*frame.Frame, error) {
	if name == "" {
		return nil, fmt.Errorf("derived column needs a name")
	}
	if f.HasColumn(name) {
		return nil, fmt.Errorf("derived column %q already exists in the frame", name)
	}

	rows := make([]map[string]interface{}, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		v, err := expr.Eval(f.Mask(i, env))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		row := make(map[string]interface{}, len(f.Row(i))+1)
		for col, val := range f.Row(i) {
			row[col] = val
		}
		row[name] = v
		rows = append(rows, row)
	}

	columns := make([]string, 0, len(f.Columns())+1)
	columns = append(columns, f.Columns()...)
	columns = append(columns, name)

	return frame.New(columns, rows, f.Source()), nil
}

// selectorName derives the output column name for a selector
func selectorName(sel ValueExpr, env mask.Bindings, index int) (string, error) {
	switch s := sel.(type) {
	case *Ref:
		return s.Name, nil
	case *IndirectRef:
		v, ok := env[s.Name]
		if !ok {
			return "", &mask.NotFoundError{Name: s.Name, Searched: []string{"env"}}
		}
		column, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("indirect selector %q must hold a column name, got %T", s.Name, v)
		}
		return column, nil
	case *FunctionCall:
		return s.Name, nil
	default:
		return fmt.Sprintf("col_%d", index), nil
	}
}
