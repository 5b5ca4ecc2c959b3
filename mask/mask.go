// Package mask implements data-mask name resolution for expressions that are
// evaluated against a data frame while ordinary variables remain in scope.
//
// Every identifier in such an expression can come from one of two namespaces:
// the frame's columns ("data") or the surrounding bindings ("env"). An
// unqualified name checks the frame first, so a column silently shadows a
// binding with the same name. The data and env pronouns force resolution into
// exactly one namespace and make that class of bug impossible to write.
//
// Example usage:
//
//	m := mask.New(row, mask.Bindings{"min_carat": 1.0})
//	v, err := m.Resolve("carat", mask.SourceAny)     // column wins
//	v, err = m.Resolve("min_carat", mask.SourceEnv)  // binding, always
package mask

import "fmt"

// Source selects which namespace a name is resolved against.
type Source int

const (
	// SourceAny resolves against the frame first, then the bindings.
	SourceAny Source = iota

	// SourceData resolves against the frame only (the data pronoun).
	SourceData

	// SourceEnv resolves against the bindings only (the env pronoun).
	SourceEnv
)

// String returns the pronoun spelling for the source.
func (s Source) String() string {
	switch s {
	case SourceData:
		return "data"
	case SourceEnv:
		return "env"
	default:
		return "any"
	}
}

// Bindings is the environment namespace: an explicit, enumerated set of
// named values available to an expression. Nothing is captured implicitly;
// callers decide exactly which names an expression may see.
type Bindings map[string]interface{}

// NotFoundError reports a name that could not be resolved. Searched lists
// the namespaces that were consulted, in order, so a shadowing mistake is
// diagnosable from the message alone.
type NotFoundError struct {
	Name     string
	Searched []string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if len(e.Searched) == 1 {
		return fmt.Sprintf("name %q not found in %s namespace", e.Name, e.Searched[0])
	}
	return fmt.Sprintf("name %q not found in %v namespaces", e.Name, e.Searched)
}

// Mask pairs one row of a data frame with a set of bindings for the duration
// of a single expression evaluation. Both namespaces are read-only; a Mask
// holds no state of its own and is cheap to construct per row.
type Mask struct {
	data map[string]interface{}
	env  Bindings
}

// New creates a mask over a frame row and a set of bindings. Either side may
// be nil, in which case that namespace is simply empty.
func New(data map[string]interface{}, env Bindings) *Mask {
	return &Mask{data: data, env: env}
}

// Resolve looks up name in the namespace selected by src.
//
// SourceData and SourceEnv consult only their own namespace. SourceAny
// consults the frame first and falls back to the bindings, which means a
// column shadows a binding of the same name. Absence is always an error,
// never a default value.
func (m *Mask) Resolve(name string, src Source) (interface{}, error) {
	switch src {
	case SourceData:
		v, ok := m.data[name]
		if !ok {
			return nil, &NotFoundError{Name: name, Searched: []string{"data"}}
		}
		return v, nil
	case SourceEnv:
		v, ok := m.env[name]
		if !ok {
			return nil, &NotFoundError{Name: name, Searched: []string{"env"}}
		}
		return v, nil
	default:
		if v, ok := m.data[name]; ok {
			return v, nil
		}
		if v, ok := m.env[name]; ok {
			return v, nil
		}
		return nil, &NotFoundError{Name: name, Searched: []string{"data", "env"}}
	}
}

// ResolveIndirect resolves a column whose name is held in a binding rather
// than written literally: name is looked up in the env namespace, must hold a
// string, and that string is then used as a column key in the data namespace.
//
// The name variable is never looked up in the frame. A column whose values
// name other columns is an authoring mistake this form exists to rule out.
func (m *Mask) ResolveIndirect(name string) (interface{}, error) {
	sel, ok := m.env[name]
	if !ok {
		return nil, &NotFoundError{Name: name, Searched: []string{"env"}}
	}
	column, ok := sel.(string)
	if !ok {
		return nil, fmt.Errorf("indirect selector %q must hold a column name, got %T", name, sel)
	}
	v, ok := m.data[column]
	if !ok {
		return nil, &NotFoundError{Name: column, Searched: []string{"data"}}
	}
	return v, nil
}

// Has reports whether name resolves in the namespace selected by src.
func (m *Mask) Has(name string, src Source) bool {
	_, err := m.Resolve(name, src)
	return err == nil
}
