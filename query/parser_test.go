package query

import (
	"strings"
	"testing"

	"github.com/vegasq/maskql/mask"
)

func TestParse_References(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantName   string
		wantSource mask.Source
	}{
		{"bare name", "carat > 1", "carat", mask.SourceAny},
		{"data pronoun", "data.carat > 1", "carat", mask.SourceData},
		{"env pronoun", "env.min_carat > 1", "min_carat", mask.SourceEnv},
		{"dotted name without pronoun", "order.total > 1", "order.total", mask.SourceAny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			comp, ok := expr.(*ComparisonExpr)
			if !ok {
				t.Fatalf("Parse(%q) = %T, want *ComparisonExpr", tt.input, expr)
			}
			ref, ok := comp.Left.(*Ref)
			if !ok {
				t.Fatalf("left operand = %T, want *Ref", comp.Left)
			}
			if ref.Name != tt.wantName {
				t.Errorf("ref name = %q, want %q", ref.Name, tt.wantName)
			}
			if ref.Source != tt.wantSource {
				t.Errorf("ref source = %v, want %v", ref.Source, tt.wantSource)
			}
		})
	}
}

func TestParse_IndirectRef(t *testing.T) {
	for _, input := range []string{"data[var] > 1", "data['var'] > 1"} {
		expr, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", input, err)
		}
		comp := expr.(*ComparisonExpr)
		ind, ok := comp.Left.(*IndirectRef)
		if !ok {
			t.Fatalf("Parse(%q) left operand = %T, want *IndirectRef", input, comp.Left)
		}
		if ind.Name != "var" {
			t.Errorf("indirect name = %q, want %q", ind.Name, "var")
		}
	}
}

func TestParse_BothSidesResolvable(t *testing.T) {
	expr, err := Parse("data.carat >= env.min_carat")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	comp := expr.(*ComparisonExpr)

	left := comp.Left.(*Ref)
	right := comp.Right.(*Ref)
	if left.Source != mask.SourceData {
		t.Errorf("left source = %v, want data", left.Source)
	}
	if right.Source != mask.SourceEnv {
		t.Errorf("right source = %v, want env", right.Source)
	}
}

func TestParse_BooleanStructure(t *testing.T) {
	expr, err := Parse("carat > 1 and cut = 'Ideal' or price < 300")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// OR has lowest precedence, so the root is the OR node.
	or, ok := expr.(*BinaryExpr)
	if !ok || or.Operator != TokenOr {
		t.Fatalf("root = %T (%v), want OR BinaryExpr", expr, expr)
	}
	and, ok := or.Left.(*BinaryExpr)
	if !ok || and.Operator != TokenAnd {
		t.Fatalf("or.Left = %T, want AND BinaryExpr", or.Left)
	}
}

func TestParse_GroupingAndNot(t *testing.T) {
	expr, err := Parse("not (cut = 'Fair' or cut = 'Good')")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	not, ok := expr.(*NotExpr)
	if !ok {
		t.Fatalf("root = %T, want *NotExpr", expr)
	}
	if _, ok := not.Inner.(*BinaryExpr); !ok {
		t.Fatalf("not.Inner = %T, want *BinaryExpr", not.Inner)
	}
}

func TestParse_PredicateForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, expr Expr)
	}{
		{"in list", "cut in ('Ideal', 'Premium')", func(t *testing.T, expr Expr) {
			in, ok := expr.(*InExpr)
			if !ok {
				t.Fatalf("got %T, want *InExpr", expr)
			}
			if len(in.Values) != 2 || in.Negate {
				t.Errorf("InExpr = %+v", in)
			}
		}},
		{"not in with env member", "cut not in (env.exclude)", func(t *testing.T, expr Expr) {
			in, ok := expr.(*InExpr)
			if !ok {
				t.Fatalf("got %T, want *InExpr", expr)
			}
			if !in.Negate {
				t.Error("Negate = false, want true")
			}
			ref, ok := in.Values[0].(*Ref)
			if !ok || ref.Source != mask.SourceEnv {
				t.Errorf("IN member = %#v, want env ref", in.Values[0])
			}
		}},
		{"like", "cut like 'Id%'", func(t *testing.T, expr Expr) {
			like, ok := expr.(*LikeExpr)
			if !ok || like.Pattern != "Id%" || like.Negate {
				t.Fatalf("got %#v, want LikeExpr{Pattern: Id%%}", expr)
			}
		}},
		{"not like", "cut not like 'Id%'", func(t *testing.T, expr Expr) {
			like, ok := expr.(*LikeExpr)
			if !ok || !like.Negate {
				t.Fatalf("got %#v, want negated LikeExpr", expr)
			}
		}},
		{"between env bounds", "carat between env.lo and env.hi", func(t *testing.T, expr Expr) {
			between, ok := expr.(*BetweenExpr)
			if !ok || between.Negate {
				t.Fatalf("got %#v, want BetweenExpr", expr)
			}
		}},
		{"not between", "carat not between 1 and 2", func(t *testing.T, expr Expr) {
			between, ok := expr.(*BetweenExpr)
			if !ok || !between.Negate {
				t.Fatalf("got %#v, want negated BetweenExpr", expr)
			}
		}},
		{"is null", "price is null", func(t *testing.T, expr Expr) {
			isNull, ok := expr.(*IsNullExpr)
			if !ok || isNull.Negate {
				t.Fatalf("got %#v, want IsNullExpr", expr)
			}
		}},
		{"is not null", "price is not null", func(t *testing.T, expr Expr) {
			isNull, ok := expr.(*IsNullExpr)
			if !ok || !isNull.Negate {
				t.Fatalf("got %#v, want negated IsNullExpr", expr)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			tt.check(t, expr)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty pronoun", "data. > 1"},
		{"indirect on env", "env[var] > 1"},
		{"indirect on plain name", "carat[var] > 1"},
		{"missing operator", "carat 1"},
		{"missing operand", "carat >"},
		{"unclosed group", "(carat > 1"},
		{"unclosed in list", "cut in ('Ideal'"},
		{"like without string", "cut like carat"},
		{"trailing tokens", "carat > 1 carat"},
		{"invalid character", "carat > 1 ;"},
		{"unknown function", "nope(carat) > 1"},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.input); err == nil {
				t.Errorf("Parse(%q) expected error", tt.input)
			}
		})
	}
}

func TestParse_DepthLimit(t *testing.T) {
	deep := strings.Repeat("(", MaxExprDepth+1) + "carat > 1" + strings.Repeat(")", MaxExprDepth+1)
	if _, err := Parse(deep); err == nil {
		t.Error("Parse() expected depth error for deeply nested expression")
	}
}

func TestParse_TokenLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("carat > 1")
	for i := 0; i < MaxTokens; i++ {
		b.WriteString(" and carat > 1")
	}
	if _, err := Parse(b.String()); err == nil {
		t.Error("Parse() expected token count error")
	}
}

func TestParseSelectors(t *testing.T) {
	selectors, err := ParseSelectors("carat, data[var], upper(cut), env.label")
	if err != nil {
		t.Fatalf("ParseSelectors() error = %v", err)
	}
	if len(selectors) != 4 {
		t.Fatalf("got %d selectors, want 4", len(selectors))
	}

	if ref, ok := selectors[0].(*Ref); !ok || ref.Name != "carat" || ref.Source != mask.SourceAny {
		t.Errorf("selector 0 = %#v, want bare ref carat", selectors[0])
	}
	if ind, ok := selectors[1].(*IndirectRef); !ok || ind.Name != "var" {
		t.Errorf("selector 1 = %#v, want indirect ref var", selectors[1])
	}
	if fn, ok := selectors[2].(*FunctionCall); !ok || fn.Name != "upper" || len(fn.Args) != 1 {
		t.Errorf("selector 2 = %#v, want upper(cut)", selectors[2])
	}
	if ref, ok := selectors[3].(*Ref); !ok || ref.Source != mask.SourceEnv {
		t.Errorf("selector 3 = %#v, want env ref", selectors[3])
	}
}

func TestParseSelectors_Errors(t *testing.T) {
	for _, input := range []string{"", "carat,", "carat extra", "cut ="} {
		if _, err := ParseSelectors(input); err == nil {
			t.Errorf("ParseSelectors(%q) expected error", input)
		}
	}
}
