package ast

import (
	"hash/fnv"
	"strings"

	"github.com/Konsultn-Engineering/sqlexpr/catalog"
	"github.com/Konsultn-Engineering/sqlexpr/utils"
)

// FunctionCallExpr is a call fn(args...). Its children are its arguments.
type FunctionCallExpr struct {
	exprBase
	Name     string
	Distinct bool

	// fn is bound by the analyzer; nil until then.
	fn catalog.Function
}

func NewFunctionCall(name string, args ...Expr) *FunctionCallExpr {
	f := &FunctionCallExpr{Name: name}
	f.children = make([]Expr, len(args))
	copy(f.children, args)
	return f
}

func (f *FunctionCallExpr) Type() NodeType { return NodeFunctionCall }

func (f *FunctionCallExpr) Accept(v Visitor) error { return v.VisitFunctionCall(f) }

func (f *FunctionCallExpr) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("func:" + strings.ToUpper(f.Name)))
	if f.Distinct {
		_, _ = h.Write([]byte(":distinct"))
	}
	for _, arg := range f.children {
		_, _ = h.Write(utils.U64ToBytes(arg.Fingerprint()))
	}
	return h.Sum64()
}

func (f *FunctionCallExpr) Args() []Expr { return f.children }

// Fn returns the bound function descriptor, or nil before analysis.
func (f *FunctionCallExpr) Fn() catalog.Function { return f.fn }

func (f *FunctionCallExpr) BindFn(fn catalog.Function) { f.fn = fn }

// Clone deep-copies the arguments. The descriptor is catalog state and is
// shared.
func (f *FunctionCallExpr) Clone() Expr {
	return f.cloneCall()
}

func (f *FunctionCallExpr) cloneCall() *FunctionCallExpr {
	out := &FunctionCallExpr{
		Name:     f.Name,
		Distinct: f.Distinct,
		fn:       f.fn,
	}
	out.copyBase(&f.exprBase)
	out.children = CloneList(f.children)
	if out.children == nil {
		out.children = []Expr{}
	}
	return out
}

func (f *FunctionCallExpr) ResetAnalysisState() {
	f.resetBase()
	f.fn = nil
}

func (f *FunctionCallExpr) Equals(other Expr) bool {
	o, ok := other.(*FunctionCallExpr)
	return ok &&
		strings.EqualFold(f.Name, o.Name) &&
		f.Distinct == o.Distinct &&
		equalLists(f.children, o.children)
}

// IsConstant is false for aggregates and for calls without arguments.
func (f *FunctionCallExpr) IsConstant() bool {
	if _, ok := f.fn.(*catalog.AggregateFunction); ok {
		return false
	}
	if catalog.LookupKind(f.Name) != catalog.KindNone {
		return false
	}
	return len(f.children) > 0 && allConstant(f.children)
}

func (f *FunctionCallExpr) ToSQL() string {
	sb := getBuilder()
	defer putBuilder(sb)
	sb.WriteString(f.Name)
	sb.WriteByte('(')
	if f.Distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(exprListToSQL(f.children))
	sb.WriteByte(')')
	return sb.String()
}

func (f *FunctionCallExpr) ToDigest() string {
	sb := getBuilder()
	defer putBuilder(sb)
	sb.WriteString(strings.ToLower(f.Name))
	sb.WriteByte('(')
	if f.Distinct {
		sb.WriteString("distinct ")
	}
	sb.WriteString(exprListToDigest(f.children))
	sb.WriteByte(')')
	return sb.String()
}
