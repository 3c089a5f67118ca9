package ast

import "github.com/Konsultn-Engineering/sqlexpr/types"

type NodeType int

const (
	NodeColumn NodeType = iota
	NodeLiteral
	NodeFunctionCall
	NodeBinaryExpr
	NodeAnalyticExpr
)

var nodeTypeNames = [...]string{
	NodeColumn:       "Column",
	NodeLiteral:      "Literal",
	NodeFunctionCall: "FunctionCall",
	NodeBinaryExpr:   "BinaryExpr",
	NodeAnalyticExpr: "AnalyticExpr",
}

func (t NodeType) String() string {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return "Unknown"
	}
	return nodeTypeNames[t]
}

type Node interface {
	Type() NodeType
	Accept(v Visitor) error
	Fingerprint() uint64
}

// Expr is a node of the expression tree. Generic tree algorithms only see
// the ordered child list returned by Children and write back through
// SetChild.
type Expr interface {
	Node

	Children() []Expr
	SetChild(i int, child Expr)

	// Clone returns a deep copy sharing no sub-expression with the receiver.
	Clone() Expr
	// ResetAnalysisState clears what the analyzer attached to this node so
	// it can be analyzed again.
	ResetAnalysisState()
	Equals(other Expr) bool
	IsConstant() bool

	ResultType() types.PrimitiveType
	SetResultType(t types.PrimitiveType)
	IsAnalyzed() bool
	SetAnalyzed()

	ToSQL() string
	ToDigest() string
}

// exprBase holds the generic per-node state: the child list and analysis
// metadata.
type exprBase struct {
	children []Expr
	typ      types.PrimitiveType
	analyzed bool
}

func (b *exprBase) Children() []Expr { return b.children }

func (b *exprBase) SetChild(i int, child Expr) { b.children[i] = child }

func (b *exprBase) ResultType() types.PrimitiveType { return b.typ }

func (b *exprBase) SetResultType(t types.PrimitiveType) { b.typ = t }

func (b *exprBase) IsAnalyzed() bool { return b.analyzed }

func (b *exprBase) SetAnalyzed() { b.analyzed = true }

func (b *exprBase) resetBase() {
	b.analyzed = false
	b.typ = types.InvalidType
}

// copyBase copies analysis metadata only; children are rebuilt by the
// caller from cloned parts.
func (b *exprBase) copyBase(other *exprBase) {
	b.typ = other.typ
	b.analyzed = other.analyzed
}

// Equal reports whether a and b are equivalent; either may be nil.
func Equal(a, b Expr) bool {
	if a == nil {
		return b == nil
	}
	return b != nil && a.Equals(b)
}

func equalLists(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// CloneList deep-copies every expression of exprs.
func CloneList(exprs []Expr) []Expr {
	if exprs == nil {
		return nil
	}
	out := make([]Expr, len(exprs))
	for i, e := range exprs {
		if e != nil {
			out[i] = e.Clone()
		}
	}
	return out
}

func allConstant(exprs []Expr) bool {
	for _, e := range exprs {
		if !e.IsConstant() {
			return false
		}
	}
	return true
}
