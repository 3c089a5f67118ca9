package ast

import (
	"hash/fnv"
	"strings"

	"github.com/Konsultn-Engineering/sqlexpr/utils"
)

// BinaryExpr is left <op> right. Children are [left, right].
type BinaryExpr struct {
	exprBase
	Operator string
}

func NewBinaryExpr(left Expr, op string, right Expr) *BinaryExpr {
	b := &BinaryExpr{Operator: op}
	b.children = []Expr{left, right}
	return b
}

func (b *BinaryExpr) Left() Expr  { return b.children[0] }
func (b *BinaryExpr) Right() Expr { return b.children[1] }

func (b *BinaryExpr) Type() NodeType         { return NodeBinaryExpr }
func (b *BinaryExpr) Accept(v Visitor) error { return v.VisitBinaryExpr(b) }
func (b *BinaryExpr) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("bin:" + strings.ToUpper(b.Operator)))
	_, _ = h.Write(utils.U64ToBytes(b.Left().Fingerprint()))
	_, _ = h.Write(utils.U64ToBytes(b.Right().Fingerprint()))
	return h.Sum64()
}

func (b *BinaryExpr) Clone() Expr {
	out := &BinaryExpr{Operator: b.Operator}
	out.copyBase(&b.exprBase)
	out.children = CloneList(b.children)
	return out
}

func (b *BinaryExpr) ResetAnalysisState() { b.resetBase() }

func (b *BinaryExpr) Equals(other Expr) bool {
	o, ok := other.(*BinaryExpr)
	return ok && strings.EqualFold(b.Operator, o.Operator) && equalLists(b.children, o.children)
}

func (b *BinaryExpr) IsConstant() bool { return allConstant(b.children) }

func (b *BinaryExpr) ToSQL() string {
	return b.Left().ToSQL() + " " + b.Operator + " " + b.Right().ToSQL()
}

func (b *BinaryExpr) ToDigest() string {
	return b.Left().ToDigest() + " " + strings.ToLower(b.Operator) + " " + b.Right().ToDigest()
}
