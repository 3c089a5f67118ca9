package ast

import (
	"hash/fnv"

	"github.com/Konsultn-Engineering/sqlexpr/utils"
)

// NullOrder places NULLs within an ORDER BY key.
type NullOrder uint8

const (
	NullsDefault NullOrder = iota
	NullsFirst
	NullsLast
)

// OrderByElement pairs a sort key with its direction. It is not an Expr
// itself; its owner exposes Expr as a child.
type OrderByElement struct {
	Expr  Expr
	Desc  bool
	Nulls NullOrder
}

func NewOrderByElement(expr Expr, desc bool) *OrderByElement {
	return &OrderByElement{Expr: expr, Desc: desc}
}

func Asc(expr Expr) *OrderByElement  { return NewOrderByElement(expr, false) }
func Desc(expr Expr) *OrderByElement { return NewOrderByElement(expr, true) }

func (o *OrderByElement) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("order:"))
	if o.Expr != nil {
		_, _ = h.Write(utils.U64ToBytes(o.Expr.Fingerprint()))
	}
	if o.Desc {
		_, _ = h.Write([]byte("desc"))
	}
	_, _ = h.Write([]byte{byte(o.Nulls)})
	return h.Sum64()
}

func (o *OrderByElement) Clone() *OrderByElement {
	out := *o
	if o.Expr != nil {
		out.Expr = o.Expr.Clone()
	}
	return &out
}

func (o *OrderByElement) Equals(other *OrderByElement) bool {
	if o == nil || other == nil {
		return o == other
	}
	return o.Desc == other.Desc && o.Nulls == other.Nulls && Equal(o.Expr, other.Expr)
}

func (o *OrderByElement) ToSQL() string {
	return o.Expr.ToSQL() + o.suffix(" ASC", " DESC", " NULLS FIRST", " NULLS LAST")
}

func (o *OrderByElement) ToDigest() string {
	return o.Expr.ToDigest() + o.suffix(" asc", " desc", " nulls first", " nulls last")
}

func (o *OrderByElement) suffix(asc, desc, first, last string) string {
	s := asc
	if o.Desc {
		s = desc
	}
	switch o.Nulls {
	case NullsFirst:
		s += first
	case NullsLast:
		s += last
	}
	return s
}

func cloneOrderBy(elems []*OrderByElement) []*OrderByElement {
	out := make([]*OrderByElement, len(elems))
	for i, e := range elems {
		out[i] = e.Clone()
	}
	return out
}

func equalOrderBy(a, b []*OrderByElement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}
