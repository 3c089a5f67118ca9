package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/sqlexpr/types"
	"github.com/Konsultn-Engineering/sqlexpr/utils"
)

// Literal is a constant. Val holds nil, bool, int64, float64 or string.
type Literal struct {
	exprBase
	Val any
}

// NewIntLiteral types the value with the narrowest integer type that
// holds it.
func NewIntLiteral(v int64) *Literal {
	l := &Literal{Val: v}
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		l.typ = types.TinyInt
	case v >= math.MinInt16 && v <= math.MaxInt16:
		l.typ = types.SmallInt
	case v >= math.MinInt32 && v <= math.MaxInt32:
		l.typ = types.Int
	default:
		l.typ = types.BigInt
	}
	l.analyzed = true
	return l
}

func NewFloatLiteral(v float64) *Literal {
	return newLiteral(v, types.Double)
}

func NewStringLiteral(v string) *Literal {
	return newLiteral(v, types.Varchar)
}

func NewBoolLiteral(v bool) *Literal {
	return newLiteral(v, types.Boolean)
}

func NewNullLiteral() *Literal {
	return newLiteral(nil, types.NullType)
}

func newLiteral(v any, typ types.PrimitiveType) *Literal {
	l := &Literal{Val: v}
	l.typ = typ
	l.analyzed = true
	return l
}

func (l *Literal) Type() NodeType { return NodeLiteral }

func (l *Literal) Accept(v Visitor) error { return v.VisitLiteral(l) }

func (l *Literal) Fingerprint() uint64 {
	return utils.FingerprintString("lit:" + strconv.Itoa(int(l.typ)) + ":" + fmt.Sprint(l.Val))
}

func (l *Literal) Clone() Expr {
	out := &Literal{Val: l.Val}
	out.copyBase(&l.exprBase)
	return out
}

// ResetAnalysisState is a no-op: a literal's type is intrinsic.
func (l *Literal) ResetAnalysisState() {}

func (l *Literal) Equals(other Expr) bool {
	o, ok := other.(*Literal)
	if !ok {
		return false
	}
	return l.typ == o.typ && l.Val == o.Val
}

func (l *Literal) IsConstant() bool { return true }

func (l *Literal) IsNull() bool { return l.Val == nil }

// NumericValue returns the literal as a float64. Strings that parse as
// numbers count; NULL does not.
func (l *Literal) NumericValue() (float64, bool) {
	switch v := l.Val.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func (l *Literal) ToSQL() string {
	switch v := l.Val.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return fmt.Sprint(l.Val)
}

func (l *Literal) ToDigest() string {
	if l.Val == nil {
		return "null"
	}
	if b, ok := l.Val.(bool); ok {
		return strconv.FormatBool(b)
	}
	return l.ToSQL()
}
