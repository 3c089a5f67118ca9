package ast

import (
	"strings"

	"github.com/Konsultn-Engineering/sqlexpr/types"
	"github.com/Konsultn-Engineering/sqlexpr/utils"
)

// Column references a column of an input relation.
type Column struct {
	exprBase
	Table string
	Name  string
}

func NewColumn(table, name string) *Column {
	return &Column{Table: table, Name: name}
}

// NewTypedColumn returns a column whose type is already known.
func NewTypedColumn(table, name string, typ types.PrimitiveType) *Column {
	c := &Column{Table: table, Name: name}
	c.typ = typ
	c.analyzed = true
	return c
}

func (c *Column) Type() NodeType { return NodeColumn }

func (c *Column) Accept(v Visitor) error { return v.VisitColumn(c) }

func (c *Column) Fingerprint() uint64 {
	return utils.FingerprintString("col:" + strings.ToLower(c.qualifiedName()))
}

func (c *Column) Clone() Expr {
	out := &Column{Table: c.Table, Name: c.Name}
	out.copyBase(&c.exprBase)
	return out
}

// ResetAnalysisState keeps the resolved type: column references stay
// analyzed so they can be substituted across query blocks.
func (c *Column) ResetAnalysisState() {}

func (c *Column) Equals(other Expr) bool {
	o, ok := other.(*Column)
	return ok && strings.EqualFold(c.Table, o.Table) && strings.EqualFold(c.Name, o.Name)
}

func (c *Column) IsConstant() bool { return false }

func (c *Column) ToSQL() string { return c.qualifiedName() }

func (c *Column) ToDigest() string { return strings.ToLower(c.qualifiedName()) }

func (c *Column) qualifiedName() string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}
