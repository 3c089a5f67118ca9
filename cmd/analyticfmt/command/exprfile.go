package command

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Konsultn-Engineering/sqlexpr/ast"
)

// exprFile is the YAML document analyticfmt reads.
//
//	expressions:
//	  - fn: LAG
//	    args: [{column: price}, {int: 1}, {int: 0}]
//	    over:
//	      partition_by: [{column: sym}]
//	      order_by: [{column: day, desc: true, nulls: last}]
//	      frame: {type: rows, start: {bound: unbounded_preceding}, end: {bound: current_row}}
type exprFile struct {
	Expressions []exprNode `yaml:"expressions"`
}

// exprNode is one expression. Exactly one of column, a literal, fn or op
// is set; fn with over is an analytic expression.
type exprNode struct {
	Table  string   `yaml:"table,omitempty"`
	Column string   `yaml:"column,omitempty"`
	Int    *int64   `yaml:"int,omitempty"`
	Float  *float64 `yaml:"float,omitempty"`
	String *string  `yaml:"string,omitempty"`
	Bool   *bool    `yaml:"bool,omitempty"`
	Null   bool     `yaml:"is_null,omitempty"`

	Fn       string     `yaml:"fn,omitempty"`
	Distinct bool       `yaml:"distinct,omitempty"`
	Args     []exprNode `yaml:"args,omitempty"`
	Over     *overNode  `yaml:"over,omitempty"`

	Op    string    `yaml:"op,omitempty"`
	Left  *exprNode `yaml:"left,omitempty"`
	Right *exprNode `yaml:"right,omitempty"`
}

type overNode struct {
	PartitionBy []exprNode    `yaml:"partition_by,omitempty"`
	OrderBy     []orderByNode `yaml:"order_by,omitempty"`
	Frame       *frameNode    `yaml:"frame,omitempty"`
}

type orderByNode struct {
	exprNode `yaml:",inline"`
	Desc     bool   `yaml:"desc,omitempty"`
	Nulls    string `yaml:"nulls,omitempty"`
}

type frameNode struct {
	Type  string        `yaml:"type"`
	Start *boundaryNode `yaml:"start"`
	End   *boundaryNode `yaml:"end,omitempty"`
}

type boundaryNode struct {
	Bound  string    `yaml:"bound"`
	Offset *exprNode `yaml:"offset,omitempty"`
}

var errEmptyExpression = errors.New("expression has no column, literal, fn or op")

func loadExprFile(path string) ([]ast.Expr, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read expressions: %w", err)
	}
	return parseExprFile(data)
}

func parseExprFile(data []byte) ([]ast.Expr, error) {
	var f exprFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse expressions: %w", err)
	}
	exprs := make([]ast.Expr, 0, len(f.Expressions))
	for i := range f.Expressions {
		e, err := f.Expressions[i].toExpr()
		if err != nil {
			return nil, fmt.Errorf("expression %d: %w", i+1, err)
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func (n *exprNode) toExpr() (ast.Expr, error) {
	switch {
	case n.Column != "":
		return ast.NewColumn(n.Table, n.Column), nil
	case n.Int != nil:
		return ast.NewIntLiteral(*n.Int), nil
	case n.Float != nil:
		return ast.NewFloatLiteral(*n.Float), nil
	case n.String != nil:
		return ast.NewStringLiteral(*n.String), nil
	case n.Bool != nil:
		return ast.NewBoolLiteral(*n.Bool), nil
	case n.Null:
		return ast.NewNullLiteral(), nil
	case n.Fn != "":
		return n.toCall()
	case n.Op != "":
		if n.Left == nil || n.Right == nil {
			return nil, fmt.Errorf("operator %s needs left and right", n.Op)
		}
		l, err := n.Left.toExpr()
		if err != nil {
			return nil, err
		}
		r, err := n.Right.toExpr()
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryExpr(l, strings.ToUpper(n.Op), r), nil
	}
	return nil, errEmptyExpression
}

func (n *exprNode) toCall() (ast.Expr, error) {
	args, err := toExprs(n.Args)
	if err != nil {
		return nil, err
	}
	call := ast.NewFunctionCall(strings.ToUpper(n.Fn), args...)
	call.Distinct = n.Distinct
	if n.Over == nil {
		return call, nil
	}

	partition, err := toExprs(n.Over.PartitionBy)
	if err != nil {
		return nil, err
	}
	orderBy := make([]*ast.OrderByElement, 0, len(n.Over.OrderBy))
	for i := range n.Over.OrderBy {
		o, err := n.Over.OrderBy[i].toOrderBy()
		if err != nil {
			return nil, err
		}
		orderBy = append(orderBy, o)
	}
	var window *ast.AnalyticWindow
	if n.Over.Frame != nil {
		if window, err = n.Over.Frame.toWindow(); err != nil {
			return nil, err
		}
	}
	return ast.NewAnalyticExpr(call, partition, orderBy, window), nil
}

func toExprs(nodes []exprNode) ([]ast.Expr, error) {
	out := make([]ast.Expr, 0, len(nodes))
	for i := range nodes {
		e, err := nodes[i].toExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (o *orderByNode) toOrderBy() (*ast.OrderByElement, error) {
	e, err := o.exprNode.toExpr()
	if err != nil {
		return nil, err
	}
	elem := ast.NewOrderByElement(e, o.Desc)
	switch strings.ToLower(o.Nulls) {
	case "":
	case "first":
		elem.Nulls = ast.NullsFirst
	case "last":
		elem.Nulls = ast.NullsLast
	default:
		return nil, fmt.Errorf("unknown nulls order %q", o.Nulls)
	}
	return elem, nil
}

var frameTypes = map[string]ast.FrameType{
	"rows":  ast.FrameRows,
	"range": ast.FrameRange,
}

var boundaryTypes = map[string]ast.BoundaryType{
	"unbounded_preceding": ast.UnboundedPreceding,
	"preceding":           ast.Preceding,
	"current_row":         ast.CurrentRow,
	"following":           ast.Following,
	"unbounded_following": ast.UnboundedFollowing,
}

func (f *frameNode) toWindow() (*ast.AnalyticWindow, error) {
	frame, ok := frameTypes[strings.ToLower(f.Type)]
	if !ok {
		return nil, fmt.Errorf("unknown frame type %q", f.Type)
	}
	if f.Start == nil {
		return nil, fmt.Errorf("frame needs a start boundary")
	}
	left, err := f.Start.toBoundary()
	if err != nil {
		return nil, err
	}
	var right *ast.Boundary
	if f.End != nil {
		if right, err = f.End.toBoundary(); err != nil {
			return nil, err
		}
	}
	return ast.NewAnalyticWindow(frame, left, right), nil
}

func (b *boundaryNode) toBoundary() (*ast.Boundary, error) {
	typ, ok := boundaryTypes[strings.ToLower(b.Bound)]
	if !ok {
		return nil, fmt.Errorf("unknown frame boundary %q", b.Bound)
	}
	if typ.HasOffset() != (b.Offset != nil) {
		return nil, fmt.Errorf("frame boundary %s: offset given %t, required %t", b.Bound, b.Offset != nil, typ.HasOffset())
	}
	var offset ast.Expr
	if b.Offset != nil {
		var err error
		if offset, err = b.Offset.toExpr(); err != nil {
			return nil, err
		}
	}
	return ast.NewBoundary(typ, offset), nil
}
