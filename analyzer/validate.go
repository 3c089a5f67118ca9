package analyzer

import (
	"fmt"
	"math"

	"github.com/Konsultn-Engineering/sqlexpr/ast"
)

// validate checks an analytic expression whose function call is bound.
func validate(e *ast.AnalyticExpr) error {
	call := e.FnCall()
	fn := call.Fn()
	if !ast.IsAnalyticFunction(fn) {
		return fmt.Errorf("%w: %s", ErrNotAnalytic, call.Name)
	}

	kind := ast.AnalyticKindOf(fn)
	args := call.Args()
	_, frozen := e.CanonicalSQL()

	if (kind.IsRanking() || kind.IsOffset()) && len(e.OrderByElements()) == 0 {
		return fmt.Errorf("%w: %s", ErrOrderByRequired, call.ToSQL())
	}
	// A frozen expression carries the frame standardization installed.
	if (kind.IsRanking() || kind.IsOffset()) && e.Window() != nil && !frozen {
		return fmt.Errorf("%w with %s", ErrFrameNotAllowed, call.ToSQL())
	}

	switch {
	case kind.IsOffset():
		if err := validateOffsetCall(call); err != nil {
			return err
		}
	case ast.IsNtileFunction(fn):
		if len(args) != 1 {
			return fmt.Errorf("%w: %s takes exactly one argument", ErrInvalidArgument, call.Name)
		}
		if n, ok := intLiteral(args[0]); !ok || n <= 0 {
			return fmt.Errorf("%w: %s bucket count must be a positive integer constant", ErrInvalidArgument, call.Name)
		}
	case kind.IsRanking():
		if len(args) != 0 {
			return fmt.Errorf("%w: %s takes no arguments", ErrInvalidArgument, call.Name)
		}
	case len(args) == 0:
		return fmt.Errorf("%w: %s requires an argument", ErrInvalidArgument, call.Name)
	}

	if w := e.Window(); w != nil {
		return validateWindow(w, len(e.OrderByElements()))
	}
	return nil
}

// validateOffsetCall checks LEAD/LAG(expr [, offset [, default]]).
func validateOffsetCall(call *ast.FunctionCallExpr) error {
	args := call.Args()
	if len(args) < 1 || len(args) > 3 {
		return fmt.Errorf("%w: %s takes one to three arguments", ErrInvalidArgument, call.Name)
	}
	if len(args) >= 2 {
		if n, ok := intLiteral(args[1]); !ok || n < 0 {
			return fmt.Errorf("%w: %s offset must be a non-negative integer constant", ErrInvalidArgument, call.Name)
		}
	}
	if len(args) == 3 {
		if err := ast.CheckDefaultValue(call); err != nil {
			return fmt.Errorf("%s default value: %w", call.Name, err)
		}
	}
	return nil
}

func validateWindow(w *ast.AnalyticWindow, orderBy int) error {
	if w.Left == nil {
		return fmt.Errorf("%w: missing start boundary", ErrInvalidFrame)
	}
	if w.Left.Type == ast.UnboundedFollowing {
		return fmt.Errorf("%w: frame cannot start at UNBOUNDED FOLLOWING", ErrInvalidFrame)
	}
	if w.Right == nil {
		if w.Left.Type == ast.Following {
			return fmt.Errorf("%w: frame cannot start at FOLLOWING without an end", ErrInvalidFrame)
		}
	} else if w.Right.Type == ast.UnboundedPreceding {
		return fmt.Errorf("%w: frame cannot end at UNBOUNDED PRECEDING", ErrInvalidFrame)
	} else if w.Right.Type < w.Left.Type {
		return fmt.Errorf("%w: frame end %s precedes start %s", ErrInvalidFrame, w.Right.Type, w.Left.Type)
	}

	for _, b := range []*ast.Boundary{w.Left, w.Right} {
		if b == nil || !b.Type.HasOffset() {
			continue
		}
		if err := validateOffset(w.Frame, b); err != nil {
			return err
		}
		if w.Frame == ast.FrameRange && orderBy != 1 {
			return fmt.Errorf("%w: RANGE with an offset requires exactly one ORDER BY expression", ErrInvalidFrame)
		}
	}
	return nil
}

func validateOffset(frame ast.FrameType, b *ast.Boundary) error {
	lit, ok := b.Offset.(*ast.Literal)
	if !ok {
		return fmt.Errorf("%w: %s offset must be a constant", ErrInvalidFrame, b.Type)
	}
	v, ok := lit.NumericValue()
	if !ok || v < 0 {
		return fmt.Errorf("%w: %s offset must be a non-negative number", ErrInvalidFrame, b.Type)
	}
	if frame == ast.FrameRows && v != math.Trunc(v) {
		return fmt.Errorf("%w: ROWS offset must be an integer", ErrInvalidFrame)
	}
	return nil
}

func intLiteral(e ast.Expr) (int64, bool) {
	lit, ok := e.(*ast.Literal)
	if !ok {
		return 0, false
	}
	n, ok := lit.Val.(int64)
	return n, ok
}
