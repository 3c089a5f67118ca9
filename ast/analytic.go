package ast

import (
	"fmt"
	"hash/fnv"

	"github.com/Konsultn-Engineering/sqlexpr/utils"
)

// AnalyticExpr is fn(args) OVER (PARTITION BY ... ORDER BY ... frame).
//
// Generic tree operations see a single flattened child list:
//
//	fn args | partition exprs | order-by exprs | frame offsets
//
// The function call itself is never a child: in COUNT(x) OVER (...) the
// COUNT is not a plain aggregate and must not be substituted as one, but
// its arguments may reference aggregate output (COUNT(COUNT(x)) OVER ...)
// and must be.
type AnalyticExpr struct {
	exprBase

	fnCall          *FunctionCallExpr
	partitionExprs  []Expr
	orderByElements []*OrderByElement
	window          *AnalyticWindow

	// resetWindow drops window on the next ResetAnalysisState. Set when
	// standardization installs a frame that is not legal user SQL.
	resetWindow bool

	canonical frozenSQL
}

// frozenSQL is the surface syntax captured before standardization. Once
// frozen it never changes and ToSQL returns it verbatim.
type frozenSQL struct {
	text   string
	frozen bool
}

type slotKind uint8

const (
	slotFunctionArg slotKind = iota
	slotPartition
	slotOrderBy
	slotWindowLeft
	slotWindowRight
)

// childSlot says where a flattened child lives in the logical structure.
type childSlot struct {
	kind  slotKind
	index int
}

// NewAnalyticExpr builds an analytic expression. fnCall must not be nil;
// partitionExprs, orderBy and window may be.
func NewAnalyticExpr(fnCall *FunctionCallExpr, partitionExprs []Expr, orderBy []*OrderByElement, window *AnalyticWindow) *AnalyticExpr {
	if fnCall == nil {
		panic("ast: analytic expression requires a function call")
	}
	a := &AnalyticExpr{
		fnCall:          fnCall,
		partitionExprs:  append(make([]Expr, 0, len(partitionExprs)), partitionExprs...),
		orderByElements: append(make([]*OrderByElement, 0, len(orderBy)), orderBy...),
		window:          window,
	}
	a.setChildren()
	return a
}

func (a *AnalyticExpr) Type() NodeType { return NodeAnalyticExpr }

func (a *AnalyticExpr) Accept(v Visitor) error { return v.VisitAnalyticExpr(a) }

// Fingerprint hashes the function call, partition list, order-by list and
// window.
func (a *AnalyticExpr) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("analytic:"))
	_, _ = h.Write(utils.U64ToBytes(a.fnCall.Fingerprint()))
	_, _ = h.Write([]byte("partition:"))
	for _, e := range a.partitionExprs {
		_, _ = h.Write(utils.U64ToBytes(e.Fingerprint()))
	}
	_, _ = h.Write([]byte("order:"))
	for _, o := range a.orderByElements {
		_, _ = h.Write(utils.U64ToBytes(o.Fingerprint()))
	}
	if a.window != nil {
		_, _ = h.Write(utils.U64ToBytes(a.window.Fingerprint()))
	}
	return h.Sum64()
}

func (a *AnalyticExpr) FnCall() *FunctionCallExpr { return a.fnCall }

// PartitionExprs returns the live partition list. Replace entries through
// SetChild or SetPartitionExprs so the child list follows.
func (a *AnalyticExpr) PartitionExprs() []Expr { return a.partitionExprs }

func (a *AnalyticExpr) OrderByElements() []*OrderByElement { return a.orderByElements }

// Window returns the frame, or nil when none was given.
func (a *AnalyticExpr) Window() *AnalyticWindow { return a.window }

func (a *AnalyticExpr) SetPartitionExprs(exprs []Expr) {
	a.partitionExprs = append(make([]Expr, 0, len(exprs)), exprs...)
	a.setChildren()
}

func (a *AnalyticExpr) SetOrderByElements(elems []*OrderByElement) {
	a.orderByElements = append(make([]*OrderByElement, 0, len(elems)), elems...)
	a.setChildren()
}

func (a *AnalyticExpr) SetWindow(w *AnalyticWindow) {
	a.window = w
	a.setChildren()
}

// SetResetWindow marks the current window to be dropped by the next
// ResetAnalysisState.
func (a *AnalyticExpr) SetResetWindow(reset bool) { a.resetWindow = reset }

func (a *AnalyticExpr) ResetWindowPending() bool { return a.resetWindow }

// FreezeSQL records sql as the canonical rendering. It succeeds once;
// later calls return false and change nothing.
func (a *AnalyticExpr) FreezeSQL(sql string) bool {
	if a.canonical.frozen {
		return false
	}
	a.canonical = frozenSQL{text: sql, frozen: true}
	return true
}

// CanonicalSQL returns the frozen rendering, if any.
func (a *AnalyticExpr) CanonicalSQL() (string, bool) {
	return a.canonical.text, a.canonical.frozen
}

// childSlots derives the slot layout from the current logical groups.
func (a *AnalyticExpr) childSlots() []childSlot {
	args := a.fnCall.Args()
	slots := make([]childSlot, 0, len(args)+len(a.partitionExprs)+len(a.orderByElements)+2)
	for i := range args {
		slots = append(slots, childSlot{kind: slotFunctionArg, index: i})
	}
	for i := range a.partitionExprs {
		slots = append(slots, childSlot{kind: slotPartition, index: i})
	}
	for i := range a.orderByElements {
		slots = append(slots, childSlot{kind: slotOrderBy, index: i})
	}
	if a.window.leftOffset() != nil {
		slots = append(slots, childSlot{kind: slotWindowLeft})
	}
	if a.window.rightOffset() != nil {
		slots = append(slots, childSlot{kind: slotWindowRight})
	}
	return slots
}

func (a *AnalyticExpr) slotExpr(s childSlot) Expr {
	switch s.kind {
	case slotFunctionArg:
		return a.fnCall.Args()[s.index]
	case slotPartition:
		return a.partitionExprs[s.index]
	case slotOrderBy:
		return a.orderByElements[s.index].Expr
	case slotWindowLeft:
		return a.window.leftOffset()
	case slotWindowRight:
		return a.window.rightOffset()
	}
	panic(fmt.Sprintf("ast: unknown child slot %d", s.kind))
}

// assign writes e into the structure owning slot s. Frame offsets are
// read-only aliases and are never written back.
func (a *AnalyticExpr) assign(s childSlot, e Expr) {
	switch s.kind {
	case slotFunctionArg:
		a.fnCall.SetChild(s.index, e)
	case slotPartition:
		a.partitionExprs[s.index] = e
	case slotOrderBy:
		a.orderByElements[s.index].Expr = e
	}
}

// setChildren rebuilds the flattened child list from the logical groups.
func (a *AnalyticExpr) setChildren() {
	slots := a.childSlots()
	children := make([]Expr, len(slots))
	for i, s := range slots {
		children[i] = a.slotExpr(s)
	}
	a.children = children
}

// syncWithChildren writes the flattened child list back into the logical
// groups. Group sizes must not have changed since the list was built.
func (a *AnalyticExpr) syncWithChildren() {
	slots := a.childSlots()
	if len(slots) != len(a.children) {
		panic(fmt.Sprintf("ast: analytic expression has %d children, layout needs %d", len(a.children), len(slots)))
	}
	for i, s := range slots {
		a.assign(s, a.children[i])
	}
}

// SetChild replaces a flattened child and writes it through to its owner.
func (a *AnalyticExpr) SetChild(i int, child Expr) {
	a.children[i] = child
	a.syncWithChildren()
}

func (a *AnalyticExpr) Clone() Expr {
	out := &AnalyticExpr{
		fnCall:          a.fnCall.cloneCall(),
		partitionExprs:  CloneList(a.partitionExprs),
		orderByElements: cloneOrderBy(a.orderByElements),
		resetWindow:     a.resetWindow,
		canonical:       a.canonical,
	}
	if a.window != nil {
		out.window = a.window.Clone()
	}
	out.copyBase(&a.exprBase)
	out.setChildren()
	return out
}

// substitute runs the generic child substitution, then re-syncs the
// logical groups if the result is still an analytic expression.
func (a *AnalyticExpr) substitute(m *SubstitutionMap) Expr {
	e := substituteChildren(a, m)
	res, ok := e.(*AnalyticExpr)
	if !ok {
		return e
	}
	res.syncWithChildren()
	return res
}

func (a *AnalyticExpr) ResetAnalysisState() {
	a.resetBase()
	a.fnCall.ResetAnalysisState()
	if a.resetWindow {
		a.window = nil
	}
	a.resetWindow = false
	a.setChildren()
}

// Equals compares the function call, window and order-by list. Partition
// expressions do not take part; Fingerprint does hash them.
func (a *AnalyticExpr) Equals(other Expr) bool {
	o, ok := other.(*AnalyticExpr)
	if !ok {
		return false
	}
	if !a.fnCall.Equals(o.fnCall) {
		return false
	}
	if (a.window == nil) != (o.window == nil) {
		return false
	}
	if a.window != nil && !a.window.Equals(o.window) {
		return false
	}
	return equalOrderBy(a.orderByElements, o.orderByElements)
}

// IsConstant is always false.
func (a *AnalyticExpr) IsConstant() bool { return false }

func (a *AnalyticExpr) ToSQL() string {
	if a.canonical.frozen {
		return a.canonical.text
	}
	return a.render(false)
}

// ToDigest ignores the frozen SQL: digests follow the current structure.
func (a *AnalyticExpr) ToDigest() string {
	return a.render(true)
}

func (a *AnalyticExpr) render(digest bool) string {
	var over, partitionBy, orderBy, fn, partition string
	if digest {
		over, partitionBy, orderBy = " over (", "partition by ", "order by "
		fn, partition = a.fnCall.ToDigest(), exprListToDigest(a.partitionExprs)
	} else {
		over, partitionBy, orderBy = " OVER (", "PARTITION BY ", "ORDER BY "
		fn, partition = a.fnCall.ToSQL(), exprListToSQL(a.partitionExprs)
	}

	sb := getBuilder()
	defer putBuilder(sb)

	sb.WriteString(fn)
	sb.WriteString(over)
	needsSpace := false
	if len(a.partitionExprs) > 0 {
		sb.WriteString(partitionBy)
		sb.WriteString(partition)
		needsSpace = true
	}
	if len(a.orderByElements) > 0 {
		if needsSpace {
			sb.WriteByte(' ')
		}
		sb.WriteString(orderBy)
		for i, o := range a.orderByElements {
			if i > 0 {
				sb.WriteString(", ")
			}
			if digest {
				sb.WriteString(o.ToDigest())
			} else {
				sb.WriteString(o.ToSQL())
			}
		}
		needsSpace = true
	}
	if a.window != nil {
		if needsSpace {
			sb.WriteByte(' ')
		}
		if digest {
			sb.WriteString(a.window.ToDigest())
		} else {
			sb.WriteString(a.window.ToSQL())
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// ToPlanNode is where an expression would be serialized for execution.
// Analytic expressions are replaced during planning, so reaching this
// means the planner missed one.
func (a *AnalyticExpr) ToPlanNode() error {
	return fmt.Errorf("%w: %s", ErrNotExecutable, a.ToSQL())
}

func (a *AnalyticExpr) DebugString() string {
	window := "<nil>"
	if a.window != nil {
		window = a.window.ToSQL()
	}
	return fmt.Sprintf("AnalyticExpr{fn=%s, window=%s, children=%d, analyzed=%t}",
		a.fnCall.ToSQL(), window, len(a.children), a.analyzed)
}
