package ast

import (
	"hash/fnv"
	"strings"

	"github.com/Konsultn-Engineering/sqlexpr/utils"
)

// FrameType selects ROWS or RANGE framing.
type FrameType uint8

const (
	FrameRows FrameType = iota
	FrameRange
)

func (t FrameType) String() string {
	if t == FrameRange {
		return "RANGE"
	}
	return "ROWS"
}

// BoundaryType is the kind of one frame boundary.
type BoundaryType uint8

const (
	UnboundedPreceding BoundaryType = iota
	Preceding
	CurrentRow
	Following
	UnboundedFollowing
)

var boundaryNames = [...]string{
	UnboundedPreceding: "UNBOUNDED PRECEDING",
	Preceding:          "PRECEDING",
	CurrentRow:         "CURRENT ROW",
	Following:          "FOLLOWING",
	UnboundedFollowing: "UNBOUNDED FOLLOWING",
}

func (t BoundaryType) String() string {
	if int(t) >= len(boundaryNames) {
		return "UNKNOWN"
	}
	return boundaryNames[t]
}

// HasOffset reports whether the boundary kind takes an "N" offset.
func (t BoundaryType) HasOffset() bool {
	return t == Preceding || t == Following
}

// Boundary is one end of a window frame. Offset is set only for
// Preceding and Following.
type Boundary struct {
	Type   BoundaryType
	Offset Expr
}

func NewBoundary(t BoundaryType, offset Expr) *Boundary {
	return &Boundary{Type: t, Offset: offset}
}

func UnboundedPrecedingBoundary() *Boundary { return NewBoundary(UnboundedPreceding, nil) }
func CurrentRowBoundary() *Boundary         { return NewBoundary(CurrentRow, nil) }
func UnboundedFollowingBoundary() *Boundary { return NewBoundary(UnboundedFollowing, nil) }
func PrecedingBoundary(offset Expr) *Boundary {
	return NewBoundary(Preceding, offset)
}
func FollowingBoundary(offset Expr) *Boundary {
	return NewBoundary(Following, offset)
}

func (b *Boundary) Clone() *Boundary {
	out := &Boundary{Type: b.Type}
	if b.Offset != nil {
		out.Offset = b.Offset.Clone()
	}
	return out
}

func (b *Boundary) Equals(other *Boundary) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.Type == other.Type && Equal(b.Offset, other.Offset)
}

func (b *Boundary) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte{'b', byte(b.Type)})
	if b.Offset != nil {
		_, _ = h.Write(utils.U64ToBytes(b.Offset.Fingerprint()))
	}
	return h.Sum64()
}

func (b *Boundary) ToSQL() string {
	if b.Offset != nil {
		return b.Offset.ToSQL() + " " + b.Type.String()
	}
	return b.Type.String()
}

func (b *Boundary) ToDigest() string {
	if b.Offset != nil {
		return b.Offset.ToDigest() + " " + strings.ToLower(b.Type.String())
	}
	return strings.ToLower(b.Type.String())
}

// AnalyticWindow is a frame clause. Right is nil for the single-bound
// form "ROWS <left>".
type AnalyticWindow struct {
	Frame FrameType
	Left  *Boundary
	Right *Boundary
}

func NewAnalyticWindow(frame FrameType, left, right *Boundary) *AnalyticWindow {
	return &AnalyticWindow{Frame: frame, Left: left, Right: right}
}

// RowsBetween returns ROWS BETWEEN left AND right.
func RowsBetween(left, right *Boundary) *AnalyticWindow {
	return NewAnalyticWindow(FrameRows, left, right)
}

// RangeBetween returns RANGE BETWEEN left AND right.
func RangeBetween(left, right *Boundary) *AnalyticWindow {
	return NewAnalyticWindow(FrameRange, left, right)
}

// DefaultWindow is the frame SQL implies for an ordered window without
// an explicit frame.
func DefaultWindow() *AnalyticWindow {
	return RangeBetween(UnboundedPrecedingBoundary(), CurrentRowBoundary())
}

func (w *AnalyticWindow) Clone() *AnalyticWindow {
	out := &AnalyticWindow{Frame: w.Frame}
	if w.Left != nil {
		out.Left = w.Left.Clone()
	}
	if w.Right != nil {
		out.Right = w.Right.Clone()
	}
	return out
}

func (w *AnalyticWindow) Equals(other *AnalyticWindow) bool {
	if w == nil || other == nil {
		return w == other
	}
	return w.Frame == other.Frame && w.Left.Equals(other.Left) && w.Right.Equals(other.Right)
}

func (w *AnalyticWindow) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("window:" + w.Frame.String()))
	if w.Left != nil {
		_, _ = h.Write(utils.U64ToBytes(w.Left.Fingerprint()))
	}
	if w.Right != nil {
		_, _ = h.Write(utils.U64ToBytes(w.Right.Fingerprint()))
	}
	return h.Sum64()
}

// leftOffset and rightOffset return the boundary offset expressions, or
// nil when the boundary is absent or carries none.
func (w *AnalyticWindow) leftOffset() Expr {
	if w == nil || w.Left == nil {
		return nil
	}
	return w.Left.Offset
}

func (w *AnalyticWindow) rightOffset() Expr {
	if w == nil || w.Right == nil {
		return nil
	}
	return w.Right.Offset
}

func (w *AnalyticWindow) ToSQL() string {
	if w.Right == nil {
		return w.Frame.String() + " " + w.Left.ToSQL()
	}
	return w.Frame.String() + " BETWEEN " + w.Left.ToSQL() + " AND " + w.Right.ToSQL()
}

func (w *AnalyticWindow) ToDigest() string {
	frame := strings.ToLower(w.Frame.String())
	if w.Right == nil {
		return frame + " " + w.Left.ToDigest()
	}
	return frame + " between " + w.Left.ToDigest() + " and " + w.Right.ToDigest()
}
