package ast

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Konsultn-Engineering/sqlexpr/types"
)

var (
	ErrValueOutOfRange = errors.New("value is out of range")
	ErrNotExecutable   = errors.New("analytic expression was not rewritten before execution")
)

// AnalysisError is a semantic validation failure reported to the user.
type AnalysisError struct {
	Type  types.PrimitiveType
	Value float64
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("column type=%s, value %s: %v", e.Type, strconv.FormatFloat(e.Value, 'g', -1, 64), e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
