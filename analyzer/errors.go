package analyzer

import "errors"

var (
	ErrUnknownFunction = errors.New("unknown function")
	ErrNotAnalytic     = errors.New("function cannot be used as an analytic function")
	ErrOrderByRequired = errors.New("analytic function requires an ORDER BY clause")
	ErrFrameNotAllowed = errors.New("windowing clause not allowed")
	ErrInvalidFrame    = errors.New("invalid window frame")
	ErrInvalidArgument = errors.New("invalid analytic function argument")
	ErrNotAnalyzed     = errors.New("expression has not been analyzed")
)
