package ast

type Visitor interface {
	VisitColumn(*Column) error
	VisitLiteral(*Literal) error
	VisitFunctionCall(*FunctionCallExpr) error
	VisitBinaryExpr(*BinaryExpr) error
	VisitAnalyticExpr(*AnalyticExpr) error
}
