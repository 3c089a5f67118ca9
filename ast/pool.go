package ast

import (
	"strings"
	"sync"
)

var builderPool = sync.Pool{
	New: func() any {
		return new(strings.Builder)
	},
}

func getBuilder() *strings.Builder {
	sb := builderPool.Get().(*strings.Builder)
	sb.Reset()
	return sb
}

func putBuilder(sb *strings.Builder) {
	if sb.Cap() > 4096 {
		return
	}
	builderPool.Put(sb)
}

func exprListToSQL(exprs []Expr) string {
	switch len(exprs) {
	case 0:
		return ""
	case 1:
		return exprs[0].ToSQL()
	}
	sb := getBuilder()
	defer putBuilder(sb)
	for i, e := range exprs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.ToSQL())
	}
	return sb.String()
}

func exprListToDigest(exprs []Expr) string {
	switch len(exprs) {
	case 0:
		return ""
	case 1:
		return exprs[0].ToDigest()
	}
	sb := getBuilder()
	defer putBuilder(sb)
	for i, e := range exprs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.ToDigest())
	}
	return sb.String()
}
