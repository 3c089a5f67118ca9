package catalog

import "strings"

// AnalyticKind identifies a builtin that may appear in front of an OVER
// clause. Capabilities are fixed per kind so callers never compare names.
type AnalyticKind uint8

const (
	KindNone AnalyticKind = iota
	KindLead
	KindLag
	KindFirstValue
	KindLastValue
	KindRank
	KindDenseRank
	KindRowNumber
	KindNtile
	KindMin
	KindMax
	KindSum
	KindCount
	KindAvg
	KindHLLUnionAgg
)

type kindInfo struct {
	name      string
	windowed  bool
	offset    bool
	ranking   bool
	ntile     bool
	rowNumber bool
}

var kindTable = [...]kindInfo{
	KindNone:       {name: ""},
	KindLead:       {name: "LEAD", windowed: true, offset: true},
	KindLag:        {name: "LAG", windowed: true, offset: true},
	KindFirstValue: {name: "FIRST_VALUE", windowed: true},
	KindLastValue:  {name: "LAST_VALUE", windowed: true},
	KindRank:       {name: "RANK", windowed: true, ranking: true},
	KindDenseRank:  {name: "DENSE_RANK", windowed: true, ranking: true},
	KindRowNumber:  {name: "ROW_NUMBER", windowed: true, ranking: true, rowNumber: true},
	KindNtile:      {name: "NTILE", windowed: true, ranking: true, ntile: true},
	KindMin:        {name: "MIN", windowed: true},
	KindMax:        {name: "MAX", windowed: true},
	KindSum:        {name: "SUM", windowed: true},
	KindCount:      {name: "COUNT", windowed: true},
	KindAvg:        {name: "AVG", windowed: true},
	// HLL_UNION_AGG cannot be used with a window.
	KindHLLUnionAgg: {name: "HLL_UNION_AGG"},
}

var kindsByName = func() map[string]AnalyticKind {
	m := make(map[string]AnalyticKind, len(kindTable))
	for k, info := range kindTable {
		if info.name != "" {
			m[info.name] = AnalyticKind(k)
		}
	}
	return m
}()

// LookupKind resolves a function name case-insensitively. Unknown names
// resolve to KindNone.
func LookupKind(name string) AnalyticKind {
	return kindsByName[strings.ToUpper(name)]
}

func (k AnalyticKind) info() kindInfo {
	if int(k) >= len(kindTable) {
		return kindInfo{}
	}
	return kindTable[k]
}

func (k AnalyticKind) String() string {
	if name := k.info().name; name != "" {
		return name
	}
	return "NONE"
}

// Windowed reports whether the builtin may take an OVER clause at all.
func (k AnalyticKind) Windowed() bool    { return k.info().windowed }
func (k AnalyticKind) IsOffset() bool    { return k.info().offset }
func (k AnalyticKind) IsRanking() bool   { return k.info().ranking }
func (k AnalyticKind) IsNtile() bool     { return k.info().ntile }
func (k AnalyticKind) IsRowNumber() bool { return k.info().rowNumber }
