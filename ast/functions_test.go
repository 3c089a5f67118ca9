package ast

import (
	"errors"
	"testing"

	"github.com/Konsultn-Engineering/sqlexpr/catalog"
	"github.com/Konsultn-Engineering/sqlexpr/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDefaultValue(t *testing.T) {
	tests := []struct {
		name    string
		call    *FunctionCallExpr
		wantErr bool
	}{
		{
			name:    "tinyint default above range",
			call:    NewFunctionCall("LAG", typedCol("c", types.TinyInt), NewIntLiteral(1), NewIntLiteral(300)),
			wantErr: true,
		},
		{
			name: "int default in range",
			call: NewFunctionCall("LAG", typedCol("c", types.Int), NewIntLiteral(1), NewIntLiteral(100)),
		},
		{
			name: "tinyint default at max",
			call: NewFunctionCall("LEAD", typedCol("c", types.TinyInt), NewIntLiteral(1), NewIntLiteral(127)),
		},
		{
			name: "below range is not checked",
			call: NewFunctionCall("LAG", typedCol("c", types.TinyInt), NewIntLiteral(1), NewIntLiteral(-1000)),
		},
		{
			name:    "smallint default from numeric string",
			call:    NewFunctionCall("LEAD", typedCol("c", types.SmallInt), NewIntLiteral(1), NewStringLiteral("40000")),
			wantErr: true,
		},
		{
			name:    "float default above range",
			call:    NewFunctionCall("LEAD", typedCol("c", types.Float), NewIntLiteral(1), NewFloatLiteral(1e39)),
			wantErr: true,
		},
		{
			name:    "bigint default above range",
			call:    NewFunctionCall("LEAD", typedCol("c", types.BigInt), NewIntLiteral(1), NewFloatLiteral(1e19)),
			wantErr: true,
		},
		{
			name: "largeint has no bound",
			call: NewFunctionCall("LAG", typedCol("c", types.LargeInt), NewIntLiteral(1), NewFloatLiteral(1e30)),
		},
		{
			name: "decimal has no bound",
			call: NewFunctionCall("LAG", typedCol("c", types.Decimal), NewIntLiteral(1), NewFloatLiteral(1e30)),
		},
		{
			name: "non-literal default",
			call: NewFunctionCall("LAG", typedCol("c", types.TinyInt), NewIntLiteral(1), typedCol("d", types.Int)),
		},
		{
			name: "non-numeric column",
			call: NewFunctionCall("LAG", typedCol("c", types.Varchar), NewIntLiteral(1), NewIntLiteral(1_000_000)),
		},
		{
			name: "unanalyzed column",
			call: NewFunctionCall("LAG", col("c"), NewIntLiteral(1), NewIntLiteral(1_000_000)),
		},
		{
			name: "null default",
			call: NewFunctionCall("LAG", typedCol("c", types.TinyInt), NewIntLiteral(1), NewNullLiteral()),
		},
		{
			name: "no default",
			call: NewFunctionCall("LAG", typedCol("c", types.TinyInt), NewIntLiteral(1)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDefaultValue(tt.call)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValueOutOfRange)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCheckDefaultValue_ErrorDetail(t *testing.T) {
	call := NewFunctionCall("LAG", typedCol("c", types.TinyInt), NewIntLiteral(1), NewIntLiteral(300))

	err := CheckDefaultValue(call)

	var ae *AnalysisError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, types.TinyInt, ae.Type)
	assert.Equal(t, float64(300), ae.Value)
	assert.Equal(t, "column type=TINYINT, value 300: value is out of range", err.Error())
}

func TestFunctionClassification(t *testing.T) {
	tests := []struct {
		name      string
		fn        catalog.Function
		analytic  bool
		kind      catalog.AnalyticKind
		offset    bool
		ntile     bool
		rowNumber bool
	}{
		{name: "lead", fn: analyticFn("lead"), analytic: true, kind: catalog.KindLead, offset: true},
		{name: "lag", fn: analyticFn("LAG"), analytic: true, kind: catalog.KindLag, offset: true},
		{name: "ntile", fn: analyticFn("NTILE"), analytic: true, kind: catalog.KindNtile, ntile: true},
		{name: "row number", fn: analyticFn("ROW_NUMBER"), analytic: true, kind: catalog.KindRowNumber, rowNumber: true},
		{name: "sum", fn: analyticFn("SUM"), analytic: true, kind: catalog.KindSum},
		{name: "non-analytic aggregate", fn: catalog.NewAggregateFunction("HLL_UNION_AGG", false), kind: catalog.KindNone},
		{name: "scalar", fn: catalog.NewScalarFunction("ABS"), kind: catalog.KindNone},
		{name: "unbound", fn: nil, kind: catalog.KindNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.analytic, IsAnalyticFunction(tt.fn))
			assert.Equal(t, tt.kind, AnalyticKindOf(tt.fn))
			assert.Equal(t, tt.offset, IsOffsetFunction(tt.fn))
			assert.Equal(t, tt.ntile, IsNtileFunction(tt.fn))
			assert.Equal(t, tt.rowNumber, IsRowNumberFunction(tt.fn))
		})
	}
}

func TestFunctionCall_IsConstant(t *testing.T) {
	assert.True(t, NewFunctionCall("ABS", NewIntLiteral(-1)).IsConstant())
	assert.False(t, NewFunctionCall("ABS", col("x")).IsConstant())
	assert.False(t, NewFunctionCall("MAX", NewIntLiteral(1)).IsConstant())
	assert.False(t, NewFunctionCall("NOW").IsConstant())

	agg := NewFunctionCall("MY_AGG", NewIntLiteral(1))
	agg.BindFn(catalog.NewAggregateFunction("MY_AGG", false))
	assert.False(t, agg.IsConstant())
}
