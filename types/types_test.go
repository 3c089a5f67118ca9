package types

import (
	"math"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxValue(t *testing.T) {
	tests := []struct {
		typ PrimitiveType
		max float64
		has bool
	}{
		{TinyInt, 127, true},
		{SmallInt, 32767, true},
		{Int, 2147483647, true},
		{BigInt, math.MaxInt64, true},
		{Float, math.MaxFloat32, true},
		{Double, math.MaxFloat64, true},
		{LargeInt, 0, false},
		{Decimal, 0, false},
		{Varchar, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			max, ok := tt.typ.MaxValue()
			assert.Equal(t, tt.has, ok)
			assert.Equal(t, tt.max, max)
		})
	}
}

func TestIsNumeric(t *testing.T) {
	for _, typ := range []PrimitiveType{TinyInt, SmallInt, Int, BigInt, LargeInt, Float, Double, Decimal} {
		assert.True(t, typ.IsNumeric(), typ.String())
	}
	for _, typ := range []PrimitiveType{InvalidType, NullType, Boolean, Char, Varchar, Date, Datetime} {
		assert.False(t, typ.IsNumeric(), typ.String())
	}
	assert.True(t, Varchar.IsString())
	assert.False(t, Decimal.IsInteger())
}

func TestParse(t *testing.T) {
	typ, err := Parse(" tinyint ")
	require.NoError(t, err)
	assert.Equal(t, TinyInt, typ)

	typ, err = Parse("double precision")
	require.NoError(t, err)
	assert.Equal(t, Double, typ)

	_, err = Parse("geometry")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestFromOID(t *testing.T) {
	typ, err := FromOID(pgtype.Int2OID)
	require.NoError(t, err)
	assert.Equal(t, SmallInt, typ)

	typ, err = FromOID(pgtype.Float8OID)
	require.NoError(t, err)
	assert.Equal(t, Double, typ)

	_, err = FromOID(pgtype.JSONBOID)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestString(t *testing.T) {
	assert.Equal(t, "TINYINT", TinyInt.String())
	assert.Equal(t, "PrimitiveType(99)", PrimitiveType(99).String())
}
