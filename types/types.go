package types

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

var ErrUnknownType = errors.New("unknown type")

// PrimitiveType is the resolved scalar type of an expression.
type PrimitiveType int

const (
	InvalidType PrimitiveType = iota
	NullType
	Boolean
	TinyInt
	SmallInt
	Int
	BigInt
	LargeInt
	Float
	Double
	Decimal
	Char
	Varchar
	Date
	Datetime
)

var typeNames = [...]string{
	InvalidType: "INVALID_TYPE",
	NullType:    "NULL_TYPE",
	Boolean:     "BOOLEAN",
	TinyInt:     "TINYINT",
	SmallInt:    "SMALLINT",
	Int:         "INT",
	BigInt:      "BIGINT",
	LargeInt:    "LARGEINT",
	Float:       "FLOAT",
	Double:      "DOUBLE",
	Decimal:     "DECIMAL",
	Char:        "CHAR",
	Varchar:     "VARCHAR",
	Date:        "DATE",
	Datetime:    "DATETIME",
}

func (t PrimitiveType) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("PrimitiveType(%d)", int(t))
	}
	return typeNames[t]
}

func (t PrimitiveType) IsInteger() bool {
	switch t {
	case TinyInt, SmallInt, Int, BigInt, LargeInt:
		return true
	}
	return false
}

func (t PrimitiveType) IsFloat() bool {
	return t == Float || t == Double
}

func (t PrimitiveType) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat() || t == Decimal
}

func (t PrimitiveType) IsString() bool {
	return t == Char || t == Varchar
}

// MaxValue reports the largest value representable by t. Only the
// fixed-width integer and floating point types have one; LARGEINT and
// DECIMAL report false.
func (t PrimitiveType) MaxValue() (float64, bool) {
	switch t {
	case TinyInt:
		return math.MaxInt8, true
	case SmallInt:
		return math.MaxInt16, true
	case Int:
		return math.MaxInt32, true
	case BigInt:
		return math.MaxInt64, true
	case Float:
		return math.MaxFloat32, true
	case Double:
		return math.MaxFloat64, true
	}
	return 0, false
}

// sqlTypeNames maps SQL spellings onto primitive types.
var sqlTypeNames = map[string]PrimitiveType{
	"BOOL":              Boolean,
	"BOOLEAN":           Boolean,
	"TINYINT":           TinyInt,
	"INT1":              TinyInt,
	"SMALLINT":          SmallInt,
	"INT2":              SmallInt,
	"INT":               Int,
	"INTEGER":           Int,
	"INT4":              Int,
	"MEDIUMINT":         Int,
	"SERIAL":            Int,
	"BIGINT":            BigInt,
	"INT8":              BigInt,
	"BIGSERIAL":         BigInt,
	"LARGEINT":          LargeInt,
	"FLOAT":             Float,
	"FLOAT4":            Float,
	"REAL":              Float,
	"DOUBLE":            Double,
	"DOUBLE PRECISION":  Double,
	"FLOAT8":            Double,
	"DECIMAL":           Decimal,
	"NUMERIC":           Decimal,
	"CHAR":              Char,
	"CHARACTER":         Char,
	"VARCHAR":           Varchar,
	"CHARACTER VARYING": Varchar,
	"TEXT":              Varchar,
	"STRING":            Varchar,
	"DATE":              Date,
	"DATETIME":          Datetime,
	"TIMESTAMP":         Datetime,
}

// Parse resolves a SQL type name, ignoring case and surrounding space.
func Parse(name string) (PrimitiveType, error) {
	t, ok := sqlTypeNames[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return InvalidType, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return t, nil
}

// FromOID maps a Postgres type OID onto a primitive type. Postgres has
// no one-byte integer, so TINYINT never comes out of here.
func FromOID(oid uint32) (PrimitiveType, error) {
	switch oid {
	case pgtype.BoolOID:
		return Boolean, nil
	case pgtype.Int2OID:
		return SmallInt, nil
	case pgtype.Int4OID:
		return Int, nil
	case pgtype.Int8OID:
		return BigInt, nil
	case pgtype.Float4OID:
		return Float, nil
	case pgtype.Float8OID:
		return Double, nil
	case pgtype.NumericOID:
		return Decimal, nil
	case pgtype.BPCharOID:
		return Char, nil
	case pgtype.VarcharOID, pgtype.TextOID:
		return Varchar, nil
	case pgtype.DateOID:
		return Date, nil
	case pgtype.TimestampOID, pgtype.TimestamptzOID:
		return Datetime, nil
	}
	return InvalidType, fmt.Errorf("%w: oid %d", ErrUnknownType, oid)
}
