package dataset

import (
	"sort"
	"strconv"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindNull represents a missing value.
	KindNull Kind = iota
	// KindNumber represents a numeric value.
	KindNumber
	// KindString represents a string value.
	KindString
)

// Value is a small typed cell value.
//
// The representation is designed to make filtering fast and predictable:
// no reflection and no fmt-based stringification.
type Value struct {
	Kind Kind
	F64  float64
	S    string
}

// Num returns a numeric Value.
func Num(f float64) Value {
	return Value{Kind: KindNumber, F64: f}
}

// Str returns a string Value.
func Str(s string) Value {
	return Value{Kind: KindString, S: s}
}

// Null returns a missing Value.
func Null() Value {
	return Value{Kind: KindNull}
}

// IsNull reports whether the value is missing.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// String returns the canonical string representation used for
// exact-match filtering. Numbers render without a trailing fraction
// when they are integral ("34", not "34.000000").
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.F64, 'f', -1, 64)
	case KindString:
		return v.S
	default:
		return ""
	}
}

// Role classifies how a column participates in the pipeline.
type Role uint8

const (
	// RoleNumeric columns feed the feature matrix as scaled numbers and are
	// aggregated as per-cluster means.
	RoleNumeric Role = iota
	// RoleCategorical columns feed the feature matrix one-hot encoded and
	// are aggregated as per-cluster modes.
	RoleCategorical
	// RoleSensitive columns never appear in the feature matrix or in any
	// aggregate. They remain addressable by exact-match query filters.
	RoleSensitive
)

// String returns the string representation of the Role.
func (r Role) String() string {
	switch r {
	case RoleNumeric:
		return "numeric"
	case RoleCategorical:
		return "categorical"
	case RoleSensitive:
		return "sensitive"
	default:
		return "unknown"
	}
}

// Schema maps column names to their declared roles.
type Schema map[string]Role

// NumericColumns returns the non-sensitive numeric column names, sorted.
func (s Schema) NumericColumns() []string {
	return s.columnsWithRole(RoleNumeric)
}

// CategoricalColumns returns the non-sensitive categorical column names, sorted.
func (s Schema) CategoricalColumns() []string {
	return s.columnsWithRole(RoleCategorical)
}

// SensitiveColumns returns the sensitive column names, sorted.
func (s Schema) SensitiveColumns() []string {
	return s.columnsWithRole(RoleSensitive)
}

func (s Schema) columnsWithRole(role Role) []string {
	cols := make([]string, 0, len(s))
	for name, r := range s {
		if r == role {
			cols = append(cols, name)
		}
	}
	sort.Strings(cols)
	return cols
}

// Record is one row of raw attributes, keyed by column name.
type Record map[string]Value

// Dataset is the immutable raw table: records plus the validated schema.
type Dataset struct {
	// Columns preserves the source column order, including derived columns.
	Columns []string
	Schema  Schema
	Records []Record
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}
