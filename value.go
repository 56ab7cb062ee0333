package stockview

import (
	"cmp"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/text/cases"
)

// Kind is the runtime type of a Value.
//
// The declaration order of the non-null kinds is also their rank when two
// values of different kinds meet under the same sort key.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a comparable field value extracted from a record.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	t    time.Time
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

func Int[I ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](i I) Value {
	return Number(float64(i))
}

func String(s string) Value { return Value{kind: KindString, s: s} }

// Time returns a time value. The zero time is treated as missing.
func Time(t time.Time) Value {
	if t.IsZero() {
		return Null()
	}

	return Value{kind: KindTime, t: t}
}

func NullableNumber(n *float64) Value {
	if n == nil {
		return Null()
	}

	return Number(*n)
}

func NullableString(s *string) Value {
	if s == nil {
		return Null()
	}

	return String(*s)
}

// Any converts a dynamically typed value (for example a decoded JSON field)
// into a Value. Types with no natural ordering become Null.
func Any(v any) Value {
	switch vt := v.(type) {
	case nil:
		return Null()
	case Value:
		return vt
	case bool:
		return Bool(vt)
	case string:
		return String(vt)
	case *string:
		return NullableString(vt)
	case float64:
		return Number(vt)
	case *float64:
		return NullableNumber(vt)
	case float32:
		return Number(float64(vt))
	case int:
		return Int(vt)
	case *int:
		if vt == nil {
			return Null()
		}
		return Int(*vt)
	case int32:
		return Int(vt)
	case int64:
		return Int(vt)
	case *int64:
		if vt == nil {
			return Null()
		}
		return Int(*vt)
	case uint:
		return Int(vt)
	case uint32:
		return Int(vt)
	case uint64:
		return Int(vt)
	case json.Number:
		f, err := vt.Float64()
		if err != nil {
			return String(vt.String())
		}
		return Number(f)
	case time.Time:
		return Time(vt)
	case *time.Time:
		if vt == nil {
			return Null()
		}
		return Time(*vt)
	default:
		return Null()
	}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Interface returns the underlying Go value, nil for Null.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindTime:
		return v.t
	default:
		return nil
	}
}

func (v Value) String() string {
	if v.kind == KindNull {
		return "null"
	}

	return fmt.Sprint(v.Interface())
}

// Fold returns the case-folded form of s used for case-insensitive matching.
// A cases.Caser keeps state, so each call gets its own.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// folded returns v with its string payload case-folded.
func (v Value) folded() Value {
	if v.kind == KindString {
		v.s = Fold(v.s)
	}

	return v
}

// compareFolded compares two non-null values, already passed through folded,
// in natural ascending order. Values of different kinds order by kind rank.
func compareFolded(a, b Value) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}

	switch a.kind {
	case KindBool:
		return compareBool(a.b, b.b)
	case KindNumber:
		return cmp.Compare(a.n, b.n)
	case KindString:
		return cmp.Compare(a.s, b.s)
	case KindTime:
		return a.t.Compare(b.t)
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
