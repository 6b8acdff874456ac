package config

import (
	"fmt"
	"strconv"
)

// ValueKind identifies the type of a directive argument.
type ValueKind int

const (
	KindBool ValueKind = iota
	KindString
	KindInt
)

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	default:
		return "unknown"
	}
}

// Value is a typed directive argument, or the resolved value of a
// directive within a site scope. Values are immutable once parsed.
type Value struct {
	Kind ValueKind
	Bool bool
	Str  string
	Int  int64
}

func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

func StringValue(s string) Value {
	return Value{Kind: KindString, Str: s}
}

func IntValue(i int64) Value {
	return Value{Kind: KindInt, Int: i}
}

// String renders the value in its configuration literal form.
func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "#true"
		}
		return "#false"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	default:
		return fmt.Sprintf("%q", v.Str)
	}
}
