// types.go
//
// FEEL runtime value domain (JSON-friendly).
//
// A Value is a small tagged struct rather than an interface so that the
// evaluator can switch on the tag without type assertions on every hop.
// The domain mirrors JSON: Null, Bool, Number (float64), String, List,
// Object. DMN's three-valued logic lives in the coercion helpers here and
// in the operator tables in interpreter.go.
package feel

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ValueTag discriminates the payload stored in Value.Data.
type ValueTag uint8

const (
	VTNull ValueTag = iota
	VTBool
	VTNum
	VTStr
	VTList
	VTObj
)

func (t ValueTag) String() string {
	switch t {
	case VTNull:
		return "null"
	case VTBool:
		return "boolean"
	case VTNum:
		return "number"
	case VTStr:
		return "string"
	case VTList:
		return "list"
	case VTObj:
		return "context"
	}
	return "unknown"
}

// Value is the evaluator's runtime value.
//
// Data holds, per tag: nil, bool, float64, string, []Value or
// map[string]Value. Values are treated as immutable once built; sharing a
// list or object between Values is fine as long as nobody mutates it.
type Value struct {
	Tag  ValueTag
	Data any
}

// Null is the DMN null value. Comparing against it with == works because
// the zero Value is exactly Null.
var Null = Value{}

func Bool(b bool) Value            { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value          { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value           { return Value{Tag: VTStr, Data: s} }
func List(items []Value) Value     { return Value{Tag: VTList, Data: items} }
func Obj(m map[string]Value) Value { return Value{Tag: VTObj, Data: m} }

// True/False avoid allocating fresh bools in hot paths.
var (
	True  = Bool(true)
	False = Bool(false)
)

func (v Value) IsNull() bool { return v.Tag == VTNull }

func (v Value) AsBool() (bool, bool) {
	b, ok := v.Data.(bool)
	return b, ok && v.Tag == VTBool
}

func (v Value) AsNum() (float64, bool) {
	f, ok := v.Data.(float64)
	return f, ok && v.Tag == VTNum
}

func (v Value) AsStr() (string, bool) {
	s, ok := v.Data.(string)
	return s, ok && v.Tag == VTStr
}

func (v Value) AsList() ([]Value, bool) {
	l, ok := v.Data.([]Value)
	return l, ok && v.Tag == VTList
}

func (v Value) AsObj() (map[string]Value, bool) {
	m, ok := v.Data.(map[string]Value)
	return m, ok && v.Tag == VTObj
}

// Context is a variable-binding scope handed to the evaluator. It is a plain
// map: callers copy before augmenting (see dmn BKM invocation), the
// evaluator never mutates it.
type Context map[string]Value

// Clone is a shallow copy; nested lists/objects stay shared.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// ToNumber applies FEEL's loose numeric coercion: null is 0, booleans are
// 1/0, numeric strings parse. The second return is false when the value has
// no numeric reading (lists, objects, non-numeric strings).
func ToNumber(v Value) (float64, bool) {
	switch v.Tag {
	case VTNum:
		return v.Data.(float64), true
	case VTNull:
		return 0, true
	case VTBool:
		if v.Data.(bool) {
			return 1, true
		}
		return 0, true
	case VTStr:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Data.(string)), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ToBoolean applies FEEL's loose truthiness: numbers are true when nonzero,
// strings are true unless empty, "false" or "0", null is false, everything
// else (lists, objects) is true.
func ToBoolean(v Value) bool {
	switch v.Tag {
	case VTBool:
		return v.Data.(bool)
	case VTNum:
		return v.Data.(float64) != 0
	case VTStr:
		s := v.Data.(string)
		return s != "" && s != "false" && s != "0"
	case VTNull:
		return false
	}
	return true
}

// Equal is FEEL's `=` operator: different tags compare unequal (never an
// error), same tags compare by deep structural equality.
func Equal(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNull:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTList:
		la, lb := a.Data.([]Value), b.Data.([]Value)
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !Equal(la[i], lb[i]) {
				return false
			}
		}
		return true
	case VTObj:
		ma, mb := a.Data.(map[string]Value), b.Data.(map[string]Value)
		if len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, ok := mb[k]
			if !ok || !Equal(va, vb) {
				return false
			}
		}
		return true
	}
	return false
}

// FromAny converts a decoded JSON/YAML value (map[string]any, []any,
// float64/int, string, bool, nil) into a Value. Unknown dynamic types map
// to their string form rather than erroring, since contexts arrive from
// arbitrary decoders.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null
	case bool:
		return Bool(t)
	case float64:
		return Num(t)
	case float32:
		return Num(float64(t))
	case int:
		return Num(float64(t))
	case int64:
		return Num(float64(t))
	case uint64:
		return Num(float64(t))
	case string:
		return Str(t)
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = FromAny(e)
		}
		return List(items)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[k] = FromAny(e)
		}
		return Obj(m)
	case map[any]any: // yaml.v2 legacy shape
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = FromAny(e)
		}
		return Obj(m)
	case Value:
		return t
	}
	return Str(fmt.Sprint(x))
}

// ContextFromAny builds a Context from a decoded JSON/YAML object. Non-object
// input yields an empty context.
func ContextFromAny(x any) Context {
	v := FromAny(x)
	if m, ok := v.AsObj(); ok {
		return Context(m)
	}
	return Context{}
}

// ToAny converts a Value back to the plain decoded-JSON shape for callers
// that marshal results.
func ToAny(v Value) any {
	switch v.Tag {
	case VTNull:
		return nil
	case VTBool:
		return v.Data.(bool)
	case VTNum:
		return v.Data.(float64)
	case VTStr:
		return v.Data.(string)
	case VTList:
		items := v.Data.([]Value)
		out := make([]any, len(items))
		for i, e := range items {
			out[i] = ToAny(e)
		}
		return out
	case VTObj:
		m := v.Data.(map[string]Value)
		out := make(map[string]any, len(m))
		for k, e := range m {
			out[k] = ToAny(e)
		}
		return out
	}
	return nil
}

// FormatValue renders a Value the way the REPL and string() builtin print
// it: numbers drop a trailing ".0", objects print keys sorted.
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNull:
		return "null"
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	case VTNum:
		return formatNumber(v.Data.(float64))
	case VTStr:
		return v.Data.(string)
	case VTList:
		items := v.Data.([]Value)
		parts := make([]string, len(items))
		for i, e := range items {
			parts[i] = formatNumberAware(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VTObj:
		m := v.Data.(map[string]Value)
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + formatNumberAware(m[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "unknown"
}

func formatNumberAware(v Value) string {
	if v.Tag == VTStr {
		return strconv.Quote(v.Data.(string))
	}
	return FormatValue(v)
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
