// builtin_core.go
//
// Boolean and numeric builtins. Every builtin takes its arguments already
// bound into formal-parameter order (see binder.go) and follows one rule
// uniformly: invalid input yields Null, never an error.
package feel

import (
	"math"
	"strconv"
	"strings"
)

func registerCoreBuiltins(m map[string]builtinFn) {
	m["not"] = fnNot
	m["all"] = fnAll
	m["any"] = fnAny

	m["abs"] = numeric1(math.Abs)
	m["floor"] = numeric1(math.Floor)
	m["ceiling"] = numeric1(math.Ceil)
	m["exp"] = numeric1(math.Exp)
	m["sqrt"] = func(args []Value) Value {
		f, ok := numArg(args, 0)
		if !ok || f < 0 {
			return Null
		}
		return Num(math.Sqrt(f))
	}
	m["log"] = func(args []Value) Value {
		f, ok := numArg(args, 0)
		if !ok || f <= 0 {
			return Null
		}
		return Num(math.Log(f))
	}
	m["odd"] = parity(1)
	m["even"] = parity(0)
	m["modulo"] = fnModulo

	m["decimal"] = roundFn(roundHalfEven)
	m["round"] = roundFn(roundHalfEven)
	m["round up"] = roundFn(roundAwayFromZero)
	m["round down"] = roundFn(roundTowardZero)
	m["round half up"] = roundFn(roundHalfUp)
	m["round half down"] = roundFn(roundHalfDown)

	m["number"] = fnNumber
	m["string"] = fnString
	m["is"] = fnIs
}

func numArg(args []Value, i int) (float64, bool) {
	if i >= len(args) || args[i].IsNull() {
		return 0, false
	}
	return ToNumber(args[i])
}

func strArg(args []Value, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	return args[i].AsStr()
}

func listArg(args []Value, i int) ([]Value, bool) {
	if i >= len(args) {
		return nil, false
	}
	return args[i].AsList()
}

func numeric1(fn func(float64) float64) builtinFn {
	return func(args []Value) Value {
		f, ok := numArg(args, 0)
		if !ok {
			return Null
		}
		return Num(fn(f))
	}
}

func parity(rem int64) builtinFn {
	return func(args []Value) Value {
		f, ok := numArg(args, 0)
		if !ok || f != math.Trunc(f) {
			return Null
		}
		r := int64(math.Abs(f)) % 2
		return Bool(r == rem)
	}
}

func fnNot(args []Value) Value {
	if len(args) < 1 {
		return Null
	}
	switch v := args[0]; v.Tag {
	case VTBool:
		return Bool(!v.Data.(bool))
	case VTStr:
		switch v.Data.(string) {
		case "true":
			return False
		case "false":
			return True
		}
	}
	return Null
}

// fnAll folds a list of booleans: any false wins, otherwise a null member
// makes the result null, otherwise true. The empty list is vacuously true.
func fnAll(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok {
		return Null
	}
	sawNull := false
	for _, item := range items {
		b, ok := boolish(item)
		if !ok {
			if item.IsNull() {
				sawNull = true
				continue
			}
			return Null
		}
		if !b {
			return False
		}
	}
	if sawNull {
		return Null
	}
	return True
}

func fnAny(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok {
		return Null
	}
	sawNull := false
	for _, item := range items {
		b, ok := boolish(item)
		if !ok {
			if item.IsNull() {
				sawNull = true
				continue
			}
			return Null
		}
		if b {
			return True
		}
	}
	if sawNull {
		return Null
	}
	return False
}

func boolish(v Value) (bool, bool) {
	if b, ok := v.AsBool(); ok {
		return b, true
	}
	if s, ok := v.AsStr(); ok {
		switch s {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// fnModulo follows the FEEL definition a - b*floor(a/b), so the result
// takes the sign of the divisor.
func fnModulo(args []Value) Value {
	a, ok := numArg(args, 0)
	if !ok {
		return Null
	}
	b, ok := numArg(args, 1)
	if !ok || b == 0 {
		return Null
	}
	return Num(a - b*math.Floor(a/b))
}

func roundFn(mode func(scaled float64) float64) builtinFn {
	return func(args []Value) Value {
		v, ok := numArg(args, 0)
		if !ok {
			return Null
		}
		s, ok := numArg(args, 1)
		if !ok || s != math.Trunc(s) {
			return Null
		}
		mult := math.Pow(10, s)
		return Num(mode(v*mult) / mult)
	}
}

// roundHalfEven is banker's rounding: .5 ties go to the even neighbor.
func roundHalfEven(x float64) float64 {
	f := math.Floor(x)
	switch diff := x - f; {
	case diff > 0.5:
		return f + 1
	case diff == 0.5:
		if math.Mod(f, 2) != 0 {
			return f + 1
		}
	}
	return f
}

func roundAwayFromZero(x float64) float64 {
	if x >= 0 {
		return math.Ceil(x)
	}
	return math.Floor(x)
}

func roundTowardZero(x float64) float64 {
	return math.Trunc(x)
}

func roundHalfUp(x float64) float64 {
	if x >= 0 {
		return math.Floor(x + 0.5)
	}
	return math.Ceil(x - 0.5)
}

func roundHalfDown(x float64) float64 {
	if x >= 0 {
		return math.Ceil(x - 0.5)
	}
	return math.Floor(x + 0.5)
}

// fnNumber parses a string with explicit grouping and decimal separators:
// number("1 000,5", " ", ",") is 1000.5. A numeric argument passes through.
func fnNumber(args []Value) Value {
	if len(args) < 1 {
		return Null
	}
	if f, ok := args[0].AsNum(); ok {
		return Num(f)
	}
	s, ok := args[0].AsStr()
	if !ok {
		return Null
	}
	if g, ok := strArg(args, 1); ok && g != "" {
		s = strings.ReplaceAll(s, g, "")
	}
	if d, ok := strArg(args, 2); ok && d != "" {
		s = strings.ReplaceAll(s, d, ".")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Null
	}
	return Num(f)
}

func fnString(args []Value) Value {
	if len(args) < 1 || args[0].IsNull() {
		return Null
	}
	return Str(FormatValue(args[0]))
}

func fnIs(args []Value) Value {
	if len(args) < 2 {
		return Null
	}
	return Bool(Equal(args[0], args[1]))
}
