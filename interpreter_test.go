package feel

import (
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func evalSrc(t *testing.T, src string) Value {
	t.Helper()
	return evalCtx(t, src, Context{})
}

func evalCtx(t *testing.T, src string, ctx Context) Value {
	t.Helper()
	v, err := EvalExpression(src, ctx)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	return v
}

func evalExpectError(t *testing.T, src string, ctx Context) error {
	t.Helper()
	_, err := EvalExpression(src, ctx)
	if err == nil {
		t.Fatalf("expected error, got nil\nsource: %s", src)
	}
	return err
}

func wantNum(t *testing.T, v Value, f float64) {
	t.Helper()
	got, ok := v.AsNum()
	if !ok {
		t.Fatalf("want num %g, got %#v", f, v)
	}
	if got != f {
		t.Fatalf("want num %g, got %g", f, got)
	}
}

func wantNumNear(t *testing.T, v Value, f, eps float64) {
	t.Helper()
	got, ok := v.AsNum()
	if !ok {
		t.Fatalf("want num near %g, got %#v", f, v)
	}
	if got < f-eps || got > f+eps {
		t.Fatalf("want num near %g, got %g", f, got)
	}
}

func wantStr(t *testing.T, v Value, s string) {
	t.Helper()
	if got, ok := v.AsStr(); !ok || got != s {
		t.Fatalf("want str %q, got %#v", s, v)
	}
}

func wantBool(t *testing.T, v Value, b bool) {
	t.Helper()
	if got, ok := v.AsBool(); !ok || got != b {
		t.Fatalf("want bool %v, got %#v", b, v)
	}
}

func wantNull(t *testing.T, v Value) {
	t.Helper()
	if !v.IsNull() {
		t.Fatalf("want null, got %#v", v)
	}
}

func wantList(t *testing.T, v Value, items ...Value) {
	t.Helper()
	if !Equal(v, List(items)) {
		t.Fatalf("want %s, got %s", FormatValue(List(items)), FormatValue(v))
	}
}

func wantErrContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", substr)
	}
	if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(substr)) {
		t.Fatalf("want error containing %q, got: %v", substr, err)
	}
}

// --- tests -----------------------------------------------------------------

func Test_Interp_Literals(t *testing.T) {
	wantNum(t, evalSrc(t, "42"), 42)
	wantNum(t, evalSrc(t, ".5"), 0.5)
	wantNum(t, evalSrc(t, "1.2e3"), 1200)
	wantStr(t, evalSrc(t, `"hi"`), "hi")
	wantBool(t, evalSrc(t, "true"), true)
	wantBool(t, evalSrc(t, "false"), false)
	wantNull(t, evalSrc(t, "null"))
}

func Test_Interp_Arithmetic_Precedence(t *testing.T) {
	wantNum(t, evalSrc(t, "1 + 2 * 3"), 7)
	wantNum(t, evalSrc(t, "(1 + 2) * 3"), 9)
	wantNum(t, evalSrc(t, "10 - 2 - 3"), 5)
	wantNum(t, evalSrc(t, "5 / 2"), 2.5)
	wantNum(t, evalSrc(t, "2 ** 3 ** 2"), 512) // right-associative
	wantNum(t, evalSrc(t, "-2 ** 2"), 4)
	wantNum(t, evalSrc(t, "1 - -2"), 3)
}

func Test_Interp_Division_By_Zero_Is_Null(t *testing.T) {
	wantNull(t, evalSrc(t, "5 / 0"))
	wantNull(t, evalSrc(t, "0 / 0"))
}

func Test_Interp_Null_Propagation(t *testing.T) {
	wantNull(t, evalSrc(t, "null + 1"))
	wantNull(t, evalSrc(t, "1 * null"))
	wantNull(t, evalSrc(t, "null - null"))
	wantNull(t, evalSrc(t, "-null"))
}

func Test_Interp_Numeric_Coercion(t *testing.T) {
	wantNum(t, evalSrc(t, `"2" * 3`), 6)
	wantNum(t, evalSrc(t, "true + 1"), 2)
	wantNull(t, evalSrc(t, `"abc" * 3`))
}

func Test_Interp_String_Concat_Beats_Null(t *testing.T) {
	wantStr(t, evalSrc(t, `"a" + "b"`), "ab")
	wantStr(t, evalSrc(t, `"total: " + 42`), "total: 42")
	wantStr(t, evalSrc(t, `"a" + null`), "anull")
}

func Test_Interp_Comparisons(t *testing.T) {
	wantBool(t, evalSrc(t, "3 < 4"), true)
	wantBool(t, evalSrc(t, "3 >= 3"), true)
	wantBool(t, evalSrc(t, `"a" < "b"`), true)
	wantBool(t, evalSrc(t, `"2" < 10`), true) // numeric reading wins for mixed operands
	wantNull(t, evalSrc(t, `"x" < 10`))
	wantNull(t, evalSrc(t, "null < 1"))
}

func Test_Interp_Equality_Is_Type_Strict(t *testing.T) {
	wantBool(t, evalSrc(t, "1 = 1"), true)
	wantBool(t, evalSrc(t, `1 = "1"`), false)
	wantBool(t, evalSrc(t, `1 != "1"`), true)
	wantBool(t, evalSrc(t, "null = null"), true)
	wantBool(t, evalSrc(t, "[1, 2] = [1, 2]"), true)
	wantBool(t, evalSrc(t, "[1, 2] = [2, 1]"), false)
	wantBool(t, evalSrc(t, "1 == 1"), true) // '==' normalized to '='
}

func Test_Interp_Ternary_And_Or(t *testing.T) {
	wantBool(t, evalSrc(t, "false and null"), false)
	wantBool(t, evalSrc(t, "null and false"), false)
	wantNull(t, evalSrc(t, "true and null"))
	wantBool(t, evalSrc(t, "true or null"), true)
	wantBool(t, evalSrc(t, "null or true"), true)
	wantNull(t, evalSrc(t, "null or false"))
	wantNull(t, evalSrc(t, "null and true"))
	wantBool(t, evalSrc(t, "true and true and true"), true)
	// loose truthiness on operands
	wantBool(t, evalSrc(t, `1 and "yes"`), true)
	wantBool(t, evalSrc(t, `0 or ""`), false)
}

func Test_Interp_If_Semantics(t *testing.T) {
	wantNum(t, evalSrc(t, "if true then 1 else 2"), 1)
	wantNum(t, evalSrc(t, "if false then 1 else 2"), 2)
	// a null condition picks the else branch
	wantNum(t, evalSrc(t, "if null then 1 else 2"), 2)
	// a non-boolean condition is undefined
	wantNull(t, evalSrc(t, `if "x" then 1 else 2`))
	wantNum(t, evalSrc(t, "if 1 < 2 then if true then 3 else 4 else 5"), 3)
}

func Test_Interp_Variable_Name_Fallbacks(t *testing.T) {
	ctx := Context{
		"full_name": Str("John"),
		"Age":       Num(30),
		"topspeed":  Num(200),
	}
	wantStr(t, evalCtx(t, "full_name", ctx), "John")
	wantStr(t, evalCtx(t, "Full Name", ctx), "John")
	wantNum(t, evalCtx(t, "age", ctx), 30)
	wantNum(t, evalCtx(t, "top speed", ctx), 200)
}

func Test_Interp_Undefined_Variable_Is_Error(t *testing.T) {
	err := evalExpectError(t, "no_such_thing", Context{})
	wantErrContains(t, err, "undefined variable")
}

func Test_Interp_Property_Access(t *testing.T) {
	ctx := Context{
		"applicant": Obj(map[string]Value{
			"first_name": Str("Ann"),
			"address":    Obj(map[string]Value{"city": Str("Berlin")}),
		}),
	}
	wantStr(t, evalCtx(t, "applicant.first_name", ctx), "Ann")
	wantStr(t, evalCtx(t, "applicant.firstName", ctx), "Ann") // camelCase falls back to snake_case
	wantStr(t, evalCtx(t, "applicant.address.city", ctx), "Berlin")
}

func Test_Interp_Property_On_Null_Is_Null(t *testing.T) {
	wantNull(t, evalSrc(t, "(null).whatever"))
}

func Test_Interp_Property_On_Scalar_Is_Error(t *testing.T) {
	err := evalExpectError(t, "(42).x", Context{})
	wantErrContains(t, err, "cannot access property")
}

func Test_Interp_Missing_Property_Is_Error(t *testing.T) {
	ctx := Context{"o": Obj(map[string]Value{"a": Num(1)})}
	err := evalExpectError(t, "o.b", ctx)
	wantErrContains(t, err, "not found")
}

func Test_Interp_List_Literals(t *testing.T) {
	wantList(t, evalSrc(t, "[1, 2, 3]"), Num(1), Num(2), Num(3))
	wantList(t, evalSrc(t, "[1 + 1, \"x\"]"), Num(2), Str("x"))
	wantList(t, evalSrc(t, "[]"))
}

func Test_Interp_Call_Positional(t *testing.T) {
	wantNum(t, evalSrc(t, "abs(-1)"), 1)
	wantStr(t, evalSrc(t, `substring("hello", 2)`), "ello")
	wantNum(t, evalSrc(t, `modulo(12, 5)`), 2)
}

func Test_Interp_Call_Named(t *testing.T) {
	wantNum(t, evalSrc(t, "abs(n: -1)"), 1)
	wantNum(t, evalSrc(t, "abs(n: 1 + 2)"), 3)
	// named parameters bind in any order
	wantNum(t, evalSrc(t, "decimal(scale: 2, n: 3.14159)"), 3.14)
	wantStr(t, evalSrc(t, `substring(string: "hello", start position: 2, length: 2)`), "el")
}

func Test_Interp_Call_Wrong_Parameter_Name_Is_Null(t *testing.T) {
	wantNull(t, evalSrc(t, "abs(number: -1)"))
}

func Test_Interp_Call_Arity_Errors_Are_Null(t *testing.T) {
	wantNull(t, evalSrc(t, "abs(1, 2)"))
	wantNull(t, evalSrc(t, "modulo(5)"))
}

func Test_Interp_Call_Mixed_Styles_Is_Parse_Error(t *testing.T) {
	_, err := ParseExpression(`substring("a", start position: 1)`)
	wantErrContains(t, err, "cannot mix")
}

func Test_Interp_Unknown_Function_Is_Error(t *testing.T) {
	err := evalExpectError(t, "frobnicate(1)", Context{})
	wantErrContains(t, err, "unknown function")
}

func Test_Interp_External_Function_Hook(t *testing.T) {
	ip := NewInterp(nil)
	ip.SetExternal(func(name string, args []Value, _ Context) (Value, bool, error) {
		if name != "twice" {
			return Null, false, nil
		}
		f, _ := ToNumber(args[0])
		return Num(f * 2), true, nil
	})
	node, err := ParseExpression("twice(21)")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v, err := ip.Eval(node, Context{})
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	wantNum(t, v, 42)
}

func Test_Interp_Idempotent_Evaluation(t *testing.T) {
	node, err := ParseExpression("1 + 2 * x")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ip := NewInterp(nil)
	ctx := Context{"x": Num(10)}
	for i := 0; i < 3; i++ {
		v, err := ip.Eval(node, ctx)
		if err != nil {
			t.Fatalf("eval #%d: %v", i, err)
		}
		wantNum(t, v, 21)
	}
}
