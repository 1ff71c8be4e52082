package feel

import "testing"

func ctxWithObj() Context {
	return Context{
		"m": Obj(map[string]Value{"a": Num(1), "b": Str("x")}),
		"n": Obj(map[string]Value{"b": Str("y"), "c": Num(3)}),
	}
}

func Test_Builtin_Get_Value(t *testing.T) {
	ctx := ctxWithObj()
	wantNum(t, evalCtx(t, `get value(m, "a")`, ctx), 1)
	wantStr(t, evalCtx(t, `get value(m, "b")`, ctx), "x")
	// a missing key is null, not an error
	wantNull(t, evalCtx(t, `get value(m, "zzz")`, ctx))
	wantNull(t, evalCtx(t, `get value(1, "a")`, ctx))
}

func Test_Builtin_Get_Entries_Sorted(t *testing.T) {
	v := evalCtx(t, "get entries(m)", ctxWithObj())
	want := List([]Value{
		Obj(map[string]Value{"key": Str("a"), "value": Num(1)}),
		Obj(map[string]Value{"key": Str("b"), "value": Str("x")}),
	})
	if !Equal(v, want) {
		t.Fatalf("got %s, want %s", FormatValue(v), FormatValue(want))
	}
}

func Test_Builtin_Context_Inverts_Get_Entries(t *testing.T) {
	ctx := ctxWithObj()
	v := evalCtx(t, "context(get entries(m))", ctx)
	if !Equal(v, ctx["m"]) {
		t.Fatalf("round trip broken: %s", FormatValue(v))
	}
}

func Test_Builtin_Context_Duplicate_Key_Is_Null(t *testing.T) {
	ctx := Context{
		"entries": List([]Value{
			Obj(map[string]Value{"key": Str("a"), "value": Num(1)}),
			Obj(map[string]Value{"key": Str("a"), "value": Num(2)}),
		}),
	}
	wantNull(t, evalCtx(t, "context(entries)", ctx))
}

func Test_Builtin_Context_Put(t *testing.T) {
	ctx := ctxWithObj()
	v := evalCtx(t, `context put(m, "c", 9)`, ctx)
	m, ok := v.AsObj()
	if !ok {
		t.Fatalf("want object, got %#v", v)
	}
	wantNum(t, m["c"], 9)
	wantNum(t, m["a"], 1)
	// the original is untouched
	if _, ok := ctx["m"].Data.(map[string]Value)["c"]; ok {
		t.Fatal("context put mutated its input")
	}
}

func Test_Builtin_Context_Merge_Later_Wins(t *testing.T) {
	v := evalCtx(t, "context merge([m, n])", ctxWithObj())
	m, _ := v.AsObj()
	wantNum(t, m["a"], 1)
	wantStr(t, m["b"], "y")
	wantNum(t, m["c"], 3)
	wantNull(t, evalCtx(t, "context merge([m, 1])", ctxWithObj()))
}
