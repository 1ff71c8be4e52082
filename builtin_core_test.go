package feel

import "testing"

func Test_Builtin_Rounding_Modes(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"round(2.5, 0)", 2}, // banker's: ties to even
		{"round(5.5, 0)", 6},
		{"round(-5.5, 0)", -6},
		{"round(1.121, 2)", 1.12},
		{"decimal(3.14159, 2)", 3.14},
		{"round up(5.5, 0)", 6},
		{"round up(-5.5, 0)", -6},
		{"round down(5.5, 0)", 5},
		{"round down(-5.5, 0)", -5},
		{"round half up(2.5, 0)", 3},
		{"round half up(-5.5, 0)", -6},
		{"round half down(2.5, 0)", 2},
		{"round half down(-5.5, 0)", -5},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			wantNum(t, evalSrc(t, c.src), c.want)
		})
	}
}

func Test_Builtin_Rounding_Invalid_Scale(t *testing.T) {
	wantNull(t, evalSrc(t, "round(2.5, 0.5)"))
	wantNull(t, evalSrc(t, `round("x", 0)`))
}

func Test_Builtin_Numeric(t *testing.T) {
	wantNum(t, evalSrc(t, "abs(-4)"), 4)
	wantNum(t, evalSrc(t, "floor(1.7)"), 1)
	wantNum(t, evalSrc(t, "ceiling(1.2)"), 2)
	wantNum(t, evalSrc(t, "sqrt(16)"), 4)
	wantNull(t, evalSrc(t, "sqrt(-1)"))
	wantNum(t, evalSrc(t, "log(1)"), 0)
	wantNull(t, evalSrc(t, "log(0)"))
	wantNull(t, evalSrc(t, "log(-1)"))
	wantNumNear(t, evalSrc(t, "exp(1)"), 2.718281828, 1e-6)
}

func Test_Builtin_Modulo_Takes_Divisor_Sign(t *testing.T) {
	wantNum(t, evalSrc(t, "modulo(12, 5)"), 2)
	wantNum(t, evalSrc(t, "modulo(-12, 5)"), 3)
	wantNum(t, evalSrc(t, "modulo(12, -5)"), -3)
	wantNull(t, evalSrc(t, "modulo(12, 0)"))
}

func Test_Builtin_Parity(t *testing.T) {
	wantBool(t, evalSrc(t, "odd(3)"), true)
	wantBool(t, evalSrc(t, "odd(4)"), false)
	wantBool(t, evalSrc(t, "even(-2)"), true)
	wantNull(t, evalSrc(t, "odd(3.5)"))
}

func Test_Builtin_Not(t *testing.T) {
	wantBool(t, evalSrc(t, "not(true)"), false)
	wantBool(t, evalSrc(t, "not(false)"), true)
	wantBool(t, evalSrc(t, `not("true")`), false)
	wantNull(t, evalSrc(t, "not(1)"))
	wantNull(t, evalSrc(t, "not(null)"))
}

func Test_Builtin_All_Any(t *testing.T) {
	wantBool(t, evalSrc(t, "all([true, true])"), true)
	wantBool(t, evalSrc(t, "all([true, false])"), false)
	wantNull(t, evalSrc(t, "all([true, null])"))
	wantBool(t, evalSrc(t, "all([null, false])"), false)
	wantBool(t, evalSrc(t, "all([])"), true)
	wantBool(t, evalSrc(t, "any([false, true])"), true)
	wantBool(t, evalSrc(t, "any([false, false])"), false)
	wantNull(t, evalSrc(t, "any([false, null])"))
	wantBool(t, evalSrc(t, "any([])"), false)
	// string readings of booleans are accepted
	wantBool(t, evalSrc(t, `all(["true", true])`), true)
	wantNull(t, evalSrc(t, "all([1, true])"))
}

func Test_Builtin_Number_Conversion(t *testing.T) {
	wantNum(t, evalSrc(t, `number("1 000,5", " ", ",")`), 1000.5)
	wantNum(t, evalSrc(t, `number("1.000,5", ".", ",")`), 1000.5)
	wantNull(t, evalSrc(t, `number("abc", " ", ",")`))
}

func Test_Builtin_String_Conversion(t *testing.T) {
	wantStr(t, evalSrc(t, "string(1)"), "1")
	wantStr(t, evalSrc(t, "string(2.5)"), "2.5")
	wantStr(t, evalSrc(t, "string(true)"), "true")
	wantStr(t, evalSrc(t, `string([1, "a"])`), `[1, "a"]`)
	wantNull(t, evalSrc(t, "string(null)"))
}

func Test_Builtin_Is(t *testing.T) {
	wantBool(t, evalSrc(t, "is(1, 1)"), true)
	wantBool(t, evalSrc(t, `is(1, "1")`), false)
	wantBool(t, evalSrc(t, "is(null, null)"), true)
}
