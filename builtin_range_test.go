package feel

import "testing"

func Test_Builtin_Range_Points(t *testing.T) {
	wantBool(t, evalSrc(t, "before(1, 10)"), true)
	wantBool(t, evalSrc(t, "before(10, 1)"), false)
	wantBool(t, evalSrc(t, "before(1, 1)"), false)
	wantBool(t, evalSrc(t, "after(10, 5)"), true)
	wantBool(t, evalSrc(t, "coincides(5, 5)"), true)
	wantBool(t, evalSrc(t, "coincides(5, 6)"), false)
}

func Test_Builtin_Range_Literals(t *testing.T) {
	wantBool(t, evalSrc(t, `before("[1..5]", "[6..10]")`), true)
	wantBool(t, evalSrc(t, `before("[1..5]", "[5..10]")`), false)
	wantBool(t, evalSrc(t, `before("[1..5)", "[5..10]")`), true)
	wantBool(t, evalSrc(t, `after("[6..10]", "[1..5]")`), true)
	wantBool(t, evalSrc(t, `meets("[1..5]", "[5..10]")`), true)
	wantBool(t, evalSrc(t, `meets("[1..5)", "[5..10]")`), false)
	wantBool(t, evalSrc(t, `met by("[5..10]", "[1..5]")`), true)
	wantBool(t, evalSrc(t, `overlaps("[1..5]", "[4..10]")`), true)
	wantBool(t, evalSrc(t, `overlaps("[1..3]", "[4..10]")`), false)
	wantBool(t, evalSrc(t, `overlaps before("[1..5]", "[4..10]")`), true)
	wantBool(t, evalSrc(t, `overlaps after("[4..10]", "[1..5]")`), true)
	wantBool(t, evalSrc(t, `coincides("[1..5]", "[1..5]")`), true)
	wantBool(t, evalSrc(t, `coincides("[1..5]", "[1..5)")`), false)
}

func Test_Builtin_Range_Containment(t *testing.T) {
	wantBool(t, evalSrc(t, `includes("[1..10]", 5)`), true)
	wantBool(t, evalSrc(t, `includes("[1..10)", 10)`), false)
	wantBool(t, evalSrc(t, `during(5, "[1..10]")`), true)
	wantBool(t, evalSrc(t, `during(0, "[1..10]")`), false)
	wantBool(t, evalSrc(t, `starts("[1..3]", "[1..10]")`), true)
	wantBool(t, evalSrc(t, `started by("[1..10]", "[1..3]")`), true)
	wantBool(t, evalSrc(t, `finishes("[8..10]", "[1..10]")`), true)
	wantBool(t, evalSrc(t, `finished by("[1..10]", "[8..10]")`), true)
}

func Test_Builtin_Range_Two_Element_Lists(t *testing.T) {
	wantBool(t, evalSrc(t, "overlaps([1, 5], [4, 10])"), true)
	wantBool(t, evalSrc(t, "includes([1, 10], 5)"), true)
	wantNull(t, evalSrc(t, "includes([1, 2, 3], 5)"))
}

func Test_Builtin_Range_Temporal_Points(t *testing.T) {
	wantBool(t, evalSrc(t, `before("2024-01-01", "2024-06-01")`), true)
	wantBool(t, evalSrc(t, `after("16:00", "09:00:00")`), true)
	wantBool(t, evalSrc(t, `includes("[\"2024-01-01\"..\"2024-12-31\"]", "2024-06-15")`), true)
}

func Test_Builtin_Range_Invalid_Arguments(t *testing.T) {
	wantNull(t, evalSrc(t, `before(true, 1)`))
	wantNull(t, evalSrc(t, `before("not a range", 1)`))
	wantNull(t, evalSrc(t, "before(1)"))
}
