package feel

import "testing"

func parse(t *testing.T, src string) Node {
	t.Helper()
	node, err := ParseExpression(src)
	if err != nil {
		t.Fatalf("ParseExpression(%q): %v", src, err)
	}
	return node
}

func parseExpectError(t *testing.T, src string) error {
	t.Helper()
	_, err := ParseExpression(src)
	if err == nil {
		t.Fatalf("expected parse error for %q", src)
	}
	return err
}

func Test_Parser_Precedence_Shape(t *testing.T) {
	n := parse(t, "1 + 2 * 3")
	add, ok := n.(*BinaryNode)
	if !ok || add.Op != "+" {
		t.Fatalf("want + at root, got %#v", n)
	}
	mul, ok := add.Right.(*BinaryNode)
	if !ok || mul.Op != "*" {
		t.Fatalf("want * on the right, got %#v", add.Right)
	}
}

func Test_Parser_Exponent_Right_Associative(t *testing.T) {
	n := parse(t, "2 ** 3 ** 4")
	outer := n.(*BinaryNode)
	if outer.Op != "**" {
		t.Fatalf("want ** at root, got %q", outer.Op)
	}
	inner, ok := outer.Right.(*BinaryNode)
	if !ok || inner.Op != "**" {
		t.Fatalf("want nested ** on the right, got %#v", outer.Right)
	}
}

func Test_Parser_Comparison_Is_Non_Associative(t *testing.T) {
	parseExpectError(t, "1 < 2 < 3")
}

func Test_Parser_Conditional(t *testing.T) {
	n := parse(t, "if a then 1 else 2")
	ifn, ok := n.(*IfNode)
	if !ok {
		t.Fatalf("want IfNode, got %#v", n)
	}
	if _, ok := ifn.Cond.(*VarNode); !ok {
		t.Fatalf("want variable condition, got %#v", ifn.Cond)
	}
	// else binds to the innermost if
	nested := parse(t, "if a then 1 else if b then 2 else 3")
	if _, ok := nested.(*IfNode).Else.(*IfNode); !ok {
		t.Fatal("want nested if in else branch")
	}
}

func Test_Parser_Conditional_Missing_Else(t *testing.T) {
	err := parseExpectError(t, "if a then 1")
	wantErrContains(t, err, "else")
}

func Test_Parser_Call_Positional(t *testing.T) {
	n := parse(t, `substring("hello", 2)`)
	call, ok := n.(*CallNode)
	if !ok || call.Name != "substring" {
		t.Fatalf("want call to substring, got %#v", n)
	}
	if len(call.Params) != 2 || call.Params[0].Name != "" {
		t.Fatalf("want 2 positional params, got %#v", call.Params)
	}
}

func Test_Parser_Call_Named(t *testing.T) {
	n := parse(t, "decimal(scale: 2, n: 3.14)")
	call := n.(*CallNode)
	if call.Params[0].Name != "scale" || call.Params[1].Name != "n" {
		t.Fatalf("want named params scale/n, got %#v", call.Params)
	}
}

func Test_Parser_Call_Spaced_Parameter_Name(t *testing.T) {
	n := parse(t, `substring(string: "a", start position: 1)`)
	call := n.(*CallNode)
	if call.Params[1].Name != "start position" {
		t.Fatalf("want spaced param name, got %q", call.Params[1].Name)
	}
}

func Test_Parser_Call_Mixed_Styles_Rejected(t *testing.T) {
	err := parseExpectError(t, "decimal(2, n: 3.14)")
	wantErrContains(t, err, "cannot mix")
}

func Test_Parser_Not_Is_A_Call(t *testing.T) {
	n := parse(t, "not(true)")
	call, ok := n.(*CallNode)
	if !ok || call.Name != "not" {
		t.Fatalf("want call to not, got %#v", n)
	}
}

func Test_Parser_List_Literals(t *testing.T) {
	n := parse(t, "[1, 2, 3]")
	list := n.(*ListNode)
	if len(list.Items) != 3 {
		t.Fatalf("want 3 items, got %d", len(list.Items))
	}
	// trailing comma tolerated
	if got := parse(t, "[1, 2, ]").(*ListNode); len(got.Items) != 2 {
		t.Fatalf("want 2 items with trailing comma, got %d", len(got.Items))
	}
	if got := parse(t, "[]").(*ListNode); len(got.Items) != 0 {
		t.Fatalf("want empty list, got %d items", len(got.Items))
	}
}

func Test_Parser_Property_Chain_Nests_Left(t *testing.T) {
	n := parse(t, "a.b.c")
	outer, ok := n.(*PropertyNode)
	if !ok || outer.Property != "c" {
		t.Fatalf("want .c at root, got %#v", n)
	}
	inner, ok := outer.Object.(*PropertyNode)
	if !ok || inner.Property != "b" {
		t.Fatalf("want .b inside, got %#v", outer.Object)
	}
}

func Test_Parser_Property_After_Call_And_Parens(t *testing.T) {
	n := parse(t, `get value(m, "k").sub`)
	if _, ok := n.(*PropertyNode); !ok {
		t.Fatalf("want property after call, got %#v", n)
	}
	if _, ok := parse(t, "(x).y").(*PropertyNode); !ok {
		t.Fatal("want property after parens")
	}
}

func Test_Parser_Trailing_Junk_Rejected(t *testing.T) {
	err := parseExpectError(t, "1 2")
	wantErrContains(t, err, "after expression")
}

func Test_Parser_Empty_Input_Rejected(t *testing.T) {
	parseExpectError(t, "")
	parseExpectError(t, "   ")
}

func Test_Parser_Errors_Carry_Position(t *testing.T) {
	_, err := ParseExpression("1 +")
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("want *ParseError, got %T", err)
	}
	if pe.Line != 1 || pe.Col == 0 {
		t.Fatalf("bad position %d:%d", pe.Line, pe.Col)
	}
}
