package feel

import (
	"strings"
	"testing"
)

func Test_Errors_Wrap_Adds_Source_Line_And_Caret(t *testing.T) {
	src := `1 + $`
	_, err := ParseExpression(src)
	if err == nil {
		// '$' fails in the lexer already
		t.Fatal("expected error")
	}
	wrapped := WrapErrorWithSource(err, src)
	msg := wrapped.Error()
	if !strings.Contains(msg, "1 + $") {
		t.Fatalf("want source line in message, got %q", msg)
	}
	if !strings.Contains(msg, "^") {
		t.Fatalf("want caret in message, got %q", msg)
	}
}

func Test_Errors_Wrap_Passes_Eval_Errors_Through(t *testing.T) {
	err := evalErrf("boom %d", 7)
	if WrapErrorWithSource(err, "src") != err {
		t.Fatal("eval errors must pass through unchanged")
	}
}

func Test_Errors_Positions_Reported(t *testing.T) {
	_, err := Tokenize("  $")
	le, ok := err.(*LexError)
	if !ok {
		t.Fatalf("want *LexError, got %T", err)
	}
	if le.Line != 1 || le.Col != 3 {
		t.Fatalf("bad position %d:%d", le.Line, le.Col)
	}
}
