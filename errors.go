// errors.go
//
// Error types for the FEEL front end, plus a source-annotated renderer for
// surfacing lexer/parser failures with a caret under the offending column.
//
// Two failure classes exist and must not be conflated:
//
//   - structural errors (this file): malformed grammar, unknown characters,
//     unresolved variables outside a null-tolerant position. These surface
//     as Go errors.
//   - DMN semantic nulls: type mismatches inside operators, invalid builtin
//     arguments, failed parameter binding. These are ordinary Null results
//     and never reach an error return.
package feel

import (
	"fmt"
	"strings"
)

// LexError reports an unrecognized character or unterminated literal.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEX ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// ParseError reports a grammar violation with the position of the token
// where parsing stopped.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// EvalError reports a structural evaluation failure (undefined variable,
// property access on a non-object, unknown function).
type EvalError struct {
	Msg string
}

func (e *EvalError) Error() string {
	return "EVAL ERROR: " + e.Msg
}

func evalErrf(format string, args ...any) *EvalError {
	return &EvalError{Msg: fmt.Sprintf(format, args...)}
}

// WrapErrorWithSource re-renders a Lex/ParseError against the source text it
// came from, adding the offending line and a caret. Other errors pass
// through unchanged.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", prettyError("LEX ERROR", e.Line, e.Col, e.Msg, src))
	case *ParseError:
		return fmt.Errorf("%s", prettyError("PARSE ERROR", e.Line, e.Col, e.Msg, src))
	}
	return err
}

func prettyError(label string, line, col int, msg, src string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s", label, line, col, msg)
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return b.String()
	}
	text := lines[line-1]
	b.WriteByte('\n')
	b.WriteString(text)
	b.WriteByte('\n')
	if col < 1 {
		col = 1
	}
	if col > len(text)+1 {
		col = len(text) + 1
	}
	b.WriteString(strings.Repeat(" ", col-1))
	b.WriteByte('^')
	return b.String()
}
