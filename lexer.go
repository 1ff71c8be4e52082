// lexer.go
//
// FEEL tokenizer. Turns raw expression text into a flat token stream
// terminated by an EOF token.
//
// Two quirks of the language shape this lexer:
//
//   - Identifiers may contain embedded spaces ("Full Name", "string join").
//     After each word we look ahead: the space is consumed only if the next
//     word keeps extending an identifier, i.e. it is not a keyword and is
//     not followed immediately by an operator or punctuation.
//   - A leading '-' folds into the NUMBER token, but only in unary context
//     (stream start, or right after an operator, '(', '[' or ','). In any
//     other position '-' is an operator and subtraction wins.
package feel

import (
	"strings"
	"unicode"
)

type TokenKind uint8

const (
	TkNumber TokenKind = iota
	TkString
	TkIdent
	TkKeyword
	TkOperator
	TkLParen
	TkRParen
	TkLBracket
	TkRBracket
	TkComma
	TkDot
	TkColon
	TkEOF
	// TkUnknown never appears in Tokenize output (unrecognized runes are
	// LexErrors); it names the String() fallback for out-of-range kinds.
	TkUnknown
)

func (k TokenKind) String() string {
	switch k {
	case TkNumber:
		return "NUMBER"
	case TkString:
		return "STRING"
	case TkIdent:
		return "IDENT"
	case TkKeyword:
		return "KEYWORD"
	case TkOperator:
		return "OPERATOR"
	case TkLParen:
		return "LPAREN"
	case TkRParen:
		return "RPAREN"
	case TkLBracket:
		return "LBRACKET"
	case TkRBracket:
		return "RBRACKET"
	case TkComma:
		return "COMMA"
	case TkDot:
		return "DOT"
	case TkColon:
		return "COLON"
	case TkEOF:
		return "EOF"
	}
	return "UNKNOWN"
}

// Token carries the kind, the raw text (strings arrive unquoted and
// unescaped) and the 1-based source position of its first character.
type Token struct {
	Kind TokenKind
	Text string
	Line int
	Col  int
}

var feelKeywords = map[string]bool{
	"true": true, "false": true, "null": true,
	"and": true, "or": true, "not": true,
	"if": true, "then": true, "else": true,
	"in": true, "for": true, "some": true, "every": true,
	"return": true, "between": true, "instance": true, "of": true,
}

type lexer struct {
	src    []rune
	cur    int
	line   int
	col    int
	tokens []Token
}

// Tokenize scans src into tokens. The returned slice always ends with an
// EOF token; on an unrecognized character it returns a *LexError.
func Tokenize(src string) ([]Token, error) {
	lx := &lexer{src: []rune(src), line: 1, col: 1}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.tokens, nil
}

func (lx *lexer) run() error {
	for !lx.atEnd() {
		if err := lx.scanToken(); err != nil {
			return err
		}
	}
	lx.tokens = append(lx.tokens, Token{Kind: TkEOF, Line: lx.line, Col: lx.col})
	return nil
}

func (lx *lexer) atEnd() bool { return lx.cur >= len(lx.src) }

func (lx *lexer) peek() rune {
	if lx.atEnd() {
		return 0
	}
	return lx.src[lx.cur]
}

func (lx *lexer) peekAt(off int) rune {
	if lx.cur+off >= len(lx.src) {
		return 0
	}
	return lx.src[lx.cur+off]
}

func (lx *lexer) advance() rune {
	r := lx.src[lx.cur]
	lx.cur++
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *lexer) add(kind TokenKind, text string, line, col int) {
	lx.tokens = append(lx.tokens, Token{Kind: kind, Text: text, Line: line, Col: col})
}

func (lx *lexer) errf(line, col int, msg string) error {
	return &LexError{Line: line, Col: col, Msg: msg}
}

// unaryContext reports whether a '-' at the current position negates rather
// than subtracts.
func (lx *lexer) unaryContext() bool {
	if len(lx.tokens) == 0 {
		return true
	}
	switch lx.tokens[len(lx.tokens)-1].Kind {
	case TkOperator, TkLParen, TkLBracket, TkComma, TkColon:
		return true
	}
	return false
}

func (lx *lexer) scanToken() error {
	r := lx.peek()
	line, col := lx.line, lx.col

	switch {
	case r == ' ' || r == '\t' || r == '\r' || r == '\n':
		lx.advance()
		return nil
	case r == '"':
		return lx.scanString(line, col)
	case unicode.IsDigit(r),
		r == '.' && unicode.IsDigit(lx.peekAt(1)),
		r == '-' && lx.unaryContext() && startsNumber(lx.peekAt(1), lx.peekAt(2)):
		return lx.scanNumber(line, col)
	case unicode.IsLetter(r) || r == '_':
		lx.scanIdentifier(line, col)
		return nil
	}

	switch r {
	case '(':
		lx.advance()
		lx.add(TkLParen, "(", line, col)
	case ')':
		lx.advance()
		lx.add(TkRParen, ")", line, col)
	case '[':
		lx.advance()
		lx.add(TkLBracket, "[", line, col)
	case ']':
		lx.advance()
		lx.add(TkRBracket, "]", line, col)
	case ',':
		lx.advance()
		lx.add(TkComma, ",", line, col)
	case '.':
		lx.advance()
		lx.add(TkDot, ".", line, col)
	case ':':
		lx.advance()
		lx.add(TkColon, ":", line, col)
	case '+', '-':
		lx.advance()
		lx.add(TkOperator, string(r), line, col)
	case '*':
		lx.advance()
		if lx.peek() == '*' {
			lx.advance()
			lx.add(TkOperator, "**", line, col)
		} else {
			lx.add(TkOperator, "*", line, col)
		}
	case '/':
		lx.advance()
		lx.add(TkOperator, "/", line, col)
	case '<':
		lx.advance()
		if lx.peek() == '=' {
			lx.advance()
			lx.add(TkOperator, "<=", line, col)
		} else {
			lx.add(TkOperator, "<", line, col)
		}
	case '>':
		lx.advance()
		if lx.peek() == '=' {
			lx.advance()
			lx.add(TkOperator, ">=", line, col)
		} else {
			lx.add(TkOperator, ">", line, col)
		}
	case '=':
		lx.advance()
		if lx.peek() == '=' {
			lx.advance()
		}
		// FEEL equality is single '='; '==' is accepted and normalized.
		lx.add(TkOperator, "=", line, col)
	case '!':
		lx.advance()
		if lx.peek() != '=' {
			return lx.errf(line, col, "unexpected character '!'")
		}
		lx.advance()
		lx.add(TkOperator, "!=", line, col)
	default:
		return lx.errf(line, col, "unexpected character "+strings.TrimSpace(string(r)))
	}
	return nil
}

// startsNumber reports whether a/b begin a numeric literal after a '-':
// "-42", "-.872".
func startsNumber(a, b rune) bool {
	return unicode.IsDigit(a) || (a == '.' && unicode.IsDigit(b))
}

func (lx *lexer) scanNumber(line, col int) error {
	var b strings.Builder
	if lx.peek() == '-' {
		b.WriteRune(lx.advance())
	}
	for unicode.IsDigit(lx.peek()) {
		b.WriteRune(lx.advance())
	}
	if lx.peek() == '.' && unicode.IsDigit(lx.peekAt(1)) {
		b.WriteRune(lx.advance())
		for unicode.IsDigit(lx.peek()) {
			b.WriteRune(lx.advance())
		}
	}
	if lx.peek() == 'e' || lx.peek() == 'E' {
		next, after := lx.peekAt(1), lx.peekAt(2)
		if unicode.IsDigit(next) || ((next == '+' || next == '-') && unicode.IsDigit(after)) {
			b.WriteRune(lx.advance())
			if lx.peek() == '+' || lx.peek() == '-' {
				b.WriteRune(lx.advance())
			}
			for unicode.IsDigit(lx.peek()) {
				b.WriteRune(lx.advance())
			}
		}
	}
	lx.add(TkNumber, b.String(), line, col)
	return nil
}

func (lx *lexer) scanString(line, col int) error {
	lx.advance() // opening quote
	var b strings.Builder
	for {
		if lx.atEnd() {
			return lx.errf(line, col, "unterminated string")
		}
		r := lx.advance()
		if r == '"' {
			break
		}
		if r == '\\' {
			if lx.atEnd() {
				return lx.errf(line, col, "unterminated string")
			}
			esc := lx.advance()
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			case '"', '\\', '/':
				b.WriteRune(esc)
			default:
				b.WriteRune('\\')
				b.WriteRune(esc)
			}
			continue
		}
		b.WriteRune(r)
	}
	lx.add(TkString, b.String(), line, col)
	return nil
}

// scanIdentifier consumes one identifier, possibly spanning several
// space-separated words.
func (lx *lexer) scanIdentifier(line, col int) {
	var b strings.Builder
	lx.scanWord(&b)
	for lx.peek() == ' ' && !lx.stopAtSpace(b.String()) {
		b.WriteRune(lx.advance())
		lx.scanWord(&b)
	}
	text := strings.TrimRight(b.String(), " ")
	if feelKeywords[text] {
		lx.add(TkKeyword, text, line, col)
		return
	}
	lx.add(TkIdent, text, line, col)
}

func (lx *lexer) scanWord(b *strings.Builder) {
	for unicode.IsLetter(lx.peek()) || unicode.IsDigit(lx.peek()) || lx.peek() == '_' {
		b.WriteRune(lx.advance())
	}
}

// stopAtSpace decides whether the space at the current position ends the
// identifier scanned so far.
func (lx *lexer) stopAtSpace(sofar string) bool {
	if feelKeywords[strings.TrimRight(sofar, " ")] {
		return true
	}
	// Find what follows the run of spaces.
	off := 0
	for lx.peekAt(off) == ' ' {
		off++
	}
	next := lx.peekAt(off)
	if !(unicode.IsLetter(next) || next == '_') {
		return true
	}
	// Peek the next word; a keyword ends the identifier ("age and ...").
	var w strings.Builder
	for {
		r := lx.peekAt(off)
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			break
		}
		w.WriteRune(r)
		off++
	}
	return feelKeywords[w.String()]
}
