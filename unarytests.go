// unarytests.go
//
// DMN unary-test matching for decision-table input cells. The mini-language
// is much smaller than FEEL proper:
//
//	-                  wildcard (also the empty cell)
//	a, b, c            OR list of tests
//	not(a, b)          negated OR list
//	< 5   >= "x"       comparison against a literal
//	[1..10]  (0..1]    range, bracket type picks boundary inclusivity
//	42  "s"  true      literal equality
//
// Literal comparison is type-aware: both sides are tried as number, date,
// time, datetime and duration before falling back to plain string order.
package feel

import (
	"strconv"
	"strings"
)

// UnaryTestMatches reports whether candidate satisfies the cell test.
// Malformed tests simply fail to match; cell syntax errors are not
// structural errors at evaluation time.
func UnaryTestMatches(test string, candidate Value) bool {
	test = strings.TrimSpace(test)
	if test == "" || test == "-" {
		return true
	}

	// a list candidate matches when any element does
	if items, ok := candidate.AsList(); ok {
		for _, item := range items {
			if UnaryTestMatches(test, item) {
				return true
			}
		}
		return false
	}

	if inner, ok := strexInner(test, "not(", ")"); ok {
		for _, part := range splitTopLevel(inner, ',') {
			if UnaryTestMatches(part, candidate) {
				return false
			}
		}
		return true
	}

	if parts := splitTopLevel(test, ','); len(parts) > 1 {
		for _, part := range parts {
			if UnaryTestMatches(part, candidate) {
				return true
			}
		}
		return false
	}

	if op, rhs, ok := splitComparison(test); ok {
		c, ok := compareToLiteral(candidate, rhs)
		if !ok {
			return false
		}
		return cmpHolds(op, c)
	}

	if r, ok := parseRangeLiteral(test); ok {
		return r.containsValue(candidate)
	}

	return literalMatches(test, candidate)
}

func strexInner(s, prefix, suffix string) (string, bool) {
	if strings.HasPrefix(s, prefix) && strings.HasSuffix(s, suffix) {
		return s[len(prefix) : len(s)-len(suffix)], true
	}
	return "", false
}

// splitTopLevel splits on sep outside parentheses, brackets and quotes.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

func splitComparison(s string) (op, rhs string, ok bool) {
	for _, candidate := range []string{"<=", ">=", "==", "<", ">"} {
		if strings.HasPrefix(s, candidate) {
			op = candidate
			if op == "==" {
				op = "="
			}
			return op, strings.TrimSpace(s[len(candidate):]), true
		}
	}
	return "", "", false
}

type rangeTest struct {
	lo, hi         string
	loIncl, hiIncl bool
}

func parseRangeLiteral(s string) (rangeTest, bool) {
	if len(s) < 4 {
		return rangeTest{}, false
	}
	first, last := s[0], s[len(s)-1]
	if (first != '[' && first != '(') || (last != ']' && last != ')') {
		return rangeTest{}, false
	}
	body := s[1 : len(s)-1]
	dots := strings.Index(body, "..")
	if dots < 0 {
		return rangeTest{}, false
	}
	return rangeTest{
		lo:     strings.TrimSpace(body[:dots]),
		hi:     strings.TrimSpace(body[dots+2:]),
		loIncl: first == '[',
		hiIncl: last == ']',
	}, true
}

func (r rangeTest) containsValue(candidate Value) bool {
	lc, ok := compareToLiteral(candidate, r.lo)
	if !ok {
		return false
	}
	if lc < 0 || (lc == 0 && !r.loIncl) {
		return false
	}
	hc, ok := compareToLiteral(candidate, r.hi)
	if !ok {
		return false
	}
	return hc < 0 || (hc == 0 && r.hiIncl)
}

// compareToLiteral orders candidate against a literal from a test cell,
// trying the numeric and temporal domains before string order. Null orders
// against nothing, so comparisons and ranges never match a missing value.
func compareToLiteral(candidate Value, lit string) (int, bool) {
	if candidate.IsNull() {
		return 0, false
	}
	lit = unquote(strings.TrimSpace(lit))

	if lf, err := strconv.ParseFloat(lit, 64); err == nil {
		cf, ok := ToNumber(candidate)
		if !ok {
			return 0, false
		}
		return cmpFloat(cf, lf), true
	}

	if cs, ok := candidate.AsStr(); ok {
		if a, b, ok := temporalOrdinals(cs, lit); ok {
			return cmpInt64(a, b), true
		}
		return strings.Compare(cs, lit), true
	}
	return 0, false
}

// temporalOrdinals parses both strings in the same temporal domain.
func temporalOrdinals(a, b string) (int64, int64, bool) {
	if da, ok := parseDate(a); ok {
		if db, ok := parseDate(b); ok {
			return da.ordinal(), db.ordinal(), true
		}
	}
	if ta, ok := parseTime(a); ok {
		if tb, ok := parseTime(b); ok {
			return ta.ordinal(), tb.ordinal(), true
		}
	}
	if da, ok := parseDateTime(a); ok {
		if db, ok := parseDateTime(b); ok {
			return da.ordinal(), db.ordinal(), true
		}
	}
	if da, ok := parseDuration(a); ok {
		if db, ok := parseDuration(b); ok {
			return da.ordinal(), db.ordinal(), true
		}
	}
	return 0, 0, false
}

func literalMatches(lit string, candidate Value) bool {
	if lit == "true" || lit == "false" {
		if b, ok := candidate.AsBool(); ok {
			return b == (lit == "true")
		}
		return false
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		cf, ok := ToNumber(candidate)
		return ok && !candidate.IsNull() && cf == f
	}
	c, ok := compareToLiteral(candidate, lit)
	return ok && c == 0
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
