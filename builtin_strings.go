// builtin_strings.go
//
// String builtins. Per the engine's compatibility contract, matches and
// replace use plain substring semantics rather than regular expressions,
// and substring positions are 1-based with negative indices counting from
// the end.
package feel

import "strings"

func registerStringBuiltins(m map[string]builtinFn) {
	m["substring"] = fnSubstring
	m["string length"] = fnStringLength
	m["upper case"] = strFn(strings.ToUpper)
	m["lower case"] = strFn(strings.ToLower)
	m["substring before"] = fnSubstringBefore
	m["substring after"] = fnSubstringAfter
	m["contains"] = strPredicate(strings.Contains)
	m["starts with"] = strPredicate(strings.HasPrefix)
	m["ends with"] = strPredicate(strings.HasSuffix)
	m["replace"] = fnReplace
	m["matches"] = fnMatches
	m["split"] = fnSplit
	m["string join"] = fnStringJoin
}

func strFn(fn func(string) string) builtinFn {
	return func(args []Value) Value {
		s, ok := strArg(args, 0)
		if !ok {
			return Null
		}
		return Str(fn(s))
	}
}

func strPredicate(fn func(s, match string) bool) builtinFn {
	return func(args []Value) Value {
		s, ok := strArg(args, 0)
		if !ok {
			return Null
		}
		match, ok := strArg(args, 1)
		if !ok {
			return Null
		}
		return Bool(fn(s, match))
	}
}

// fnSubstring: 1-based start, negative start counts from the end
// (substring("hello", -2) is "lo"), null length means the rest of the
// string, anything out of range yields the empty string.
func fnSubstring(args []Value) Value {
	s, ok := strArg(args, 0)
	if !ok {
		return Null
	}
	start, ok := numArg(args, 1)
	if !ok {
		return Null
	}
	runes := []rune(s)
	n := len(runes)

	pos := int(start)
	if pos < 0 {
		pos = n + pos + 1
	}
	if pos < 1 || pos > n {
		return Str("")
	}
	from := pos - 1

	to := n
	if len(args) > 2 && !args[2].IsNull() {
		length, ok := ToNumber(args[2])
		if !ok || length < 0 {
			return Str("")
		}
		to = from + int(length)
		if to > n {
			to = n
		}
	}
	return Str(string(runes[from:to]))
}

func fnStringLength(args []Value) Value {
	s, ok := strArg(args, 0)
	if !ok {
		return Null
	}
	return Num(float64(len([]rune(s))))
}

func fnSubstringBefore(args []Value) Value {
	s, ok := strArg(args, 0)
	if !ok {
		return Null
	}
	match, ok := strArg(args, 1)
	if !ok {
		return Null
	}
	idx := strings.Index(s, match)
	if idx < 0 {
		return Str("")
	}
	return Str(s[:idx])
}

func fnSubstringAfter(args []Value) Value {
	s, ok := strArg(args, 0)
	if !ok {
		return Null
	}
	match, ok := strArg(args, 1)
	if !ok {
		return Null
	}
	idx := strings.Index(s, match)
	if idx < 0 {
		return Str("")
	}
	return Str(s[idx+len(match):])
}

// fnReplace substitutes every literal occurrence of pattern; the optional
// flags argument is accepted and ignored.
func fnReplace(args []Value) Value {
	input, ok := strArg(args, 0)
	if !ok {
		return Null
	}
	pattern, ok := strArg(args, 1)
	if !ok {
		return Null
	}
	replacement, ok := strArg(args, 2)
	if !ok {
		return Null
	}
	return Str(strings.ReplaceAll(input, pattern, replacement))
}

// fnMatches is a literal substring test, not a regular expression match.
func fnMatches(args []Value) Value {
	input, ok := strArg(args, 0)
	if !ok {
		return Null
	}
	pattern, ok := strArg(args, 1)
	if !ok {
		return Null
	}
	return Bool(strings.Contains(input, pattern))
}

// fnSplit with an empty delimiter splits into single characters.
func fnSplit(args []Value) Value {
	s, ok := strArg(args, 0)
	if !ok {
		return Null
	}
	delim, ok := strArg(args, 1)
	if !ok {
		return Null
	}
	var parts []string
	if delim == "" {
		for _, r := range s {
			parts = append(parts, string(r))
		}
	} else {
		parts = strings.Split(s, delim)
	}
	items := make([]Value, len(parts))
	for i, p := range parts {
		items[i] = Str(p)
	}
	return List(items)
}

// fnStringJoin joins a list's members, skipping nulls. Numbers render
// without a trailing ".0"; a null delimiter joins with nothing.
func fnStringJoin(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok {
		return Null
	}
	delim := ""
	if len(args) > 1 && !args[1].IsNull() {
		d, ok := args[1].AsStr()
		if !ok {
			return Null
		}
		delim = d
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		switch item.Tag {
		case VTNull:
			continue
		case VTStr:
			parts = append(parts, item.Data.(string))
		case VTNum:
			parts = append(parts, formatNumber(item.Data.(float64)))
		default:
			return Null
		}
	}
	return Str(strings.Join(parts, delim))
}
