// builtin_context.go
//
// Context (object) builtins. All of them treat their inputs as immutable
// and return fresh maps.
package feel

import "sort"

func registerContextBuiltins(m map[string]builtinFn) {
	m["get value"] = fnGetValue
	m["get entries"] = fnGetEntries
	m["context"] = fnContext
	m["context put"] = fnContextPut
	m["context merge"] = fnContextMerge
}

// fnGetValue returns Null, not an error, for a missing key.
func fnGetValue(args []Value) Value {
	obj, ok := objArg(args, 0)
	if !ok {
		return Null
	}
	key, ok := strArg(args, 1)
	if !ok {
		return Null
	}
	if v, ok := obj[key]; ok {
		return v
	}
	return Null
}

// fnGetEntries lists {key, value} pairs with keys in sorted order, so the
// result is deterministic across evaluations.
func fnGetEntries(args []Value) Value {
	obj, ok := objArg(args, 0)
	if !ok {
		return Null
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = Obj(map[string]Value{"key": Str(k), "value": obj[k]})
	}
	return List(out)
}

// fnContext rebuilds an object from a list of {key, value} entries, the
// inverse of get entries. Duplicate keys make the call invalid.
func fnContext(args []Value) Value {
	entries, ok := listArg(args, 0)
	if !ok {
		return Null
	}
	out := make(map[string]Value, len(entries))
	for _, entry := range entries {
		pair, ok := entry.AsObj()
		if !ok {
			return Null
		}
		key, ok := pair["key"].AsStr()
		if !ok {
			return Null
		}
		if _, dup := out[key]; dup {
			return Null
		}
		out[key] = pair["value"]
	}
	return Obj(out)
}

func fnContextPut(args []Value) Value {
	obj, ok := objArg(args, 0)
	if !ok {
		return Null
	}
	key, ok := strArg(args, 1)
	if !ok || len(args) < 3 {
		return Null
	}
	out := make(map[string]Value, len(obj)+1)
	for k, v := range obj {
		out[k] = v
	}
	out[key] = args[2]
	return Obj(out)
}

// fnContextMerge merges a list of contexts left to right; later keys win.
func fnContextMerge(args []Value) Value {
	contexts, ok := listArg(args, 0)
	if !ok {
		return Null
	}
	out := make(map[string]Value)
	for _, c := range contexts {
		obj, ok := c.AsObj()
		if !ok {
			return Null
		}
		for k, v := range obj {
			out[k] = v
		}
	}
	return Obj(out)
}

func objArg(args []Value, i int) (map[string]Value, bool) {
	if i >= len(args) {
		return nil, false
	}
	return args[i].AsObj()
}
