// builtin_list.go
//
// List builtins. Positions are 1-based throughout, matching FEEL. The
// aggregations (sum, mean, median, stddev, product) require every member
// to have a numeric reading; otherwise they yield Null.
package feel

import (
	"math"
	"sort"
)

func registerListBuiltins(m map[string]builtinFn) {
	m["list contains"] = fnListContains
	m["count"] = fnCount
	m["min"] = fnMin
	m["max"] = fnMax
	m["sum"] = fnSum
	m["mean"] = fnMean
	m["sublist"] = fnSublist
	m["append"] = fnAppend
	m["concatenate"] = fnConcatenate
	m["insert before"] = fnInsertBefore
	m["remove"] = fnRemove
	m["reverse"] = fnReverse
	m["index of"] = fnIndexOf
	m["union"] = fnUnion
	m["distinct values"] = fnDistinctValues
	m["flatten"] = fnFlatten
	m["product"] = fnProduct
	m["median"] = fnMedian
	m["stddev"] = fnStddev
	m["mode"] = fnMode
	m["list replace"] = fnListReplace
	m["sort"] = fnSort
}

func fnListContains(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok || len(args) < 2 {
		return Null
	}
	for _, item := range items {
		if Equal(item, args[1]) {
			return True
		}
	}
	return False
}

func fnCount(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok {
		return Null
	}
	return Num(float64(len(items)))
}

// numbersOf extracts a numeric reading of every member; ok is false if any
// member has none.
func numbersOf(items []Value) ([]float64, bool) {
	nums := make([]float64, len(items))
	for i, item := range items {
		if item.IsNull() {
			return nil, false
		}
		f, ok := ToNumber(item)
		if !ok {
			return nil, false
		}
		nums[i] = f
	}
	return nums, true
}

func stringsOf(items []Value) ([]string, bool) {
	strs := make([]string, len(items))
	for i, item := range items {
		s, ok := item.AsStr()
		if !ok {
			return nil, false
		}
		strs[i] = s
	}
	return strs, true
}

func fnMin(args []Value) Value { return extremum(args, false) }
func fnMax(args []Value) Value { return extremum(args, true) }

func extremum(args []Value, wantMax bool) Value {
	items, ok := listArg(args, 0)
	if !ok || len(items) == 0 {
		return Null
	}
	if nums, ok := numbersOf(items); ok {
		best := nums[0]
		for _, f := range nums[1:] {
			if (wantMax && f > best) || (!wantMax && f < best) {
				best = f
			}
		}
		return Num(best)
	}
	if strs, ok := stringsOf(items); ok {
		best := strs[0]
		for _, s := range strs[1:] {
			if (wantMax && s > best) || (!wantMax && s < best) {
				best = s
			}
		}
		return Str(best)
	}
	return Null
}

func fnSum(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok || len(items) == 0 {
		return Null
	}
	nums, ok := numbersOf(items)
	if !ok {
		return Null
	}
	total := 0.0
	for _, f := range nums {
		total += f
	}
	return Num(total)
}

func fnProduct(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok || len(items) == 0 {
		return Null
	}
	nums, ok := numbersOf(items)
	if !ok {
		return Null
	}
	total := 1.0
	for _, f := range nums {
		total *= f
	}
	return Num(total)
}

func fnMean(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok || len(items) == 0 {
		return Null
	}
	nums, ok := numbersOf(items)
	if !ok {
		return Null
	}
	total := 0.0
	for _, f := range nums {
		total += f
	}
	return Num(total / float64(len(nums)))
}

func fnMedian(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok || len(items) == 0 {
		return Null
	}
	nums, ok := numbersOf(items)
	if !ok {
		return Null
	}
	sort.Float64s(nums)
	n := len(nums)
	if n%2 == 1 {
		return Num(nums[n/2])
	}
	return Num((nums[n/2-1] + nums[n/2]) / 2)
}

// fnStddev is the sample standard deviation; fewer than two members yield
// Null.
func fnStddev(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok || len(items) < 2 {
		return Null
	}
	nums, ok := numbersOf(items)
	if !ok {
		return Null
	}
	mean := 0.0
	for _, f := range nums {
		mean += f
	}
	mean /= float64(len(nums))
	varsum := 0.0
	for _, f := range nums {
		d := f - mean
		varsum += d * d
	}
	return Num(math.Sqrt(varsum / float64(len(nums)-1)))
}

// fnMode returns the most frequent members as a list, sorted ascending.
func fnMode(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok {
		return Null
	}
	if len(items) == 0 {
		return List(nil)
	}
	nums, ok := numbersOf(items)
	if !ok {
		return Null
	}
	counts := make(map[float64]int, len(nums))
	best := 0
	for _, f := range nums {
		counts[f]++
		if counts[f] > best {
			best = counts[f]
		}
	}
	var modes []float64
	for f, c := range counts {
		if c == best {
			modes = append(modes, f)
		}
	}
	sort.Float64s(modes)
	out := make([]Value, len(modes))
	for i, f := range modes {
		out[i] = Num(f)
	}
	return List(out)
}

// fnSublist: 1-based start, negative start counts from the end; a start or
// length outside the list yields Null (unlike substring, which clamps).
func fnSublist(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok {
		return Null
	}
	start, ok := numArg(args, 1)
	if !ok {
		return Null
	}
	n := len(items)
	pos := int(start)
	if pos < 0 {
		pos = n + pos + 1
	}
	if pos < 1 || pos > n {
		return Null
	}
	from := pos - 1

	to := n
	if len(args) > 2 && !args[2].IsNull() {
		length, ok := ToNumber(args[2])
		if !ok || length < 0 || from+int(length) > n {
			return Null
		}
		to = from + int(length)
	}
	out := make([]Value, to-from)
	copy(out, items[from:to])
	return List(out)
}

func fnAppend(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok {
		return Null
	}
	out := make([]Value, 0, len(items)+len(args)-1)
	out = append(out, items...)
	out = append(out, args[1:]...)
	return List(out)
}

func fnConcatenate(args []Value) Value {
	var out []Value
	for _, arg := range args {
		items, ok := arg.AsList()
		if !ok {
			return Null
		}
		out = append(out, items...)
	}
	return List(out)
}

func fnInsertBefore(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok || len(args) < 3 {
		return Null
	}
	pos, ok := numArg(args, 1)
	if !ok {
		return Null
	}
	i := int(pos)
	if i < 1 || i > len(items)+1 {
		return Null
	}
	out := make([]Value, 0, len(items)+1)
	out = append(out, items[:i-1]...)
	out = append(out, args[2])
	out = append(out, items[i-1:]...)
	return List(out)
}

func fnRemove(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok {
		return Null
	}
	pos, ok := numArg(args, 1)
	if !ok {
		return Null
	}
	i := int(pos)
	if i < 1 || i > len(items) {
		return Null
	}
	out := make([]Value, 0, len(items)-1)
	out = append(out, items[:i-1]...)
	out = append(out, items[i:]...)
	return List(out)
}

func fnReverse(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok {
		return Null
	}
	out := make([]Value, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return List(out)
}

// fnIndexOf returns every 1-based position whose member equals match.
func fnIndexOf(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok || len(args) < 2 {
		return Null
	}
	var out []Value
	for i, item := range items {
		if Equal(item, args[1]) {
			out = append(out, Num(float64(i+1)))
		}
	}
	return List(out)
}

func fnUnion(args []Value) Value {
	concat := fnConcatenate(args)
	if concat.IsNull() {
		return Null
	}
	return fnDistinctValues([]Value{concat})
}

func fnDistinctValues(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok {
		return Null
	}
	var out []Value
	for _, item := range items {
		dup := false
		for _, seen := range out {
			if Equal(seen, item) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, item)
		}
	}
	return List(out)
}

func fnFlatten(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok {
		return Null
	}
	var out []Value
	var walk func([]Value)
	walk = func(vs []Value) {
		for _, v := range vs {
			if inner, ok := v.AsList(); ok {
				walk(inner)
				continue
			}
			out = append(out, v)
		}
	}
	walk(items)
	return List(out)
}

func fnListReplace(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok || len(args) < 3 {
		return Null
	}
	pos, ok := numArg(args, 1)
	if !ok {
		return Null
	}
	i := int(pos)
	if i < 1 || i > len(items) {
		return Null
	}
	out := make([]Value, len(items))
	copy(out, items)
	out[i-1] = args[2]
	return List(out)
}

// fnSort orders a homogeneous list of numbers or strings ascending. The
// precedes parameter exists for signature compatibility; function values
// are not part of the value domain, so it is ignored.
func fnSort(args []Value) Value {
	items, ok := listArg(args, 0)
	if !ok {
		return Null
	}
	if nums, ok := numbersOf(items); ok {
		sort.Float64s(nums)
		out := make([]Value, len(nums))
		for i, f := range nums {
			out[i] = Num(f)
		}
		return List(out)
	}
	if strs, ok := stringsOf(items); ok {
		sort.Strings(strs)
		out := make([]Value, len(strs))
		for i, s := range strs {
			out[i] = Str(s)
		}
		return List(out)
	}
	return Null
}
