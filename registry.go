// registry.go
//
// Static table of builtin function signatures: formal parameter names,
// optionality, variadic flag. The binder resolves named/positional call
// arguments against these. The table is built once and is read-only, so a
// single shared instance serves concurrent evaluations.
package feel

import "sync"

// FormalParam is one declared parameter of a builtin.
type FormalParam struct {
	Name     string
	Optional bool
}

// Signature describes a builtin for parameter binding. Parameter order is
// significant for positional calls; a variadic signature accepts extra
// positional arguments after the declared list.
type Signature struct {
	Name     string
	Params   []FormalParam
	Variadic bool
}

// Registry maps builtin names (which may contain spaces, e.g. "string
// join") to their signatures.
type Registry struct {
	sigs map[string]Signature
}

func (r *Registry) Lookup(name string) (Signature, bool) {
	s, ok := r.sigs[name]
	return s, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.sigs[name]
	return ok
}

var defaultRegistry = sync.OnceValue(NewRegistry)

// DefaultRegistry returns the shared builtin signature table.
func DefaultRegistry() *Registry { return defaultRegistry() }

func NewRegistry() *Registry {
	r := &Registry{sigs: make(map[string]Signature, 96)}

	req := func(names ...string) []FormalParam {
		ps := make([]FormalParam, len(names))
		for i, n := range names {
			ps[i] = FormalParam{Name: n}
		}
		return ps
	}
	add := func(name string, params []FormalParam) {
		r.sigs[name] = Signature{Name: name, Params: params}
	}
	addVariadic := func(name string, params []FormalParam) {
		r.sigs[name] = Signature{Name: name, Params: params, Variadic: true}
	}
	opt := func(name string) FormalParam { return FormalParam{Name: name, Optional: true} }

	// numeric
	add("abs", req("n"))
	add("floor", req("n"))
	add("ceiling", req("n"))
	add("sqrt", req("number"))
	add("exp", req("number"))
	add("log", req("number"))
	add("odd", req("number"))
	add("even", req("number"))
	add("modulo", req("dividend", "divisor"))
	add("decimal", req("n", "scale"))
	add("round", req("n", "scale"))
	add("round up", req("n", "scale"))
	add("round down", req("n", "scale"))
	add("round half up", req("n", "scale"))
	add("round half down", req("n", "scale"))

	// string
	add("substring", []FormalParam{{Name: "string"}, {Name: "start position"}, opt("length")})
	add("string length", req("string"))
	add("upper case", req("string"))
	add("lower case", req("string"))
	add("substring before", req("string", "match"))
	add("substring after", req("string", "match"))
	add("contains", req("string", "match"))
	add("starts with", req("string", "match"))
	add("ends with", req("string", "match"))
	add("replace", []FormalParam{{Name: "input"}, {Name: "pattern"}, {Name: "replacement"}, opt("flags")})
	add("matches", []FormalParam{{Name: "input"}, {Name: "pattern"}, opt("flags")})
	add("split", req("string", "delimiter"))
	add("string join", []FormalParam{{Name: "list"}, opt("delimiter")})

	// list
	add("list contains", req("list", "element"))
	add("count", req("list"))
	add("min", req("list"))
	add("max", req("list"))
	add("sum", req("list"))
	add("mean", req("list"))
	add("all", req("list"))
	add("any", req("list"))
	add("sublist", []FormalParam{{Name: "list"}, {Name: "start position"}, opt("length")})
	addVariadic("append", req("list"))
	addVariadic("concatenate", req("list"))
	add("insert before", req("list", "position", "newItem"))
	add("remove", req("list", "position"))
	add("reverse", req("list"))
	add("index of", req("list", "match"))
	addVariadic("union", req("list"))
	add("distinct values", req("list"))
	add("flatten", req("list"))
	add("product", req("list"))
	add("median", req("list"))
	add("stddev", req("list"))
	add("mode", req("list"))
	add("list replace", req("list", "position", "newItem"))

	// temporal and conversion
	add("date", req("from"))
	add("time", req("from"))
	add("date and time", req("from"))
	add("duration", req("from"))
	add("number", req("from", "grouping separator", "decimal separator"))
	add("string", req("from"))
	add("years and months duration", req("from", "to"))
	add("day of year", req("date"))
	add("day of week", req("date"))
	add("month of year", req("date"))
	add("week of year", req("date"))

	// boolean, context, misc
	add("not", req("negand"))
	add("get value", req("m", "key"))
	add("get entries", req("m"))
	add("context", req("entries"))
	add("context put", req("context", "key", "value"))
	add("context merge", req("contexts"))
	add("sort", req("list", "precedes"))
	add("is", req("value1", "value2"))
	add("now", nil)
	add("today", nil)

	// range / interval relations
	add("before", req("point1", "point2"))
	add("after", req("point1", "point2"))
	add("meets", req("range1", "range2"))
	add("met by", req("range1", "range2"))
	add("overlaps", req("range1", "range2"))
	add("overlaps before", req("range1", "range2"))
	add("overlaps after", req("range1", "range2"))
	add("finishes", req("point", "range"))
	add("finished by", req("range", "point"))
	add("includes", req("range", "point"))
	add("during", req("point", "range"))
	add("starts", req("point", "range"))
	add("started by", req("range", "point"))
	add("coincides", req("point1", "point2"))

	return r
}
