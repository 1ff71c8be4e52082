// builtin_range.go
//
// Interval relations (before, after, meets, overlaps, ...). Arguments are
// points (numbers or temporal strings) or intervals written as range
// literals ("[1..10]", "(0..1]") or two-element lists; a point behaves as
// the degenerate inclusive interval [p..p].
package feel

import "strconv"

func registerRangeBuiltins(m map[string]builtinFn) {
	rel := func(name string, fn func(a, b interval) bool) {
		m[name] = func(args []Value) Value {
			a, ok := intervalArg(args, 0)
			if !ok {
				return Null
			}
			b, ok := intervalArg(args, 1)
			if !ok {
				return Null
			}
			return Bool(fn(a, b))
		}
	}

	rel("before", func(a, b interval) bool {
		return a.hi < b.lo || (a.hi == b.lo && (!a.hiIncl || !b.loIncl))
	})
	rel("after", func(a, b interval) bool {
		return a.lo > b.hi || (a.lo == b.hi && (!a.loIncl || !b.hiIncl))
	})
	rel("meets", func(a, b interval) bool {
		return a.hiIncl && b.loIncl && a.hi == b.lo
	})
	rel("met by", func(a, b interval) bool {
		return a.loIncl && b.hiIncl && a.lo == b.hi
	})
	rel("overlaps", func(a, b interval) bool {
		return overlaps(a, b)
	})
	rel("overlaps before", func(a, b interval) bool {
		return overlaps(a, b) && a.lo < b.lo && a.hi < b.hi
	})
	rel("overlaps after", func(a, b interval) bool {
		return overlaps(a, b) && a.lo > b.lo && a.hi > b.hi
	})
	rel("finishes", func(p, r interval) bool {
		return p.hi == r.hi && p.hiIncl == r.hiIncl && p.lo >= r.lo
	})
	rel("finished by", func(r, p interval) bool {
		return p.hi == r.hi && p.hiIncl == r.hiIncl && p.lo >= r.lo
	})
	rel("includes", func(r, p interval) bool {
		return includes(r, p)
	})
	rel("during", func(p, r interval) bool {
		return includes(r, p)
	})
	rel("starts", func(p, r interval) bool {
		return p.lo == r.lo && p.loIncl == r.loIncl && p.hi <= r.hi
	})
	rel("started by", func(r, p interval) bool {
		return p.lo == r.lo && p.loIncl == r.loIncl && p.hi <= r.hi
	})
	rel("coincides", func(a, b interval) bool {
		return a.lo == b.lo && a.hi == b.hi && a.loIncl == b.loIncl && a.hiIncl == b.hiIncl
	})
}

type interval struct {
	lo, hi         float64
	loIncl, hiIncl bool
}

func overlaps(a, b interval) bool {
	if a.hi < b.lo || b.hi < a.lo {
		return false
	}
	if a.hi == b.lo {
		return a.hiIncl && b.loIncl
	}
	if b.hi == a.lo {
		return b.hiIncl && a.loIncl
	}
	return true
}

func includes(r, p interval) bool {
	loOK := p.lo > r.lo || (p.lo == r.lo && (r.loIncl || !p.loIncl))
	hiOK := p.hi < r.hi || (p.hi == r.hi && (r.hiIncl || !p.hiIncl))
	return loOK && hiOK
}

func intervalArg(args []Value, i int) (interval, bool) {
	if i >= len(args) {
		return interval{}, false
	}
	return toInterval(args[i])
}

func toInterval(v Value) (interval, bool) {
	switch v.Tag {
	case VTNum:
		f := v.Data.(float64)
		return interval{lo: f, hi: f, loIncl: true, hiIncl: true}, true
	case VTStr:
		s := v.Data.(string)
		if r, ok := parseRangeLiteral(s); ok {
			lo, okLo := pointOrdinal(Str(unquote(r.lo)))
			hi, okHi := pointOrdinal(Str(unquote(r.hi)))
			if !okLo || !okHi {
				return interval{}, false
			}
			return interval{lo: lo, hi: hi, loIncl: r.loIncl, hiIncl: r.hiIncl}, true
		}
		if f, ok := pointOrdinal(v); ok {
			return interval{lo: f, hi: f, loIncl: true, hiIncl: true}, true
		}
	case VTList:
		items := v.Data.([]Value)
		if len(items) != 2 {
			return interval{}, false
		}
		lo, okLo := pointOrdinal(items[0])
		hi, okHi := pointOrdinal(items[1])
		if !okLo || !okHi {
			return interval{}, false
		}
		return interval{lo: lo, hi: hi, loIncl: true, hiIncl: true}, true
	}
	return interval{}, false
}

// pointOrdinal maps a point value onto a single comparable axis. Temporal
// strings from different domains map to disjoint scales; tables should not
// mix them within one relation.
func pointOrdinal(v Value) (float64, bool) {
	if f, ok := v.AsNum(); ok {
		return f, true
	}
	s, ok := v.AsStr()
	if !ok {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	if d, ok := parseDate(s); ok {
		return float64(d.ordinal()), true
	}
	if t, ok := parseTime(s); ok {
		return float64(t.ordinal()), true
	}
	if dt, ok := parseDateTime(s); ok {
		return float64(dt.ordinal()), true
	}
	if dur, ok := parseDuration(s); ok {
		return float64(dur.ordinal()), true
	}
	return 0, false
}
