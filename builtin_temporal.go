// builtin_temporal.go
//
// Temporal builtins. Values in the date/time/duration domains are ISO
// strings; the constructors here validate shape and pass the string
// through, and the calendar accessors parse just enough to answer.
package feel

import (
	"fmt"
	"time"
)

func registerTemporalBuiltins(m map[string]builtinFn) {
	m["date"] = fnDate
	m["time"] = fnTime
	m["date and time"] = fnDateAndTime
	m["duration"] = fnDuration
	m["years and months duration"] = fnYearsAndMonthsDuration
	m["day of year"] = fnDayOfYear
	m["day of week"] = fnDayOfWeek
	m["month of year"] = fnMonthOfYear
	m["week of year"] = fnWeekOfYear
	m["now"] = fnNow
	m["today"] = fnToday
}

func fnDate(args []Value) Value {
	s, ok := strArg(args, 0)
	if !ok {
		return Null
	}
	// a datetime argument is truncated to its date part
	if len(s) > 10 && s[10] == 'T' {
		s = s[:10]
	}
	if _, ok := parseDate(s); !ok {
		return Null
	}
	return Str(s)
}

func fnTime(args []Value) Value {
	s, ok := strArg(args, 0)
	if !ok {
		return Null
	}
	if _, ok := parseTime(s); !ok {
		return Null
	}
	return Str(s)
}

func fnDateAndTime(args []Value) Value {
	s, ok := strArg(args, 0)
	if !ok {
		return Null
	}
	if _, ok := parseDateTime(s); !ok {
		return Null
	}
	return Str(s)
}

func fnDuration(args []Value) Value {
	s, ok := strArg(args, 0)
	if !ok {
		return Null
	}
	if _, ok := parseDuration(s); !ok {
		return Null
	}
	return Str(s)
}

// fnYearsAndMonthsDuration returns the whole-month difference between two
// dates as a PnYnM string, truncated toward zero.
func fnYearsAndMonthsDuration(args []Value) Value {
	from, ok := dateArg(args, 0)
	if !ok {
		return Null
	}
	to, ok := dateArg(args, 1)
	if !ok {
		return Null
	}
	months := (to.y-from.y)*12 + (to.m - from.m)
	switch {
	case months > 0 && to.d < from.d:
		months--
	case months < 0 && to.d > from.d:
		months++
	}
	neg := ""
	if months < 0 {
		neg = "-"
		months = -months
	}
	return Str(fmt.Sprintf("%sP%dY%dM", neg, months/12, months%12))
}

func dateArg(args []Value, i int) (isoDate, bool) {
	s, ok := strArg(args, i)
	if !ok {
		return isoDate{}, false
	}
	if len(s) > 10 && s[10] == 'T' {
		s = s[:10]
	}
	return parseDate(s)
}

func calendarFn(fn func(t time.Time) Value) builtinFn {
	return func(args []Value) Value {
		d, ok := dateArg(args, 0)
		if !ok {
			return Null
		}
		t := time.Date(d.y, time.Month(d.m), d.d, 0, 0, 0, 0, time.UTC)
		return fn(t)
	}
}

var fnDayOfYear = calendarFn(func(t time.Time) Value {
	return Num(float64(t.YearDay()))
})

var fnDayOfWeek = calendarFn(func(t time.Time) Value {
	return Str(t.Weekday().String())
})

var fnMonthOfYear = calendarFn(func(t time.Time) Value {
	return Str(t.Month().String())
})

var fnWeekOfYear = calendarFn(func(t time.Time) Value {
	_, week := t.ISOWeek()
	return Num(float64(week))
})

func fnNow(_ []Value) Value {
	return Str(time.Now().UTC().Format("2006-01-02T15:04:05"))
}

func fnToday(_ []Value) Value {
	return Str(time.Now().UTC().Format("2006-01-02"))
}
