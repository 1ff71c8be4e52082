// temporal.go
//
// Minimal ISO-8601 literal parsing. The engine carries dates, times and
// durations as strings end to end; parsing exists only so unary tests and
// the calendar builtins can compare and inspect them. This is deliberately
// not a temporal type system: no zones, no arithmetic between domains.
package feel

import "regexp"

type isoDate struct {
	y, m, d int
}

type isoTime struct {
	h, mi, s int
}

type isoDateTime struct {
	date isoDate
	time isoTime
}

type isoDuration struct {
	months  int
	seconds int64
}

var (
	reDate      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	reTimeFull  = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})$`)
	reTimeShort = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
	reDateTime  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})$`)
)

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func parseDate(s string) (isoDate, bool) {
	m := reDate.FindStringSubmatch(s)
	if m == nil {
		return isoDate{}, false
	}
	return isoDate{y: atoi(m[1]), m: atoi(m[2]), d: atoi(m[3])}, true
}

func parseTime(s string) (isoTime, bool) {
	if m := reTimeFull.FindStringSubmatch(s); m != nil {
		return isoTime{h: atoi(m[1]), mi: atoi(m[2]), s: atoi(m[3])}, true
	}
	if m := reTimeShort.FindStringSubmatch(s); m != nil {
		return isoTime{h: atoi(m[1]), mi: atoi(m[2])}, true
	}
	return isoTime{}, false
}

func parseDateTime(s string) (isoDateTime, bool) {
	m := reDateTime.FindStringSubmatch(s)
	if m == nil {
		return isoDateTime{}, false
	}
	return isoDateTime{
		date: isoDate{y: atoi(m[1]), m: atoi(m[2]), d: atoi(m[3])},
		time: isoTime{h: atoi(m[4]), mi: atoi(m[5]), s: atoi(m[6])},
	}, true
}

// parseDuration handles the PnYnMnDTnHnMnS form. 'M' means months before
// the T separator and minutes after it.
func parseDuration(s string) (isoDuration, bool) {
	if len(s) < 2 || s[0] != 'P' {
		return isoDuration{}, false
	}
	var dur isoDuration
	var days, hours, minutes, seconds int
	inTime := false
	num := 0
	haveNum := false

	flush := func(unit byte) bool {
		if !haveNum {
			return false
		}
		switch unit {
		case 'Y':
			dur.months += num * 12
		case 'M':
			if inTime {
				minutes = num
			} else {
				dur.months += num
			}
		case 'D':
			days = num
		case 'H':
			hours = num
		case 'S':
			seconds = num
		default:
			return false
		}
		num = 0
		haveNum = false
		return true
	}

	for i := 1; i < len(s); i++ {
		c := s[i]
		if c == 'T' {
			inTime = true
			continue
		}
		if c >= '0' && c <= '9' {
			haveNum = true
			num = num*10 + int(c-'0')
			continue
		}
		if !flush(c) {
			return isoDuration{}, false
		}
	}
	if haveNum {
		return isoDuration{}, false
	}
	dur.seconds = int64(days)*24*3600 + int64(hours)*3600 + int64(minutes)*60 + int64(seconds)
	return dur, true
}

// ordinal keys for comparisons inside unary tests

func (d isoDate) ordinal() int64 {
	return int64(d.y)*10000 + int64(d.m)*100 + int64(d.d)
}

func (t isoTime) ordinal() int64 {
	return int64(t.h)*3600 + int64(t.mi)*60 + int64(t.s)
}

func (dt isoDateTime) ordinal() int64 {
	return dt.date.ordinal()*100000 + dt.time.ordinal()
}

// ordinal approximates a month as 30.44 days, which keeps mixed
// month/second durations ordered sensibly for table matching.
func (d isoDuration) ordinal() int64 {
	return int64(d.months)*2630016 + d.seconds
}
