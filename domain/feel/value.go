// Package feel models the FEEL value universe: the values a decision
// engine computes over, which is richer than what JSON can carry
// natively (dates, times, durations, intervals).
//
// Every variant implements Value. Kind tags the variant; Literal renders
// the canonical S-FEEL literal form, which is also the escape-string
// payload grammar used on the wire.
package feel

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind identifies a Value variant.
type Kind string

const (
	KindNull                Kind = "null"
	KindBoolean             Kind = "boolean"
	KindNumber              Kind = "number"
	KindString              Kind = "string"
	KindDate                Kind = "date"
	KindTime                Kind = "time"
	KindDateTime            Kind = "date-time"
	KindYearsMonthsDuration Kind = "years-months-duration"
	KindDaysSecondsDuration Kind = "days-seconds-duration"
	KindInterval            Kind = "interval"
	KindList                Kind = "list"
	KindContext             Kind = "context"
)

// Value is a FEEL value.
type Value interface {
	// Kind returns the variant tag.
	Kind() Kind

	// Literal returns the canonical S-FEEL literal form.
	Literal() string
}

// Layouts for the calendar variants (ISO-8601).
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02T15:04:05"
)

// Null is the FEEL null value.
type Null struct{}

func (Null) Kind() Kind      { return KindNull }
func (Null) Literal() string { return "null" }

// Boolean is a FEEL boolean.
type Boolean bool

func (Boolean) Kind() Kind        { return KindBoolean }
func (b Boolean) Literal() string { return strconv.FormatBool(bool(b)) }

// Number is a FEEL number. FEEL has no integer type; everything is
// floating point.
type Number float64

func (Number) Kind() Kind { return KindNumber }

// Literal renders the number without exponent or locale grouping, so it
// round-trips through the literal parser ("1", "1.5", "-0.25").
func (n Number) Literal() string { return strconv.FormatFloat(float64(n), 'f', -1, 64) }

// String is a FEEL string.
type String string

func (String) Kind() Kind        { return KindString }
func (s String) Literal() string { return strconv.Quote(string(s)) }

// Date is a FEEL calendar date.
type Date struct {
	Time time.Time
}

// NewDate creates a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (Date) Kind() Kind        { return KindDate }
func (d Date) Literal() string { return d.Time.Format(DateLayout) }

// Time is a FEEL time of day.
type Time struct {
	Time time.Time
}

// NewTime creates a Time of day. The date part is fixed to the zero day.
func NewTime(hour, min, sec, nsec int) Time {
	return Time{Time: time.Date(0, time.January, 1, hour, min, sec, nsec, time.UTC)}
}

func (Time) Kind() Kind        { return KindTime }
func (t Time) Literal() string { return formatClock(t.Time) }

// DateTime is a FEEL date and time.
type DateTime struct {
	Time time.Time
}

func (DateTime) Kind() Kind { return KindDateTime }
func (d DateTime) Literal() string {
	return d.Time.Format(DateLayout) + "T" + formatClock(d.Time)
}

// formatClock renders HH:MM:SS with a fixed six-digit fraction when the
// instant has sub-second precision, and the UTC offset when the instant
// carries one. Unzoned values render without an offset, so the literal
// parses back to the same instant.
func formatClock(t time.Time) string {
	var s string
	if t.Nanosecond() != 0 {
		s = t.Format("15:04:05.000000")
	} else {
		s = t.Format(TimeLayout)
	}
	if _, offset := t.Zone(); offset != 0 {
		s += t.Format("Z07:00")
	}
	return s
}

// YearsMonthsDuration is a FEEL year-month duration: a signed count of
// calendar months. It is a distinct variant; plain integral numbers are
// never reinterpreted as month counts.
type YearsMonthsDuration struct {
	Months int
}

func (YearsMonthsDuration) Kind() Kind { return KindYearsMonthsDuration }

// Literal renders the ISO-8601 grammar "-?P#Y#M", sign taken before the
// magnitude is decomposed (14 -> "P1Y2M", -14 -> "-P1Y2M").
func (d YearsMonthsDuration) Literal() string {
	months := d.Months
	sign := ""
	if months < 0 {
		months = -months
		sign = "-"
	}
	return sign + "P" + strconv.Itoa(months/12) + "Y" + strconv.Itoa(months%12) + "M"
}

// DaysSecondsDuration is a FEEL day-time duration, stored as a signed
// count of seconds with fractional precision.
type DaysSecondsDuration struct {
	Seconds float64
}

func (DaysSecondsDuration) Kind() Kind { return KindDaysSecondsDuration }

// Literal renders the ISO-8601 grammar "-?P#DT#H#M#.######S": days,
// hours and minutes by successive floor division of the magnitude,
// seconds as the fixed six-digit fractional remainder.
func (d DaysSecondsDuration) Literal() string {
	seconds := d.Seconds
	sign := ""
	if seconds < 0 {
		seconds = -seconds
		sign = "-"
	}
	secs := math.Mod(seconds, 60)
	rest := int64(seconds / 60)
	mins := rest % 60
	rest /= 60
	hours := rest % 24
	days := rest / 24
	return sign + "P" + strconv.FormatInt(days, 10) +
		"DT" + strconv.FormatInt(hours, 10) +
		"H" + strconv.FormatInt(mins, 10) +
		"M" + strconv.FormatFloat(secs, 'f', 6, 64) + "S"
}

// Interval is a FEEL range: two bounds with endpoint inclusivity
// markers ("[" / "(" for the low end, "]" / ")" for the high end).
type Interval struct {
	LowEnd  string
	Low     Value
	High    Value
	HighEnd string
}

func (Interval) Kind() Kind { return KindInterval }

// Literal renders the range grammar, bounds in their natural literal
// form: Interval{"[", 1, 10, "]"} -> "[1 .. 10]".
func (i Interval) Literal() string {
	return i.LowEnd + bareLiteral(i.Low) + " .. " + bareLiteral(i.High) + i.HighEnd
}

// bareLiteral renders interval bounds: strings appear unquoted, every
// other variant uses its canonical literal.
func bareLiteral(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	return v.Literal()
}

// List is an ordered sequence of FEEL values.
type List []Value

func (List) Kind() Kind { return KindList }

func (l List) Literal() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.Literal()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Context is a mapping from name to FEEL value.
type Context map[string]Value

func (Context) Kind() Kind { return KindContext }

func (c Context) Literal() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + c[k].Literal()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
