// Package sfeel parses S-FEEL literals into FEEL values.
//
// It implements the expression-parser contract the bridge delegates
// escape payloads to, covering the literal forms the bridge itself
// emits: dates, times, date-times, ISO-8601 durations, ranges, numbers,
// strings, booleans and null. Anything else is an error; there are no
// partial results.
package sfeel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/openfeel/decisionbridge/domain/feel"
	"github.com/openfeel/decisionbridge/ports"
)

// Parser parses S-FEEL literals. The zero value is ready to use.
type Parser struct{}

// New creates a literal parser.
func New() *Parser { return &Parser{} }

var _ ports.ExpressionParser = (*Parser)(nil)

var (
	yearsMonthsRe = regexp.MustCompile(`^(-)?P(?:(\d+)Y)?(?:(\d+)M)?$`)
	daysSecondsRe = regexp.MustCompile(`^(-)?P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)
	dateRe        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimeRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T`)
	timeRe        = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}`)
)

// Parse parses one S-FEEL literal.
func (p *Parser) Parse(expr string) (feel.Value, error) {
	switch expr {
	case "null":
		return feel.Null{}, nil
	case "true":
		return feel.Boolean(true), nil
	case "false":
		return feel.Boolean(false), nil
	}
	if expr == "" {
		return nil, fmt.Errorf("sfeel: empty expression")
	}

	switch {
	case strings.HasPrefix(expr, `"`):
		return parseString(expr)
	case isRangeStart(expr[0]) && strings.Contains(expr, " .. "):
		return p.parseRange(expr)
	case strings.HasPrefix(expr, "P") || strings.HasPrefix(expr, "-P"):
		return parseDuration(expr)
	case dateRe.MatchString(expr):
		return parseDate(expr)
	case dateTimeRe.MatchString(expr):
		return parseDateTime(expr)
	case timeRe.MatchString(expr):
		return parseTime(expr)
	}

	if f, err := strconv.ParseFloat(expr, 64); err == nil {
		return feel.Number(f), nil
	}
	return nil, fmt.Errorf("sfeel: unrecognized literal %q", expr)
}

func parseString(expr string) (feel.Value, error) {
	s, err := strconv.Unquote(expr)
	if err != nil {
		return nil, fmt.Errorf("sfeel: bad string literal %q: %w", expr, err)
	}
	return feel.String(s), nil
}

func isRangeStart(c byte) bool { return c == '[' || c == '(' || c == ']' }
func isRangeEnd(c byte) bool   { return c == ']' || c == ')' || c == '[' }

// parseRange parses "<lowEnd><low> .. <high><highEnd>". Bounds are
// themselves literals (typically numbers or dates).
func (p *Parser) parseRange(expr string) (feel.Value, error) {
	if len(expr) < 2 || !isRangeEnd(expr[len(expr)-1]) {
		return nil, fmt.Errorf("sfeel: bad range %q", expr)
	}
	lowEnd := string(expr[0])
	highEnd := string(expr[len(expr)-1])
	inner := expr[1 : len(expr)-1]

	bounds := strings.SplitN(inner, " .. ", 2)
	if len(bounds) != 2 {
		return nil, fmt.Errorf("sfeel: bad range %q", expr)
	}
	low, err := p.Parse(bounds[0])
	if err != nil {
		return nil, fmt.Errorf("sfeel: range low bound: %w", err)
	}
	high, err := p.Parse(bounds[1])
	if err != nil {
		return nil, fmt.Errorf("sfeel: range high bound: %w", err)
	}
	return feel.Interval{LowEnd: lowEnd, Low: low, High: high, HighEnd: highEnd}, nil
}

func parseDuration(expr string) (feel.Value, error) {
	// Years-months first: minutes always sit behind a T, so a bare M
	// here means months.
	if m := yearsMonthsRe.FindStringSubmatch(expr); m != nil && (m[2] != "" || m[3] != "") {
		years := atoiOrZero(m[2])
		months := atoiOrZero(m[3])
		total := years*12 + months
		if m[1] == "-" {
			total = -total
		}
		return feel.YearsMonthsDuration{Months: total}, nil
	}
	if m := daysSecondsRe.FindStringSubmatch(expr); m != nil && (m[2] != "" || m[3] != "" || m[4] != "" || m[5] != "") {
		seconds := float64(atoiOrZero(m[2]))*86400 +
			float64(atoiOrZero(m[3]))*3600 +
			float64(atoiOrZero(m[4]))*60
		if m[5] != "" {
			s, err := strconv.ParseFloat(m[5], 64)
			if err != nil {
				return nil, fmt.Errorf("sfeel: bad duration seconds in %q: %w", expr, err)
			}
			seconds += s
		}
		if m[1] == "-" {
			seconds = -seconds
		}
		return feel.DaysSecondsDuration{Seconds: seconds}, nil
	}
	return nil, fmt.Errorf("sfeel: bad duration %q", expr)
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s) // digits only, guaranteed by the regex
	return n
}

func parseDate(expr string) (feel.Value, error) {
	t, err := time.Parse(feel.DateLayout, expr)
	if err != nil {
		return nil, fmt.Errorf("sfeel: bad date %q: %w", expr, err)
	}
	return feel.Date{Time: t}, nil
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
}

func parseDateTime(expr string) (feel.Value, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, expr); err == nil {
			return feel.DateTime{Time: t}, nil
		}
	}
	return nil, fmt.Errorf("sfeel: bad date-time %q", expr)
}

var timeLayouts = []string{
	"15:04:05.999999999Z07:00",
	"15:04:05.999999999",
}

func parseTime(expr string) (feel.Value, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, expr); err == nil {
			return feel.Time{Time: t}, nil
		}
	}
	return nil, fmt.Errorf("sfeel: bad time %q", expr)
}
