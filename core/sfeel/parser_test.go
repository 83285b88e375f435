package sfeel

import (
	"testing"
	"time"

	"github.com/openfeel/decisionbridge/domain/feel"
)

func TestParse(t *testing.T) {
	tests := []struct {
		expr string
		want feel.Value
	}{
		{"null", feel.Null{}},
		{"true", feel.Boolean(true)},
		{"false", feel.Boolean(false)},
		{"10", feel.Number(10)},
		{"1.5", feel.Number(1.5)},
		{"-0.25", feel.Number(-0.25)},
		{`"hello"`, feel.String("hello")},
		{"2024-03-05", feel.NewDate(2024, time.March, 5)},
		{"14:30:00", feel.NewTime(14, 30, 0, 0)},
		{"14:30:00.500000", feel.NewTime(14, 30, 0, 500_000_000)},
		{
			"2024-03-05T14:30:00",
			feel.DateTime{Time: time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)},
		},
		{
			"2024-03-05T14:30:00.250000",
			feel.DateTime{Time: time.Date(2024, time.March, 5, 14, 30, 0, 250_000_000, time.UTC)},
		},
		{"P1Y2M", feel.YearsMonthsDuration{Months: 14}},
		{"-P1Y2M", feel.YearsMonthsDuration{Months: -14}},
		{"P3M", feel.YearsMonthsDuration{Months: 3}},
		{"P2Y", feel.YearsMonthsDuration{Months: 24}},
		{"P1DT1H1M1.500000S", feel.DaysSecondsDuration{Seconds: 90061.5}},
		{"-P1DT1H1M1.500000S", feel.DaysSecondsDuration{Seconds: -90061.5}},
		{"PT30S", feel.DaysSecondsDuration{Seconds: 30}},
		{"P2D", feel.DaysSecondsDuration{Seconds: 172800}},
		{
			"[1 .. 10]",
			feel.Interval{LowEnd: "[", Low: feel.Number(1), High: feel.Number(10), HighEnd: "]"},
		},
		{
			"(0 .. 1)",
			feel.Interval{LowEnd: "(", Low: feel.Number(0), High: feel.Number(1), HighEnd: ")"},
		},
		{
			"[2024-01-01 .. 2024-12-31]",
			feel.Interval{
				LowEnd:  "[",
				Low:     feel.NewDate(2024, time.January, 1),
				High:    feel.NewDate(2024, time.December, 31),
				HighEnd: "]",
			},
		},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := p.Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.expr, err)
			}
			if !feel.Equal(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	exprs := []string{
		"",
		"not a real expression (",
		"P",
		"-P",
		"P1X",
		"2024-13-45",
		"[1 .. ]",
		"[oops .. 10]",
		"[1 .. 10",
		`"unterminated`,
	}

	p := New()
	for _, expr := range exprs {
		if v, err := p.Parse(expr); err == nil {
			t.Errorf("Parse(%q) = %#v, want error", expr, v)
		}
	}
}
