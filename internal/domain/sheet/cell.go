package sheet

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
)

// Cell is a single spreadsheet value. Exactly one of Number/Text is meaningful,
// selected by Kind.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
}

var leadingIntRegex = regexp.MustCompile(`^\D*(\d+)`)

func Empty() Cell { return Cell{Kind: CellEmpty} }

func Number(v float64) Cell { return Cell{Kind: CellNumber, Number: v} }

func Text(v string) Cell {
	if strings.TrimSpace(v) == "" {
		return Empty()
	}
	return Cell{Kind: CellText, Text: v}
}

// FromValue converts a value decoded from the Sheets API (unformatted render
// option) into a Cell.
func FromValue(v any) Cell {
	switch value := v.(type) {
	case nil:
		return Empty()
	case float64:
		return Number(value)
	case int:
		return Number(float64(value))
	case int64:
		return Number(float64(value))
	case bool:
		if value {
			return Text("TRUE")
		}
		return Text("FALSE")
	case string:
		return Text(value)
	default:
		return Empty()
	}
}

func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// String returns the trimmed display text. Integral numbers render without a
// decimal part.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		if c.Number == math.Trunc(c.Number) && math.Abs(c.Number) < 1e15 {
			return strconv.FormatInt(int64(c.Number), 10)
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellText:
		return strings.TrimSpace(c.Text)
	default:
		return ""
	}
}

// Int parses the cell as an integer. Numbers are truncated toward zero and
// must fit in an int; text must be a plain integer (surrounding spaces and a
// leading "+" are allowed).
func (c Cell) Int() (int, bool) {
	switch c.Kind {
	case CellNumber:
		n := math.Trunc(c.Number)
		if math.IsNaN(n) || n < float64(math.MinInt) || n >= -float64(math.MinInt) {
			return 0, false
		}
		return int(n), true
	case CellText:
		text := strings.TrimPrefix(strings.TrimSpace(c.Text), "+")
		v, err := strconv.Atoi(text)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// IntOr returns the parsed integer or fallback.
func (c Cell) IntOr(fallback int) int {
	if v, ok := c.Int(); ok {
		return v
	}
	return fallback
}

func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return 0, false
		}
		return c.Number, true
	case CellText:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

func (c Cell) FloatOr(fallback float64) float64 {
	if v, ok := c.Float(); ok {
		return v
	}
	return fallback
}

// LeadingInt extracts the first integer of a free-text cell, e.g. "1st" -> 1,
// "#3 (+2)" -> 3.
func (c Cell) LeadingInt() (int, bool) {
	if c.Kind == CellNumber {
		return c.Int()
	}
	match := leadingIntRegex.FindStringSubmatch(c.String())
	if len(match) != 2 {
		return 0, false
	}
	v, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return v, true
}
