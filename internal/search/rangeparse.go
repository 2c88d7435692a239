package search

import (
	"strconv"

	"github.com/gcbaptista/findmyjob/internal/tokenizer"
)

// Range is a numeric interval extracted from free text such as "3 - 7 LPA".
// OK is false when the text holds no number; Low and High are then meaningless.
type Range struct {
	Low  float64
	High float64
	OK   bool
}

// ParseRange extracts the first two numbers of text. The first is the low bound;
// the second, when present, is the high bound, otherwise High equals Low.
func ParseRange(text string) Range {
	var values []float64
	for _, tok := range tokenizer.Numbers(text) {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
		if len(values) == 2 {
			break
		}
	}

	switch len(values) {
	case 0:
		return Range{}
	case 1:
		return Range{Low: values[0], High: values[0], OK: true}
	default:
		return Range{Low: values[0], High: values[1], OK: true}
	}
}

// ParseLow returns the low bound of text
func ParseLow(text string) (float64, bool) {
	r := ParseRange(text)
	return r.Low, r.OK
}

// ParseHigh returns the high bound of text
func ParseHigh(text string) (float64, bool) {
	r := ParseRange(text)
	return r.High, r.OK
}
