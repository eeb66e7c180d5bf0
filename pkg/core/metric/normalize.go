package metric

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const number = `(\d+(?:,\d{3})*(?:\.\d+)?)`

var (
	rangePattern  = regexp.MustCompile(`(?i)^[€$]?\s*` + number + `\s*-\s*` + number + `\s*(million|billion|thousand|k|m|b)?`)
	unitPattern   = regexp.MustCompile(`(?i)^[€$]?\s*` + number + `\s*(million|billion|thousand|k|m|b)`)
	numberPattern = regexp.MustCompile(number)
)

// ScaleFactor maps a unit word or letter to its multiplier.
// Unknown or empty units scale by 1.
func ScaleFactor(unit string) float64 {
	switch strings.ToLower(unit) {
	case "billion", "b":
		return 1e9
	case "million", "m":
		return 1e6
	case "thousand", "k":
		return 1e3
	}
	return 1
}

// ParseMagnitude converts a magnitude string into a number.
//
// Ranges resolve to their upper bound. Anything without a recognizable number
// (including "N/A" and the empty string) is 0.
func ParseMagnitude(text string) float64 {
	v, _ := ParseMagnitudeStrict(text)
	return v
}

// ParseMagnitudeStrict is ParseMagnitude that also reports whether a number
// was actually found. "N/A" and the empty string are reported as found, since
// they are the fixtures' explicit way of saying "no figure".
func ParseMagnitudeStrict(text string) (float64, bool) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" || cleaned == NotAvailable {
		return 0, true
	}

	if m := rangePattern.FindStringSubmatch(cleaned); m != nil {
		lo := parseGrouped(m[1])
		hi := parseGrouped(m[2])
		if lo > hi {
			hi = lo
		}
		return hi * ScaleFactor(m[3]), true
	}

	if m := unitPattern.FindStringSubmatch(cleaned); m != nil {
		return parseGrouped(m[1]) * ScaleFactor(m[2]), true
	}

	if m := numberPattern.FindStringSubmatch(cleaned); m != nil {
		return parseGrouped(m[1]), true
	}
	return 0, false
}

// parseGrouped parses "1,234.5" style numbers. The patterns above guarantee
// the input is well formed.
func parseGrouped(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatMagnitude renders a number as an abbreviated display string.
//
// The thresholds are the same for every kind: B at 1e9, M at 1e6, K at 1e3,
// each with exactly one decimal. Smaller values print bare, with one decimal
// only when they are fractional. Revenue is prefixed with "$", or "€" when
// euro is set.
func FormatMagnitude(value float64, kind Kind, euro bool) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NotAvailable
	}
	prefix := ""
	if kind == KindRevenue {
		prefix = "$"
		if euro {
			prefix = "€"
		}
	}

	d := decimal.NewFromFloat(value)
	switch {
	case value >= 1e9:
		return prefix + d.Div(decimal.New(1, 9)).StringFixed(1) + "B"
	case value >= 1e6:
		return prefix + d.Div(decimal.New(1, 6)).StringFixed(1) + "M"
	case value >= 1e3:
		return prefix + d.Div(decimal.New(1, 3)).StringFixed(1) + "K"
	}
	if d.IsInteger() {
		return prefix + d.String()
	}
	return prefix + d.StringFixed(1)
}

// FormatDisplay renders a fixture display string for a table cell. Unlike
// FormatMagnitude it keeps ranges as ranges, and it takes the currency from
// the text itself.
func FormatDisplay(display string, kind Kind) string {
	cleaned := strings.TrimSpace(display)
	if cleaned == "" || cleaned == NotAvailable {
		return NotAvailable
	}

	if m := rangePattern.FindStringSubmatch(cleaned); m != nil {
		lo := trimNumber(m[1])
		hi := trimNumber(m[2])
		unit := strings.ToLower(m[3])
		switch kind {
		case KindRevenue:
			return "$" + lo + "M-$" + hi + "M"
		case KindVolume:
			switch unit {
			case "m", "million":
				return lo + "M-" + hi + "M"
			case "k", "thousand":
				return lo + "K-" + hi + "K"
			}
		}
		return lo + "-" + hi
	}

	return FormatMagnitude(ParseMagnitude(cleaned), kind, strings.HasPrefix(cleaned, "€"))
}

// trimNumber prints a range bound the way it reads once parsed: grouping
// commas and trailing zeros dropped.
func trimNumber(s string) string {
	return strconv.FormatFloat(parseGrouped(s), 'f', -1, 64)
}

// ParseCount reads a partner-network reach figure such as "1,200+" or
// "50-100". Ranges count as their upper bound; anything unreadable is 0.
func ParseCount(text string) int {
	cleaned := strings.NewReplacer("+", "", ",", "").Replace(strings.TrimSpace(text))
	if cleaned == "" {
		return 0
	}
	if parts := strings.Split(cleaned, "-"); len(parts) > 1 {
		cleaned = parts[1]
	}
	return leadingInt(strings.TrimSpace(cleaned))
}

// leadingInt parses the leading digits of s, so "300 dealers" reads as 300.
func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
