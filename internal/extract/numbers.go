package extract

import (
	"strconv"
	"strings"
)

// parseAmount parses a numeric token honoring both comma- and dot-decimal
// conventions. The separator followed by exactly two trailing digits is the
// decimal one; when both qualify the later wins, and when neither does the
// locale convention decides. Grouping separators (including spaces) are
// stripped.
func parseAmount(tok string, commaDecimal bool) (float64, bool) {
	tok = strings.TrimSpace(tok)
	tok = strings.ReplaceAll(tok, " ", "")
	tok = strings.ReplaceAll(tok, " ", "")
	if tok == "" {
		return 0, false
	}

	lastComma := strings.LastIndex(tok, ",")
	lastDot := strings.LastIndex(tok, ".")

	var decimal byte
	switch {
	case twoTrailing(tok, lastComma) && twoTrailing(tok, lastDot):
		if lastComma > lastDot {
			decimal = ','
		} else {
			decimal = '.'
		}
	case twoTrailing(tok, lastComma):
		decimal = ','
	case twoTrailing(tok, lastDot):
		decimal = '.'
	case lastComma >= 0 && lastDot < 0 && commaDecimal:
		decimal = ','
	case lastDot >= 0 && lastComma < 0 && !commaDecimal:
		decimal = '.'
	}

	var b strings.Builder
	decimalAt := -1
	if decimal == ',' {
		decimalAt = lastComma
	} else if decimal == '.' {
		decimalAt = lastDot
	}
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case i == decimalAt:
			b.WriteByte('.')
		case c == ',' || c == '.':
			// grouping separator, drop it
		default:
			return 0, false
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// twoTrailing reports whether the separator at idx is followed by exactly
// two digits through the end of the token
func twoTrailing(tok string, idx int) bool {
	if idx < 0 || len(tok)-idx-1 != 2 {
		return false
	}
	for i := idx + 1; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}
