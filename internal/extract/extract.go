// Package extract turns raw OCR text into a partially populated receipt
// record using regex heuristics. Every field is extracted by its own pure
// sub-routine and independently degrades to absent on malformed input;
// nothing in this package returns an error or panics.
package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Irina-Igmm/pdf-ocr/internal/locale"
	"github.com/Irina-Igmm/pdf-ocr/internal/receipt"
)

// \b in the regexp engine only understands ASCII word characters, so
// keyword boundaries around Cyrillic keywords are enforced with explicit
// letter/digit classes instead
const (
	leadGuard = `(?:\A|[^\p{L}\p{N}])`
	tailGuard = `(?:[^\p{L}\p{N}]|\z)`
)

// Parse scans a block of extracted receipt text and returns a record with as
// many fields populated as the text defends. Locale hints ("de", "fr", ...)
// narrow keyword tables and numeric conventions; with no hints every
// supported locale is tried.
func Parse(raw string, hints ...string) *receipt.Record {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	rawLines := strings.Split(raw, "\n")
	lines := nonEmptyLines(rawLines)

	rec := &receipt.Record{}
	rec.Provider.Name = extractProviderName(lines)
	rec.Provider.Address = extractAddress(rawLines)
	rec.Provider.VATNumber = extractVATNumber(raw)
	rec.Transaction.Items = extractItems(lines, hints)
	rec.Transaction.TotalAmount = extractTotal(lines, hints)
	rec.Transaction.Currency = extractCurrency(raw)
	rec.Transaction.VAT = extractVAT(raw)
	return rec
}

func nonEmptyLines(rawLines []string) []string {
	out := make([]string, 0, len(rawLines))
	for _, l := range rawLines {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	return out
}

var (
	letterRe = regexp.MustCompile(`[\p{L}]`)
	dateRe   = regexp.MustCompile(`\b\d{1,2}[./-]\d{1,2}[./-]\d{2,4}\b`)
)

// extractProviderName picks the first non-empty line of the document that
// carries actual words: receipts put the merchant name at the top. Purely
// numeric noise lines (scanner artifacts, ticket numbers) are skipped; if
// the whole document head is noise the name stays unknown.
func extractProviderName(lines []string) *string {
	limit := len(lines)
	if limit > 5 {
		limit = 5
	}
	for _, line := range lines[:limit] {
		if letterRe.MatchString(line) && !dateRe.MatchString(line) {
			name := strings.TrimSpace(line)
			return &name
		}
	}
	return nil
}

// extractAddress collects header lines that look like a postal address
// (postal code or street marker), stopping at the first blank line after
// the address started or at a line from another semantic category.
func extractAddress(rawLines []string) *string {
	var parts []string
	seenName := false
	scanned := 0
	for _, line := range rawLines {
		t := strings.TrimSpace(line)
		if t == "" {
			if len(parts) > 0 {
				break
			}
			continue
		}
		if !seenName && letterRe.MatchString(t) && !dateRe.MatchString(t) {
			// merchant name line, address follows
			seenName = true
			continue
		}
		scanned++
		if scanned > 10 {
			break
		}
		if dateRe.MatchString(t) || itemLine(t) {
			if len(parts) > 0 {
				break
			}
			continue
		}
		if locale.AddressLine(t) {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	addr := strings.Join(parts, ", ")
	return &addr
}

// extractVATNumber matches per-country VAT identifier patterns; absence
// leaves the field unknown rather than guessing
func extractVATNumber(raw string) *string {
	for _, pat := range locale.VATIDPatterns() {
		if m := pat.FindStringSubmatch(raw); m != nil {
			id := strings.TrimRight(strings.TrimSpace(m[1]), "./-")
			return &id
		}
	}
	return nil
}

// amountToken matches a monetary amount with either separator convention,
// optionally with grouped thousands
const amountToken = `\d{1,3}(?:[.,\x{202f} ]\d{3})*[.,]\d{2}|\d+[.,]\d{2}`

// extractTotal scans for total-keyword lines with a nearby numeric token.
// The last occurrence wins: receipts end with the grand total after any
// subtotals.
func extractTotal(lines []string, hints []string) *float64 {
	alt := keywordAlternation(locale.TotalKeywords(hints...))
	after := regexp.MustCompile(`(?i)` + leadGuard + `(?:` + alt + `)\s*[:\s]\s*(` + amountToken + `)`)
	before := regexp.MustCompile(`(?i)(` + amountToken + `)\s*` + leadGuard + `(?:` + alt + `)` + tailGuard)

	var total *float64
	for _, line := range lines {
		m := after.FindStringSubmatch(line)
		if m == nil {
			m = before.FindStringSubmatch(line)
		}
		if m == nil {
			continue
		}
		if v, ok := parseAmount(m[1], locale.CommaDecimal(hints...)); ok {
			total = &v
		}
	}
	return total
}

// extractCurrency votes across every currency token in the text; a token
// only counts when a digit sits nearby on the same line. The majority wins,
// ties break in first-occurrence order. When no token is adjacent to a
// number the vote falls back to all occurrences, then to language-keyword
// inference.
func extractCurrency(raw string) *string {
	adjacent := map[string]int{}
	anywhere := map[string]int{}
	firstSeen := map[string]int{}
	pos := 0

	for _, line := range strings.Split(raw, "\n") {
		for _, loc := range currencyTokenRe.FindAllStringIndex(line, -1) {
			if !tokenBounded(line, loc[0], loc[1]) {
				continue
			}
			code, ok := locale.ResolveCurrency(line[loc[0]:loc[1]])
			if !ok {
				continue
			}
			if _, seen := firstSeen[code]; !seen {
				firstSeen[code] = pos + loc[0]
			}
			anywhere[code]++
			if digitNearby(line, loc[0], loc[1]) {
				adjacent[code]++
			}
		}
		pos += len(line) + 1
	}

	votes := adjacent
	if len(votes) == 0 {
		votes = anywhere
	}
	if len(votes) == 0 {
		if code, ok := locale.ImpliedCurrency(raw); ok {
			return &code
		}
		return nil
	}

	best := ""
	for code, n := range votes {
		switch {
		case best == "", n > votes[best]:
			best = code
		case n == votes[best] && firstSeen[code] < firstSeen[best]:
			best = code
		}
	}
	return &best
}

// tokenBounded reports whether the match at [start, end) is not embedded in
// a surrounding word, so "руб" inside "рубашка" does not count as a currency
// token. Only the letter-edged sides of the token need neighbors checked.
func tokenBounded(line string, start, end int) bool {
	first, _ := utf8.DecodeRuneInString(line[start:end])
	if unicode.IsLetter(first) || unicode.IsNumber(first) {
		prev, _ := utf8.DecodeLastRuneInString(line[:start])
		if unicode.IsLetter(prev) || unicode.IsNumber(prev) {
			return false
		}
	}
	last, _ := utf8.DecodeLastRuneInString(line[start:end])
	if unicode.IsLetter(last) || unicode.IsNumber(last) {
		next, _ := utf8.DecodeRuneInString(line[end:])
		if unicode.IsLetter(next) || unicode.IsNumber(next) {
			return false
		}
	}
	return true
}

// digitNearby reports whether a digit appears within a short window of the
// token on the same line
func digitNearby(line string, start, end int) bool {
	const window = 12
	lo := start - window
	if lo < 0 {
		lo = 0
	}
	hi := end + window
	if hi > len(line) {
		hi = len(line)
	}
	return strings.ContainsAny(line[lo:start]+line[end:hi], "0123456789")
}

// currencyTokenRe matches every known currency alias; longest aliases first
// so "CA$" beats "$"
var currencyTokenRe = buildCurrencyTokenRe()

func buildCurrencyTokenRe() *regexp.Regexp {
	aliases := make([]string, 0, len(locale.Aliases()))
	for alias := range locale.Aliases() {
		aliases = append(aliases, alias)
	}
	parts := keywordParts(aliases)
	return regexp.MustCompile(`(?i)(?:` + strings.Join(parts, "|") + `)`)
}

// extractVAT captures the tax line verbatim, keyword included, since ground
// truth may carry an amount alongside the bare rate
func extractVAT(raw string) *string {
	for _, pat := range vatPatterns {
		if m := pat.FindStringSubmatch(raw); m != nil {
			v := strings.TrimSpace(m[1])
			return &v
		}
	}
	return nil
}

var vatPatterns = buildVATPatterns()

func buildVATPatterns() []*regexp.Regexp {
	kw := `(?:` + keywordAlternation(locale.VATKeywords()) + `)`
	return []*regexp.Regexp{
		// "19% MwSt", "7% MwSt: 0.20"
		regexp.MustCompile(`(?i)` + leadGuard + `(\d{1,2}(?:[.,]\d+)?\s*%\s*` + kw + `\.?(?:\s*:\s*\d+[.,]\d{2})?)` + tailGuard),
		// "MwSt 19%", "VAT: 20%"
		regexp.MustCompile(`(?i)` + leadGuard + `(` + kw + `\.?\s*:?\s*\d{1,2}(?:[.,]\d+)?\s*%)`),
	}
}

// keywordAlternation builds a regex alternation from a keyword list, longest
// first so multi-word keywords are preferred
func keywordAlternation(words []string) string {
	return strings.Join(keywordParts(words), "|")
}

func keywordParts(words []string) []string {
	sorted := append([]string(nil), words...)
	// longest first; equal lengths sort lexicographically for determinism
	sort.Slice(sorted, func(i, j int) bool { return longer(sorted[i], sorted[j]) })
	parts := make([]string, len(sorted))
	for i, w := range sorted {
		p := regexp.QuoteMeta(w)
		if startsWithLetter(w) {
			p = `\b` + p
		}
		if endsWithLetter(w) {
			p += `\b`
		}
		parts[i] = p
	}
	return parts
}

func longer(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a < b
}

func startsWithLetter(s string) bool {
	for _, r := range s {
		return isWordRune(r)
	}
	return false
}

func endsWithLetter(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 {
		return false
	}
	return isWordRune(runes[len(runes)-1])
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
