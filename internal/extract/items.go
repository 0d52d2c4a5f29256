package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Irina-Igmm/pdf-ocr/internal/locale"
	"github.com/Irina-Igmm/pdf-ocr/internal/receipt"
)

var (
	// "2 x Milch 3,56" / "2× Milch 3.56"
	qtyFirstItemRe = regexp.MustCompile(`^(\d{1,2})\s*[xX×]\s*(.+?)\s+(` + amountToken + `)\s*$`)
	// "Milch 2 x 3,56" / "Milch 2 3.56"
	qtyAfterItemRe = regexp.MustCompile(`^(.+?)\s+(\d{1,2})\s*[xX×]?\s+(` + amountToken + `)\s*$`)
	// "Milch 1,78" with an optional trailing tax-class letter: "Brot 3,50 A"
	priceOnlyItemRe = regexp.MustCompile(`^(.+?)\s+(` + amountToken + `)\s*[A-Z]?\s*$`)
)

// skipItemRe matches lines that carry totals, subtotals or tax amounts:
// they share the item-line shape but must not be double counted as items
var skipItemRe = buildSkipItemRe()

func buildSkipItemRe() *regexp.Regexp {
	words := locale.TotalKeywords()
	words = append(words, "subtotal", "zwischensumme", "sous-total")
	words = append(words, locale.VATKeywords()...)
	return regexp.MustCompile(`(?i)` + leadGuard + `(?:` + keywordAlternation(words) + `)` + tailGuard)
}

// extractItems matches `<quantity>? <name> <price>` line shapes. A line with
// an unparseable quantity or price is dropped on its own; it never aborts
// the rest of the extraction.
func extractItems(lines []string, hints []string) []receipt.LineItem {
	commaDecimal := locale.CommaDecimal(hints...)
	// non-nil so a record with no items serializes as [], matching the
	// documented schema's list default
	items := []receipt.LineItem{}
	for _, line := range lines {
		if skipItemRe.MatchString(line) {
			continue
		}

		var name, qtyStr, priceStr string
		switch {
		case match3(qtyFirstItemRe, line, &qtyStr, &name, &priceStr):
		case match3(qtyAfterItemRe, line, &name, &qtyStr, &priceStr):
		case match2(priceOnlyItemRe, line, &name, &priceStr):
			qtyStr = "1"
		default:
			continue
		}

		name = strings.Trim(name, " .,:-")
		if !letterRe.MatchString(name) {
			continue
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil {
			continue
		}
		if qty <= 0 {
			qty = 1
		}
		price, ok := parseAmount(priceStr, commaDecimal)
		if !ok {
			continue
		}
		items = append(items, receipt.LineItem{Name: name, Quantity: qty, Price: price})
	}
	return items
}

// itemLine reports whether the line has an item shape, used by the address
// scanner to spot where the header ends
func itemLine(line string) bool {
	return qtyFirstItemRe.MatchString(line) ||
		qtyAfterItemRe.MatchString(line) ||
		priceOnlyItemRe.MatchString(line)
}

func match3(re *regexp.Regexp, line string, a, b, c *string) bool {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	*a, *b, *c = m[1], m[2], m[3]
	return true
}

func match2(re *regexp.Regexp, line string, a, b *string) bool {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	*a, *b = m[1], m[2]
	return true
}
