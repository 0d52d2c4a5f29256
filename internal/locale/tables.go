// Package locale holds the static per-language lookup data used by the
// extractor and the normalizer: currency aliases, keyword lexicons, address
// cues and VAT-ID patterns. New locales are added here, not in the
// extraction logic.
package locale

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/currency"
)

// currencyAliases maps recognized tokens (symbols, codes, words and
// abbreviations in the supported languages) to ISO 4217 codes. Keys are
// lower-cased; lookups go through ResolveCurrency which also trims
// whitespace.
var currencyAliases = map[string]string{
	// symbols
	"€":   "EUR",
	"$":   "USD",
	"us$": "USD",
	"ca$": "CAD",
	"a$":  "AUD",
	"£":   "GBP",
	"¥":   "CNY",
	"₽":   "RUB",
	"₹":   "INR",
	"₣":   "CHF",
	"kč":  "CZK",
	"zł":  "PLN",
	"kr":  "SEK",
	"fr.": "CHF",

	// ISO codes resolve to themselves so normalization is idempotent
	"eur": "EUR",
	"usd": "USD",
	"gbp": "GBP",
	"chf": "CHF",
	"cad": "CAD",
	"aud": "AUD",
	"cny": "CNY",
	"jpy": "JPY",
	"sek": "SEK",
	"nok": "NOK",
	"dkk": "DKK",
	"czk": "CZK",
	"pln": "PLN",
	"rub": "RUB",
	"huf": "HUF",
	"inr": "INR",

	// words and abbreviations
	"euro":     "EUR",
	"euros":    "EUR",
	"dollar":   "USD",
	"dollars":  "USD",
	"pound":    "GBP",
	"pounds":   "GBP",
	"sterling": "GBP",
	"franken":  "CHF",
	"franc":    "CHF",
	"francs":   "CHF",
	"kronor":   "SEK",
	"kroner":   "DKK",
	"koruna":   "CZK",
	"korun":    "CZK",
	"zloty":    "PLN",
	"złoty":    "PLN",
	"zlotych":  "PLN",
	"złotych":  "PLN",
	"rmb":      "CNY",
	"yuan":     "CNY",
	"yen":      "JPY",
	"forint":   "HUF",
	"rupee":    "INR",
	"rupees":   "INR",
	"руб":      "RUB",
	"руб.":     "RUB",
	"рубль":    "RUB",
	"рублей":   "RUB",
}

// ResolveCurrency maps a recognized currency token to its ISO 4217 code.
// Resolution is case-insensitive and ignores surrounding whitespace.
func ResolveCurrency(token string) (string, bool) {
	code, ok := currencyAliases[strings.ToLower(strings.TrimSpace(token))]
	return code, ok
}

// Aliases returns every known currency alias. The returned map is a copy.
func Aliases() map[string]string {
	out := make(map[string]string, len(currencyAliases))
	for k, v := range currencyAliases {
		out[k] = v
	}
	return out
}

// KnownISO reports whether code is a valid ISO 4217 currency code
func KnownISO(code string) bool {
	_, err := currency.ParseISO(code)
	return err == nil
}

// totalKeywords lists, per language, the words that label the grand total
// line of a receipt
var totalKeywords = map[string][]string{
	"en": {"total", "amount due", "amount", "grand total"},
	"de": {"summe", "gesamtbetrag", "gesamt", "betrag", "zu zahlen", "bar"},
	"fr": {"total", "montant", "somme"},
	"es": {"total", "importe"},
	"it": {"totale", "importo"},
	"ru": {"итого", "всего", "сумма"},
}

// TotalKeywords returns the total-line keywords for the given language
// hints, or the union over all supported languages when no hints are given.
// Unknown hints are ignored; if none of the hints is known the full union is
// returned so extraction still has something to work with.
func TotalKeywords(hints ...string) []string {
	langs := knownHints(hints, totalKeywords)
	if len(langs) == 0 {
		langs = allLanguages(totalKeywords)
	}
	var out []string
	for _, lang := range langs {
		out = append(out, totalKeywords[lang]...)
	}
	return out
}

// vatKeywords label tax rates and tax identifiers across the supported
// languages
var vatKeywords = []string{"mwst", "ust", "vat", "tva", "iva", "tax", "ндс", "steuer"}

// VATKeywords returns the tax keyword lexicon
func VATKeywords() []string {
	return append([]string(nil), vatKeywords...)
}

// fiscalCues maps language-specific fiscal vocabulary to the currency that
// vocabulary implies when no explicit symbol or code appears in the text
var fiscalCues = []struct {
	Currency string
	Pattern  *regexp.Regexp
}{
	{"EUR", regexp.MustCompile(`(?i)\b(MwSt|Summe|Gesamt|Brutto|Netto|Rechnung|Steuer(nummer)?|Zahlung)\b`)},
	{"EUR", regexp.MustCompile(`\b(TVA|TTC|[Mm]ontant)\b`)},
}

// ImpliedCurrency infers a currency from language vocabulary alone, used as
// a last resort when no currency token is present
func ImpliedCurrency(text string) (string, bool) {
	for _, cue := range fiscalCues {
		if cue.Pattern.MatchString(text) {
			return cue.Currency, true
		}
	}
	return "", false
}

// streetWords are the street-name markers used to spot address lines in the
// receipt header
// deliberately unanchored: OCR merges tokens, and compound street names
// ("Musterstraße") must still hit
var streetWords = regexp.MustCompile(`(?i)(str|straße|strasse|street|road|rue|avenue|ave|blvd|platz|weg|gasse)`)

// postalCode matches 4-5 digit postal codes as they appear in European
// addresses
var postalCode = regexp.MustCompile(`\b\d{4,5}\b`)

var hasLetter = regexp.MustCompile(`[A-Za-zÀ-ÿ]`)

// AddressLine reports whether line looks like part of a postal address: a
// postal code next to words, or a street marker.
func AddressLine(line string) bool {
	if postalCode.MatchString(line) && hasLetter.MatchString(line) {
		return true
	}
	return streetWords.MatchString(line)
}

// vatIDPatterns match national VAT identifiers, either bare (country prefix
// plus digits) or introduced by a label. Ordered: labeled forms win over
// bare ones.
// single spaces only inside the identifier: \s would run across newlines
// and swallow digits from the following line
var vatIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:USt[-. ]?(?:Id)?[-. ]?(?:Nr)?|VAT|TVA|MwSt)[ .:]*([A-Z]{0,2} ?\d[\d ./-]{5,})`),
	regexp.MustCompile(`\b(DE ?\d{9})\b`),
	regexp.MustCompile(`\b(ATU ?\d{8})\b`),
	regexp.MustCompile(`\b(FR ?[A-Z0-9]{2} ?\d{9})\b`),
	regexp.MustCompile(`\b(CHE ?\d{9})\b`),
	regexp.MustCompile(`\b(GB ?\d{9,12})\b`),
	regexp.MustCompile(`\b(IT ?\d{11})\b`),
	regexp.MustCompile(`(?i)(?:Tax *(?:ID|No|Number))[ .:]*(\S+)`),
}

// VATIDPatterns returns the VAT identifier patterns in matching order
func VATIDPatterns() []*regexp.Regexp {
	return vatIDPatterns
}

// commaDecimalLangs lists locales whose decimal separator convention is the
// comma; everything else defaults to the dot
var commaDecimalLangs = map[string]bool{
	"de": true,
	"fr": true,
	"es": true,
	"it": true,
	"ru": true,
}

// CommaDecimal reports whether the locale hints prefer the comma as decimal
// separator for numeric tokens that are otherwise ambiguous
func CommaDecimal(hints ...string) bool {
	for _, h := range hints {
		if commaDecimalLangs[normalizeHint(h)] {
			return true
		}
	}
	return false
}

func normalizeHint(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	// accept forms like "de-DE" or "fr_FR"
	if i := strings.IndexAny(h, "-_"); i > 0 {
		h = h[:i]
	}
	return h
}

func knownHints(hints []string, table map[string][]string) []string {
	var out []string
	seen := map[string]bool{}
	for _, h := range hints {
		lang := normalizeHint(h)
		if _, ok := table[lang]; ok && !seen[lang] {
			out = append(out, lang)
			seen[lang] = true
		}
	}
	return out
}

func allLanguages(table map[string][]string) []string {
	out := make([]string, 0, len(table))
	for lang := range table {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}
