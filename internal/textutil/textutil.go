// Package textutil holds the string helpers shared by the feed extractor and
// the idea sanitizer. Keys produced here are for comparison only, never display.
package textutil

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Ellipsis is appended by Truncate and counts as one rune of the budget.
const Ellipsis = "…"

// NormalizeKey lowercases s, collapses whitespace runs to a single space and trims.
func NormalizeKey(s string) string {
	return strings.ToLower(CollapseSpace(s))
}

// FoldKey is NormalizeKey with diacritics removed, so "Tráiler" and "trailer" compare equal.
func FoldKey(s string) string {
	key := NormalizeKey(s)
	if key == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, key)
	if err != nil {
		return key
	}
	return folded
}

// CollapseSpace trims s and replaces every whitespace run with one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate keeps s when it fits in max runes, otherwise cuts to max-1 runes plus Ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + Ellipsis
}

// StripHTML returns the text content of an HTML fragment with whitespace collapsed.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return CollapseSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CollapseSpace(s)
	}
	return CollapseSpace(doc.Text())
}
