// Package uprop answers "does codepoint C satisfy property P?" for the
// general categories, blocks, approximate scripts, and binary properties
// spec.md §4.1 requires. It builds on the standard library's unicode range
// tables and golang.org/x/text/unicode/rangetable to compose the binary
// properties no single stdlib table exposes directly.
package uprop

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/rangetable"
)

// blocks holds the named Unicode block ranges spec.md §4.1 asks for. Ranges
// are [lo, hi] inclusive, taken from the Unicode Blocks.txt layout.
var blocks = map[string][2]rune{
	"Basic_Latin":            {0x0000, 0x007F},
	"Latin_1_Supplement":     {0x0080, 0x00FF},
	"Latin_Extended_A":       {0x0100, 0x017F},
	"Latin_Extended_B":       {0x0180, 0x024F},
	"IPA_Extensions":         {0x0250, 0x02AF},
	"Greek_and_Coptic":       {0x0370, 0x03FF},
	"Cyrillic":               {0x0400, 0x04FF},
	"Hebrew":                 {0x0590, 0x05FF},
	"Arabic":                 {0x0600, 0x06FF},
	"Devanagari":             {0x0900, 0x097F},
	"Bengali":                {0x0980, 0x09FF},
	"Thai":                   {0x0E00, 0x0E7F},
	"Hiragana":               {0x3040, 0x309F},
	"Katakana":               {0x30A0, 0x30FF},
	"CJK_Unified_Ideographs": {0x4E00, 0x9FFF},
}

// scriptBlockApprox approximates a script by its dominant block range, as
// permitted by spec.md §4.1 ("approximated by block range if no script
// table present").
var scriptBlockApprox = map[string]string{
	"Latin":    "Basic_Latin",
	"Greek":    "Greek_and_Coptic",
	"Cyrillic": "Cyrillic",
	"Hebrew":   "Hebrew",
	"Arabic":   "Arabic",
}

// categories are the general-category names spec.md §4.1 lists, backed by
// unicode.Categories.
var categoryNames = []string{
	"L", "LC", "Ll", "Lm", "Lo", "Lt", "Lu",
	"M", "Mc", "Me", "Mn",
	"N", "Nd", "Nl", "No",
	"P", "Pc", "Pd", "Pe", "Pf", "Pi", "Po", "Ps",
	"S", "Sc", "Sk", "Sm", "So",
	"Z", "Zl", "Zp", "Zs",
	"C", "Cc", "Cf", "Cn", "Co", "Cs",
}

// binaryProps are composed once, at package initialization, from stdlib
// range tables via rangetable.
var binaryProps = buildBinaryProps()

// derived looks up a supplementary "Other_*" style property from
// unicode.Properties, falling back to an empty table if the running Go
// version doesn't carry it, so composition below never panics.
func derived(name string) *unicode.RangeTable {
	if rt, ok := unicode.Properties[name]; ok {
		return rt
	}
	return rangetable.New()
}

func buildBinaryProps() map[string]*unicode.RangeTable {
	m := map[string]*unicode.RangeTable{
		"Alphabetic":      rangetable.Merge(unicode.L, unicode.Nl, derived("Other_Alphabetic")),
		"Uppercase":       rangetable.Merge(unicode.Lu, derived("Other_Uppercase")),
		"Lowercase":       rangetable.Merge(unicode.Ll, derived("Other_Lowercase")),
		"White_Space":     derived("White_Space"),
		"ASCII_Hex_Digit": derived("ASCII_Hex_Digit"),
		"Math":            rangetable.Merge(unicode.Sm, derived("Other_Math")),
		"Emoji":           rangetable.New(), // no stdlib emoji table; recognized but empty by design.
	}
	// ID_Start / ID_Continue approximate the UAX #31 definitions using the
	// categories that dominate identifier lexing.
	m["ID_Start"] = rangetable.Merge(unicode.L, unicode.Nl)
	m["ID_Continue"] = rangetable.Merge(m["ID_Start"], unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)
	return m
}

// IsValidPropertyName reports whether name names a property family
// recognized by Matches. An empty name is always invalid.
func IsValidPropertyName(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := unicode.Categories[name]; ok {
		return true
	}
	if _, ok := blocks[name]; ok {
		return true
	}
	if _, ok := scriptBlockApprox[name]; ok {
		return true
	}
	if _, ok := binaryProps[name]; ok {
		return true
	}
	return false
}

// Matches reports whether codepoint cp satisfies property name. Unknown
// names, surrogate codepoints, and codepoints outside the Unicode scalar
// range (0..U+10FFFF, excluding surrogates) always report false.
func Matches(cp rune, name string) bool {
	if !isScalarValue(cp) {
		return false
	}
	if rt, ok := unicode.Categories[name]; ok {
		return unicode.Is(rt, cp)
	}
	if bounds, ok := blocks[name]; ok {
		return cp >= bounds[0] && cp <= bounds[1]
	}
	if blockName, ok := scriptBlockApprox[name]; ok {
		bounds := blocks[blockName]
		return cp >= bounds[0] && cp <= bounds[1]
	}
	if rt, ok := binaryProps[name]; ok {
		return unicode.Is(rt, cp)
	}
	return false
}

func isScalarValue(cp rune) bool {
	if cp < 0 || cp > utf8.MaxRune {
		return false
	}
	if cp >= 0xD800 && cp <= 0xDFFF {
		return false
	}
	return true
}

// CategoryNames returns the recognized general-category names, in the
// fixed order spec.md §4.1 lists them.
func CategoryNames() []string {
	out := make([]string, len(categoryNames))
	copy(out, categoryNames)
	return out
}
