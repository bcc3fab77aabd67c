// Package classify labels transcript chunks by the scripts they contain.
package classify

import (
	"unicode"

	"lipikar/internal/domain"
)

var (
	english  = domain.Classification{Label: "English", ColorToken: "english", Emoji: "🇬🇧"}
	hindi    = domain.Classification{Label: "Hindi", ColorToken: "hindi", Emoji: "🇮🇳"}
	hinglish = domain.Classification{Label: "Hinglish (Mixed)", ColorToken: "mixed", Emoji: "🔀"}
	tamil    = domain.Classification{Label: "Tamil", ColorToken: "tamil", Emoji: "🪔"}
	tanglish = domain.Classification{Label: "Tanglish (Mixed)", ColorToken: "mixed", Emoji: "🔀"}
)

// Classify labels one finalized chunk from script presence alone. Each chunk
// is classified independently; nothing is blended across segments. First
// match wins: Devanagari+Latin is Hinglish, Devanagari alone is Hindi, then
// the same pairing for the Tamil block, and everything else is English.
// Marathi shares Devanagari and is reported as Hindi.
func Classify(text string) domain.Classification {
	hasDevanagari := containsScript(text, unicode.Devanagari)
	hasLatin := containsScript(text, unicode.Latin)

	switch {
	case hasDevanagari && hasLatin:
		return hinglish
	case hasDevanagari:
		return hindi
	}

	if containsScript(text, unicode.Tamil) {
		if hasLatin {
			return tanglish
		}
		return tamil
	}
	return english
}

func containsScript(text string, script *unicode.RangeTable) bool {
	for _, r := range text {
		if unicode.Is(script, r) {
			return true
		}
	}
	return false
}
