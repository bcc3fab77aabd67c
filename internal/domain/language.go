package domain

// Language is a selectable dictation language.
type Language string

const (
	LanguageEnglish  Language = "english"
	LanguageHindi    Language = "hindi"
	LanguageTamil    Language = "tamil"
	LanguageMarathi  Language = "marathi"
	LanguageHinglish Language = "hinglish"
)

// LanguageInfo describes a selectable language for the UI.
type LanguageInfo struct {
	Language Language `json:"language"`
	Label    string   `json:"label"`
	Locale   string   `json:"locale"`
}

// Languages lists every selectable language in menu order.
func Languages() []LanguageInfo {
	order := []Language{LanguageHinglish, LanguageHindi, LanguageEnglish, LanguageTamil, LanguageMarathi}
	infos := make([]LanguageInfo, 0, len(order))
	for _, l := range order {
		infos = append(infos, LanguageInfo{Language: l, Label: l.Label(), Locale: l.Locale()})
	}
	return infos
}

// Valid reports whether l is one of the selectable languages.
func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageHindi, LanguageTamil, LanguageMarathi, LanguageHinglish:
		return true
	}
	return false
}

// Locale returns the recognition-engine locale identifier for l. The code is
// opaque to the controller; only the engine interprets it. Hinglish rides the
// Hindi locale because that acoustic model tolerates code-switched speech.
func (l Language) Locale() string {
	switch l {
	case LanguageEnglish:
		return "en-IN"
	case LanguageTamil:
		return "ta-IN"
	case LanguageMarathi:
		return "mr-IN"
	default:
		return "hi-IN"
	}
}

// Label returns the display name for l.
func (l Language) Label() string {
	switch l {
	case LanguageEnglish:
		return "English"
	case LanguageHindi:
		return "Hindi"
	case LanguageTamil:
		return "Tamil"
	case LanguageMarathi:
		return "Marathi"
	case LanguageHinglish:
		return "Hinglish (Auto)"
	default:
		return string(l)
	}
}
