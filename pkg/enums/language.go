package enums

// Language identifies a storefront locale.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSwedish Language = "sv"
)

func (l Language) IsValid() bool {
	return l == LanguageEnglish || l == LanguageSwedish
}

// OrDefault falls back to English for unknown locales.
func (l Language) OrDefault() Language {
	if l.IsValid() {
		return l
	}
	return LanguageEnglish
}
